package report

const styleTemplate = `{{define "style"}}
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 22px; padding: 8px 12px; border-radius: 4px; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #e3e3e3; vertical-align: top; }
td.time { width: 110px; color: #777; font-family: monospace; }
tfoot td { font-weight: bold; }
.passed_test { background: #e6f4ea; }
.skipped_test { background: #fef7e0; }
.failed_test { background: #fce8e6; }
.action_step { font-weight: bold; }
.notify_step { color: #1a73e8; }
.skipped_step { color: #b06000; }
.failed_step { color: #c5221f; font-weight: bold; }
.stacktrace_step { font-family: monospace; font-size: 12px; color: #555; }
.image_step img { max-width: 640px; border: 1px solid #ccc; }
{{end}}`

const testDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Result.Name}}</title>
<style>{{template "style"}}</style>
</head>
<body>
<h1 class="{{statusClass .Result.Status}}">{{.Result.Name}}</h1>
<p>Status: {{.Result.Status}} | Duration: {{.Result.Duration}} seconds</p>
<table>
{{- range .Entries}}
<tr class="{{entryClass .Kind}}"><td class="time">{{clock .Time}}</td><td>
{{- if isImage .Kind}}<a href="{{.Text}}"><img src="{{.Text}}" alt="screenshot"></a>
{{- else}}{{range $i, $line := lines .Text}}{{if $i}}<br>{{end}}{{$line}}{{end}}{{end -}}
</td></tr>
{{- end}}
</table>
</body>
</html>
`

const suiteDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>{{template "style"}}</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>Passed: {{.Passed}} | Failed: {{.Failed}} | Skipped: {{.Skipped}}</p>
<table>
<thead><tr><th>Test</th><th>Status</th><th>Duration (s)</th></tr></thead>
<tbody>
{{- range .Results}}
<tr class="{{statusClass .Status}}"><td><a href="{{.Link}}">{{.Name}}</a></td><td>{{.Status}}</td><td>{{.Duration}}</td></tr>
{{- end}}
</tbody>
<tfoot><tr><td colspan="3">Total duration: {{.TotalDuration}} seconds</td></tr></tfoot>
</table>
</body>
</html>
`
