package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Itsnoby/NUnitReporter-stub/reporting"
)

var templateFuncs = template.FuncMap{
	"statusClass": func(s Status) string { return s.CSSClass() },
	"entryClass":  entryClass,
	"isImage":     func(kind reporting.MessageType) bool { return kind == reporting.Image },
	"lines":       lines,
	"clock":       func(t time.Time) string { return t.Format("15:04:05.000") },
}

var (
	testTemplate  = template.Must(template.New("test").Funcs(templateFuncs).Parse(styleTemplate + testDocumentTemplate))
	suiteTemplate = template.Must(template.New("suite").Funcs(templateFuncs).Parse(styleTemplate + suiteDocumentTemplate))
)

type suiteView struct {
	Name          string
	Results       []TestResult
	Passed        int
	Failed        int
	Skipped       int
	TotalDuration int
}

// RenderTest renders the document of a single test.
func RenderTest(doc TestDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := testTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render test document: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSuite renders the suite index linking every test document.
func RenderSuite(suite *SuiteResult) ([]byte, error) {
	view := suiteView{
		Name:          suite.Name,
		Results:       suite.Results(),
		Passed:        suite.Count(Passed),
		Failed:        suite.Count(Failed),
		Skipped:       suite.Count(Skipped),
		TotalDuration: suite.TotalDuration(),
	}

	var buf bytes.Buffer
	if err := suiteTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render suite document: %w", err)
	}
	return buf.Bytes(), nil
}

func entryClass(kind reporting.MessageType) string {
	switch kind {
	case reporting.ActionTitle:
		return "action_step"
	case reporting.Notify:
		return "notify_step"
	case reporting.Skipped:
		return "skipped_step"
	case reporting.Failed:
		return "failed_step"
	case reporting.StackTrace:
		return "stacktrace_step"
	case reporting.Image:
		return "image_step"
	default:
		return "standard_step"
	}
}

func lines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
