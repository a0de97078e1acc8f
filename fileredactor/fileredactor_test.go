package fileredactor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itsnoby/NUnitReporter-stub/report"
	"github.com/Itsnoby/NUnitReporter-stub/reporting"
)

const beforeRedaction = `<html><body>
<p>[10:00:00.000] Logging in as admin with SUPER_SECRET_WORD</p>
<p>[10:00:01.000] Token: ANOTHER_SECRET_WORD, retrying with SUPER_SECRET_WORD</p>
</body></html>
`

const afterRedaction = `<html><body>
<p>[10:00:00.000] Logging in as admin with [REDACTED]</p>
<p>[10:00:01.000] Token: [REDACTED], retrying with [REDACTED]</p>
</body></html>
`

func Test_RedactFiles(t *testing.T) {
	secrets := []string{
		"SUPER_SECRET_WORD",
		"ANOTHER_SECRET_WORD",
	}
	dir := t.TempDir()
	filePath := filepath.Join(dir, "LoginTests.html")

	fileManager := fileutil.NewFileManager()
	require.NoError(t, fileManager.WriteBytes(filePath, []byte(beforeRedaction)))

	fileRedactor := NewFileRedactor(fileManager, log.NewLogger())
	require.NoError(t, fileRedactor.RedactFiles([]string{filePath}, secrets))

	got, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, afterRedaction, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not be left behind")
}

func Test_RedactFiles_NoSecrets(t *testing.T) {
	fileRedactor := NewFileRedactor(fileutil.NewFileManager(), log.NewLogger())

	// Files are not touched at all without secrets.
	require.NoError(t, fileRedactor.RedactFiles([]string{"/does/not/exist.html"}, nil))
}

func Test_RedactFiles_MissingFile(t *testing.T) {
	fileRedactor := NewFileRedactor(fileutil.NewFileManager(), log.NewLogger())

	missing := filepath.Join(t.TempDir(), "missing.html")
	err := fileRedactor.RedactFiles([]string{missing}, []string{"secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to redact file ("+missing+")")
}

func Test_ParseSecrets(t *testing.T) {
	assert.Nil(t, ParseSecrets("  \n\n "))
	assert.Equal(t, []string{"first", "second"}, ParseSecrets("first\n  \n second \n"))
}

func Test_RedactFiles_RenderedDocument(t *testing.T) {
	secret := `p&ss"w0rd<'+>`
	doc, err := report.RenderTest(report.TestDocument{
		Result: report.TestResult{Name: "Login", Status: report.Failed, Duration: 1},
		Entries: []report.LogEntry{
			{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Kind: reporting.Failed, Text: "login with " + secret + " failed"},
			{Time: time.Date(2024, 3, 1, 10, 0, 1, 0, time.UTC), Kind: reporting.StackTrace, Text: "at Login(" + secret + ")"},
		},
	})
	require.NoError(t, err)

	filePath := filepath.Join(t.TempDir(), "Login.html")
	require.NoError(t, os.WriteFile(filePath, doc, 0600))

	secrets := HTMLSecrets(ParseSecrets(secret))
	require.NoError(t, NewFileRedactor(fileutil.NewFileManager(), log.NewLogger()).RedactFiles([]string{filePath}, secrets))

	got, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Contains(t, string(got), "login with [REDACTED] failed")
	assert.Contains(t, string(got), "at Login([REDACTED])")
	assert.NotContains(t, string(got), "p&amp;ss")
	assert.NotContains(t, string(got), "w0rd")
}

func Test_HTMLSecrets(t *testing.T) {
	assert.Equal(t, []string{"plain"}, HTMLSecrets([]string{"plain", "plain"}))
	assert.Equal(t, []string{`a&b"c`, "a&amp;b&#34;c"}, HTMLSecrets([]string{`a&b"c`}))
	assert.Equal(t, []string{"a+b", "a&#43;b"}, HTMLSecrets([]string{"a+b"}))
	assert.Nil(t, HTMLSecrets(nil))
}
