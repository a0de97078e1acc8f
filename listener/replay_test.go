package listener

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Itsnoby/NUnitReporter-stub/reporting"
	"github.com/Itsnoby/NUnitReporter-stub/reporting/htmlreport"
	"github.com/Itsnoby/NUnitReporter-stub/test"
	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults(attachment string) test.Results {
	return test.Results{{
		Name: "Unit tests",
		Report: testreport.TestReport{TestSuites: []testreport.TestSuite{{
			Name: "Shop.LoginTests",
			TestCases: []testreport.TestCase{
				{
					Name: "CanLogin", ClassName: "Shop.LoginTests", Time: 1.2,
					Properties: &testreport.Properties{Property: []testreport.Property{
						{Name: DescriptionProperty, Value: "User can log in"},
					}},
				},
				{
					Name: "RejectsWrongPassword", ClassName: "Shop.LoginTests", Time: 2.6,
					Failure: &testreport.Failure{Message: "Expected error banner", Value: "at LoginTests.cs:line 42"},
				},
				{
					Name: "RemembersUser", ClassName: "Shop.LoginTests",
					Skipped: &testreport.Skipped{Message: "Not implemented"},
				},
			},
			TestSuites: []testreport.TestSuite{{
				Name:      "Shop.LoginTests.Nested",
				TestCases: []testreport.TestCase{{Name: "Nested", ClassName: "Shop.LoginTests.Nested", Time: 1}},
			}},
		}}},
		AttachmentPaths: []string{attachment},
	}}
}

func TestReplay_WritesHTMLReport(t *testing.T) {
	workDir := t.TempDir()
	attachment := filepath.Join(t.TempDir(), "RejectsWrongPassword.png")
	require.NoError(t, os.WriteFile(attachment, []byte("png"), 0o644))

	results := sampleResults(attachment)
	backend := htmlreport.New(pathutil.NewPathModifier())
	reporter := reporting.New(log.NewLogger())
	l := New(reporter, func(r *reporting.Reporter) error {
		r.SetProperty(reporting.WorkingDirectory, workDir)
		r.SetProperty(reporting.SuiteTitle, "Nightly")
		r.AddBackend(backend)
		return nil
	}, log.NewLogger())
	l.Describe = PropertyDescriptions(results)

	Replay(l, "Shop.Tests", results)

	assert.Empty(t, reporter.Backends())
	assert.False(t, reporter.SuiteActive())

	index := backend.LastSuiteReport()
	require.NotEmpty(t, index)
	content, err := os.ReadFile(index)
	require.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "<h1>Nightly</h1>")
	assert.Contains(t, html, "User can log in")
	assert.Contains(t, html, "Passed: 2 | Failed: 1 | Skipped: 1")
	assert.Contains(t, html, "Total duration: 5 seconds")

	assert.Len(t, backend.Documents(), 5)
	assert.FileExists(t, filepath.Join(workDir, "res", "RejectsWrongPassword.png"))

	var failedDoc string
	for _, doc := range backend.Documents() {
		content, err := os.ReadFile(doc)
		require.NoError(t, err)
		if strings.Contains(string(content), "RejectsWrongPassword</h1>") {
			failedDoc = string(content)
		}
	}
	require.NotEmpty(t, failedDoc)
	assert.Contains(t, failedDoc, "Expected error banner")
	assert.Contains(t, failedDoc, "at LoginTests.cs:line 42")
	assert.Contains(t, failedDoc, `src="../res/RejectsWrongPassword.png"`)
}

func TestPropertyDescriptions(t *testing.T) {
	describe := PropertyDescriptions(sampleResults("/results/none.png"))

	assert.Equal(t, "User can log in", describe("Shop.LoginTests", "CanLogin"))
	assert.Equal(t, "", describe("Shop.LoginTests", "RejectsWrongPassword"))
	assert.Equal(t, "", describe("Shop.LoginTests", ""))
}

func Test_shortName(t *testing.T) {
	assert.Equal(t, "LoginTests", shortName("Shop.LoginTests"))
	assert.Equal(t, "LoginTests", shortName("LoginTests"))
	assert.Equal(t, "Shop.", shortName("Shop."))
}
