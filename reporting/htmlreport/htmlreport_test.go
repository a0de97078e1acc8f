package htmlreport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Itsnoby/NUnitReporter-stub/mocks"
	"github.com/Itsnoby/NUnitReporter-stub/report"
	"github.com/Itsnoby/NUnitReporter-stub/reporting"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardLogger struct {
	lines []string
}

func (l *discardLogger) Errorf(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

type fakeCapturer struct {
	name string
	err  error
}

func (c fakeCapturer) Name() string { return "fake capturer" }

func (c fakeCapturer) CaptureScreen(dir string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.name, os.WriteFile(filepath.Join(dir, c.name), []byte("png"), 0o644)
}

func newTestBackend(t *testing.T) (*Backend, string) {
	workDir := t.TempDir()
	backend := New(pathutil.NewPathModifier())
	backend.now = func() time.Time {
		return time.Date(2024, 2, 29, 13, 14, 15, 16000000, time.UTC)
	}
	backend.properties.Set(reporting.WorkingDirectory, workDir)
	return backend, workDir
}

func newTestReporter(t *testing.T) (*reporting.Reporter, *Backend, string) {
	backend, workDir := newTestBackend(t)
	logger := &discardLogger{}
	reporter := reporting.New(logger)
	reporter.AddBackend(backend)
	reporter.SetProperty(reporting.WorkingDirectory, workDir)
	t.Cleanup(func() {
		assert.Empty(t, logger.lines)
	})
	return reporter, backend, workDir
}

func TestBackend_FailedTestScenario(t *testing.T) {
	reporter, backend, workDir := newTestReporter(t)

	reporter.InitSuite()
	reporter.InitTest()
	reporter.SetProperty(reporting.TestTitle, "T1")
	reporter.Log(reporting.Failed, "boom")

	entries := backend.log.Entries()
	reporter.FinishTest()

	results := backend.suite.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "T1", results[0].Name)
	assert.Equal(t, report.Failed, results[0].Status)

	require.Len(t, entries, 1)
	assert.Equal(t, reporting.Failed, entries[0].Kind)
	assert.Equal(t, "boom", entries[0].Text)

	documents := backend.Documents()
	require.Len(t, documents, 1)
	assert.Equal(t, filepath.Join(workDir, "tests", "TestResult_29-February-2024_13-14-15.016.html"), documents[0])

	content, err := os.ReadFile(documents[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `<tr class="failed_step">`)
	assert.NotContains(t, string(content), "stacktrace_step\">")
}

func TestBackend_FailedTestWithTrace(t *testing.T) {
	reporter, backend, _ := newTestReporter(t)

	reporter.InitSuite()
	reporter.InitTest()
	reporter.LogException(errors.New("boom"))

	entries := backend.log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, reporting.Failed, entries[0].Kind)
	assert.Equal(t, "boom", entries[0].Text)
	assert.Equal(t, reporting.StackTrace, entries[1].Kind)
	assert.NotEmpty(t, entries[1].Text)
}

func TestBackend_TestLogFinishClearsConsumedProperties(t *testing.T) {
	reporter, backend, _ := newTestReporter(t)

	reporter.InitSuite()
	reporter.SetProperty(reporting.TestClassName, "LoginTests")
	reporter.InitTest()
	reporter.SetProperty(reporting.TestTitle, "Login works")
	reporter.SetProperty(reporting.TestStatus, "Passed")
	reporter.SetProperty(reporting.TestDuration, "4")
	reporter.Log(reporting.Standard, "step")
	reporter.FinishTest()

	properties := reporter.Properties()
	assert.False(t, properties.Has(reporting.TestTitle))
	assert.False(t, properties.Has(reporting.TestStatus))
	assert.False(t, properties.Has(reporting.TestDuration))
	assert.True(t, properties.Has(reporting.TestClassName))
	assert.Nil(t, backend.log)

	results := backend.suite.Results()
	require.Len(t, results, 1)
	assert.Equal(t, report.TestResult{
		Name:     "Login works",
		Status:   report.Passed,
		Duration: 4,
		Link:     "tests/LoginTests_29-February-2024_13-14-15.016.html",
	}, results[0])
}

func TestBackend_Defaults(t *testing.T) {
	backend, workDir := newTestBackend(t)

	require.NoError(t, backend.SuiteLogInit())
	require.NoError(t, backend.TestLogInit())
	require.NoError(t, backend.TestLogFinish())

	results := backend.suite.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "Automated Test Case", results[0].Name)
	assert.Equal(t, report.Passed, results[0].Status)
	assert.Equal(t, 0, results[0].Duration)
	assert.Equal(t, "Suite Execution Results", backend.suite.Name)
	assert.FileExists(t, filepath.Join(workDir, "tests", "TestResult_29-February-2024_13-14-15.016.html"))
}

func TestBackend_SameTimestampGetsUniqueDocuments(t *testing.T) {
	backend, _ := newTestBackend(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, backend.TestLogInit())
		require.NoError(t, backend.TestLogFinish())
	}

	documents := backend.Documents()
	require.Len(t, documents, 3)
	assert.True(t, strings.HasSuffix(documents[1], "_1.html"))
	assert.True(t, strings.HasSuffix(documents[2], "_2.html"))
}

func TestBackend_TestLogInitStartsEmptyLog(t *testing.T) {
	reporter, backend, _ := newTestReporter(t)

	reporter.InitSuite()
	reporter.InitTest()
	reporter.Log(reporting.Standard, "first test")
	reporter.FinishTest()

	reporter.Log(reporting.Notify, "between tests")

	reporter.InitTest()
	reporter.Log(reporting.Standard, "second test")
	entries := backend.log.Entries()
	reporter.FinishTest()

	require.Len(t, entries, 1)
	assert.Equal(t, "second test", entries[0].Text)

	documents := backend.Documents()
	require.Len(t, documents, 2)
	content, err := os.ReadFile(documents[1])
	require.NoError(t, err)
	assert.NotContains(t, string(content), "between tests")
	assert.Contains(t, string(content), "second test")
}

func TestBackend_SuiteIndex(t *testing.T) {
	reporter, backend, workDir := newTestReporter(t)

	reporter.SetProperty(reporting.SuiteTitle, "Checkout suite")
	reporter.InitSuite()
	for i, duration := range []string{"1", "2.4", "7"} {
		reporter.InitTest()
		reporter.SetProperty(reporting.TestTitle, fmt.Sprintf("test %d", i))
		reporter.SetProperty(reporting.TestDuration, duration)
		reporter.FinishTest()
	}
	reporter.FinishSuite()

	index := backend.LastSuiteReport()
	assert.Equal(t, filepath.Join(workDir, "SuiteResults_29-February-2024_13-14-15.016.html"), index)

	content, err := os.ReadFile(index)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "<h1>Checkout suite</h1>")
	assert.Contains(t, html, "Total duration: 10 seconds")
	assert.Equal(t, 3, strings.Count(html, `href="tests/TestResult_`))
	assert.Nil(t, backend.suite)
}

func TestBackend_ScreenCapturers(t *testing.T) {
	backend, workDir := newTestBackend(t)
	backend.extensions.Add(fakeCapturer{name: "screenshot1.png"})

	require.NoError(t, backend.TestLogInit())
	require.NoError(t, backend.Log(reporting.Standard, "step"))
	require.NoError(t, backend.Log(reporting.Failed, "boom"))

	entries := backend.log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, reporting.Image, entries[2].Kind)
	assert.Equal(t, "../res/screenshot1.png", entries[2].Text)
	assert.FileExists(t, filepath.Join(workDir, "res", "screenshot1.png"))
}

func TestBackend_FailingScreenCapturerKeepsEntry(t *testing.T) {
	backend, _ := newTestBackend(t)
	backend.extensions.Add(fakeCapturer{err: fmt.Errorf("no display")})

	require.NoError(t, backend.TestLogInit())
	err := backend.Log(reporting.Failed, "boom")

	require.EqualError(t, err, "fake capturer: no display")
	require.Len(t, backend.log.Entries(), 1)
}

func TestBackend_LogInternalImportsImages(t *testing.T) {
	backend, workDir := newTestBackend(t)
	attachment := filepath.Join(t.TempDir(), "failure.png")
	require.NoError(t, os.WriteFile(attachment, []byte("png"), 0o644))

	require.NoError(t, backend.TestLogInit())
	require.NoError(t, backend.LogInternal(reporting.Image, attachment))
	require.NoError(t, backend.LogInternal(reporting.Image, attachment))

	entries := backend.log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "../res/failure.png", entries[0].Text)
	assert.Equal(t, "../res/failure_1.png", entries[1].Text)
	assert.FileExists(t, filepath.Join(workDir, "res", "failure_1.png"))
}

func TestBackend_InvalidDurationIsRecordedAsZero(t *testing.T) {
	backend, _ := newTestBackend(t)
	require.NoError(t, backend.SuiteLogInit())
	require.NoError(t, backend.TestLogInit())
	require.NoError(t, backend.AddProperty(reporting.TestDuration, "n/a"))

	err := backend.TestLogFinish()

	require.EqualError(t, err, "invalid test duration (n/a)")
	assert.Equal(t, 0, backend.suite.Results()[0].Duration)
	assert.False(t, backend.properties.Has(reporting.TestDuration))
	assert.Len(t, backend.Documents(), 1)
}

func TestBackend_InvalidWorkingDirectory(t *testing.T) {
	modifier := new(mocks.PathModifier)
	modifier.On("AbsPath", "/reports").Return("", fmt.Errorf("permission denied"))

	backend := New(modifier)
	require.NoError(t, backend.AddProperty(reporting.WorkingDirectory, "/reports"))
	require.NoError(t, backend.AddProperty(reporting.TestTitle, "stale"))

	err := backend.TestLogInit()
	require.EqualError(t, err, "invalid working directory (/reports): permission denied")

	err = backend.TestLogFinish()
	require.Error(t, err)
	assert.False(t, backend.properties.Has(reporting.TestTitle))
	modifier.AssertExpectations(t)
}

func TestBackend_SuiteLogFinishWithoutSuite(t *testing.T) {
	backend, _ := newTestBackend(t)

	require.NoError(t, backend.SuiteLogFinish())
	assert.Empty(t, backend.LastSuiteReport())
}
