package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const junitXML = `<testsuite name="LoginTests" tests="2">
  <testcase name="CanLogin" classname="Shop.LoginTests" time="1"/>
  <testcase name="CanLogout" classname="Shop.LoginTests" time="2"/>
</testsuite>`

func createDummyFilesInDirWithContent(t *testing.T, dir, content string, fileNames []string) {
	for _, file := range fileNames {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, file)), 0o755))
		require.NoError(t, fileutil.WriteStringToFile(filepath.Join(dir, file), content))
	}
}

func TestParseTestResults_StepLayout(t *testing.T) {
	root := t.TempDir()
	createDummyFilesInDirWithContent(t, root, junitXML, []string{
		"step_1/test_run_1/UnitTest.xml",
		"step_1/test_run_2/UITest.xml",
	})
	createDummyFilesInDirWithContent(t, root, `{"id":"nunit-runner","title":"Run NUnit tests"}`, []string{"step_1/step-info.json"})
	createDummyFilesInDirWithContent(t, root, `{"test-name":"Unit tests"}`, []string{"step_1/test_run_1/test-info.json"})
	createDummyFilesInDirWithContent(t, root, "png", []string{"step_1/test_run_2/CanLogin_failure.png", "step_1/test_run_2/trace.zip"})

	results, err := ParseTestResults(root, log.NewLogger())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Unit tests", results[0].Name)
	assert.Equal(t, models.TestResultStepInfo{ID: "nunit-runner", Title: "Run NUnit tests"}, results[0].StepInfo)
	assert.Empty(t, results[0].AttachmentPaths)

	assert.Equal(t, "test_run_2", results[1].Name)
	assert.Equal(t, []string{filepath.Join(root, "step_1/test_run_2/CanLogin_failure.png")}, results[1].AttachmentPaths)

	assert.Equal(t, 4, results.TestCount())
}

func TestParseTestResults_PlainDirectory(t *testing.T) {
	root := t.TempDir()
	createDummyFilesInDirWithContent(t, root, junitXML, []string{"TestResult.xml"})

	results, err := ParseTestResults(root, log.NewLogger())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Base(root), results[0].Name)
	assert.Equal(t, models.TestResultStepInfo{}, results[0].StepInfo)
	require.Len(t, results[0].Report.TestSuites, 1)
	assert.Equal(t, "LoginTests", results[0].Report.TestSuites[0].Name)
}

func TestParseTestResults_InvalidResult(t *testing.T) {
	root := t.TempDir()
	createDummyFilesInDirWithContent(t, root, "not xml", []string{"run/broken.xml"})

	_, err := ParseTestResults(root, log.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to convert test results in")
}

func TestParseTestResults_MissingDir(t *testing.T) {
	_, err := ParseTestResults(filepath.Join(t.TempDir(), "missing"), log.NewLogger())
	require.Error(t, err)
}
