package test

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Itsnoby/NUnitReporter-stub/test/converters"
	"github.com/Itsnoby/NUnitReporter-stub/test/testasset"
	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/pkg/errors"
)

const (
	stepInfoFileName = "step-info.json"
	testInfoFileName = "test-info.json"
)

// Result is a converted test run found in a test directory.
type Result struct {
	Name            string
	Report          testreport.TestReport
	AttachmentPaths []string
	StepInfo        models.TestResultStepInfo
}

// Results ...
type Results []Result

// TestCount returns the number of test cases over all results.
func (results Results) TestCount() int {
	count := 0
	for _, result := range results {
		for _, suite := range result.Report.TestSuites {
			count += len(suite.AllTestCases())
		}
	}
	return count
}

func findSupportedAttachments(testDir string, logger log.Logger) (attachmentPaths []string) {
	err := filepath.WalkDir(testDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != testDir && filepath.Ext(path) == ".xcresult" {
				return filepath.SkipDir
			}
			return nil
		}

		if testasset.IsSupportedAssetType(path) {
			attachmentPaths = append(attachmentPaths, path)
		}

		return nil
	})

	if err != nil {
		logger.Warnf("Failed to walk test dir (%s): %s", testDir, err)
		return nil
	}

	return
}

/*
ParseTestResults walks through the test results directory and converts every test directory
a converter recognises.

Both a plain tree of result files and the step-grouped layout are supported:

	test_results
	├── step_1_test_results
	│	├── step-info.json
	│	├── test_run_1
	│	│	├── UnitTest.xml
	│	│	└── test-info.json
	│	└── test_run_2
	│		├── UITest.xml
	│		├── screenshot_1.png
	│		└── test-info.json
	└── nightly
		└── TestResult.xml

The result name comes from test-info.json and falls back to the directory name.
The step info comes from a step-info.json next to the test directory, when present.
*/
func ParseTestResults(testsRootDir string, logger log.Logger) (Results, error) {
	var results Results

	err := filepath.WalkDir(testsRootDir, func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if filepath.Ext(pth) == ".xcresult" {
			return filepath.SkipDir
		}

		dirResults, err := parseTestDir(pth, logger)
		if err != nil {
			return err
		}
		results = append(results, dirResults...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func parseTestDir(testDir string, logger log.Logger) (Results, error) {
	// read one level of file set only <test_dir>/files_to_get
	testFiles, err := filepath.Glob(filepath.Join(pathutil.EscapeGlobPath(testDir), "*"))
	if err != nil {
		return nil, err
	}

	var results Results
	for _, converter := range converters.List() {
		logger.Debugf("Running converter: %T", converter)

		detected := converter.Detect(testFiles)
		logger.Debugf("known test result detected: %v", detected)
		if !detected {
			continue
		}

		name, err := readTestName(testDir)
		if err != nil {
			return nil, err
		}

		testReport, err := converter.Convert()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to convert test results in %s", testDir)
		}

		attachments := findSupportedAttachments(testDir, logger)
		logger.Debugf("found attachments: %d", len(attachments))

		results = append(results, Result{
			Name:            name,
			Report:          testReport,
			AttachmentPaths: attachments,
			StepInfo:        readStepInfo(filepath.Dir(testDir), logger),
		})
	}

	return results, nil
}

func readTestName(testDir string) (string, error) {
	testInfoPth := filepath.Join(testDir, testInfoFileName)
	if exists, err := pathutil.IsPathExists(testInfoPth); err != nil {
		return "", err
	} else if !exists {
		return filepath.Base(testDir), nil
	}

	content, err := fileutil.ReadBytesFromFile(testInfoPth)
	if err != nil {
		return "", err
	}

	var testInfo struct {
		Name string `json:"test-name"`
	}
	if err := json.Unmarshal(content, &testInfo); err != nil {
		return "", errors.Wrapf(err, "failed to parse %s", testInfoPth)
	}
	if testInfo.Name == "" {
		return filepath.Base(testDir), nil
	}
	return testInfo.Name, nil
}

func readStepInfo(dir string, logger log.Logger) models.TestResultStepInfo {
	var stepInfo models.TestResultStepInfo

	stepInfoPth := filepath.Join(dir, stepInfoFileName)
	if exists, err := pathutil.IsPathExists(stepInfoPth); err != nil {
		logger.Warnf("Failed to check if %s file exists in dir: %s: %s", stepInfoFileName, dir, err)
		return stepInfo
	} else if !exists {
		return stepInfo
	}

	content, err := fileutil.ReadBytesFromFile(stepInfoPth)
	if err != nil {
		logger.Warnf("Failed to read %s file in dir: %s, error: %s", stepInfoFileName, dir, err)
		return stepInfo
	}

	if err := json.Unmarshal(content, &stepInfo); err != nil {
		logger.Warnf("Failed to parse %s file in dir: %s, error: %s", stepInfoFileName, dir, err)
	}
	return stepInfo
}
