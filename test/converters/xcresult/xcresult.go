package xcresult

import (
	"path/filepath"
	"sort"

	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/pkg/errors"
	"howett.net/plist"
)

// Converter reads the legacy TestSummaries.plist of an xcresult bundle.
type Converter struct {
	testSummariesPlistPath string
}

// Detect ...
func (h *Converter) Detect(files []string) bool {
	h.testSummariesPlistPath = ""
	for _, file := range files {
		if filepath.Ext(file) != ".xcresult" {
			continue
		}

		testSummariesPlistPath := filepath.Join(file, "TestSummaries.plist")
		if exist, err := pathutil.IsPathExists(testSummariesPlistPath); err != nil || !exist {
			continue
		}

		h.testSummariesPlistPath = testSummariesPlistPath
		return true
	}
	return false
}

// Convert ...
func (h *Converter) Convert() (testreport.TestReport, error) {
	data, err := fileutil.ReadBytesFromFile(h.testSummariesPlistPath)
	if err != nil {
		return testreport.TestReport{}, err
	}

	var plistData TestSummaryPlist
	if _, err := plist.Unmarshal(data, &plistData); err != nil {
		return testreport.TestReport{}, errors.Wrapf(err, "failed to parse %s", h.testSummariesPlistPath)
	}

	testsByID := plistData.Tests()
	testIDs := make([]string, 0, len(testsByID))
	for testID := range testsByID {
		testIDs = append(testIDs, testID)
	}
	sort.Strings(testIDs)

	var report testreport.TestReport
	for _, testID := range testIDs {
		tests := testsByID[testID]
		testSuite := testreport.TestSuite{
			Name:     testID,
			Tests:    len(tests),
			Failures: tests.FailuresCount(),
			Skipped:  tests.SkippedCount(),
			Time:     tests.TotalTime(),
		}

		for _, test := range tests {
			testCase := testreport.TestCase{
				Name:      test.TestName,
				ClassName: testID,
				Time:      test.Duration,
			}
			if test.IsFailed() {
				testCase.Failure = &testreport.Failure{
					Message: test.FailureMessage(),
					Value:   test.Failure(),
				}
			} else if test.IsSkipped() {
				testCase.Skipped = &testreport.Skipped{}
			}

			testSuite.TestCases = append(testSuite.TestCases, testCase)
		}

		report.TestSuites = append(report.TestSuites, testSuite)
	}

	return report, nil
}
