package junitxml

import (
	"encoding/xml"
	"strings"

	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
	"github.com/pkg/errors"
)

// Converter holds data of the converter
type Converter struct {
	results []resultReader
}

// Detect ...
func (c *Converter) Detect(files []string) bool {
	c.results = nil
	for _, file := range files {
		if strings.HasSuffix(file, ".xml") || strings.HasSuffix(file, ".junit") {
			c.results = append(c.results, &fileReader{Filename: file})
		}
	}

	return len(c.results) > 0
}

// Convert ...
func (c *Converter) Convert() (testreport.TestReport, error) {
	var report TestReport

	for _, result := range c.results {
		testSuites, err := parseTestSuites(result)
		if err != nil {
			return testreport.TestReport{}, err
		}

		report.TestSuites = append(report.TestSuites, testSuites...)
	}

	return report.Convert(), nil
}

func parseTestSuites(result resultReader) ([]TestSuite, error) {
	data, err := result.ReadAll()
	if err != nil {
		return nil, err
	}

	var testSuites TestReport

	testSuitesError := xml.Unmarshal(data, &testSuites)
	if testSuitesError == nil {
		return attachSystemErr(testSuites.TestSuites), nil
	}

	var testSuite TestSuite
	if err := xml.Unmarshal(data, &testSuite); err != nil {
		return nil, errors.Wrapf(err, "%s is neither a testsuites (%s) nor a testsuite document", result, testSuitesError)
	}

	return attachSystemErr([]TestSuite{testSuite}), nil
}

// attachSystemErr appends the system-err output of failed and errored test cases to their
// failure or error body, separated by two newlines and prefixed with "System error:".
// Passing test cases keep their system-err untouched.
func attachSystemErr(suites []TestSuite) []TestSuite {
	for suiteIndex, suite := range suites {
		for caseIndex, tc := range suite.TestCases {
			if strings.TrimSpace(tc.SystemErr) == "" {
				continue
			}

			systemErr := "System error:\n" + tc.SystemErr
			switch {
			case tc.Error != nil:
				tc.Error.Value = joinNonEmpty(tc.Error.Value, systemErr)
			case tc.Failure != nil:
				tc.Failure.Value = joinNonEmpty(tc.Failure.Value, systemErr)
			default:
				continue
			}

			tc.SystemErr = ""
			suites[suiteIndex].TestCases[caseIndex] = tc
		}

		suites[suiteIndex].TestSuites = attachSystemErr(suite.TestSuites)
	}

	return suites
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if len(strings.TrimSpace(part)) > 0 {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n\n")
}
