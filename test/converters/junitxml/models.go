package junitxml

import (
	"encoding/xml"

	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
)

// TestReport ...
type TestReport struct {
	XMLName    xml.Name    `xml:"testsuites"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestSuite ...
type TestSuite struct {
	XMLName    xml.Name    `xml:"testsuite"`
	Name       string      `xml:"name,attr"`
	Tests      int         `xml:"tests,attr"`
	Failures   int         `xml:"failures,attr"`
	Skipped    int         `xml:"skipped,attr"`
	Errors     int         `xml:"errors,attr"`
	Time       float64     `xml:"time,attr"`
	TestCases  []TestCase  `xml:"testcase"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestCase ...
type TestCase struct {
	XMLName    xml.Name   `xml:"testcase"`
	Name       string     `xml:"name,attr"`
	ClassName  string     `xml:"classname,attr"`
	Time       float64    `xml:"time,attr"`
	Failure    *Failure   `xml:"failure,omitempty"`
	Skipped    *Skipped   `xml:"skipped,omitempty"`
	Error      *Error     `xml:"error,omitempty"`
	Properties []Property `xml:"properties>property"`
	SystemOut  string     `xml:"system-out,omitempty"`
	SystemErr  string     `xml:"system-err,omitempty"`
}

// Failure ...
type Failure struct {
	Message string `xml:"message,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// Skipped ...
type Skipped struct {
	Message string `xml:"message,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// Error ...
type Error struct {
	Message string `xml:"message,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// Property ...
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Convert maps the JUnit XML structure to the common test report.
func (testReport TestReport) Convert() testreport.TestReport {
	var report testreport.TestReport
	for _, suite := range testReport.TestSuites {
		report.TestSuites = append(report.TestSuites, suite.convert())
	}
	return report
}

func (suite TestSuite) convert() testreport.TestSuite {
	testSuite := testreport.TestSuite{
		Name:     suite.Name,
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Skipped:  suite.Skipped,
		Errors:   suite.Errors,
		Time:     suite.Time,
	}

	for _, tc := range suite.TestCases {
		testSuite.TestCases = append(testSuite.TestCases, tc.convert())
	}
	for _, nested := range suite.TestSuites {
		testSuite.TestSuites = append(testSuite.TestSuites, nested.convert())
	}

	return testSuite
}

func (tc TestCase) convert() testreport.TestCase {
	testCase := testreport.TestCase{
		Name:      tc.Name,
		ClassName: tc.ClassName,
		Time:      tc.Time,
	}

	if tc.Failure != nil {
		testCase.Failure = &testreport.Failure{Message: tc.Failure.Message, Value: tc.Failure.Value}
	}
	if tc.Skipped != nil {
		testCase.Skipped = &testreport.Skipped{Message: tc.Skipped.Message, Value: tc.Skipped.Value}
	}
	if tc.Error != nil {
		testCase.Error = &testreport.Error{Message: tc.Error.Message, Value: tc.Error.Value}
	}
	if len(tc.Properties) > 0 {
		testCase.Properties = &testreport.Properties{}
		for _, property := range tc.Properties {
			testCase.Properties.Property = append(testCase.Properties.Property, testreport.Property{
				Name:  property.Name,
				Value: property.Value,
			})
		}
	}
	if tc.SystemOut != "" {
		testCase.SystemOut = &testreport.SystemOut{Value: tc.SystemOut}
	}
	if tc.SystemErr != "" {
		testCase.SystemErr = &testreport.SystemErr{Value: tc.SystemErr}
	}

	return testCase
}
