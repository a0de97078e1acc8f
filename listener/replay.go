package listener

import (
	"strings"

	"github.com/Itsnoby/NUnitReporter-stub/test"
	"github.com/Itsnoby/NUnitReporter-stub/test/testasset"
	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
)

// DescriptionProperty is the test case property holding the test description.
const DescriptionProperty = "Description"

// Replay feeds parsed test results to the listener as a single run.
func Replay(l *Listener, runName string, results test.Results) {
	l.RunStarted(runName, results.TestCount())

	for _, result := range results {
		for _, suite := range result.Report.TestSuites {
			replaySuite(l, suite, result.AttachmentPaths)
		}
	}

	l.RunFinished(nil)
}

// PropertyDescriptions returns a DescriptionFunc answering from the Description
// property of the test cases.
func PropertyDescriptions(results test.Results) DescriptionFunc {
	descriptions := map[string]string{}
	for _, result := range results {
		for _, suite := range result.Report.TestSuites {
			for _, tc := range suite.AllTestCases() {
				if description, ok := tc.Properties.Lookup(DescriptionProperty); ok && description != "" {
					descriptions[tc.ClassName+"/"+tc.Name] = description
				}
			}
		}
	}

	return func(className, methodName string) string {
		if methodName == "" {
			return ""
		}
		return descriptions[className+"/"+methodName]
	}
}

func replaySuite(l *Listener, suite testreport.TestSuite, attachments []string) {
	name := TestName{Name: shortName(suite.Name), FullName: suite.Name}
	l.SuiteStarted(name)

	for _, tc := range suite.TestCases {
		result := caseResult{testCase: tc, attachments: attachmentsOf(tc, attachments)}
		l.TestStarted(result.Test())
		l.TestFinished(result)
	}
	for _, nested := range suite.TestSuites {
		replaySuite(l, nested, attachments)
	}

	l.SuiteFinished(name)
}

func attachmentsOf(tc testreport.TestCase, attachments []string) []string {
	var matching []string
	for _, attachment := range attachments {
		if testasset.BelongsTo(attachment, tc.Name) {
			matching = append(matching, attachment)
		}
	}
	return matching
}

func shortName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}

type caseResult struct {
	testCase    testreport.TestCase
	attachments []string
}

func (r caseResult) Test() TestName {
	fullName := r.testCase.Name
	if r.testCase.ClassName != "" {
		fullName = r.testCase.ClassName + "." + r.testCase.Name
	}
	return TestName{
		Name:       r.testCase.Name,
		FullName:   fullName,
		ClassName:  r.testCase.ClassName,
		MethodName: r.testCase.Name,
	}
}

func (r caseResult) IsError() bool {
	return r.testCase.Error != nil
}

func (r caseResult) IsFailure() bool {
	return r.testCase.Failure != nil
}

func (r caseResult) IsSuccess() bool {
	return r.testCase.Error == nil && r.testCase.Failure == nil && r.testCase.Skipped == nil
}

func (r caseResult) Message() string {
	switch {
	case r.testCase.Error != nil:
		return r.testCase.Error.Message
	case r.testCase.Failure != nil:
		return r.testCase.Failure.Message
	case r.testCase.Skipped != nil:
		return r.testCase.Skipped.Message
	}
	return ""
}

func (r caseResult) StackTrace() string {
	switch {
	case r.testCase.Error != nil:
		return strings.TrimSpace(r.testCase.Error.Value)
	case r.testCase.Failure != nil:
		return strings.TrimSpace(r.testCase.Failure.Value)
	case r.testCase.Skipped != nil:
		return strings.TrimSpace(r.testCase.Skipped.Value)
	}
	return ""
}

func (r caseResult) Time() float64 {
	return r.testCase.Time
}

func (r caseResult) Attachments() []string {
	return r.attachments
}
