// Package listener translates test runner lifecycle callbacks into reporting calls.
package listener

import (
	"math"
	"strconv"

	"github.com/Itsnoby/NUnitReporter-stub/report"
	"github.com/Itsnoby/NUnitReporter-stub/reporting"
	"github.com/Itsnoby/NUnitReporter-stub/test/testasset"
	"github.com/bitrise-io/go-utils/v2/log"
)

const (
	defaultFailureMessage = "Test failed!"
	defaultSkipMessage    = "Test skipped."
)

// TestName identifies a suite or a test.
type TestName struct {
	Name       string
	FullName   string
	ClassName  string
	MethodName string
}

// Result is the outcome of a finished test.
type Result interface {
	Test() TestName
	IsError() bool
	IsFailure() bool
	IsSuccess() bool
	Message() string
	StackTrace() string
	// Time is the test duration in seconds.
	Time() float64
	Attachments() []string
}

// DescriptionFunc returns the human readable description of a class, or of one of its methods
// when methodName is not empty. An empty string means no description.
type DescriptionFunc func(className, methodName string) string

// SetupFunc registers the backends and extensions of a run.
type SetupFunc func(reporter *reporting.Reporter) error

// Listener drives a Reporter from test runner events.
type Listener struct {
	reporter *reporting.Reporter
	setup    SetupFunc
	logger   log.Logger

	// Describe looks up suite and test descriptions.
	Describe DescriptionFunc
	// IsClass tells whether a suite is a test class (fixture) rather than a namespace or assembly.
	IsClass func(fullName string) bool
}

// New ...
func New(reporter *reporting.Reporter, setup SetupFunc, logger log.Logger) *Listener {
	return &Listener{
		reporter: reporter,
		setup:    setup,
		logger:   logger,
		Describe: func(string, string) string { return "" },
		IsClass:  func(string) bool { return true },
	}
}

// RunStarted sets up the backends.
func (l *Listener) RunStarted(name string, testCount int) {
	l.logger.Debugf("Run started: %s (%d tests)", name, testCount)

	if l.setup == nil {
		return
	}
	if err := l.setup(l.reporter); err != nil {
		l.logger.Errorf("Failed to set up reporting: %s", err)
	}
}

// RunFinished finishes the suite and releases every backend.
func (l *Listener) RunFinished(err error) {
	if err != nil {
		l.logger.Warnf("Test run finished with error: %s", err)
	}

	l.reporter.FinishSuite()
	l.reporter.RemoveAllBackends()
}

// SuiteStarted ...
func (l *Listener) SuiteStarted(name TestName) {
	if l.IsClass(name.FullName) {
		l.reporter.SetProperty(reporting.TestClassName, name.Name)
	}
	if description := l.Describe(name.FullName, ""); description != "" {
		l.reporter.SetProperty(reporting.SuiteTitle, description)
	}

	l.reporter.InitSuite()
}

// SuiteFinished is a no-op: one suite document is written per run, on RunFinished.
func (l *Listener) SuiteFinished(TestName) {}

// TestStarted ...
func (l *Listener) TestStarted(TestName) {
	l.reporter.InitTest()
}

// TestFinished records the outcome of the test and finishes it.
func (l *Listener) TestFinished(result Result) {
	test := result.Test()

	title := l.Describe(test.ClassName, test.MethodName)
	if title == "" {
		title = test.Name
	}
	l.reporter.SetProperty(reporting.TestTitle, title)
	l.reporter.SetProperty(reporting.TestDuration, strconv.Itoa(int(math.Round(result.Time()))))

	var status report.Status
	switch {
	case result.IsError() || result.IsFailure():
		status = report.Failed
		l.reporter.Log(reporting.Failed, messageOr(result.Message(), defaultFailureMessage))
		l.logStackTrace(result.StackTrace())
	case result.IsSuccess():
		status = report.Passed
	default:
		status = report.Skipped
		l.reporter.Log(reporting.Skipped, messageOr(result.Message(), defaultSkipMessage))
		l.logStackTrace(result.StackTrace())
	}

	for _, attachment := range result.Attachments() {
		if testasset.IsImage(attachment) {
			l.reporter.LogInternal(reporting.Image, attachment)
		} else {
			l.reporter.Log(reporting.Notify, "Attachment: "+attachment)
		}
	}

	l.reporter.SetProperty(reporting.TestStatus, string(status))
	l.reporter.FinishTest()
}

func (l *Listener) logStackTrace(trace string) {
	if trace == "" {
		return
	}
	l.reporter.LogInternal(reporting.StackTrace, trace)
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
