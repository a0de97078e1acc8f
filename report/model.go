package report

import (
	"strings"
	"time"

	"github.com/Itsnoby/NUnitReporter-stub/reporting"
)

// Status ...
type Status string

// Test statuses.
const (
	Passed  Status = "Passed"
	Skipped Status = "Skipped"
	Failed  Status = "Failed"
)

// ParseStatus matches the known statuses case-insensitively, unknown values are kept verbatim.
func ParseStatus(value string) Status {
	value = strings.TrimSpace(value)
	for _, status := range []Status{Passed, Skipped, Failed} {
		if strings.EqualFold(value, string(status)) {
			return status
		}
	}
	return Status(value)
}

// CSSClass ...
func (s Status) CSSClass() string {
	switch s {
	case Passed:
		return "passed_test"
	case Skipped:
		return "skipped_test"
	case Failed:
		return "failed_test"
	default:
		return ""
	}
}

// LogEntry is a single timestamped line of a test log.
type LogEntry struct {
	Time time.Time
	Kind reporting.MessageType
	Text string
}

// TestLog is the ordered list of entries emitted during a test.
type TestLog struct {
	entries []LogEntry
}

// AddLogEntry ...
func (l *TestLog) AddLogEntry(entry LogEntry) {
	l.entries = append(l.entries, entry)
}

// Entries returns the entries in emission order.
func (l *TestLog) Entries() []LogEntry {
	return append([]LogEntry(nil), l.entries...)
}

// Clear ...
func (l *TestLog) Clear() {
	l.entries = nil
}

// TestResult is the outcome of a finished test. Duration is in whole seconds,
// Link is the test document path relative to the suite index.
type TestResult struct {
	Name     string
	Status   Status
	Duration int
	Link     string
}

// SuiteResult collects the results of the tests finished within a suite.
type SuiteResult struct {
	Name    string
	results []TestResult
}

// NewSuiteResult ...
func NewSuiteResult(name string) *SuiteResult {
	return &SuiteResult{Name: name}
}

// AddResult ...
func (s *SuiteResult) AddResult(result TestResult) {
	s.results = append(s.results, result)
}

// Results ...
func (s *SuiteResult) Results() []TestResult {
	return append([]TestResult(nil), s.results...)
}

// TotalDuration is the sum of the test durations.
func (s *SuiteResult) TotalDuration() int {
	total := 0
	for _, result := range s.results {
		total += result.Duration
	}
	return total
}

// Count returns the number of results with the given status.
func (s *SuiteResult) Count(status Status) int {
	count := 0
	for _, result := range s.results {
		if result.Status == status {
			count++
		}
	}
	return count
}

// TestDocument is the input of a per-test document.
type TestDocument struct {
	Result  TestResult
	Entries []LogEntry
}
