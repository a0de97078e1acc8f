// Package tracker implements a reporting backend sending test lifecycle events to the analytics service.
package tracker

import (
	"strconv"

	"github.com/Itsnoby/NUnitReporter-stub/reporting"
	"github.com/bitrise-io/go-utils/v2/analytics"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Tracker is the subset of go-utils/v2 analytics.Tracker used by the backend.
type Tracker interface {
	Enqueue(eventName string, properties ...analytics.Properties)
	Wait()
}

// NewDefaultTracker returns an analytics tracker tagged with the current build.
func NewDefaultTracker(envRepo env.Repository, logger log.Logger) Tracker {
	p := analytics.Properties{
		"tool":       "nunit-reporter",
		"build_slug": envRepo.Get("BITRISE_BUILD_SLUG"),
		"app_slug":   envRepo.Get("BITRISE_APP_SLUG"),
	}
	return analytics.NewDefaultTracker(logger, p)
}

// Backend enqueues one event per suite start, finished test and finished suite.
// Values are taken from the property notifications, so the backend does not depend on
// the order in which other backends consume the shared properties.
type Backend struct {
	tracker Tracker

	title    string
	status   string
	duration string
	failures int

	counts map[string]int
}

// New ...
func New(tracker Tracker) *Backend {
	return &Backend{
		tracker: tracker,
		counts:  map[string]int{},
	}
}

// SuiteLogInit ...
func (b *Backend) SuiteLogInit() error {
	b.counts = map[string]int{}
	b.tracker.Enqueue("suite_started")
	return nil
}

// TestLogInit ...
func (b *Backend) TestLogInit() error {
	b.resetTest()
	return nil
}

// AddProperty ...
func (b *Backend) AddProperty(key reporting.Property, value string) error {
	switch key {
	case reporting.TestTitle:
		b.title = value
	case reporting.TestStatus:
		b.status = value
	case reporting.TestDuration:
		b.duration = value
	}
	return nil
}

// Log counts the failure entries of the current test.
func (b *Backend) Log(kind reporting.MessageType, _ string) error {
	if kind == reporting.Failed {
		b.failures++
	}
	return nil
}

// ClearLog ...
func (b *Backend) ClearLog() error {
	b.failures = 0
	return nil
}

// TestLogFinish ...
func (b *Backend) TestLogFinish() error {
	defer b.resetTest()

	status := b.status
	if status == "" {
		status = "Passed"
		if b.failures > 0 {
			status = "Failed"
		}
	}
	b.counts[status]++

	properties := analytics.Properties{
		"status":          status,
		"failure_entries": b.failures,
	}
	if b.title != "" {
		properties["title"] = b.title
	}
	if seconds, err := strconv.ParseFloat(b.duration, 64); err == nil {
		properties["duration_s"] = seconds
	}

	b.tracker.Enqueue("test_finished", properties)
	return nil
}

// SuiteLogFinish ...
func (b *Backend) SuiteLogFinish() error {
	total := 0
	for _, count := range b.counts {
		total += count
	}

	b.tracker.Enqueue("suite_finished", analytics.Properties{
		"tests":   total,
		"passed":  b.counts["Passed"],
		"failed":  b.counts["Failed"],
		"skipped": b.counts["Skipped"],
	})
	return nil
}

// Close waits for the queued events to be sent.
func (b *Backend) Close() error {
	b.tracker.Wait()
	return nil
}

func (b *Backend) resetTest() {
	b.title, b.status, b.duration = "", "", ""
	b.failures = 0
}
