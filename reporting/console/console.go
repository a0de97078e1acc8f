package console

import (
	"fmt"
	"time"

	"github.com/Itsnoby/NUnitReporter-stub/reporting"
)

const timeLayout = "15:04:05.000"

// Logger is the subset of go-utils/v2 log.Logger the console backend writes through.
type Logger interface {
	Printf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Donef(format string, v ...interface{})
}

// Backend prints log entries as timestamped lines.
type Backend struct {
	logger Logger
	now    func() time.Time
}

// New ...
func New(logger Logger) *Backend {
	return &Backend{
		logger: logger,
		now:    time.Now,
	}
}

// SuiteLogInit ...
func (b *Backend) SuiteLogInit() error {
	b.logger.Infof("[*****] Suite started.")
	return nil
}

// TestLogInit ...
func (b *Backend) TestLogInit() error {
	return nil
}

// AddProperty announces the test title, duration and status.
func (b *Backend) AddProperty(key reporting.Property, value string) error {
	if value == "" {
		return nil
	}

	switch key {
	case reporting.TestTitle:
		b.logger.Printf("[*****] Test: '%s'.", value)
	case reporting.TestDuration:
		b.logger.Printf("[*****] Test executed in %s seconds.", value)
	case reporting.TestStatus:
		b.logger.Printf("[*****] Test status: %s.", value)
	}
	return nil
}

// Log ...
func (b *Backend) Log(kind reporting.MessageType, message string) error {
	line := fmt.Sprintf("[%s]\t%s%s", b.now().Format(timeLayout), prefix(kind), message)

	switch kind {
	case reporting.ActionTitle:
		b.logger.Infof("%s", line)
	case reporting.Skipped:
		b.logger.Warnf("%s", line)
	case reporting.Failed:
		b.logger.Errorf("%s", line)
	default:
		b.logger.Printf("%s", line)
	}
	return nil
}

// ClearLog ...
func (b *Backend) ClearLog() error {
	return nil
}

// TestLogFinish ...
func (b *Backend) TestLogFinish() error {
	return nil
}

// SuiteLogFinish ...
func (b *Backend) SuiteLogFinish() error {
	b.logger.Donef("[*****] Suite finished.")
	return nil
}

func prefix(kind reporting.MessageType) string {
	switch kind {
	case reporting.Skipped:
		return "[SKIPPED] "
	case reporting.Failed:
		return "[FAILED] "
	default:
		return ""
	}
}
