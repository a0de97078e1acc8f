// Package converters lists the test result converters. A converter detects whether it can
// handle the files of a test directory and converts them into the common test report.
package converters

import (
	"github.com/Itsnoby/NUnitReporter-stub/test/converters/junitxml"
	"github.com/Itsnoby/NUnitReporter-stub/test/converters/xcresult"
	"github.com/Itsnoby/NUnitReporter-stub/test/testreport"
)

// Intf is the required interface a converter need to match
type Intf interface {
	Detect([]string) bool
	Convert() (testreport.TestReport, error)
}

// List lists all supported converters
func List() []Intf {
	return []Intf{
		&junitxml.Converter{},
		&xcresult.Converter{},
	}
}
