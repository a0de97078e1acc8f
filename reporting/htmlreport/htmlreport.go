// Package htmlreport implements a reporting backend writing one HTML document per test
// and an index document per suite.
//
// Layout under the working directory:
//
//	{workDir}
//	├── SuiteResults_{timestamp}.html
//	├── res
//	│	└── screenshot_1.png
//	└── tests
//		└── {TestClassName}_{timestamp}.html
package htmlreport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Itsnoby/NUnitReporter-stub/report"
	"github.com/Itsnoby/NUnitReporter-stub/reporting"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const (
	defaultTestTitle  = "Automated Test Case"
	defaultClassName  = "TestResult"
	defaultSuiteTitle = "Suite Execution Results"

	testsDirName     = "tests"
	resourcesDirName = "res"

	fileTimeLayout = "02-January-2006_15-04-05.000"
)

// Backend is not safe for concurrent use; the Reporter serializes calls to it.
type Backend struct {
	properties   *reporting.Properties
	extensions   *reporting.Extensions
	pathModifier pathutil.PathModifier
	now          func() time.Time

	defaultWorkDir string

	log      *report.TestLog
	testPath string
	suite    *report.SuiteResult

	documents       []string
	lastSuiteReport string
}

// New returns a backend writing under the WorkingDirectory property,
// or next to the running executable when the property is not set.
func New(pathModifier pathutil.PathModifier) *Backend {
	workDir := "."
	if executable, err := os.Executable(); err == nil {
		workDir = filepath.Dir(executable)
	}

	return &Backend{
		properties:     reporting.NewProperties(),
		extensions:     reporting.NewExtensions(),
		pathModifier:   pathModifier,
		now:            time.Now,
		defaultWorkDir: workDir,
	}
}

// UseProperties ...
func (b *Backend) UseProperties(properties *reporting.Properties) {
	b.properties = properties
}

// UseExtensions ...
func (b *Backend) UseExtensions(extensions *reporting.Extensions) {
	b.extensions = extensions
}

// Documents returns every document written so far.
func (b *Backend) Documents() []string {
	return append([]string(nil), b.documents...)
}

// LastSuiteReport returns the path of the latest suite index, or an empty string.
func (b *Backend) LastSuiteReport() string {
	return b.lastSuiteReport
}

// SuiteLogInit ...
func (b *Backend) SuiteLogInit() error {
	b.suite = report.NewSuiteResult(b.suiteTitle())
	return nil
}

// TestLogInit starts an empty log for the next test. Entries logged outside a test are dropped.
func (b *Backend) TestLogInit() error {
	b.log = &report.TestLog{}

	pth, err := b.testDocumentPath()
	if err != nil {
		return err
	}
	b.testPath = pth
	return nil
}

// AddProperty ...
func (b *Backend) AddProperty(key reporting.Property, value string) error {
	b.properties.Set(key, value)
	return nil
}

// Log appends an entry to the current test. A Failed entry also triggers the screen capturers.
func (b *Backend) Log(kind reporting.MessageType, message string) error {
	b.append(kind, message)

	if kind != reporting.Failed {
		return nil
	}
	return b.captureScreens()
}

// LogInternal appends an image or stack trace entry. Images given by an absolute path are
// copied into the resources directory.
func (b *Backend) LogInternal(kind reporting.MessageType, message string) error {
	if kind == reporting.Image && filepath.IsAbs(message) {
		link, err := b.importImage(message)
		if err != nil {
			return err
		}
		message = link
	}

	b.append(kind, message)
	return nil
}

// ClearLog ...
func (b *Backend) ClearLog() error {
	if b.log != nil {
		b.log.Clear()
	}
	return nil
}

// TestLogFinish records the test result in the suite and writes the test document.
// The test log and the TestTitle, TestStatus and TestDuration properties are cleared afterwards,
// whether or not writing succeeded.
func (b *Backend) TestLogFinish() error {
	defer b.resetTest()

	if b.testPath == "" {
		pth, err := b.testDocumentPath()
		if err != nil {
			return err
		}
		b.testPath = pth
	}

	var entries []report.LogEntry
	if b.log != nil {
		entries = b.log.Entries()
	}

	duration, durationErr := parseDuration(b.properties.Get(reporting.TestDuration, "0"))
	result := report.TestResult{
		Name:     b.properties.Get(reporting.TestTitle, defaultTestTitle),
		Status:   b.testStatus(entries),
		Duration: duration,
		Link:     testsDirName + "/" + filepath.Base(b.testPath),
	}

	if b.suite == nil {
		b.suite = report.NewSuiteResult(b.suiteTitle())
	}
	b.suite.AddResult(result)

	doc, err := report.RenderTest(report.TestDocument{Result: result, Entries: entries})
	if err != nil {
		return err
	}
	if err := b.write(b.testPath, doc); err != nil {
		return err
	}

	return durationErr
}

// SuiteLogFinish writes the suite index.
func (b *Backend) SuiteLogFinish() error {
	if b.suite == nil {
		return nil
	}
	suite := b.suite
	b.suite = nil

	workDir, err := b.workDir()
	if err != nil {
		return err
	}
	if err := ensureDir(workDir); err != nil {
		return err
	}

	doc, err := report.RenderSuite(suite)
	if err != nil {
		return err
	}

	pth := uniquePath(filepath.Join(workDir, fmt.Sprintf("SuiteResults_%s.html", b.now().Format(fileTimeLayout))))
	if err := b.write(pth, doc); err != nil {
		return err
	}
	b.lastSuiteReport = pth
	return nil
}

func (b *Backend) append(kind reporting.MessageType, message string) {
	if b.log == nil {
		b.log = &report.TestLog{}
	}
	b.log.AddLogEntry(report.LogEntry{Time: b.now(), Kind: kind, Text: message})
}

func (b *Backend) resetTest() {
	b.log = nil
	b.testPath = ""
	b.properties.Delete(reporting.TestTitle, reporting.TestStatus, reporting.TestDuration)
}

func (b *Backend) testStatus(entries []report.LogEntry) report.Status {
	if b.properties.Has(reporting.TestStatus) {
		return report.ParseStatus(b.properties.Get(reporting.TestStatus, ""))
	}
	for _, entry := range entries {
		if entry.Kind == reporting.Failed {
			return report.Failed
		}
	}
	return report.Passed
}

func (b *Backend) suiteTitle() string {
	return b.properties.Get(reporting.SuiteTitle, defaultSuiteTitle)
}

func (b *Backend) captureScreens() error {
	capturers := b.extensions.ScreenCapturers()
	if len(capturers) == 0 {
		return nil
	}

	resDir, err := b.resourcesDir()
	if err != nil {
		return err
	}

	var errs []error
	for _, capturer := range capturers {
		name, err := capturer.CaptureScreen(resDir)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", capturer.Name(), err))
			continue
		}
		if name == "" {
			continue
		}
		b.append(reporting.Image, resourceLink(name))
	}
	return errors.Join(errs...)
}

func (b *Backend) importImage(src string) (string, error) {
	resDir, err := b.resourcesDir()
	if err != nil {
		return "", err
	}

	dst := uniquePath(filepath.Join(resDir, filepath.Base(src)))
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return resourceLink(filepath.Base(dst)), nil
}

func (b *Backend) workDir() (string, error) {
	dir := b.properties.Get(reporting.WorkingDirectory, b.defaultWorkDir)
	absDir, err := b.pathModifier.AbsPath(dir)
	if err != nil {
		return "", fmt.Errorf("invalid working directory (%s): %w", dir, err)
	}
	return absDir, nil
}

func (b *Backend) resourcesDir() (string, error) {
	workDir, err := b.workDir()
	if err != nil {
		return "", err
	}

	resDir := filepath.Join(workDir, resourcesDirName)
	if err := ensureDir(resDir); err != nil {
		return "", err
	}
	return resDir, nil
}

func (b *Backend) testDocumentPath() (string, error) {
	workDir, err := b.workDir()
	if err != nil {
		return "", err
	}

	testsDir := filepath.Join(workDir, testsDirName)
	if err := ensureDir(testsDir); err != nil {
		return "", err
	}

	className := sanitizeFileName(b.properties.Get(reporting.TestClassName, defaultClassName))
	name := fmt.Sprintf("%s_%s.html", className, b.now().Format(fileTimeLayout))
	return uniquePath(filepath.Join(testsDir, name)), nil
}

func (b *Backend) write(pth string, data []byte) (err error) {
	file, err := os.Create(pth)
	if err != nil {
		return fmt.Errorf("failed to create report document: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report document (%s): %w", pth, closeErr)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write report document (%s): %w", pth, err)
	}

	b.documents = append(b.documents, pth)
	return nil
}

func resourceLink(name string) string {
	return "../" + resourcesDirName + "/" + name
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", dir, err)
	}
	return nil
}

// uniquePath appends a counter to the file name while pth is taken.
func uniquePath(pth string) string {
	ext := filepath.Ext(pth)
	base := strings.TrimSuffix(pth, ext)
	candidate := pth
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

func parseDuration(value string) (int, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return seconds, nil
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return int(math.Round(seconds)), nil
	}
	return 0, fmt.Errorf("invalid test duration (%s)", value)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image (%s): %w", src, err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create image copy (%s): %w", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy image (%s): %w", src, err)
	}
	return nil
}
