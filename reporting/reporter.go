package reporting

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/pkg/errors"
)

// Logger receives the diagnostics of failing backends. go-utils/v2 log.Logger satisfies it.
type Logger interface {
	Errorf(format string, v ...interface{})
}

// Reporter is the dispatcher: it owns the registered backends and extensions, tracks whether a suite
// and a test are active and fans every call out to all backends.
// A failing backend is logged and skipped; no backend error reaches the caller.
// Every public method holds the same lock, backends must not call back into the Reporter.
type Reporter struct {
	mu     sync.Mutex
	logger Logger

	backends   []Backend
	extensions *Extensions
	properties *Properties

	suiteActive bool
	testActive  bool
}

var (
	defaultReporter *Reporter
	defaultOnce     sync.Once
)

// Default returns the process-wide Reporter, created on first use.
func Default() *Reporter {
	defaultOnce.Do(func() {
		defaultReporter = New(log.NewLogger())
	})
	return defaultReporter
}

// New ...
func New(logger Logger) *Reporter {
	return &Reporter{
		logger:     logger,
		extensions: NewExtensions(),
		properties: NewProperties(),
	}
}

// AddBackend registers backend. A nil backend or a second backend of the same concrete type is ignored.
func (r *Reporter) AddBackend(backend Backend) bool {
	if backend == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := reflect.TypeOf(backend)
	for _, registered := range r.backends {
		if reflect.TypeOf(registered) == t {
			return false
		}
	}

	r.call(backend, "AddBackend", func() error {
		if consumer, ok := backend.(PropertyConsumer); ok {
			consumer.UseProperties(r.properties)
		}
		if consumer, ok := backend.(ExtensionConsumer); ok {
			consumer.UseExtensions(r.extensions)
		}
		return nil
	})

	r.backends = append(r.backends, backend)
	return true
}

// AddExtension registers extension. A nil extension or a second extension of the same concrete type is ignored.
func (r *Reporter) AddExtension(extension Extension) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.extensions.Add(extension)
}

// InitSuite starts a suite on every backend unless one is already active.
func (r *Reporter) InitSuite() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.suiteActive {
		return
	}
	r.forEach("SuiteLogInit", func(b Backend) error { return b.SuiteLogInit() })
	r.suiteActive = true
}

// FinishSuite finishes the active suite on every backend.
func (r *Reporter) FinishSuite() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.suiteActive {
		return
	}
	r.forEach("SuiteLogFinish", func(b Backend) error { return b.SuiteLogFinish() })
	r.suiteActive = false
}

// InitTest starts a test on every backend unless one is already active.
func (r *Reporter) InitTest() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.testActive {
		return
	}
	r.forEach("TestLogInit", func(b Backend) error { return b.TestLogInit() })
	r.testActive = true
}

// FinishTest finishes the active test on every backend.
func (r *Reporter) FinishTest() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.testActive {
		return
	}
	r.forEach("TestLogFinish", func(b Backend) error { return b.TestLogFinish() })
	r.testActive = false
}

// SetProperty updates the shared property set and notifies every backend.
// An empty value clears the property.
func (r *Reporter) SetProperty(key Property, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.properties.Set(key, value)
	r.forEach("AddProperty", func(b Backend) error { return b.AddProperty(key, value) })
}

// Log ...
func (r *Reporter) Log(kind MessageType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.forEach("Log", func(b Backend) error { return b.Log(kind, message) })
}

// LogInternal forwards an internal entry to the extended backends only.
func (r *Reporter) LogInternal(kind MessageType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.forEach("LogInternal", func(b Backend) error {
		extended, ok := b.(ExtendedBackend)
		if !ok {
			return nil
		}
		return extended.LogInternal(kind, message)
	})
}

// LogException reports err on every backend.
func (r *Reporter) LogException(err error) {
	if err == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.forEach("LogException", func(b Backend) error {
		if handler, ok := b.(ExceptionLogger); ok {
			return handler.LogException(err)
		}
		return logException(b, err)
	})
}

// ClearLog ...
func (r *Reporter) ClearLog() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.forEach("ClearLog", func(b Backend) error { return b.ClearLog() })
}

// RemoveAllBackends closes the disposable backends and unregisters all of them.
// Both the suite and the test flag are cleared, so backends registered later start from scratch.
func (r *Reporter) RemoveAllBackends() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeAllBackends()
}

// Reset returns the Reporter to its initial state: no backends, no extensions, no properties.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeAllBackends()
	r.extensions.Clear()
	r.properties.Clear()
}

// Backends returns the registered backends in registration order.
func (r *Reporter) Backends() []Backend {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Backend(nil), r.backends...)
}

// Extensions ...
func (r *Reporter) Extensions() []Extension {
	return r.extensions.All()
}

// Properties returns the shared property set.
func (r *Reporter) Properties() *Properties {
	return r.properties
}

// SuiteActive ...
func (r *Reporter) SuiteActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.suiteActive
}

// TestActive ...
func (r *Reporter) TestActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.testActive
}

func (r *Reporter) removeAllBackends() {
	for _, backend := range r.backends {
		if closer, ok := backend.(io.Closer); ok {
			r.call(backend, "Close", closer.Close)
		}
	}

	r.backends = nil
	r.testActive = false
	r.suiteActive = false
}

func (r *Reporter) forEach(operation string, fn func(b Backend) error) {
	for _, backend := range r.backends {
		b := backend
		r.call(b, operation, func() error { return fn(b) })
	}
}

func (r *Reporter) call(backend Backend, operation string, fn func() error) {
	if err := safeCall(fn); err != nil {
		r.logger.Errorf("An error occurred during %s (%T): %s", operation, backend, err)
	}
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()

	return fn()
}

func logException(b Backend, err error) error {
	if logErr := b.Log(Failed, err.Error()); logErr != nil {
		return logErr
	}

	trace := TraceOf(err)
	if trace == "" {
		return nil
	}

	extended, ok := b.(ExtendedBackend)
	if !ok {
		return nil
	}
	return extended.LogInternal(StackTrace, trace)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// TraceOf returns the innermost stack trace recorded by github.com/pkg/errors in err's chain,
// or an empty string.
func TraceOf(err error) string {
	var trace string
	for err != nil {
		if tracer, ok := err.(stackTracer); ok {
			trace = strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace()))
		}
		err = errors.Unwrap(err)
	}
	return trace
}
