package reporting

import (
	"reflect"
	"sync"
)

// Extensions is the registered extension set, unique by concrete type.
type Extensions struct {
	mu    sync.RWMutex
	items []Extension
}

// NewExtensions ...
func NewExtensions() *Extensions {
	return &Extensions{}
}

// Add registers extension unless it is nil or an extension of the same concrete type is already present.
func (e *Extensions) Add(extension Extension) bool {
	if extension == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t := reflect.TypeOf(extension)
	for _, item := range e.items {
		if reflect.TypeOf(item) == t {
			return false
		}
	}
	e.items = append(e.items, extension)
	return true
}

// All returns a copy of the registered extensions in registration order.
func (e *Extensions) All() []Extension {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]Extension(nil), e.items...)
}

// ScreenCapturers returns the extensions able to capture screenshots.
func (e *Extensions) ScreenCapturers() []ScreenCapturer {
	var capturers []ScreenCapturer
	for _, extension := range e.All() {
		if capturer, ok := extension.(ScreenCapturer); ok {
			capturers = append(capturers, capturer)
		}
	}
	return capturers
}

// Clear ...
func (e *Extensions) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
}
