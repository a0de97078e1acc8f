package reporting

import "sync"

// Property is a key of the shared property set.
type Property string

// Known property keys.
const (
	TestTitle        Property = "TestTitle"
	TestDuration     Property = "TestDuration"
	TestStatus       Property = "TestStatus"
	TestClassName    Property = "TestClassName"
	SuiteTitle       Property = "SuiteTitle"
	WorkingDirectory Property = "WorkingDirectory"
)

// Properties is a concurrency safe key-value set. Setting a key to the empty string removes it.
type Properties struct {
	mu     sync.RWMutex
	values map[Property]string
}

// NewProperties ...
func NewProperties() *Properties {
	return &Properties{values: map[Property]string{}}
}

// Set stores value under key, or removes key when value is empty.
func (p *Properties) Set(key Property, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value == "" {
		delete(p.values, key)
		return
	}
	p.values[key] = value
}

// Get returns the value of key, or fallback when the key is not set.
func (p *Properties) Get(key Property, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if value, ok := p.values[key]; ok {
		return value
	}
	return fallback
}

// Has ...
func (p *Properties) Has(key Property) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.values[key]
	return ok
}

// Delete removes every given key.
func (p *Properties) Delete(keys ...Property) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, key := range keys {
		delete(p.values, key)
	}
}

// Clear ...
func (p *Properties) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.values = map[Property]string{}
}

// Snapshot returns a copy of the current values.
func (p *Properties) Snapshot() map[Property]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snapshot := make(map[Property]string, len(p.values))
	for key, value := range p.values {
		snapshot[key] = value
	}
	return snapshot
}
