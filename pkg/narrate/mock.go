package narrate

import (
	"context"
	"sync"
)

// MockProvider is a scriptable Provider for tests. It records every
// request it receives.
type MockProvider struct {
	name      string
	available bool

	mu       sync.Mutex
	result   *Result
	err      error
	requests []Request
}

// NewMock creates an available mock returning the given result.
func NewMock(name string, result *Result) *MockProvider {
	return &MockProvider{name: name, available: true, result: result}
}

// MockWithError creates an available mock whose Generate always fails.
func MockWithError(name string, err error) *MockProvider {
	return &MockProvider{name: name, available: true, err: err}
}

// MockUnavailable creates a mock that reports itself unavailable.
func MockUnavailable(name string) *MockProvider {
	return &MockProvider{name: name, available: false}
}

// Name identifies the provider in logs.
func (m *MockProvider) Name() string {
	return m.name
}

// Available reports the scripted availability.
func (m *MockProvider) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// SetAvailable flips the scripted availability.
func (m *MockProvider) SetAvailable(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = v
}

// Generate records the request and returns the scripted outcome.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, ErrEmptyCompletion
	}
	out := *m.result
	return &out, nil
}

// Requests returns the recorded requests.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns how many Generate calls were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Verify MockProvider implements Provider at compile time.
var _ Provider = (*MockProvider)(nil)
