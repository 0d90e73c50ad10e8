package detect

import (
	"sync"

	"github.com/irislabs/go-iris/pkg/frame"
)

// MockModel is a scriptable Model for tests.
type MockModel struct {
	mu     sync.Mutex
	raw    []RawDetection
	err    error
	infers int
	closed bool
}

// NewMockModel creates a mock that returns the given raw detections.
func NewMockModel(raw ...RawDetection) *MockModel {
	return &MockModel{raw: raw}
}

// ModelWithError creates a mock whose Infer always fails.
func ModelWithError(err error) *MockModel {
	return &MockModel{err: err}
}

// Infer returns the scripted detections or error.
func (m *MockModel) Infer(f *frame.Frame) ([]RawDetection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infers++
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

// SetRaw replaces the scripted detections.
func (m *MockModel) SetRaw(raw ...RawDetection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = raw
}

// Infers returns how many times Infer was called.
func (m *MockModel) Infers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infers
}

// Close marks the model closed.
func (m *MockModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Verify MockModel implements Model at compile time.
var _ Model = (*MockModel)(nil)
