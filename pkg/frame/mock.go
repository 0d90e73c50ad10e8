package frame

import (
	"context"
	"sync"
	"time"
)

// MockSource is a scriptable Source for tests. Frames and errors are
// returned in the order they were queued; when the queue is empty the
// last frame repeats.
type MockSource struct {
	mu     sync.Mutex
	queue  []captureResult
	last   *Frame
	calls  int
	closed bool
}

type captureResult struct {
	frame *Frame
	err   error
}

// NewMockSource creates an empty mock source.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// QueueFrame appends a frame to be returned by a future Capture call.
func (m *MockSource) QueueFrame(f *Frame) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, captureResult{frame: f})
	return m
}

// QueueError appends an error to be returned by a future Capture call.
func (m *MockSource) QueueError(err error) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, captureResult{err: err})
	return m
}

// Capture returns the next queued result.
func (m *MockSource) Capture(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CaptureError{Reason: "cancelled", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		if next.err != nil {
			return nil, next.err
		}
		m.last = next.frame
		return next.frame, nil
	}

	if m.last != nil {
		return m.last, nil
	}
	return nil, &CaptureError{Reason: "no frames queued"}
}

// Captures returns how many times Capture was called.
func (m *MockSource) Captures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SolidFrame builds a w x h frame filled with a single RGB color.
// Useful for driving the classifier's brightness and color paths.
func SolidFrame(w, h int, r, g, b byte) *Frame {
	pixels := make([]byte, w*h*3)
	for i := 0; i < len(pixels); i += 3 {
		pixels[i] = r
		pixels[i+1] = g
		pixels[i+2] = b
	}
	return &Frame{
		Pixels:     pixels,
		Width:      w,
		Height:     h,
		CapturedAt: time.Now(),
	}
}

// Verify MockSource implements Source at compile time.
var _ Source = (*MockSource)(nil)
