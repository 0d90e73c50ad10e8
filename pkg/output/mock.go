package output

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MockSpeaker is a Speaker for tests. Each utterance takes Delay to
// complete unless its context is cancelled first.
type MockSpeaker struct {
	Delay time.Duration
	Err   error

	mu        sync.Mutex
	started   []string
	completed []string
	cancelled []string
}

// NewMockSpeaker creates a mock speaker with the given utterance duration.
func NewMockSpeaker(delay time.Duration) *MockSpeaker {
	return &MockSpeaker{Delay: delay}
}

// Speak simulates one utterance.
func (m *MockSpeaker) Speak(ctx context.Context, text string, rate, pitch float64) error {
	m.mu.Lock()
	m.started = append(m.started, text)
	err := m.Err
	m.mu.Unlock()

	if err != nil {
		return err
	}

	select {
	case <-time.After(m.Delay):
		m.mu.Lock()
		m.completed = append(m.completed, text)
		m.mu.Unlock()
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		m.cancelled = append(m.cancelled, text)
		m.mu.Unlock()
		return ctx.Err()
	}
}

// Started returns the utterances that began speaking, in order.
func (m *MockSpeaker) Started() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.started...)
}

// Completed returns the utterances that finished, in order.
func (m *MockSpeaker) Completed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.completed...)
}

// Cancelled returns the utterances that were preempted, in order.
func (m *MockSpeaker) Cancelled() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cancelled...)
}

// MockHaptic is a HapticDriver for tests. It records every pulse.
type MockHaptic struct {
	Err error

	mu     sync.Mutex
	pulses []MockPulse
}

// MockPulse is one recorded impact.
type MockPulse struct {
	Intensity float64
	At        time.Time
}

// NewMockHaptic creates a recording haptic driver.
func NewMockHaptic() *MockHaptic {
	return &MockHaptic{}
}

// TriggerImpact records the pulse.
func (m *MockHaptic) TriggerImpact(ctx context.Context, intensity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.pulses = append(m.pulses, MockPulse{Intensity: intensity, At: time.Now()})
	return nil
}

// Pulses returns the recorded pulses, in order.
func (m *MockHaptic) Pulses() []MockPulse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockPulse(nil), m.pulses...)
}

// LogHaptic is a HapticDriver that only logs; used when the device has
// no vibration hardware attached.
type LogHaptic struct{}

// TriggerImpact logs the pulse.
func (LogHaptic) TriggerImpact(ctx context.Context, intensity float64) error {
	slog.Debug("haptic pulse", "intensity", intensity)
	return nil
}

// Verify the mocks implement their interfaces at compile time.
var (
	_ Speaker      = (*MockSpeaker)(nil)
	_ HapticDriver = (*MockHaptic)(nil)
	_ HapticDriver = LogHaptic{}
)
