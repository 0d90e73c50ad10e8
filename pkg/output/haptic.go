package output

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// HapticChannel plays pulse patterns on the platform driver. It is
// self-serializing: overlapping triggers run one after another. It is
// fully independent of the voice channel.
type HapticChannel struct {
	driver HapticDriver
	logger *slog.Logger
	mu     sync.Mutex
}

func newHapticChannel(driver HapticDriver, logger *slog.Logger) *HapticChannel {
	return &HapticChannel{
		driver: driver,
		logger: logger.With("channel", "haptic"),
	}
}

// Trigger plays the pattern's pulses in order, honoring each inter-pulse
// delay. Driver failures are logged and swallowed.
func (h *HapticChannel) Trigger(ctx context.Context, pattern Pattern) {
	pulses := pattern.Pulses()
	if len(pulses) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, pulse := range pulses {
		if err := h.driver.TriggerImpact(ctx, pulse.Intensity); err != nil {
			h.logger.Warn("haptic pulse failed", "pattern", pattern, "error", err)
			return
		}
		select {
		case <-time.After(pulse.Delay):
		case <-ctx.Done():
			return
		}
	}
}
