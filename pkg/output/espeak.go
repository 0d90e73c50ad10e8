package output

import (
	"context"
	"fmt"
	"os/exec"
)

// ESpeak speaks through the espeak-ng binary. It is the device build's
// Speaker; desktop development usually runs the mock instead.
type ESpeak struct {
	binary string
}

// NewESpeak creates an espeak-backed speaker.
func NewESpeak() *ESpeak {
	return &ESpeak{binary: "espeak-ng"}
}

// Speak runs one utterance and blocks until playback finishes.
// Cancelling ctx kills the process, cutting the utterance short.
func (e *ESpeak) Speak(ctx context.Context, text string, rate, pitch float64) error {
	// espeak speed is words per minute around a 175 baseline;
	// pitch is 0-99 around a 50 baseline.
	args := []string{
		"-s", fmt.Sprintf("%d", int(175*rate)),
		"-p", fmt.Sprintf("%d", int(50*pitch)),
		text,
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak: %w", err)
	}
	return nil
}

// Verify ESpeak implements Speaker at compile time.
var _ Speaker = (*ESpeak)(nil)
