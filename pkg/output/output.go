// Package output sequences spoken narration and haptic feedback.
//
// The two channels are independent: voice and haptics may overlap each
// other, but each channel serializes its own work. Platform failures in
// either channel are logged and swallowed; announcing is best-effort by
// design and never fails a capture cycle.
package output

import (
	"context"
	"log/slog"
)

// Speaker is the platform text-to-speech collaborator. Speak blocks
// until the utterance completes or ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text string, rate, pitch float64) error
}

// HapticDriver is the platform impact-feedback collaborator.
type HapticDriver interface {
	TriggerImpact(ctx context.Context, intensity float64) error
}

// Sequencer composes the voice and haptic channels behind one
// announce operation.
type Sequencer struct {
	voice  *VoiceChannel
	haptic *HapticChannel
	logger *slog.Logger
}

// NewSequencer creates a sequencer over the given platform collaborators.
func NewSequencer(speaker Speaker, driver HapticDriver, rate, pitch float64) *Sequencer {
	logger := slog.Default().With("component", "output")
	return &Sequencer{
		voice:  newVoiceChannel(speaker, rate, pitch, logger),
		haptic: newHapticChannel(driver, logger),
		logger: logger,
	}
}

// Announce speaks text and plays a haptic pattern together. Empty text
// skips the voice channel; PatternNone skips haptics. Returns as soon as
// both channels have accepted the work. Accepted speech outlives ctx;
// only a later priority announcement or Close can stop it.
func (s *Sequencer) Announce(ctx context.Context, text string, pattern Pattern, priority bool) {
	if pattern != PatternNone {
		go s.haptic.Trigger(ctx, pattern)
	}
	if text != "" {
		s.voice.Speak(text, priority)
	}
}

// Haptic plays a pattern without speech (silent cycles).
func (s *Sequencer) Haptic(ctx context.Context, pattern Pattern) {
	go s.haptic.Trigger(ctx, pattern)
}

// Speaking reports whether an utterance is currently in progress.
func (s *Sequencer) Speaking() bool {
	return s.voice.Speaking()
}

// QueueLen reports how many utterances are waiting.
func (s *Sequencer) QueueLen() int {
	return s.voice.QueueLen()
}

// Close stops any in-flight utterance and shuts the voice channel down.
func (s *Sequencer) Close() {
	s.voice.Close()
}
