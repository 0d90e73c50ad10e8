package output

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// QueueEntry is one pending utterance.
type QueueEntry struct {
	Text       string
	EnqueuedAt time.Time
}

// VoiceChannel serializes speech. Non-priority announcements queue behind
// the current utterance and are never lost; a priority announcement stops
// the current utterance, discards the queue, and speaks next.
//
// Utterance lifetimes belong to the channel, not to whoever announced
// them: a trigger's context (an HTTP request, a finished cycle) dying
// must not silence speech that was already accepted.
type VoiceChannel struct {
	speaker Speaker
	rate    float64
	pitch   float64
	logger  *slog.Logger

	baseCtx context.Context
	stop    context.CancelFunc

	mu       sync.Mutex
	speaking bool
	queue    []QueueEntry
	cancel   context.CancelFunc
}

func newVoiceChannel(speaker Speaker, rate, pitch float64, logger *slog.Logger) *VoiceChannel {
	baseCtx, stop := context.WithCancel(context.Background())
	return &VoiceChannel{
		speaker: speaker,
		rate:    rate,
		pitch:   pitch,
		logger:  logger.With("channel", "voice"),
		baseCtx: baseCtx,
		stop:    stop,
	}
}

// Speak accepts an utterance. It returns immediately; the channel's
// drain loop performs the actual speaking.
func (v *VoiceChannel) Speak(text string, priority bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry := QueueEntry{Text: text, EnqueuedAt: time.Now()}

	if priority {
		// Discard everything pending and stop the current utterance;
		// the drain loop then picks this entry up next.
		v.queue = v.queue[:0]
		v.queue = append(v.queue, entry)
		if v.speaking && v.cancel != nil {
			v.cancel()
		}
	} else {
		v.queue = append(v.queue, entry)
	}

	if !v.speaking {
		v.speaking = true
		go v.drain()
	}
}

// drain speaks queued entries until the queue is empty. Per-utterance
// contexts derive from the channel's own context, so only priority
// preemption or Close cancels an utterance.
func (v *VoiceChannel) drain() {
	for {
		v.mu.Lock()
		v.cancel = nil
		if len(v.queue) == 0 {
			v.speaking = false
			v.mu.Unlock()
			return
		}
		entry := v.queue[0]
		v.queue = v.queue[1:]

		utterCtx, cancel := context.WithCancel(v.baseCtx)
		v.cancel = cancel
		v.mu.Unlock()

		err := v.speaker.Speak(utterCtx, entry.Text, v.rate, v.pitch)
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			v.logger.Debug("utterance preempted", "text", entry.Text)
		default:
			// Platform speech failure: best-effort, keep draining.
			v.logger.Warn("speech failed", "text", entry.Text, "error", err)
		}
	}
}

// Close stops the current utterance and shuts the channel down.
func (v *VoiceChannel) Close() {
	v.stop()
}

// Speaking reports whether an utterance is in progress.
func (v *VoiceChannel) Speaking() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.speaking
}

// QueueLen reports how many utterances are pending.
func (v *VoiceChannel) QueueLen() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}
