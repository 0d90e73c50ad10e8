// Package orchestrator drives the capture-to-announce pipeline.
//
// One Orchestrator owns the operating mode and the single-flight guard.
// Two triggers feed it: a periodic timer (Scene mode only, silent
// cycles) and on-demand user triggers (vocal cycles). A trigger that
// arrives while a cycle is in flight is dropped, never queued.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/frame"
	"github.com/irislabs/go-iris/pkg/narrate"
	"github.com/irislabs/go-iris/pkg/output"
	"github.com/irislabs/go-iris/pkg/scene"
	"github.com/irislabs/go-iris/pkg/textrec"
)

// Fixed phrases for user-visible failures.
const (
	phraseCameraUnavailable  = "Camera unavailable."
	phraseVisionUnavailable  = "Vision unavailable."
	phraseReadingUnavailable = "Text reading unavailable."
	phraseNoText             = "No text detected."
)

// DefaultInterval paces the periodic scene scan.
const DefaultInterval = 2 * time.Second

// Event describes one finished cycle for observers (the web surface).
type Event struct {
	CycleID   string          `json:"cycle_id"`
	Mode      Mode            `json:"mode"`
	Vocal     bool            `json:"vocal"`
	Summary   *scene.Summary  `json:"summary,omitempty"`
	Narration *narrate.Result `json:"narration,omitempty"`
	Error     string          `json:"error,omitempty"`
	At        time.Time       `json:"at"`
}

// Config wires an Orchestrator's collaborators.
type Config struct {
	Source   frame.Source
	Detector *detect.Detector
	Narrator narrate.Provider
	Output   *output.Sequencer
	TextRec  textrec.Recognizer

	// Interval paces periodic scene cycles. Zero means DefaultInterval.
	Interval time.Duration
	// NarrationTimeout bounds the cloud round trip within a vocal cycle.
	NarrationTimeout time.Duration

	// OnCycle, when set, receives an Event after every executed cycle.
	OnCycle func(Event)

	// OnFrame, when set, receives the captured JPEG of every cycle,
	// feeding the companion app's live view.
	OnFrame func(jpeg []byte)
}

// Orchestrator is the top-level pipeline driver.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger

	// mode and target are mutated only through SwitchMode/SetTarget.
	mu     sync.RWMutex
	mode   Mode
	target string

	// inFlight is the single-flight guard: true while one
	// capture-to-announce cycle runs.
	inFlight sync.Mutex
	busy     bool
}

// New creates an orchestrator in Scene mode.
func New(cfg Config) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.NarrationTimeout <= 0 {
		cfg.NarrationTimeout = 10 * time.Second
	}
	return &Orchestrator{
		cfg:    cfg,
		logger: slog.Default().With("component", "orchestrator"),
		mode:   ModeScene,
	}
}

// SetOnCycle installs the cycle observer. Call before Run.
func (o *Orchestrator) SetOnCycle(fn func(Event)) {
	o.cfg.OnCycle = fn
}

// SetOnFrame installs the frame observer. Call before Run.
func (o *Orchestrator) SetOnFrame(fn func(jpeg []byte)) {
	o.cfg.OnFrame = fn
}

// Mode returns the active operating mode.
func (o *Orchestrator) Mode() Mode {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.mode
}

// Busy reports whether a cycle is currently in flight.
func (o *Orchestrator) Busy() bool {
	o.inFlight.Lock()
	defer o.inFlight.Unlock()
	return o.busy
}

// SetTarget names the object Navigate mode guides toward.
func (o *Orchestrator) SetTarget(target string) {
	o.mu.Lock()
	o.target = target
	o.mu.Unlock()
}

// Target returns the current navigation target.
func (o *Orchestrator) Target() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.target
}

// SwitchMode changes the operating mode synchronously and announces the
// fixed confirmation phrase. It never waits for an in-flight cycle.
func (o *Orchestrator) SwitchMode(ctx context.Context, mode Mode) {
	o.mu.Lock()
	prev := o.mode
	o.mode = mode
	o.mu.Unlock()

	o.logger.Info("mode switched", "from", prev, "to", mode)
	o.cfg.Output.Announce(ctx, mode.Confirmation(), output.PatternSuccess, true)
}

// Run drives periodic silent cycles until ctx is cancelled.
// Only Scene mode scans periodically.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	o.logger.Info("orchestrator running", "interval", o.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator stopped")
			return
		case <-ticker.C:
			if o.Mode() == ModeScene {
				o.runCycle(ctx, false, "")
			}
		}
	}
}

// Describe runs one on-demand vocal cycle in the current mode.
// Returns false when the trigger was dropped by the single-flight guard.
func (o *Orchestrator) Describe(ctx context.Context) bool {
	return o.runCycle(ctx, true, "")
}

// Ask runs one vocal cycle that answers a free-form question about the
// current scene. Returns false when the trigger was dropped.
func (o *Orchestrator) Ask(ctx context.Context, question string) bool {
	return o.runCycle(ctx, true, question)
}

// acquire takes the single-flight guard. A false return means a cycle
// is already running and this trigger must be dropped.
func (o *Orchestrator) acquire() bool {
	o.inFlight.Lock()
	defer o.inFlight.Unlock()
	if o.busy {
		return false
	}
	o.busy = true
	return true
}

func (o *Orchestrator) release() {
	o.inFlight.Lock()
	o.busy = false
	o.inFlight.Unlock()
}

// runCycle executes one capture-to-announce cycle. The guard is released
// on every exit path; a wedged guard would silence the device for good.
func (o *Orchestrator) runCycle(ctx context.Context, vocal bool, question string) bool {
	if !o.acquire() {
		o.logger.Debug("cycle in flight, trigger dropped")
		return false
	}
	defer o.release()

	cycleID := uuid.NewString()[:8]
	mode := o.Mode()
	logger := o.logger.With("cycle", cycleID, "mode", mode, "vocal", vocal)

	event := Event{CycleID: cycleID, Mode: mode, Vocal: vocal, At: time.Now()}
	defer func() {
		if o.cfg.OnCycle != nil {
			o.cfg.OnCycle(event)
		}
	}()

	f, err := o.cfg.Source.Capture(ctx)
	if err != nil {
		logger.Error("capture failed", "error", err)
		event.Error = err.Error()
		o.cfg.Output.Announce(ctx, phraseCameraUnavailable, output.PatternError, false)
		return true
	}

	if o.cfg.OnFrame != nil && len(f.JPEG) > 0 {
		o.cfg.OnFrame(f.JPEG)
	}

	dets, err := o.cfg.Detector.Detect(ctx, f)
	if err != nil {
		logger.Error("detection failed", "error", err)
		event.Error = err.Error()
		o.cfg.Output.Announce(ctx, phraseVisionUnavailable, output.PatternError, false)
		return true
	}

	// a question always narrates the scene, whatever mode is active
	if question != "" {
		o.sceneCycle(ctx, logger, f, dets, vocal, question, &event)
		return true
	}

	switch mode {
	case ModeText:
		o.textCycle(ctx, logger, f, &event)
	case ModeNavigate:
		o.navigateCycle(ctx, logger, f, dets, vocal, &event)
	default:
		o.sceneCycle(ctx, logger, f, dets, vocal, question, &event)
	}
	return true
}

// sceneCycle classifies the frame and, on vocal cycles, narrates it.
func (o *Orchestrator) sceneCycle(ctx context.Context, logger *slog.Logger, f *frame.Frame, dets []detect.Detection, vocal bool, question string, event *Event) {
	summary := scene.Classify(dets, frame.ComputeStats(f), f.CapturedAt)
	event.Summary = &summary

	logger.Debug("scene classified",
		"objects", len(summary.Objects),
		"scene", summary.SceneType,
		"lighting", summary.Lighting,
	)

	if !vocal {
		// Silent cycle: haptic cue only, no narration.
		if len(summary.Objects) > 0 {
			o.cfg.Output.Haptic(ctx, output.PatternObjectDetected)
		}
		return
	}

	req := narrate.Request{Kind: narrate.KindDescribe, Scene: summary, Image: f.JPEG}
	if question != "" {
		req.Kind = narrate.KindAnswer
		req.Question = question
	}

	res := o.narrate(ctx, logger, req)
	event.Narration = res

	pattern := output.PatternNone
	if len(summary.Objects) > 0 {
		pattern = output.PatternObjectDetected
	}
	o.cfg.Output.Announce(ctx, res.Text, pattern, false)
}

// navigateCycle is a scene cycle that additionally speaks guidance
// toward the named target.
func (o *Orchestrator) navigateCycle(ctx context.Context, logger *slog.Logger, f *frame.Frame, dets []detect.Detection, vocal bool, event *Event) {
	summary := scene.Classify(dets, frame.ComputeStats(f), f.CapturedAt)
	event.Summary = &summary

	if !vocal {
		if len(summary.Objects) > 0 {
			o.cfg.Output.Haptic(ctx, output.PatternNavigationCue)
		}
		return
	}

	res := o.narrate(ctx, logger, narrate.Request{
		Kind:   narrate.KindGuide,
		Scene:  summary,
		Target: o.Target(),
		Image:  f.JPEG,
	})
	event.Narration = res

	o.cfg.Output.Announce(ctx, res.Text, output.PatternNavigationCue, false)
}

// textCycle reads text in view and speaks it, or reports that none
// was found. An empty recognizer result is not an error; a recognizer
// failure gets its own phrase so the user can tell the two apart.
func (o *Orchestrator) textCycle(ctx context.Context, logger *slog.Logger, f *frame.Frame, event *Event) {
	regions, err := o.cfg.TextRec.Recognize(ctx, f)
	if err != nil {
		logger.Warn("text recognition failed", "error", err)
		event.Error = err.Error()
		o.cfg.Output.Announce(ctx, phraseReadingUnavailable, output.PatternError, false)
		return
	}

	organized := textrec.Organize(regions)
	if organized == "" {
		o.cfg.Output.Announce(ctx, phraseNoText, output.PatternNone, false)
		return
	}

	logger.Debug("text recognized", "chars", len(organized))
	o.cfg.Output.Announce(ctx, organized, output.PatternTextFound, false)
}

// narrate runs the fallback chain with the configured timeout bounding
// the cloud round trip. The chain cannot fail with the local template
// provider last; the guard below covers a misconfigured chain.
func (o *Orchestrator) narrate(ctx context.Context, logger *slog.Logger, req narrate.Request) *narrate.Result {
	narrCtx, cancel := context.WithTimeout(ctx, o.cfg.NarrationTimeout)
	defer cancel()

	res, err := o.cfg.Narrator.Generate(narrCtx, req)
	if err != nil {
		var chainErr *narrate.ChainError
		if errors.As(err, &chainErr) {
			logger.Error("narration chain exhausted", "error", err)
		} else {
			logger.Error("narration failed", "error", err)
		}
		return &narrate.Result{
			Text:       phraseVisionUnavailable,
			Confidence: 0,
			Source:     narrate.SourceLocal,
		}
	}

	logger.Info("narration generated",
		"source", res.Source,
		"latency_ms", res.LatencyMillis,
		"chars", len(res.Text),
	)
	return res
}
