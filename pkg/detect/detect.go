// Package detect turns raw model output into normalized object detections.
//
// The inference model is opaque behind the Model interface; this package
// owns thresholding, box normalization, distance estimation and label
// mapping. Detections live for one capture cycle and are never persisted.
package detect

import (
	"context"
	"fmt"

	"github.com/irislabs/go-iris/pkg/frame"
)

// DefaultConfidenceThreshold drops detections the model is not sure about.
// A detection at exactly the threshold is kept.
const DefaultConfidenceThreshold = 0.5

// DistanceFallbackMeters is reported when the box height is zero:
// "far or unknown", never a division by zero.
const DistanceFallbackMeters = 10.0

// Box is a bounding box in normalized [0,1] image coordinates.
type Box struct {
	X, Y float64 // top-left corner
	W, H float64 // always >= 0
}

// Detection is one detected object, normalized and labeled.
type Detection struct {
	Label      string
	Confidence float64
	Box        Box
	// Distance is the estimated distance to the object in meters.
	Distance float64
}

// RawDetection is what the model emits: a class index, a score, and a
// box in (y1,x1,y2,x2) form, all in normalized coordinates.
type RawDetection struct {
	ClassIndex     int
	Score          float64
	Y1, X1, Y2, X2 float64
}

// Model is the opaque inference function behind the detector.
type Model interface {
	// Infer runs the model on a frame. Failures are wrapped into
	// *InferenceError by the Detector.
	Infer(f *frame.Frame) ([]RawDetection, error)

	// Close releases model resources.
	Close() error
}

// Config holds the fixed estimation constants.
type Config struct {
	ConfidenceThreshold float64
	// Distance model: distance = (AssumedObjectHeight * FocalLength) /
	// (boxHeight * FrameReferenceDim).
	AssumedObjectHeight float64 // meters
	FocalLength         float64
	FrameReferenceDim   float64
}

// DefaultConfig returns the production estimation constants.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		AssumedObjectHeight: 1.5,
		FocalLength:         800,
		FrameReferenceDim:   1000,
	}
}

// Detector normalizes raw model output into Detections.
type Detector struct {
	model  Model
	config Config
}

// New creates a Detector around an inference model.
func New(model Model, cfg Config) *Detector {
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return &Detector{model: model, config: cfg}
}

// Detect runs inference and returns normalized detections in model order.
// Detections below the confidence threshold are dropped, never surfaced.
func (d *Detector) Detect(ctx context.Context, f *frame.Frame) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, &InferenceError{Reason: "cancelled", Err: err}
	}
	if !f.Valid() {
		return nil, &InferenceError{Reason: "malformed frame"}
	}

	raw, err := d.model.Infer(f)
	if err != nil {
		return nil, &InferenceError{Reason: "model unavailable", Err: err}
	}

	dets := make([]Detection, 0, len(raw))
	for _, r := range raw {
		if r.Score < d.config.ConfidenceThreshold {
			continue
		}
		box := normalizeBox(r)
		dets = append(dets, Detection{
			Label:      Label(r.ClassIndex),
			Confidence: r.Score,
			Box:        box,
			Distance:   d.estimateDistance(box.H),
		})
	}
	return dets, nil
}

// Close releases the underlying model.
func (d *Detector) Close() error {
	return d.model.Close()
}

// normalizeBox converts (y1,x1,y2,x2) to (x,y,w,h), clamping negative
// width/height from malformed model output to zero.
func normalizeBox(r RawDetection) Box {
	w := r.X2 - r.X1
	h := r.Y2 - r.Y1
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Box{X: r.X1, Y: r.Y1, W: w, H: h}
}

// estimateDistance applies the pinhole approximation. Zero box height
// yields the fixed far/unknown fallback.
func (d *Detector) estimateDistance(boxHeight float64) float64 {
	if boxHeight <= 0 {
		return DistanceFallbackMeters
	}
	return (d.config.AssumedObjectHeight * d.config.FocalLength) /
		(boxHeight * d.config.FrameReferenceDim)
}

// InferenceError reports a failed inference call.
type InferenceError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("inference: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *InferenceError) Unwrap() error {
	return e.Err
}
