// Package frame provides camera frame capture for go-iris.
//
// A Frame is one captured image plus the statistics the scene classifier
// needs. Sources deliver frames on demand; the orchestrator owns pacing.
package frame

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Frame is a single captured camera image.
// Pixels is packed RGB, row-major, 3 bytes per pixel.
type Frame struct {
	Pixels     []byte
	Width      int
	Height     int
	JPEG       []byte // original encoded form, when the source has one
	CapturedAt time.Time
}

// Stats are the whole-frame statistics derived from pixel data.
type Stats struct {
	// Brightness is the mean luma normalized to [0,1].
	Brightness float64
	// MeanColor is the per-channel mean, rounded to the nearest integer.
	MeanColor [3]uint8
}

// Valid reports whether the frame carries a usable pixel buffer.
func (f *Frame) Valid() bool {
	return f != nil && f.Width > 0 && f.Height > 0 && len(f.Pixels) == f.Width*f.Height*3
}

// ComputeStats derives whole-frame statistics from the pixel buffer.
// An invalid frame yields zero stats (dim, black), never an error:
// the classifier has defaults for missing data.
func ComputeStats(f *Frame) Stats {
	if !f.Valid() {
		return Stats{}
	}

	var sum [3]float64
	n := f.Width * f.Height
	for i := 0; i < n*3; i += 3 {
		sum[0] += float64(f.Pixels[i])
		sum[1] += float64(f.Pixels[i+1])
		sum[2] += float64(f.Pixels[i+2])
	}

	mean := [3]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}

	// Rec. 601 luma weights
	luma := 0.299*mean[0] + 0.587*mean[1] + 0.114*mean[2]

	return Stats{
		Brightness: luma / 255.0,
		MeanColor: [3]uint8{
			uint8(math.Round(mean[0])),
			uint8(math.Round(mean[1])),
			uint8(math.Round(mean[2])),
		},
	}
}

// Source delivers camera frames.
type Source interface {
	// Capture grabs the next frame. Failures are *CaptureError.
	Capture(ctx context.Context) (*Frame, error)

	// Close releases the underlying device or connection.
	Close() error
}

// CaptureError reports a failure to obtain a frame from the device.
type CaptureError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("capture: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *CaptureError) Unwrap() error {
	return e.Err
}
