// Package textrec defines the text-recognition collaborator contract.
//
// The shipped implementation is a stub that recognizes nothing. That is
// a known limitation of the current device build, not an error path:
// an empty result is a legitimate "no text in view" answer.
package textrec

import (
	"context"
	"sort"
	"strings"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/frame"
)

// Region is one piece of recognized text with its location.
type Region struct {
	Text       string
	Confidence float64
	Box        detect.Box
}

// Recognizer finds text in a frame. An empty slice means no text,
// not a failure.
type Recognizer interface {
	Recognize(ctx context.Context, f *frame.Frame) ([]Region, error)
}

// Stub is the placeholder recognizer. It always returns no regions.
type Stub struct{}

// NewStub creates the placeholder recognizer.
func NewStub() *Stub {
	return &Stub{}
}

// Recognize always returns an empty result.
func (s *Stub) Recognize(ctx context.Context, f *frame.Frame) ([]Region, error) {
	return nil, nil
}

// Organize orders regions top-to-bottom, then left-to-right, and joins
// their text into one speakable string.
func Organize(regions []Region) string {
	if len(regions) == 0 {
		return ""
	}

	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool {
		// rows within half a box height of each other read as one line
		if diff := sorted[i].Box.Y - sorted[j].Box.Y; diff > 0.02 || diff < -0.02 {
			return sorted[i].Box.Y < sorted[j].Box.Y
		}
		return sorted[i].Box.X < sorted[j].Box.X
	})

	parts := make([]string, 0, len(sorted))
	for _, r := range sorted {
		if t := strings.TrimSpace(r.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Verify Stub implements Recognizer at compile time.
var _ Recognizer = (*Stub)(nil)
