package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/irislabs/go-iris/pkg/detect"
)

// CloseDistanceMeters is the boundary between the "close" and "far"
// groups in the local description template.
const CloseDistanceMeters = 2.0

// Local is the on-device template provider. It is pure string
// formatting: always available, never fails, and therefore terminates
// every chain it sits at the end of.
type Local struct{}

// NewLocal creates the local template provider.
func NewLocal() *Local {
	return &Local{}
}

// Name identifies the provider in logs.
func (l *Local) Name() string {
	return "local"
}

// Available always reports true.
func (l *Local) Available() bool {
	return true
}

// Generate expands the fixed template for the request kind.
func (l *Local) Generate(ctx context.Context, req Request) (*Result, error) {
	switch req.Kind {
	case KindGuide:
		return &Result{
			Text:       l.guide(req),
			Confidence: LocalGuideConfidence,
			Source:     SourceLocal,
		}, nil
	case KindAnswer:
		return &Result{
			Text:       l.answer(req),
			Confidence: LocalAnswerConfidence,
			Source:     SourceLocal,
		}, nil
	default:
		return &Result{
			Text:       l.describe(req),
			Confidence: LocalDescribeConfidence,
			Source:     SourceLocal,
		}, nil
	}
}

// describe enumerates objects grouped by distance.
func (l *Local) describe(req Request) string {
	objects := req.Scene.Objects
	if len(objects) == 0 {
		return "I don't see any objects around you right now."
	}

	var near, far []string
	for _, obj := range objects {
		if obj.Distance <= CloseDistanceMeters {
			near = append(near, obj.Label)
		} else {
			far = append(far, obj.Label)
		}
	}

	var parts []string
	if len(near) > 0 {
		parts = append(parts, "Close to you: "+joinLabels(near)+".")
	}
	if len(far) > 0 {
		parts = append(parts, "Farther away: "+joinLabels(far)+".")
	}
	return strings.Join(parts, " ")
}

// guide points the user toward the first detection matching the target.
func (l *Local) guide(req Request) string {
	target := strings.ToLower(strings.TrimSpace(req.Target))
	if target == "" {
		return "Tell me what to look for first."
	}

	var found *detect.Detection
	for i := range req.Scene.Objects {
		if req.Scene.Objects[i].Label == target {
			found = &req.Scene.Objects[i]
			break
		}
	}
	if found == nil {
		return fmt.Sprintf("I can't see a %s in view right now.", target)
	}

	direction := "ahead"
	center := found.Box.X + found.Box.W/2
	if center < 0.4 {
		direction = "to your left"
	} else if center > 0.6 {
		direction = "to your right"
	}

	return fmt.Sprintf("The %s is %s, about %.1f meters away.", target, direction, found.Distance)
}

// answer enumerates the scene as raw material for the user's question.
func (l *Local) answer(req Request) string {
	if len(req.Scene.Objects) == 0 {
		return "I don't see anything right now that helps me answer that."
	}

	labels := make([]string, len(req.Scene.Objects))
	for i, obj := range req.Scene.Objects {
		labels[i] = obj.Label
	}

	text := fmt.Sprintf("I can see %s in a %s scene.", joinLabels(labels), req.Scene.SceneType)
	if req.DetectedText != "" {
		text += " There is also some text: " + req.DetectedText
	}
	return text
}

// joinLabels renders "a", "a and b", or "a, b and c".
func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}

// Verify Local implements Provider at compile time.
var _ Provider = (*Local)(nil)
