// Package narrate turns scene summaries into spoken text.
//
// Providers implement one Generate call covering three narration kinds:
// scene description, navigation guidance toward a named target, and
// free-form question answering. The Chain tries providers in order;
// the local template provider is always last and cannot fail, so a
// narration request always yields text.
package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/irislabs/go-iris/pkg/scene"
)

// Kind selects the narration sub-operation.
type Kind string

const (
	// KindDescribe narrates the current scene.
	KindDescribe Kind = "describe"
	// KindGuide gives directions toward a named target object.
	KindGuide Kind = "guide"
	// KindAnswer answers a free-form question about the scene.
	KindAnswer Kind = "answer"
)

// Source identifies which tier produced a narration.
type Source string

const (
	SourceCloud Source = "cloud"
	SourceLocal Source = "local"
)

// Designed trust levels per source and kind. These are fixed by design,
// not computed from model output.
const (
	CloudDescribeConfidence = 0.95
	CloudGuideConfidence    = 0.96
	CloudAnswerConfidence   = 0.98

	LocalDescribeConfidence = 0.80
	LocalGuideConfidence    = 0.85
	LocalAnswerConfidence   = 0.75
)

// Request carries everything a provider needs for one narration.
type Request struct {
	Kind  Kind
	Scene scene.Summary

	// DetectedText is recognized text to fold into the narration, if any.
	DetectedText string

	// Target names the object to navigate toward (KindGuide).
	Target string

	// Question is the user's question (KindAnswer).
	Question string

	// Image is the captured JPEG for vision-capable cloud providers.
	Image []byte
}

// Result is a successful narration. Text is always non-empty; failures
// are returned as errors, never as empty results.
type Result struct {
	Text          string
	Confidence    float64
	Source        Source
	LatencyMillis int64
}

// Provider produces narration text for a request.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Available reports whether the provider can currently be tried.
	Available() bool

	// Generate produces a narration or an error.
	Generate(ctx context.Context, req Request) (*Result, error)
}

// sceneContext renders a summary as prompt text for cloud providers.
func sceneContext(s scene.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scene type: %s. Lighting: %s.", s.SceneType, s.Lighting)

	if len(s.Objects) == 0 {
		b.WriteString(" No objects detected.")
		return b.String()
	}

	b.WriteString(" Detected objects:")
	for _, obj := range s.Objects {
		fmt.Fprintf(&b, " %s at %.1f meters (confidence %.2f);", obj.Label, obj.Distance, obj.Confidence)
	}
	return b.String()
}

// promptFor builds the cloud prompt for a request.
func promptFor(req Request) string {
	ctx := sceneContext(req.Scene)

	switch req.Kind {
	case KindGuide:
		return fmt.Sprintf(
			"You are guiding a blind user toward a %q. %s Give one short spoken "+
				"instruction with direction and distance. Do not mention confidence values.",
			req.Target, ctx)
	case KindAnswer:
		prompt := fmt.Sprintf(
			"You are the eyes of a blind user. %s Answer the user's question in one "+
				"or two short spoken sentences. Question: %s",
			ctx, req.Question)
		if req.DetectedText != "" {
			prompt += " Visible text: " + req.DetectedText
		}
		return prompt
	default:
		return fmt.Sprintf(
			"You are the eyes of a blind user. %s Describe the surroundings in one or "+
				"two short spoken sentences, nearest objects first. Do not mention "+
				"confidence values or coordinates.",
			ctx)
	}
}

// cloudConfidence returns the designed trust level for a cloud narration.
func cloudConfidence(kind Kind) float64 {
	switch kind {
	case KindGuide:
		return CloudGuideConfidence
	case KindAnswer:
		return CloudAnswerConfidence
	default:
		return CloudDescribeConfidence
	}
}
