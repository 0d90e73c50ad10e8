package narrate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/narrate"
)

func TestLocalDescribe(t *testing.T) {
	local := narrate.NewLocal()
	ctx := context.Background()

	t.Run("no objects yields the fixed fallback sentence", func(t *testing.T) {
		res, err := local.Generate(ctx, narrate.Request{Kind: narrate.KindDescribe, Scene: summaryWith()})
		if err != nil {
			t.Fatalf("local provider must not fail: %v", err)
		}
		if res.Text != "I don't see any objects around you right now." {
			t.Errorf("unexpected fallback sentence: %q", res.Text)
		}
		if res.Source != narrate.SourceLocal {
			t.Errorf("expected local source, got %s", res.Source)
		}
	})

	t.Run("boundary object at 2.0 meters counts as close", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{
			Kind:  narrate.KindDescribe,
			Scene: summaryWith(detect.Detection{Label: "dog", Distance: 2.0}),
		})
		if !strings.Contains(res.Text, "Close to you: dog.") {
			t.Errorf("expected dog in close group: %q", res.Text)
		}
	})

	t.Run("confidence is the designed local constant", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{Kind: narrate.KindDescribe, Scene: summaryWith()})
		if res.Confidence != narrate.LocalDescribeConfidence {
			t.Errorf("expected %f, got %f", narrate.LocalDescribeConfidence, res.Confidence)
		}
	})
}

func TestLocalGuide(t *testing.T) {
	local := narrate.NewLocal()
	ctx := context.Background()

	t.Run("target found reports direction and distance", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{
			Kind:   narrate.KindGuide,
			Target: "chair",
			Scene: summaryWith(detect.Detection{
				Label:    "chair",
				Distance: 2.4,
				Box:      detect.Box{X: 0.7, W: 0.2},
			}),
		})
		if !strings.Contains(res.Text, "to your right") {
			t.Errorf("expected right direction: %q", res.Text)
		}
		if !strings.Contains(res.Text, "2.4 meters") {
			t.Errorf("expected distance: %q", res.Text)
		}
		if res.Confidence != narrate.LocalGuideConfidence {
			t.Errorf("expected guide confidence, got %f", res.Confidence)
		}
	})

	t.Run("centered target is ahead", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{
			Kind:   narrate.KindGuide,
			Target: "door",
			Scene: summaryWith(detect.Detection{
				Label: "door", Distance: 3, Box: detect.Box{X: 0.4, W: 0.2},
			}),
		})
		if !strings.Contains(res.Text, "ahead") {
			t.Errorf("expected ahead: %q", res.Text)
		}
	})

	t.Run("missing target yields the not-in-view sentence", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{
			Kind:   narrate.KindGuide,
			Target: "chair",
			Scene:  summaryWith(detect.Detection{Label: "couch", Distance: 3}),
		})
		if res.Text != "I can't see a chair in view right now." {
			t.Errorf("unexpected sentence: %q", res.Text)
		}
	})
}

func TestLocalAnswer(t *testing.T) {
	local := narrate.NewLocal()
	ctx := context.Background()

	t.Run("enumerates visible objects", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{
			Kind:     narrate.KindAnswer,
			Question: "where am I?",
			Scene: summaryWith(
				detect.Detection{Label: "chair", Distance: 1},
				detect.Detection{Label: "tv", Distance: 3},
			),
		})
		if !strings.Contains(res.Text, "chair and tv") {
			t.Errorf("expected object enumeration: %q", res.Text)
		}
		if !strings.Contains(res.Text, "indoor") {
			t.Errorf("expected scene type: %q", res.Text)
		}
	})

	t.Run("includes detected text when present", func(t *testing.T) {
		res, _ := local.Generate(ctx, narrate.Request{
			Kind:         narrate.KindAnswer,
			Question:     "what does the sign say?",
			DetectedText: "EXIT",
			Scene:        summaryWith(detect.Detection{Label: "stop sign", Distance: 5}),
		})
		if !strings.Contains(res.Text, "EXIT") {
			t.Errorf("expected detected text: %q", res.Text)
		}
	})
}

func TestLocalIsAlwaysAvailable(t *testing.T) {
	if !narrate.NewLocal().Available() {
		t.Error("local provider must always be available")
	}
}
