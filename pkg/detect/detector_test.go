package detect_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/frame"
)

func testFrame() *frame.Frame {
	return frame.SolidFrame(8, 8, 128, 128, 128)
}

func TestDetectConfidenceThreshold(t *testing.T) {
	model := detect.NewMockModel(
		detect.RawDetection{ClassIndex: 0, Score: 0.5, Y1: 0.1, X1: 0.1, Y2: 0.5, X2: 0.5},
		detect.RawDetection{ClassIndex: 2, Score: 0.499, Y1: 0.1, X1: 0.1, Y2: 0.5, X2: 0.5},
		detect.RawDetection{ClassIndex: 56, Score: 0.9, Y1: 0.2, X1: 0.2, Y2: 0.6, X2: 0.6},
	)
	d := detect.New(model, detect.DefaultConfig())

	dets, err := d.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dets) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(dets))
	}
	// boundary: exactly 0.5 is kept, model order preserved
	if dets[0].Label != "person" || dets[0].Confidence != 0.5 {
		t.Errorf("expected person at 0.5 first, got %s %f", dets[0].Label, dets[0].Confidence)
	}
	if dets[1].Label != "chair" {
		t.Errorf("expected chair second, got %s", dets[1].Label)
	}
}

func TestDetectNormalizesBoxes(t *testing.T) {
	t.Run("y1x1y2x2 to xywh", func(t *testing.T) {
		model := detect.NewMockModel(
			detect.RawDetection{ClassIndex: 0, Score: 0.8, Y1: 0.2, X1: 0.1, Y2: 0.6, X2: 0.4},
		)
		d := detect.New(model, detect.DefaultConfig())

		dets, _ := d.Detect(context.Background(), testFrame())
		box := dets[0].Box
		if box.X != 0.1 || box.Y != 0.2 {
			t.Errorf("expected origin (0.1,0.2), got (%f,%f)", box.X, box.Y)
		}
		if math.Abs(box.W-0.3) > 1e-9 || math.Abs(box.H-0.4) > 1e-9 {
			t.Errorf("expected size (0.3,0.4), got (%f,%f)", box.W, box.H)
		}
	})

	t.Run("inverted coordinates clamp to zero size", func(t *testing.T) {
		model := detect.NewMockModel(
			detect.RawDetection{ClassIndex: 0, Score: 0.8, Y1: 0.6, X1: 0.5, Y2: 0.2, X2: 0.1},
		)
		d := detect.New(model, detect.DefaultConfig())

		dets, _ := d.Detect(context.Background(), testFrame())
		if dets[0].Box.W != 0 || dets[0].Box.H != 0 {
			t.Errorf("expected clamped zero size, got (%f,%f)", dets[0].Box.W, dets[0].Box.H)
		}
	})
}

func TestDetectDistanceEstimation(t *testing.T) {
	cfg := detect.DefaultConfig()

	t.Run("distance is finite for any box height", func(t *testing.T) {
		heights := []float64{0.001, 0.1, 0.5, 1.0}
		for _, h := range heights {
			model := detect.NewMockModel(
				detect.RawDetection{ClassIndex: 0, Score: 0.9, Y1: 0, X1: 0, Y2: h, X2: 0.5},
			)
			d := detect.New(model, cfg)
			dets, _ := d.Detect(context.Background(), testFrame())

			dist := dets[0].Distance
			if math.IsNaN(dist) || math.IsInf(dist, 0) {
				t.Errorf("height %f: distance is not finite: %f", h, dist)
			}
		}
	})

	t.Run("zero height yields the fixed fallback", func(t *testing.T) {
		model := detect.NewMockModel(
			detect.RawDetection{ClassIndex: 0, Score: 0.9, Y1: 0.3, X1: 0.1, Y2: 0.3, X2: 0.5},
		)
		d := detect.New(model, cfg)
		dets, _ := d.Detect(context.Background(), testFrame())

		if dets[0].Distance != detect.DistanceFallbackMeters {
			t.Errorf("expected %f fallback, got %f", detect.DistanceFallbackMeters, dets[0].Distance)
		}
	})

	t.Run("taller boxes are closer", func(t *testing.T) {
		model := detect.NewMockModel(
			detect.RawDetection{ClassIndex: 0, Score: 0.9, Y1: 0, X1: 0, Y2: 0.8, X2: 0.5},
			detect.RawDetection{ClassIndex: 0, Score: 0.9, Y1: 0, X1: 0, Y2: 0.2, X2: 0.5},
		)
		d := detect.New(model, cfg)
		dets, _ := d.Detect(context.Background(), testFrame())

		if dets[0].Distance >= dets[1].Distance {
			t.Errorf("expected taller box closer: %f vs %f", dets[0].Distance, dets[1].Distance)
		}
	})
}

func TestLabelMapping(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "person"},
		{2, "car"},
		{56, "chair"},
		{57, "couch"},
		{-1, "unknown"},
		{80, "unknown"},
		{9999, "unknown"},
	}
	for _, tc := range cases {
		if got := detect.Label(tc.index); got != tc.want {
			t.Errorf("Label(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}

func TestDetectErrors(t *testing.T) {
	t.Run("model failure wraps as InferenceError", func(t *testing.T) {
		modelErr := errors.New("model gone")
		d := detect.New(detect.ModelWithError(modelErr), detect.DefaultConfig())

		_, err := d.Detect(context.Background(), testFrame())
		var infErr *detect.InferenceError
		if !errors.As(err, &infErr) {
			t.Fatalf("expected InferenceError, got %v", err)
		}
		if !errors.Is(err, modelErr) {
			t.Error("expected wrapped model error")
		}
	})

	t.Run("malformed frame fails without calling the model", func(t *testing.T) {
		model := detect.NewMockModel()
		d := detect.New(model, detect.DefaultConfig())

		_, err := d.Detect(context.Background(), &frame.Frame{Width: 4, Height: 4})
		var infErr *detect.InferenceError
		if !errors.As(err, &infErr) {
			t.Fatalf("expected InferenceError, got %v", err)
		}
		if model.Infers() != 0 {
			t.Error("model must not run on malformed frames")
		}
	})
}
