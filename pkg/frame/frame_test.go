package frame_test

import (
	"context"
	"errors"
	"testing"

	"github.com/irislabs/go-iris/pkg/frame"
)

func TestComputeStats(t *testing.T) {
	t.Run("solid white is bright", func(t *testing.T) {
		f := frame.SolidFrame(4, 4, 255, 255, 255)
		stats := frame.ComputeStats(f)

		if stats.Brightness < 0.99 {
			t.Errorf("expected brightness ~1.0, got %f", stats.Brightness)
		}
		if stats.MeanColor != [3]uint8{255, 255, 255} {
			t.Errorf("expected white mean color, got %v", stats.MeanColor)
		}
	})

	t.Run("solid black is dark", func(t *testing.T) {
		f := frame.SolidFrame(4, 4, 0, 0, 0)
		stats := frame.ComputeStats(f)

		if stats.Brightness != 0 {
			t.Errorf("expected brightness 0, got %f", stats.Brightness)
		}
	})

	t.Run("mean color rounds per channel", func(t *testing.T) {
		f := &frame.Frame{
			Pixels: []byte{100, 0, 0, 101, 0, 0},
			Width:  2,
			Height: 1,
		}
		stats := frame.ComputeStats(f)

		// mean red = 100.5, rounds to 101
		if stats.MeanColor[0] != 101 {
			t.Errorf("expected red mean 101, got %d", stats.MeanColor[0])
		}
	})

	t.Run("invalid frame yields zero stats", func(t *testing.T) {
		stats := frame.ComputeStats(&frame.Frame{Width: 2, Height: 2})
		if stats.Brightness != 0 {
			t.Errorf("expected zero brightness, got %f", stats.Brightness)
		}
	})
}

func TestMockSource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns queued frames in order", func(t *testing.T) {
		a := frame.SolidFrame(1, 1, 1, 1, 1)
		b := frame.SolidFrame(1, 1, 2, 2, 2)
		src := frame.NewMockSource().QueueFrame(a).QueueFrame(b)

		got, err := src.Capture(ctx)
		if err != nil || got != a {
			t.Fatalf("expected first frame, got %v (%v)", got, err)
		}
		got, _ = src.Capture(ctx)
		if got != b {
			t.Error("expected second frame")
		}
		// queue exhausted: last frame repeats
		got, _ = src.Capture(ctx)
		if got != b {
			t.Error("expected last frame to repeat")
		}
	})

	t.Run("queued errors surface as capture errors", func(t *testing.T) {
		src := frame.NewMockSource().QueueError(&frame.CaptureError{Reason: "no permission"})

		_, err := src.Capture(ctx)
		var capErr *frame.CaptureError
		if !errors.As(err, &capErr) {
			t.Fatalf("expected CaptureError, got %v", err)
		}
	})

	t.Run("empty source fails", func(t *testing.T) {
		if _, err := frame.NewMockSource().Capture(ctx); err == nil {
			t.Error("expected error from empty source")
		}
	})
}
