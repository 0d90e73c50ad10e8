package scene_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/frame"
	"github.com/irislabs/go-iris/pkg/scene"
)

func dets(labels ...string) []detect.Detection {
	out := make([]detect.Detection, len(labels))
	for i, l := range labels {
		out[i] = detect.Detection{Label: l, Confidence: 0.9}
	}
	return out
}

func TestSceneTypeRules(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		want   scene.Type
	}{
		{"car means street", []string{"car"}, scene.TypeStreet},
		{"traffic light means street", []string{"traffic light"}, scene.TypeStreet},
		{"bench means outdoor", []string{"bench"}, scene.TypeOutdoor},
		{"chair means indoor", []string{"chair", "book"}, scene.TypeIndoor},
		{"couch means indoor", []string{"couch"}, scene.TypeIndoor},
		{"street beats indoor when both present", []string{"chair", "car"}, scene.TypeStreet},
		{"outdoor beats indoor when both present", []string{"couch", "bicycle"}, scene.TypeOutdoor},
		{"nothing recognizable is unknown", []string{"banana", "book"}, scene.TypeUnknown},
		{"no detections is unknown", nil, scene.TypeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := scene.Classify(dets(tc.labels...), frame.Stats{}, time.Now())
			if s.SceneType != tc.want {
				t.Errorf("got %s, want %s", s.SceneType, tc.want)
			}
		})
	}
}

func TestLightingThresholds(t *testing.T) {
	cases := []struct {
		brightness float64
		want       scene.Lighting
	}{
		{0.9, scene.LightingBright},
		{0.71, scene.LightingBright},
		{0.7, scene.LightingModerate}, // boundary: >0.7, not >=
		{0.5, scene.LightingModerate},
		{0.31, scene.LightingModerate},
		{0.3, scene.LightingDim},
		{0.0, scene.LightingDim},
	}

	for _, tc := range cases {
		s := scene.Classify(nil, frame.Stats{Brightness: tc.brightness}, time.Now())
		if s.Lighting != tc.want {
			t.Errorf("brightness %f: got %s, want %s", tc.brightness, s.Lighting, tc.want)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	input := dets("chair", "couch", "person")
	stats := frame.Stats{Brightness: 0.55, MeanColor: [3]uint8{120, 130, 140}}
	at := time.Now()

	a := scene.Classify(input, stats, at)
	b := scene.Classify(input, stats, at)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("classify is not idempotent: %+v vs %+v", a, b)
	}
}

func TestClassifyDefaults(t *testing.T) {
	s := scene.Classify(nil, frame.Stats{}, time.UnixMilli(1234))

	if s.Objects == nil {
		t.Error("objects must never be nil")
	}
	if s.SceneType != scene.TypeUnknown {
		t.Errorf("expected unknown scene, got %s", s.SceneType)
	}
	if s.Lighting != scene.LightingDim {
		t.Errorf("expected dim lighting on missing data, got %s", s.Lighting)
	}
	if s.CapturedAtMillis != 1234 {
		t.Errorf("expected captured-at 1234, got %d", s.CapturedAtMillis)
	}
}

func TestClassifyPreservesObjectOrder(t *testing.T) {
	input := dets("person", "chair", "cup")
	s := scene.Classify(input, frame.Stats{}, time.Now())

	for i, want := range []string{"person", "chair", "cup"} {
		if s.Objects[i].Label != want {
			t.Errorf("object %d: got %s, want %s", i, s.Objects[i].Label, want)
		}
	}
}
