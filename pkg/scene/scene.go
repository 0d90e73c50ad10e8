// Package scene classifies one detection cycle into a scene summary.
//
// Classification is pure: same detections and frame stats always yield
// the same summary.
package scene

import (
	"time"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/frame"
)

// Type is the coarse scene category.
type Type string

const (
	TypeStreet  Type = "street"
	TypeOutdoor Type = "outdoor"
	TypeIndoor  Type = "indoor"
	TypeUnknown Type = "unknown"
)

// Lighting is the coarse brightness estimate.
type Lighting string

const (
	LightingBright   Lighting = "bright"
	LightingModerate Lighting = "moderate"
	LightingDim      Lighting = "dim"
)

// Brightness thresholds on the normalized mean luma.
const (
	brightAbove   = 0.7
	moderateAbove = 0.3
)

// Summary is the classifier-annotated output of one detection cycle.
// Objects preserves detector output order and is never nil.
type Summary struct {
	Objects          []detect.Detection
	SceneType        Type
	Lighting         Lighting
	DominantColor    [3]uint8
	CapturedAtMillis int64
}

// sceneRules are evaluated top to bottom; the first rule whose label set
// intersects the detections wins.
var sceneRules = []struct {
	sceneType Type
	labels    []string
}{
	{TypeStreet, []string{"car", "traffic light", "stop sign", "bus", "truck", "motorcycle"}},
	{TypeOutdoor, []string{"tree", "bench", "bicycle", "bird", "potted plant"}},
	{TypeIndoor, []string{"chair", "dining table", "couch", "bed", "tv", "laptop"}},
}

// Classify derives the scene summary for one cycle.
func Classify(dets []detect.Detection, stats frame.Stats, capturedAt time.Time) Summary {
	if dets == nil {
		dets = []detect.Detection{}
	}

	return Summary{
		Objects:          dets,
		SceneType:        sceneType(dets),
		Lighting:         lighting(stats.Brightness),
		DominantColor:    stats.MeanColor,
		CapturedAtMillis: capturedAt.UnixMilli(),
	}
}

func sceneType(dets []detect.Detection) Type {
	present := make(map[string]bool, len(dets))
	for _, d := range dets {
		present[d.Label] = true
	}

	for _, rule := range sceneRules {
		for _, label := range rule.labels {
			if present[label] {
				return rule.sceneType
			}
		}
	}
	return TypeUnknown
}

func lighting(brightness float64) Lighting {
	switch {
	case brightness > brightAbove:
		return LightingBright
	case brightness > moderateAbove:
		return LightingModerate
	default:
		return LightingDim
	}
}
