package output

import "time"

// Pattern names a fixed haptic pulse sequence.
type Pattern string

const (
	PatternNone           Pattern = ""
	PatternObjectDetected Pattern = "objectDetected"
	PatternTextFound      Pattern = "textFound"
	PatternNavigationCue  Pattern = "navigationCue"
	PatternWarning        Pattern = "warning"
	PatternSuccess        Pattern = "success"
	PatternError          Pattern = "error"
)

// Pulse is one impact plus the delay to wait after it.
type Pulse struct {
	Intensity float64
	Delay     time.Duration
}

// patterns maps each pattern to its fixed pulse sequence. Static
// configuration: the sequencer iterates these uniformly and never
// mutates them.
var patterns = map[Pattern][]Pulse{
	PatternObjectDetected: {
		{Intensity: 0.5, Delay: 80 * time.Millisecond},
	},
	PatternTextFound: {
		{Intensity: 0.6, Delay: 100 * time.Millisecond},
		{Intensity: 0.6, Delay: 100 * time.Millisecond},
	},
	PatternNavigationCue: {
		{Intensity: 0.4, Delay: 80 * time.Millisecond},
		{Intensity: 0.8, Delay: 120 * time.Millisecond},
	},
	PatternWarning: {
		{Intensity: 1.0, Delay: 150 * time.Millisecond},
		{Intensity: 1.0, Delay: 150 * time.Millisecond},
		{Intensity: 1.0, Delay: 150 * time.Millisecond},
	},
	PatternSuccess: {
		{Intensity: 0.6, Delay: 80 * time.Millisecond},
		{Intensity: 0.3, Delay: 80 * time.Millisecond},
	},
	PatternError: {
		{Intensity: 1.0, Delay: 200 * time.Millisecond},
		{Intensity: 1.0, Delay: 200 * time.Millisecond},
	},
}

// Pulses returns the pulse sequence for a pattern, nil for unknown names.
func (p Pattern) Pulses() []Pulse {
	return patterns[p]
}
