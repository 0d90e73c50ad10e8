package orchestrator

import "fmt"

// Mode is the operating mode of the device. Exactly one mode is active
// at a time; transitions happen only through SwitchMode.
type Mode string

const (
	// ModeScene continuously describes surroundings.
	ModeScene Mode = "scene"
	// ModeText reads text found in view.
	ModeText Mode = "text"
	// ModeNavigate guides the user toward a named target object.
	ModeNavigate Mode = "navigate"
)

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeScene, ModeText, ModeNavigate:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// confirmations are the fixed phrases spoken on every mode switch.
var confirmations = map[Mode]string{
	ModeScene:    "Scene description mode.",
	ModeText:     "Text reading mode.",
	ModeNavigate: "Navigation mode.",
}

// Confirmation returns the fixed phrase announced when entering a mode.
func (m Mode) Confirmation() string {
	return confirmations[m]
}
