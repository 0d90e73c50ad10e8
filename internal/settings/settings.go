// Package settings loads the persisted device settings for go-iris.
//
// Settings are read once at startup from a YAML file plus IRIS_* environment
// overrides. The orchestrator never writes them; the companion settings
// surface owns mutation.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cloud provider names accepted in cloud.provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Voice rate/pitch bounds. Values outside are clamped, not rejected,
// so a hand-edited settings file can never silence the device.
const (
	VoiceMin = 0.5
	VoiceMax = 2.0
)

// Settings holds all user-tunable configuration.
type Settings struct {
	Cloud   CloudSettings   `mapstructure:"cloud"`
	Voice   VoiceSettings   `mapstructure:"voice"`
	Capture CaptureSettings `mapstructure:"capture"`
	Web     WebSettings     `mapstructure:"web"`
	Log     LogSettings     `mapstructure:"log"`
}

// CloudSettings controls the cloud narration tier.
// An empty APIKey means the cloud provider reports itself unavailable;
// there is deliberately no built-in default credential.
type CloudSettings struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// VoiceSettings controls speech output.
type VoiceSettings struct {
	Rate  float64 `mapstructure:"rate"`
	Pitch float64 `mapstructure:"pitch"`
}

// CaptureSettings controls the periodic capture scheduler.
type CaptureSettings struct {
	Interval  time.Duration `mapstructure:"interval"`
	Source    string        `mapstructure:"source"` // webcam | remote | mock
	Remote    string        `mapstructure:"remote"` // ws:// URL for the remote source
	Device    int           `mapstructure:"device"` // webcam device index
	ModelPath string        `mapstructure:"model_path"`
}

// WebSettings controls the control-plane HTTP server.
type WebSettings struct {
	Addr string `mapstructure:"addr"`
}

// LogSettings controls logging.
type LogSettings struct {
	Level string `mapstructure:"level"`
}

// Load reads settings from the given file path (optional) and IRIS_* env vars.
// Missing file is not an error; defaults apply.
func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("cloud.enabled", false)
	v.SetDefault("cloud.provider", ProviderOpenAI)
	v.SetDefault("cloud.model", "gpt-4o-mini")
	v.SetDefault("cloud.base_url", "https://api.openai.com/v1")
	v.SetDefault("cloud.timeout", 10*time.Second)
	v.SetDefault("voice.rate", 1.0)
	v.SetDefault("voice.pitch", 1.0)
	v.SetDefault("capture.interval", 2*time.Second)
	v.SetDefault("capture.source", "webcam")
	v.SetDefault("capture.device", 0)
	v.SetDefault("capture.model_path", "models/yolov8n.onnx")
	v.SetDefault("web.addr", ":8090")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("IRIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("settings: read %s: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("settings: parse: %w", err)
	}

	s.normalize()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) normalize() {
	s.Voice.Rate = clamp(s.Voice.Rate, VoiceMin, VoiceMax)
	s.Voice.Pitch = clamp(s.Voice.Pitch, VoiceMin, VoiceMax)
	if s.Capture.Interval <= 0 {
		s.Capture.Interval = 2 * time.Second
	}
	if s.Cloud.Timeout <= 0 {
		s.Cloud.Timeout = 10 * time.Second
	}
	s.Cloud.Provider = strings.ToLower(s.Cloud.Provider)
}

func (s *Settings) validate() error {
	switch s.Cloud.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("settings: unknown cloud provider %q", s.Cloud.Provider)
	}
	switch s.Capture.Source {
	case "webcam", "remote", "mock":
	default:
		return fmt.Errorf("settings: unknown capture source %q", s.Capture.Source)
	}
	if s.Capture.Source == "remote" && s.Capture.Remote == "" {
		return fmt.Errorf("settings: capture.remote URL required for remote source")
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
