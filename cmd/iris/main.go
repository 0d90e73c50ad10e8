// iris - wearable scene narrator daemon.
// Captures frames, detects objects, narrates the scene and speaks it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/irislabs/go-iris/internal/httpc"
	"github.com/irislabs/go-iris/internal/log"
	"github.com/irislabs/go-iris/internal/settings"
	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/frame"
	"github.com/irislabs/go-iris/pkg/narrate"
	"github.com/irislabs/go-iris/pkg/orchestrator"
	"github.com/irislabs/go-iris/pkg/output"
	"github.com/irislabs/go-iris/pkg/textrec"
	"github.com/irislabs/go-iris/pkg/web"
)

func main() {
	settingsPath := flag.String("settings", "iris.yaml", "Settings file path")
	noSpeech := flag.Bool("no-speech", false, "Log utterances instead of speaking (development)")
	flag.Parse()

	cfg, err := settings.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "iris: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, err := openSource(cfg)
	if err != nil {
		log.Error("capture source unavailable", "source", cfg.Capture.Source, "error", err)
		os.Exit(1)
	}
	defer source.Close()

	model, err := openModel(cfg)
	if err != nil {
		log.Error("detection model unavailable", "path", cfg.Capture.ModelPath, "error", err)
		os.Exit(1)
	}
	defer model.Close()

	narrator, err := buildNarrator(ctx, cfg)
	if err != nil {
		log.Error("narration chain unavailable", "error", err)
		os.Exit(1)
	}

	var speaker output.Speaker = output.NewESpeak()
	if *noSpeech {
		speaker = output.NewMockSpeaker(0)
	}
	seq := output.NewSequencer(speaker, output.LogHaptic{}, cfg.Voice.Rate, cfg.Voice.Pitch)
	defer seq.Close()

	orch := orchestrator.New(orchestrator.Config{
		Source:           source,
		Detector:         detect.New(model, detect.DefaultConfig()),
		Narrator:         narrator,
		Output:           seq,
		TextRec:          textrec.NewStub(),
		Interval:         cfg.Capture.Interval,
		NarrationTimeout: cfg.Cloud.Timeout,
	})

	server := web.New(cfg.Web.Addr, orch, seq)
	orch.SetOnCycle(server.PublishEvent)
	orch.SetOnFrame(server.PublishFrame)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("control surface failed", "error", err)
			cancel()
		}
	}()
	defer server.Shutdown()

	log.Info("iris started",
		"source", cfg.Capture.Source,
		"cloud", cfg.Cloud.Enabled,
		"provider", cfg.Cloud.Provider,
		"interval", cfg.Capture.Interval,
	)

	orch.Run(ctx)
}

// openSource builds the frame source named in the settings.
func openSource(cfg *settings.Settings) (frame.Source, error) {
	switch cfg.Capture.Source {
	case "webcam":
		return frame.OpenWebcam(cfg.Capture.Device)
	case "remote":
		return frame.DialRemote(cfg.Capture.Remote)
	case "mock":
		return frame.NewMockSource().QueueFrame(frame.SolidFrame(640, 480, 128, 128, 128)), nil
	default:
		return nil, fmt.Errorf("unknown capture source %q", cfg.Capture.Source)
	}
}

// openModel loads the YOLO model, or a mock when running against the
// mock source so development machines need no ONNX file.
func openModel(cfg *settings.Settings) (detect.Model, error) {
	if cfg.Capture.Source == "mock" {
		return detect.NewMockModel(), nil
	}
	yoloCfg := detect.DefaultYOLOConfig()
	yoloCfg.ModelPath = cfg.Capture.ModelPath
	return detect.NewYOLO(yoloCfg)
}

// buildNarrator assembles the provider chain: the configured cloud
// provider first, the local template provider last. The local provider
// cannot fail, so the chain as a whole cannot either.
func buildNarrator(ctx context.Context, cfg *settings.Settings) (narrate.Provider, error) {
	local := narrate.NewLocal()
	if !cfg.Cloud.Enabled {
		return narrate.NewChain(local)
	}

	switch cfg.Cloud.Provider {
	case settings.ProviderGemini:
		gemini, err := narrate.NewGemini(ctx, cfg.Cloud.APIKey, cfg.Cloud.Model, true)
		if err != nil {
			return nil, err
		}
		return narrate.NewChain(gemini, local)
	default:
		openai := narrate.NewOpenAI(cfg.Cloud.APIKey, cfg.Cloud.Model, true,
			narrate.WithHTTPClient(httpc.Client),
			narrate.WithBaseURL(cfg.Cloud.BaseURL),
		)
		return narrate.NewChain(openai, local)
	}
}
