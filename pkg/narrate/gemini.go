package narrate

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is a cloud narration provider backed by Google's Generative AI.
// It obeys the same availability and failure semantics as the OpenAI
// provider; only the transport differs.
type Gemini struct {
	client  *genai.Client
	model   string
	enabled bool
}

// NewGemini creates the Gemini cloud provider. Returns an error only if
// the client cannot be constructed; a missing key yields an unavailable
// provider instead so the chain can still be assembled.
func NewGemini(ctx context.Context, apiKey, model string, enabled bool) (*Gemini, error) {
	g := &Gemini{model: model, enabled: enabled}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

// Name identifies the provider in logs.
func (g *Gemini) Name() string {
	return "gemini"
}

// Available reports whether the provider is enabled and has credentials.
func (g *Gemini) Available() bool {
	return g.enabled && g.client != nil
}

// Generate performs one generation round trip.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Result, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}

	start := time.Now()

	model := g.client.GenerativeModel(g.model)
	temp := float32(cloudTemperature)
	tokens := int32(cloudMaxTokens)
	model.Temperature = &temp
	model.MaxOutputTokens = &tokens

	parts := []genai.Part{genai.Text(promptFor(req))}
	if len(req.Image) > 0 {
		parts = append(parts, genai.ImageData("jpeg", req.Image))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, wrapError(g.Name(), err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyCompletion
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || strings.TrimSpace(string(text)) == "" {
		return nil, ErrEmptyCompletion
	}

	return &Result{
		Text:          strings.TrimSpace(string(text)),
		Confidence:    cloudConfidence(req.Kind),
		Source:        SourceCloud,
		LatencyMillis: time.Since(start).Milliseconds(),
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Verify Gemini implements Provider at compile time.
var _ Provider = (*Gemini)(nil)
