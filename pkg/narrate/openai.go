package narrate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fixed request parameters for the chat completion endpoint.
const (
	cloudTemperature = 0.7
	cloudMaxTokens   = 500
)

// OpenAI is a cloud narration provider speaking the OpenAI-compatible
// chat/vision completions protocol.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	enabled bool
	client  *http.Client
}

// OpenAIOption configures the OpenAI provider.
type OpenAIOption func(*OpenAI)

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(c *http.Client) OpenAIOption {
	return func(p *OpenAI) { p.client = c }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) OpenAIOption {
	return func(p *OpenAI) { p.baseURL = strings.TrimRight(url, "/") }
}

// NewOpenAI creates the OpenAI-compatible cloud provider.
func NewOpenAI(apiKey, model string, enabled bool, opts ...OpenAIOption) *OpenAI {
	p := &OpenAI{
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		model:   model,
		enabled: enabled,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the provider in logs.
func (p *OpenAI) Name() string {
	return "openai"
}

// Available reports whether the provider is enabled and has credentials.
func (p *OpenAI) Available() bool {
	return p.enabled && p.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs one chat completion round trip. The caller bounds the
// call with its context deadline; expiry is an ordinary failure.
func (p *OpenAI) Generate(ctx context.Context, req Request) (*Result, error) {
	if !p.Available() {
		return nil, ErrUnavailable
	}

	start := time.Now()

	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed chatResponse
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, &APIError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: msg}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	return &Result{
		Text:          strings.TrimSpace(parsed.Choices[0].Message.Content),
		Confidence:    cloudConfidence(req.Kind),
		Source:        SourceCloud,
		LatencyMillis: time.Since(start).Milliseconds(),
	}, nil
}

// buildRequest assembles the message list. When a frame JPEG is present
// it rides along as a data-URL image part so vision models can use it.
func (p *OpenAI) buildRequest(req Request) chatRequest {
	prompt := promptFor(req)

	var content any = prompt
	if len(req.Image) > 0 {
		content = []map[string]any{
			{"type": "text", "text": prompt},
			{"type": "image_url", "image_url": map[string]string{
				"url": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.Image),
			}},
		}
	}

	return chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You narrate camera scenes for a blind user. Be brief and concrete."},
			{Role: "user", Content: content},
		},
		Temperature: cloudTemperature,
		MaxTokens:   cloudMaxTokens,
	}
}

// Verify OpenAI implements Provider at compile time.
var _ Provider = (*OpenAI)(nil)
