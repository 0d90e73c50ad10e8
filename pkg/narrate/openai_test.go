package narrate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/irislabs/go-iris/pkg/detect"
	"github.com/irislabs/go-iris/pkg/narrate"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *narrate.OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return narrate.NewOpenAI("test-key", "test-model", true,
		narrate.WithBaseURL(srv.URL),
		narrate.WithHTTPClient(srv.Client()),
	)
}

func TestOpenAIGenerate(t *testing.T) {
	t.Run("success parses the first choice", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]any

		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "A chair sits one meter ahead."}},
				},
			})
		})

		res, err := p.Generate(context.Background(), narrate.Request{
			Kind:  narrate.KindDescribe,
			Scene: summaryWith(detect.Detection{Label: "chair", Distance: 1}),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotAuth != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", gotAuth)
		}
		if gotBody["temperature"] != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", gotBody["temperature"])
		}
		if gotBody["max_tokens"] != float64(500) {
			t.Errorf("expected max_tokens 500, got %v", gotBody["max_tokens"])
		}
		if res.Text != "A chair sits one meter ahead." {
			t.Errorf("unexpected text: %q", res.Text)
		}
		if res.Source != narrate.SourceCloud {
			t.Errorf("expected cloud source, got %s", res.Source)
		}
		if res.Confidence != narrate.CloudDescribeConfidence {
			t.Errorf("expected cloud confidence, got %f", res.Confidence)
		}
	})

	t.Run("non-2xx is an APIError", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "rate limited"},
			})
		})

		_, err := p.Generate(context.Background(), narrate.Request{Kind: narrate.KindDescribe})
		var apiErr *narrate.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", apiErr.StatusCode)
		}
		if apiErr.Message != "rate limited" {
			t.Errorf("expected parsed message, got %q", apiErr.Message)
		}
	})

	t.Run("empty choices is a failure, never an empty result", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		})

		res, err := p.Generate(context.Background(), narrate.Request{Kind: narrate.KindDescribe})
		if !errors.Is(err, narrate.ErrEmptyCompletion) {
			t.Fatalf("expected ErrEmptyCompletion, got %v", err)
		}
		if res != nil {
			t.Error("no result may accompany an error")
		}
	})

	t.Run("malformed body is a failure", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		if _, err := p.Generate(context.Background(), narrate.Request{Kind: narrate.KindDescribe}); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("caller timeout bounds the call", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if _, err := p.Generate(ctx, narrate.Request{Kind: narrate.KindDescribe}); err == nil {
			t.Error("expected timeout error")
		}
	})
}

func TestOpenAIAvailability(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		enabled bool
		want    bool
	}{
		{"enabled with key", "k", true, true},
		{"disabled with key", "k", false, false},
		{"enabled without key", "", true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := narrate.NewOpenAI(tc.key, "m", tc.enabled)
			if p.Available() != tc.want {
				t.Errorf("Available() = %v, want %v", p.Available(), tc.want)
			}
			if !tc.want {
				if _, err := p.Generate(context.Background(), narrate.Request{}); !errors.Is(err, narrate.ErrUnavailable) {
					t.Errorf("expected ErrUnavailable, got %v", err)
				}
			}
		})
	}
}
