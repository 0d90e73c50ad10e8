package narrate

import (
	"errors"
	"fmt"
)

// Sentinel errors for common narration failures.
var (
	// ErrUnavailable is returned when a provider cannot currently be tried
	// (disabled or missing credentials).
	ErrUnavailable = errors.New("narrate: provider unavailable")

	// ErrEmptyCompletion is returned when a cloud response carries no
	// usable text. Treated like any other cloud failure.
	ErrEmptyCompletion = errors.New("narrate: empty completion")

	// ErrNoProviders is returned when a chain is built without providers.
	ErrNoProviders = errors.New("narrate: no providers configured")
)

// APIError represents an error response from a cloud narration API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("narrate [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsServerError returns true for HTTP 5xx responses.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("narrate [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// wrapError wraps an error with provider context.
func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
