package narrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Chain implements Provider by trying providers in order.
//
// Unavailable providers are skipped. A failed provider is logged and the
// chain moves on; no provider is ever retried within one request, and an
// upstream failure never reaches the caller as long as a later provider
// succeeds. With the local template provider last, the chain is total.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a provider chain that tries providers in order.
// At least one provider is required.
func NewChain(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	return &Chain{
		providers: providers,
		logger:    slog.Default().With("component", "narrate.chain"),
	}, nil
}

// NewChainWithLogger creates a provider chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, providers ...Provider) (*Chain, error) {
	chain, err := NewChain(providers...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "narrate.chain")
	return chain, nil
}

// Name identifies the chain in logs.
func (c *Chain) Name() string {
	return "chain"
}

// Available reports whether any provider in the chain is available.
func (c *Chain) Available() bool {
	for _, p := range c.providers {
		if p.Available() {
			return true
		}
	}
	return false
}

// Generate tries each available provider until one succeeds.
func (c *Chain) Generate(ctx context.Context, req Request) (*Result, error) {
	var errs []error

	for i, p := range c.providers {
		if !p.Available() {
			c.logger.Debug("provider unavailable, skipping",
				"provider", p.Name(),
				"kind", req.Kind,
			)
			continue
		}

		start := time.Now()
		result, err := p.Generate(ctx, req)
		if err == nil {
			if result.LatencyMillis == 0 {
				result.LatencyMillis = time.Since(start).Milliseconds()
			}
			if i > 0 {
				c.logger.Info("fallback provider succeeded",
					"provider", p.Name(),
					"kind", req.Kind,
					"latency_ms", result.LatencyMillis,
				)
			}
			return result, nil
		}

		errs = append(errs, wrapError(p.Name(), err))
		c.logger.Warn("provider failed, trying next",
			"provider", p.Name(),
			"kind", req.Kind,
			"error", err,
		)
	}

	return nil, &ChainError{Errors: errs}
}

// Providers returns the providers in the chain.
func (c *Chain) Providers() []Provider {
	return c.providers
}

// ChainError aggregates errors from all providers in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "narrate chain: no provider was available"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("narrate chain: %v", e.Errors[0])
	}
	return fmt.Sprintf("narrate chain: all %d providers failed, last error: %v",
		len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// Verify Chain implements Provider at compile time.
var _ Provider = (*Chain)(nil)
