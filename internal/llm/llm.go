// Package llm wraps the remote text-generation providers behind a uniform
// Provider capability. Providers never retry or swallow failures internally;
// every transport error, non-success response, or empty completion surfaces
// as a *ProviderCallError for the caller to handle.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Options contains per-call generation settings.
type Options struct {
	Model        string  // Provider-specific model identifier
	Temperature  float64 // Randomness, 0.0 to 1.0
	MaxTokens    int     // Maximum number of tokens to generate
	SystemPrompt string  // Optional system instruction
}

// Provider is the uniform capability over a remote text-generation service.
type Provider interface {
	// Name returns the stable provider identifier ("openai", "anthropic").
	Name() string
	// GenerateText sends the prompt and returns the raw completion text.
	GenerateText(ctx context.Context, prompt string, opts Options) (string, error)
}

// ErrUnconfigured signals that a provider has no credential. It is a skip
// signal, not a failure: the orchestration layer moves on to the next
// provider without logging an error.
var ErrUnconfigured = errors.New("provider not configured")

// ProviderCallError wraps a failed remote call: network failure, non-2xx
// response, or an empty completion.
type ProviderCallError struct {
	Provider string
	Err      error
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

// DefaultSystemPrompt is the shared system instruction for all generation
// operations.
const DefaultSystemPrompt = "You are a helpful assistant that analyzes social media trends and creates engaging content."
