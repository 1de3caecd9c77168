// Package llm provides the chat completion clients and the surrounding
// machinery: provider errors, circuit breaking, request pacing, prompt
// construction, and response validation.
//
// Each provider family (Gemini, OpenAI, Anthropic, Ollama) is a thin raw
// HTTP client behind the Client interface. Fallback across families is the
// pipeline's job; a client only reports what happened via ProviderError.
package llm

import "context"

// CompletionOptions carries the per-request knobs a caller can set.
type CompletionOptions struct {
	// Temperature for sampling. Zero means the provider default.
	Temperature float64

	// MaxTokens caps the completion length. Zero means the client default.
	MaxTokens int

	// AltModel asks the client to use its alternate model, when it has
	// one. Used after a rate limit on the primary model.
	AltModel bool
}

// Client generates a chat completion from a fully assembled prompt.
type Client interface {
	// Complete sends a single-turn completion request and returns the
	// raw response text. Failures are reported as *ProviderError.
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// Name identifies the provider family, e.g. "gemini".
	Name() string
}
