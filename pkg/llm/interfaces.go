// Package llm provides generative model clients behind a single interface.
package llm

import (
	"context"
)

// Client defines the interface for generative model calls.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// Complete generates a text completion for the prompt under the given
	// system message. Implementations must respect ctx deadlines; callers
	// bound every call with a timeout.
	Complete(ctx context.Context, prompt string, systemMessage string) (string, error)

	// Model returns the configured model name.
	Model() string

	// Endpoint returns the configured endpoint.
	Endpoint() string
}

// Ensure implementations satisfy Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*Mock)(nil)
)
