package llm

import (
	"context"
)

// Mock is a configurable mock for testing generative functionality.
// Set the function fields to control behavior in tests.
type Mock struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns empty string and nil error.
	CompleteFunc func(ctx context.Context, prompt string, systemMessage string) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// EndpointURL is returned by Endpoint. Defaults to "http://mock-endpoint".
	EndpointURL string

	// Call tracking for verification
	CompleteCalls int
}

// NewMock creates a new mock with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		ModelName:   "mock-model",
		EndpointURL: "http://mock-endpoint",
	}
}

// Complete implements Client.
func (m *Mock) Complete(ctx context.Context, prompt string, systemMessage string) (string, error) {
	m.CompleteCalls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, systemMessage)
	}
	return "", nil
}

// Model implements Client.
func (m *Mock) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Endpoint implements Client.
func (m *Mock) Endpoint() string {
	if m.EndpointURL == "" {
		return "http://mock-endpoint"
	}
	return m.EndpointURL
}

// Reset clears call tracking counters.
func (m *Mock) Reset() {
	m.CompleteCalls = 0
}
