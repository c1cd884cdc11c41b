package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"unauthorized status", errors.New("API returned 401"), ErrorTypeAuth, false},
		{"forbidden status", errors.New("API returned 403 forbidden"), ErrorTypeAuth, false},
		{"invalid key phrase", errors.New("invalid api key provided"), ErrorTypeAuth, false},
		{"model missing", errors.New("model gpt-x not found"), ErrorTypeModel, false},
		{"model nonexistent", errors.New("the model does not exist"), ErrorTypeModel, false},
		{"endpoint 404", errors.New("404 page not found"), ErrorTypeEndpoint, false},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeEndpoint, true},
		{"no such host", errors.New("lookup api.example: no such host"), ErrorTypeEndpoint, true},
		{"timeout", errors.New("request timeout exceeded"), ErrorTypeEndpoint, true},
		{"deadline", errors.New("context deadline exceeded"), ErrorTypeEndpoint, true},
		{"rate limited", errors.New("429 rate limit reached"), ErrorTypeUnknown, true},
		{"server error", errors.New("502 bad gateway"), ErrorTypeEndpoint, true},
		{"unclassified", errors.New("something odd"), ErrorTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.wantType, classified.Type)
			assert.Equal(t, tt.retryable, classified.Retryable)
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifyErrorCallerCancellation(t *testing.T) {
	classified := ClassifyError(fmt.Errorf("request failed: %w", context.Canceled))
	require.NotNil(t, classified)
	assert.Equal(t, ErrorTypeUnknown, classified.Type, "cancellation is not an endpoint failure")
	assert.False(t, classified.Retryable)

	// Our own timeout still classifies as a retryable endpoint failure.
	timedOut := ClassifyError(fmt.Errorf("request failed: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeEndpoint, timedOut.Type)
	assert.True(t, timedOut.Retryable)
}

func TestClassifyErrorPassthrough(t *testing.T) {
	orig := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	assert.Same(t, orig, ClassifyError(orig))
	assert.Same(t, orig, ClassifyError(fmt.Errorf("wrapped: %w", orig)),
		"wrapped structured errors unwrap instead of reclassifying")
}

func TestClassifyErrorStatusCode(t *testing.T) {
	classified := ClassifyError(errors.New("server returned 503"))
	assert.Equal(t, 503, classified.StatusCode)
	assert.Equal(t, ErrorTypeEndpoint, classified.Type)
}

func TestErrorString(t *testing.T) {
	err := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401 unauthorized"))
	err.StatusCode = 401
	assert.Equal(t, "auth HTTP 401 authentication failed: 401 unauthorized", err.Error())

	bare := NewError(ErrorTypeUnknown, "llm error", false, nil)
	assert.Equal(t, "unknown llm error", bare.Error())
}

func TestGetErrorType(t *testing.T) {
	structured := NewError(ErrorTypeEndpoint, "connection failed", true, nil)
	assert.Equal(t, ErrorTypeEndpoint, GetErrorType(structured))
	assert.Equal(t, ErrorTypeEndpoint, GetErrorType(fmt.Errorf("wrap: %w", structured)))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrorTypeEndpoint, "connection failed", true, nil)))
	assert.False(t, IsRetryable(NewError(ErrorTypeAuth, "authentication failed", false, nil)))
	assert.False(t, IsRetryable(errors.New("plain")))
}
