package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/llm"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

func generativeForTest(mock *llm.Mock) *GenerativeProvider {
	return NewGenerativeProvider(mock, 5*time.Second, zap.NewNop())
}

func TestGenerativeRespond(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		assert.Contains(t, prompt, "PayFlow", "ranked applications go into the prompt")
		assert.Contains(t, system, "data discovery assistant")
		return "PayFlow handles the catalog's payment workflows.", nil
	}
	p := generativeForTest(mock)
	ranked := []models.SearchResult{
		{Application: models.Application{ID: "app-1", Name: "PayFlow", Category: "Finance", Description: "Payments"}, Score: 0.9},
	}

	resp, err := p.Respond(context.Background(), "payment apps", assistantStore(), ranked)
	require.NoError(t, err)
	assert.Equal(t, "PayFlow handles the catalog's payment workflows.", resp.Answer)
	assert.Equal(t, []string{"app-1"}, resp.EntityIDs)
	assert.Equal(t, confidenceDefault, resp.Confidence)
	assert.Equal(t, 1, mock.CompleteCalls)
}

func TestGenerativeRespondDegraded(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		contains   string
		confidence float64
	}{
		{
			name:       "endpoint unreachable",
			err:        llm.NewError(llm.ErrorTypeEndpoint, "connection failed", true, errors.New("connection refused")),
			contains:   "could not be reached",
			confidence: confidenceNetwork,
		},
		{
			name:       "auth rejected",
			err:        llm.NewError(llm.ErrorTypeAuth, "authentication failed", false, errors.New("401 unauthorized")),
			contains:   "rejected the configured credentials",
			confidence: confidenceFailed,
		},
		{
			name:       "unknown failure",
			err:        errors.New("something odd"),
			contains:   "unexpected error",
			confidence: confidenceFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMock()
			mock.CompleteFunc = func(context.Context, string, string) (string, error) {
				return "", tt.err
			}
			p := generativeForTest(mock)

			resp, err := p.Respond(context.Background(), "payments", assistantStore(), nil)
			require.Error(t, err, "the error still surfaces for the orchestrator")
			require.NotNil(t, resp, "the degraded response is always well-formed")
			assert.Contains(t, resp.Answer, tt.contains)
			assert.Equal(t, tt.confidence, resp.Confidence)
		})
	}
}

func TestConfidenceFromText(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"PayFlow is the payment platform.", confidenceDefault},
		{"This might be what you need.", confidenceTentative},
		{"Possibly TeamSpace fits here.", confidenceTentative},
		{"Perhaps the warehouse tables.", confidenceTentative},
		{"It may be stored in the orders table.", confidenceTentative},
		{"I am not sure which table holds this.", confidenceUnsure},
		{"The request is unclear.", confidenceUnsure},
		{"I cannot determine the source.", confidenceUnsure},
		{"Not sure, but it might be PayFlow.", confidenceUnsure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, confidenceFromText(tt.text), "text: %q", tt.text)
	}
}

func TestGenerativeSuggestQueries(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "1. payment dashboards\n- card storage tables\n\n* billing owners\nexpense apps\nextra line beyond limit", nil
	}
	p := generativeForTest(mock)

	suggestions, err := p.SuggestQueries(context.Background(), "payments", assistantStore())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"payment dashboards",
		"card storage tables",
		"billing owners",
		"expense apps",
	}, suggestions)
}

func TestGenerativeSuggestQueriesFailure(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("boom")
	}
	p := generativeForTest(mock)

	suggestions, err := p.SuggestQueries(context.Background(), "payments", assistantStore())
	require.Error(t, err)
	assert.Equal(t, genericSuggestions, suggestions, "failures still return a usable list")
}

func TestGenerativeClassifyIntent(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "```json\n{\"intent\": \"Find finance apps\", \"category\": \"Finance\", \"search_type\": \"category\"}\n```", nil
	}
	p := generativeForTest(mock)

	intent, err := p.ClassifyIntent(context.Background(), "find payment apps")
	require.NoError(t, err)
	assert.Equal(t, "Find finance apps", intent.Intent)
	assert.Equal(t, "Finance", intent.Category)
	assert.Equal(t, models.SearchTypeCategory, intent.SearchType)
	assert.NotEmpty(t, intent.Keywords, "keywords come from the deterministic tokenizer")
}

func TestGenerativeClassifyIntentUnparseable(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "I think this is about finance.", nil
	}
	p := generativeForTest(mock)

	intent, err := p.ClassifyIntent(context.Background(), "find payment apps")
	require.NoError(t, err, "a parse failure is not a backend failure")
	assert.Equal(t, "Finance", intent.Category, "falls back to the deterministic classifier")
}

func TestGenerativeClassifyIntentCallFailure(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("boom")
	}
	p := generativeForTest(mock)

	intent, err := p.ClassifyIntent(context.Background(), "find payment apps")
	require.Error(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, "Finance", intent.Category)
}

func TestParseIntentJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		want    models.SearchType
	}{
		{"plain json", `{"intent": "x", "category": "Finance", "search_type": "specific"}`, false, models.SearchTypeSpecific},
		{"fenced", "```json\n{\"intent\": \"x\", \"search_type\": \"feature\"}\n```", false, models.SearchTypeFeature},
		{"bad search type defaults", `{"intent": "x", "search_type": "bogus"}`, false, models.SearchTypeGeneral},
		{"empty intent", `{"intent": "", "search_type": "general"}`, true, ""},
		{"not json", "hello there", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseIntentJSON(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.SearchType)
		})
	}
}

func TestGenerativeWelcomeFailureFallsBack(t *testing.T) {
	mock := llm.NewMock()
	mock.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("boom")
	}
	p := generativeForTest(mock)

	resp, err := p.Welcome(context.Background(), assistantStore())
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, localWelcomeConfidence, resp.Confidence)
	assert.Len(t, resp.SuggestedQueries, maxSuggestedQueries)
}
