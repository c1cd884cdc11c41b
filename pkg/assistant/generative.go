package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/discovery"
	"github.com/datalens-io/datalens-engine/pkg/llm"
	"github.com/datalens-io/datalens-engine/pkg/logging"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

const (
	maxContextApps = 8

	systemMessage = "You are a data discovery assistant for an enterprise application " +
		"and data catalog. Answer questions about which applications, datasources, " +
		"tables and columns are relevant to the user's needs. Be concise and professional."

	// Degraded-answer confidences per failure class.
	confidenceDefault   = 0.8
	confidenceTentative = 0.6
	confidenceUnsure    = 0.4
	confidenceNetwork   = 0.8
	confidenceFailed    = 0.1
)

// GenerativeProvider answers via an external generative model. Every call is
// bounded by the configured timeout; failures are classified and absorbed
// into a degraded response while the error is still returned for the
// fallback orchestrator to act on.
type GenerativeProvider struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerativeProvider creates a provider over the given model client.
func NewGenerativeProvider(client llm.Client, timeout time.Duration, logger *zap.Logger) *GenerativeProvider {
	return &GenerativeProvider{
		client:  client,
		timeout: timeout,
		logger:  logger.Named("assistant.generative"),
	}
}

// Respond implements ResponseProvider.
func (p *GenerativeProvider) Respond(ctx context.Context, query string, store *catalog.Store, ranked []models.SearchResult) (*models.AIResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := buildRespondPrompt(query, store, ranked)

	text, err := p.client.Complete(ctx, prompt, systemMessage)
	if err != nil {
		return p.degradedResponse(query, ranked, err), err
	}

	return &models.AIResponse{
		Answer:           text,
		EntityIDs:        entityIDs(ranked),
		SuggestedQueries: suggestionsFromRanked(ranked),
		Confidence:       confidenceFromText(text),
	}, nil
}

// SuggestQueries implements ResponseProvider.
func (p *GenerativeProvider) SuggestQueries(ctx context.Context, query string, store *catalog.Store) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"The catalog covers these application categories: %s.\n"+
			"The user searched for: %q.\n"+
			"Propose %d short follow-up search queries, one per line, no numbering.",
		strings.Join(store.Categories(), ", "), query, maxSuggestedQueries)

	text, err := p.client.Complete(ctx, prompt, systemMessage)
	if err != nil {
		return append([]string{}, genericSuggestions...), err
	}

	suggestions := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestedQueries {
			break
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, genericSuggestions...)
	}
	return suggestions, nil
}

// ClassifyIntent implements ResponseProvider. The model is asked for a JSON
// record; any call or parse failure falls back to the deterministic
// classifier, with the error surfaced for the orchestrator.
func (p *GenerativeProvider) ClassifyIntent(ctx context.Context, query string) (*models.QueryIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Classify this catalog search query: %q.\n"+
			"Reply with JSON only: {\"intent\": string, \"category\": string, "+
			"\"search_type\": one of \"specific\", \"category\", \"feature\", \"general\"}.",
		query)

	text, err := p.client.Complete(ctx, prompt, systemMessage)
	if err != nil {
		local := discovery.ClassifyIntent(query)
		return &local, err
	}

	parsed, perr := parseIntentJSON(text)
	if perr != nil {
		p.logger.Warn("unparseable intent response, using deterministic classifier",
			zap.String("error", perr.Error()))
		local := discovery.ClassifyIntent(query)
		return &local, nil
	}
	parsed.Keywords = discovery.ClassifyIntent(query).Keywords
	return parsed, nil
}

// Welcome implements ResponseProvider.
func (p *GenerativeProvider) Welcome(ctx context.Context, store *catalog.Store) (*models.AIResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Greet a user of the data discovery catalog in 2-3 sentences. "+
			"The catalog holds %d entities across these application categories: %s.",
		store.TotalEntityCount(), strings.Join(store.Categories(), ", "))

	text, err := p.client.Complete(ctx, prompt, systemMessage)
	if err != nil {
		return welcomeFallback(store), err
	}

	return &models.AIResponse{
		Answer:           text,
		EntityIDs:        []string{},
		SuggestedQueries: welcomeSuggestions(store),
		Confidence:       1.0,
	}, nil
}

// degradedResponse builds the classified failure answer. Network failures
// keep high confidence (the ranking beneath the answer is still sound);
// authorization and unknown failures drop to 0.1.
func (p *GenerativeProvider) degradedResponse(query string, ranked []models.SearchResult, err error) *models.AIResponse {
	resp := &models.AIResponse{
		EntityIDs:        entityIDs(ranked),
		SuggestedQueries: suggestionsFromRanked(ranked),
	}

	switch llm.GetErrorType(err) {
	case llm.ErrorTypeEndpoint:
		resp.Answer = "The AI service could not be reached, so this answer was assembled " +
			"from catalog relevance ranking alone. The results shown are still ordered by " +
			"how well they match your search."
		resp.Confidence = confidenceNetwork
	case llm.ErrorTypeAuth:
		resp.Answer = "The AI service rejected the configured credentials. Catalog search " +
			"still works, but conversational answers are unavailable until the API key is fixed."
		resp.Confidence = confidenceFailed
	default:
		resp.Answer = fmt.Sprintf("The AI service returned an unexpected error (%s). "+
			"Catalog results for %q are shown without a narrative answer.",
			logging.SanitizeError(err), query)
		resp.Confidence = confidenceFailed
	}
	return resp
}

// confidenceFromText is a hedging heuristic: tentative phrasing lowers the
// reported confidence of an otherwise successful answer.
func confidenceFromText(text string) float64 {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "not sure") || strings.Contains(lower, "unclear") ||
		strings.Contains(lower, "cannot determine") {
		return confidenceUnsure
	}
	if strings.Contains(lower, "might") || strings.Contains(lower, "possibly") ||
		strings.Contains(lower, "perhaps") || strings.Contains(lower, "may be") {
		return confidenceTentative
	}
	return confidenceDefault
}

// buildRespondPrompt assembles the context block: catalog totals, category
// list, and up to maxContextApps ranked applications.
func buildRespondPrompt(query string, store *catalog.Store, ranked []models.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Catalog: %d entities total. Application categories: %s.\n\n",
		store.TotalEntityCount(), strings.Join(store.Categories(), ", "))

	sb.WriteString("Top ranked applications for this search:\n")
	for i, r := range ranked {
		if i == maxContextApps {
			break
		}
		fmt.Fprintf(&sb, "- %s (%s): %s\n",
			r.Application.Name, r.Application.Category,
			logging.TruncateString(r.Application.Description, 160))
	}
	if len(ranked) == 0 {
		sb.WriteString("- none\n")
	}

	fmt.Fprintf(&sb, "\nUser question: %s\n\n", query)
	sb.WriteString("Answer in 2-3 concise, professional paragraphs, grounded only in the catalog above.")
	return sb.String()
}

type intentJSON struct {
	Intent     string `json:"intent"`
	Category   string `json:"category"`
	SearchType string `json:"search_type"`
}

// parseIntentJSON tolerates markdown fences around the JSON body.
func parseIntentJSON(text string) (*models.QueryIntent, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed intentJSON
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("parse intent: %w", err)
	}
	if parsed.Intent == "" {
		return nil, fmt.Errorf("parse intent: empty intent")
	}

	st := models.SearchType(parsed.SearchType)
	switch st {
	case models.SearchTypeSpecific, models.SearchTypeCategory, models.SearchTypeFeature, models.SearchTypeGeneral:
	default:
		st = models.SearchTypeGeneral
	}

	return &models.QueryIntent{
		Intent:     parsed.Intent,
		Category:   parsed.Category,
		SearchType: st,
	}, nil
}
