// Package assistant turns a query and its ranked results into a
// conversational answer. Two interchangeable backends implement the same
// contract: a generative provider calling an external model, and a local
// deterministic responder. The fallback orchestrator demotes from the first
// to the second when the external backend fails.
package assistant

import (
	"context"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

// ResponseProvider is the single contract both backends implement so the
// fallback orchestrator can hold a "current provider" uniformly.
//
// Every method returns a well-formed response even on failure; the error
// return exists so the orchestrator can detect backend failures and demote.
// Callers going through the orchestrator never see these errors.
type ResponseProvider interface {
	// Respond produces a conversational answer conditioned on the ranked
	// applications for the query.
	Respond(ctx context.Context, query string, store *catalog.Store, ranked []models.SearchResult) (*models.AIResponse, error)

	// SuggestQueries proposes follow-up queries for the given query.
	SuggestQueries(ctx context.Context, query string, store *catalog.Store) ([]string, error)

	// ClassifyIntent maps the query to an intent record.
	ClassifyIntent(ctx context.Context, query string) (*models.QueryIntent, error)

	// Welcome produces the greeting shown before any query is asked.
	Welcome(ctx context.Context, store *catalog.Store) (*models.AIResponse, error)
}

const (
	maxReferencedEntities = 5
	maxSuggestedQueries   = 4
)

// entityIDs extracts up to maxReferencedEntities application ids from the
// ranked results.
func entityIDs(ranked []models.SearchResult) []string {
	ids := []string{}
	for _, r := range ranked {
		if len(ids) == maxReferencedEntities {
			break
		}
		ids = append(ids, r.Application.ID)
	}
	return ids
}

// genericSuggestions pad category-derived follow-ups to the limit.
var genericSuggestions = []string{
	"Show me the most used applications",
	"Which tables contain sensitive data?",
	"Find datasources by department",
	"What applications handle payments?",
}

// suggestionsFromRanked derives follow-up queries from the categories of the
// ranked applications, padded with generic fallbacks, capped at the limit.
func suggestionsFromRanked(ranked []models.SearchResult) []string {
	suggestions := []string{}
	seen := make(map[string]struct{})
	for _, r := range ranked {
		cat := r.Application.Category
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		suggestions = append(suggestions, "Show me more "+cat+" applications")
		if len(suggestions) == maxSuggestedQueries {
			return suggestions
		}
	}
	for _, g := range genericSuggestions {
		if len(suggestions) == maxSuggestedQueries {
			break
		}
		suggestions = append(suggestions, g)
	}
	return suggestions
}
