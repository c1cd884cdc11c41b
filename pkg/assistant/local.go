package assistant

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/discovery"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

const (
	localConfidence        = 0.85
	localWelcomeConfidence = 1.0
)

// categoryTemplates answer queries whose category the classifier detected.
var categoryTemplates = map[string]string{
	"Finance": "The catalog's Finance applications cover payment processing, billing and " +
		"expense tracking. The ranked results below point at the applications and data " +
		"most relevant to financial workflows, with the strongest matches first.",
	"Security": "For security and privacy needs, the ranked results highlight the catalog's " +
		"access control and compliance surfaces. Sensitive tables and columns are flagged " +
		"so you can see where authorization will be required.",
	"Productivity": "The catalog's productivity tools span collaboration, project tracking " +
		"and document management. The results are ordered by how closely each matches your " +
		"search terms.",
	"Entertainment": "Entertainment applications in the catalog include media and gaming " +
		"platforms. The ranked results below show the closest matches to your search.",
}

// LocalProvider is the deterministic drop-in substitute for the generative
// backend. It makes no external calls; a small artificial delay preserves
// the pacing callers tuned for the generative path. The delay never affects
// ranking or answer content.
type LocalProvider struct {
	delayMin time.Duration
	delayMax time.Duration
	logger   *zap.Logger
}

// NewLocalProvider creates the local responder. Pass zero delays to answer
// immediately (tests do).
func NewLocalProvider(delayMin, delayMax time.Duration, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{
		delayMin: delayMin,
		delayMax: delayMax,
		logger:   logger.Named("assistant.local"),
	}
}

func (p *LocalProvider) delay(ctx context.Context) {
	if p.delayMax <= 0 {
		return
	}
	d := p.delayMin
	if p.delayMax > p.delayMin {
		d += time.Duration(rand.Int63n(int64(p.delayMax - p.delayMin)))
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Respond implements ResponseProvider. Never fails.
func (p *LocalProvider) Respond(ctx context.Context, query string, store *catalog.Store, ranked []models.SearchResult) (*models.AIResponse, error) {
	p.delay(ctx)

	intent := discovery.ClassifyIntent(query)
	answer, ok := categoryTemplates[intent.Category]
	if !ok {
		answer = genericAnswer(query, ranked)
	}

	return &models.AIResponse{
		Answer:           answer,
		EntityIDs:        entityIDs(ranked),
		SuggestedQueries: suggestionsFromRanked(ranked),
		Confidence:       localConfidence,
	}, nil
}

// SuggestQueries implements ResponseProvider. Never fails.
func (p *LocalProvider) SuggestQueries(ctx context.Context, query string, store *catalog.Store) ([]string, error) {
	p.delay(ctx)

	intent := discovery.ClassifyIntent(query)
	suggestions := []string{}
	if intent.Category != "" {
		suggestions = append(suggestions, "Show me more "+intent.Category+" applications")
	}
	for _, g := range genericSuggestions {
		if len(suggestions) == maxSuggestedQueries {
			break
		}
		suggestions = append(suggestions, g)
	}
	return suggestions, nil
}

// ClassifyIntent implements ResponseProvider. Never fails.
func (p *LocalProvider) ClassifyIntent(ctx context.Context, query string) (*models.QueryIntent, error) {
	p.delay(ctx)
	intent := discovery.ClassifyIntent(query)
	return &intent, nil
}

// Welcome implements ResponseProvider. Never fails.
func (p *LocalProvider) Welcome(ctx context.Context, store *catalog.Store) (*models.AIResponse, error) {
	p.delay(ctx)
	return welcomeFallback(store), nil
}

func genericAnswer(query string, ranked []models.SearchResult) string {
	if len(ranked) == 0 {
		return fmt.Sprintf("No catalog entries matched %q directly. Try rephrasing the "+
			"search or one of the suggested queries below.", query)
	}
	top := ranked[0].Application
	return fmt.Sprintf("The closest match for %q is %s (%s category). %s The remaining "+
		"results are ordered by relevance to your search terms.",
		query, top.Name, top.Category, top.Description)
}

// welcomeFallback is the deterministic greeting: confidence 1.0 and exactly
// four suggested starting queries.
func welcomeFallback(store *catalog.Store) *models.AIResponse {
	categories := store.Categories()
	var catText string
	if len(categories) > 0 {
		catText = " covering " + strings.Join(categories, ", ")
	}
	return &models.AIResponse{
		Answer: fmt.Sprintf("Welcome to the data discovery catalog. %d entities are "+
			"indexed%s. Ask about applications, datasources, tables or columns in plain "+
			"language to get started.", store.TotalEntityCount(), catText),
		EntityIDs:        []string{},
		SuggestedQueries: welcomeSuggestions(store),
		Confidence:       localWelcomeConfidence,
	}
}

// welcomeSuggestions always returns exactly four starting queries.
func welcomeSuggestions(store *catalog.Store) []string {
	suggestions := []string{}
	for _, cat := range store.Categories() {
		suggestions = append(suggestions, "Show me "+cat+" applications")
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
