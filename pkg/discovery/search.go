package discovery

import (
	"sort"
	"strings"

	"github.com/datalens-io/datalens-engine/pkg/models"
)

const (
	defaultSearchLimit    = 10
	searchScoreDivisor    = 10.0
	searchScoreThreshold  = 0.1
	searchPopularityBonus = 0.5
)

// popularCategories get a flat relevance bonus in the plain search path.
var popularCategories = map[string]struct{}{
	"Finance":       {},
	"Productivity":  {},
	"Communication": {},
	"Analytics":     {},
}

// Search is the plain application relevance path, used outside the full
// discovery flow. Scores are normalized to [0, 1]: the raw additive sum is
// divided by a fixed divisor and clamped at 1.0. The clamp is intentional;
// many-term queries can exceed the divisor before normalization.
func (e *Engine) Search(query string, limit int) []models.SearchResult {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []models.SearchResult{}
	}
	lower := strings.ToLower(trimmed)
	terms := Tokenize(trimmed)

	results := []models.SearchResult{}
	apps := e.store.Applications()
	for i := range apps {
		score := searchScore(&apps[i], lower, terms)
		if score < searchScoreThreshold {
			continue
		}
		results = append(results, models.SearchResult{
			Application: apps[i],
			Score:       score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func searchScore(app *models.Application, lower string, terms []string) float64 {
	name := strings.ToLower(app.Name)
	cat := strings.ToLower(app.Category)
	desc := strings.ToLower(app.Description)

	var raw float64
	if strings.Contains(name, lower) {
		raw += 10
	}
	if strings.Contains(cat, lower) {
		raw += 5
	}
	if strings.Contains(desc, lower) {
		raw += 3
	}
	for _, t := range terms {
		if strings.Contains(name, t) {
			raw += 2
		}
		if strings.Contains(cat, t) {
			raw += 1.5
		}
		if strings.Contains(desc, t) {
			raw += 1
		}
	}
	if _, ok := popularCategories[app.Category]; ok {
		raw += searchPopularityBonus
	}

	score := raw / searchScoreDivisor
	if score > 1.0 {
		score = 1.0
	}
	return score
}
