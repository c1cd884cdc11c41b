package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

func searchEngine() *Engine {
	store := catalog.NewStore(catalog.Snapshot{
		Applications: []models.Application{
			{ID: "app-1", Name: "PayFlow", Category: "Finance", Description: "Payment processing platform"},
			{ID: "app-2", Name: "LedgerBook", Category: "Finance", Description: "Double-entry accounting"},
			{ID: "app-3", Name: "FinanceHub", Category: "Finance", Description: "Finance department portal"},
			{ID: "app-4", Name: "TeamSpace", Category: "Productivity", Description: "Team collaboration workspace"},
			{ID: "app-5", Name: "JukeBin", Category: "Entertainment", Description: "Music streaming service"},
		},
	})
	return NewEngine(store, zap.NewNop())
}

func TestSearchFinanceLimited(t *testing.T) {
	e := searchEngine()

	results := e.Search("finance", 2)
	require.Len(t, results, 2)

	// Name match outranks category-only matches; the limit cuts after sorting.
	assert.Equal(t, "FinanceHub", results[0].Application.Name)
	assert.Greater(t, results[0].Score, results[1].Score)
	for _, r := range results {
		assert.Equal(t, "Finance", r.Application.Category)
	}
}

func TestSearchCategoryOnlyScore(t *testing.T) {
	e := searchEngine()

	results := e.Search("finance", 0)
	var payflow *models.SearchResult
	for i := range results {
		if results[i].Application.Name == "PayFlow" {
			payflow = &results[i]
		}
	}
	require.NotNil(t, payflow)

	// Category phrase 5 + category term 1.5 + popularity 0.5, over divisor 10.
	assert.InDelta(t, 0.7, payflow.Score, 1e-9)
}

func TestSearchScoreClamped(t *testing.T) {
	e := searchEngine()

	// Name phrase plus term hits push the raw sum past the divisor.
	results := e.Search("FinanceHub", 0)
	require.NotEmpty(t, results)
	assert.Equal(t, "FinanceHub", results[0].Application.Name)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearchThreshold(t *testing.T) {
	e := searchEngine()

	for _, r := range e.Search("music", 0) {
		assert.GreaterOrEqual(t, r.Score, searchScoreThreshold)
	}
	assert.Empty(t, e.Search("zzzz-nothing", 0))
}

func TestSearchEmptyQuery(t *testing.T) {
	e := searchEngine()

	assert.Empty(t, e.Search("", 5))
	assert.Empty(t, e.Search("   ", 5))
}

func TestSearchDefaultLimit(t *testing.T) {
	var apps []models.Application
	for i := 0; i < 15; i++ {
		apps = append(apps, models.Application{
			ID:   string(rune('a' + i)),
			Name: "Finance Tool", Category: "Finance",
		})
	}
	e := NewEngine(catalog.NewStore(catalog.Snapshot{Applications: apps}), zap.NewNop())

	assert.Len(t, e.Search("finance", 0), 10)
}
