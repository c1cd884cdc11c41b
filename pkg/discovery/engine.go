package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

const maxSuggestions = 10

const maxAlternativeQueries = 5

// paymentColumnNames mark a column as carrying payment card data, matched on
// token boundaries against the column name.
var paymentColumnNames = []string{"card", "payment", "pan", "cvv"}

// Engine runs discovery queries against a loaded catalog store.
type Engine struct {
	store  *catalog.Store
	logger *zap.Logger
}

// NewEngine creates a discovery engine over the given store.
func NewEngine(store *catalog.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.Named("discovery"),
	}
}

// Discover fans the query out across all four entity kinds, merges the
// non-zero scores into one ranking, and derives alternative queries and
// warnings. Identical query and catalog always produce identical output;
// there are no fatal paths.
func (e *Engine) Discover(query string) models.DiscoveryResult {
	trimmed := strings.TrimSpace(query)
	result := models.DiscoveryResult{
		Query:              query,
		Intent:             ClassifyIntent(trimmed),
		Suggestions:        []models.ScoredResult{},
		AlternativeQueries: []string{},
		Warnings:           []string{},
	}
	if trimmed == "" {
		return result
	}

	queryID := uuid.NewString()
	lower := strings.ToLower(trimmed)
	terms := Tokenize(trimmed)
	sensitive := DetectSensitiveTypes(lower)

	var scored []models.ScoredResult
	apps := e.store.Applications()
	for i := range apps {
		if r := ScoreApplication(&apps[i], terms, lower, sensitive); r != nil {
			scored = append(scored, *r)
		}
	}
	sources := e.store.DataSources()
	for i := range sources {
		if r := ScoreDataSource(&sources[i], terms, lower, sensitive); r != nil {
			scored = append(scored, *r)
		}
	}
	tables := e.store.Tables()
	for i := range tables {
		if r := ScoreTable(&tables[i], terms, lower, sensitive); r != nil {
			scored = append(scored, *r)
		}
	}
	for _, ref := range e.store.Columns() {
		if r := ScoreColumn(ref, terms, lower, sensitive); r != nil {
			scored = append(scored, *r)
		}
	}

	// Stable sort: result order is user-visible and must be reproducible,
	// ties keep discovery order (applications before columns).
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	// Keep the initialized empty slice when nothing scored; the JSON binding
	// must render [] rather than null.
	if scored != nil {
		result.Suggestions = scored
	}
	result.AlternativeQueries = alternativeQueries(lower, result.Intent)
	result.Warnings = buildWarnings(scored)

	e.logger.Debug("discovery completed",
		zap.String("query_id", queryID),
		zap.String("search_type", string(result.Intent.SearchType)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Int("sensitive_types", len(sensitive)),
		zap.Int("warnings", len(result.Warnings)))

	return result
}

// alternativeQueries produces related phrasings from fixed substitution
// rules keyed on the query text and detected category. Never computed from
// the scored results, so ranking stays isolated from suggestion phrasing.
func alternativeQueries(lower string, intent models.QueryIntent) []string {
	var alts []string
	switch {
	case strings.Contains(lower, "credit card"):
		alts = []string{
			"customer payment methods",
			"stored card data",
			"transactions with card details",
			"billing account records",
			"tables in PCI scope",
		}
	case intent.Category == "Finance":
		alts = []string{
			"payment processing applications",
			"billing and invoicing tools",
			"expense tracking data",
			"revenue reporting tables",
			"finance department datasources",
		}
	case intent.Category == "Security":
		alts = []string{
			"access control applications",
			"audit log tables",
			"credential storage",
			"privacy compliance data",
		}
	case intent.Category == "Productivity":
		alts = []string{
			"team collaboration tools",
			"project tracking applications",
			"document management systems",
			"workflow automation",
		}
	case intent.Category == "Entertainment":
		alts = []string{
			"media streaming applications",
			"gaming platforms",
			"music libraries",
		}
	case strings.Contains(lower, "customer"):
		alts = []string{
			"customer contact details",
			"customer order history",
			"customer support applications",
			"customer analytics tables",
		}
	default:
		alts = []string{
			"applications by department",
			"recently updated tables",
			"sensitive data inventory",
			"datasources by owner",
		}
	}
	if len(alts) > maxAlternativeQueries {
		alts = alts[:maxAlternativeQueries]
	}
	return alts
}

// buildWarnings inspects the final suggestions. Order is fixed: sensitivity
// first, confidence second, PCI last. A warning whose condition does not
// hold is omitted entirely.
func buildWarnings(suggestions []models.ScoredResult) []string {
	warnings := []string{}

	sensitiveCount := 0
	hasExact := false
	hasPaymentColumn := false
	for _, s := range suggestions {
		if s.Sensitive {
			sensitiveCount++
		}
		if s.MatchType == models.MatchExact {
			hasExact = true
		}
		if s.Kind == models.KindColumn && fieldNameHasAny(s.Name, paymentColumnNames) {
			hasPaymentColumn = true
		}
	}

	if sensitiveCount > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d result(s) reference sensitive data; PII access authorization may be required.", sensitiveCount))
	}
	if !hasExact {
		warnings = append(warnings,
			"No exact matches found; results are ranked on partial relevance and may be incomplete.")
	}
	if hasPaymentColumn {
		warnings = append(warnings,
			"Payment card fields detected; PCI-DSS handling requirements apply to these columns.")
	}
	return warnings
}
