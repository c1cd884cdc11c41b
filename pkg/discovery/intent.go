package discovery

import (
	"regexp"
	"strings"

	"github.com/datalens-io/datalens-engine/pkg/models"
)

// categoryRule maps a query pattern to an application category.
// Rules are evaluated in order, first match wins; the order is a tie-break
// policy (finance outranks productivity for "payment work tools").
type categoryRule struct {
	pattern  *regexp.Regexp
	category string
	intent   string
}

var categoryRules = []categoryRule{
	{regexp.MustCompile(`finance|money|payment`), "Finance", "Find finance and payment applications"},
	{regexp.MustCompile(`security|privacy`), "Security", "Find security and privacy applications"},
	{regexp.MustCompile(`productivity|work`), "Productivity", "Find productivity and work applications"},
	{regexp.MustCompile(`entertainment|music|game`), "Entertainment", "Find entertainment applications"},
}

var (
	actionVerbPattern    = regexp.MustCompile(`\b(find|show|get|need)\b`)
	superlativePattern   = regexp.MustCompile(`\b(best|top)\b`)
	collaborationPattern = regexp.MustCompile(`\b(team|collaboration|collaborate)\b`)
)

// ClassifyIntent maps a raw query to an intent record. Total function:
// every input, including the empty string, yields a well-formed result.
func ClassifyIntent(query string) models.QueryIntent {
	lower := strings.ToLower(query)

	intent := models.QueryIntent{
		Intent:     "Find relevant applications",
		SearchType: models.SearchTypeGeneral,
		Keywords:   keywords(lower),
	}

	for _, rule := range categoryRules {
		if rule.pattern.MatchString(lower) {
			intent.Category = rule.category
			intent.Intent = rule.intent
			intent.SearchType = models.SearchTypeCategory
			return intent
		}
	}

	if actionVerbPattern.MatchString(lower) {
		intent.SearchType = models.SearchTypeFeature
	}

	switch {
	case superlativePattern.MatchString(lower):
		intent.Intent = "Find the best rated applications"
	case collaborationPattern.MatchString(lower):
		intent.Intent = "Find team collaboration tools"
	}

	return intent
}

// keywords returns the query tokens longer than 2 characters. Unlike search
// terms, stop words are kept; the keyword list mirrors the user's phrasing.
func keywords(lower string) []string {
	var kws []string
	for _, tok := range strings.Fields(lower) {
		tok = strings.Trim(tok, `.,;:!?"'()`)
		if len(tok) > 2 {
			kws = append(kws, tok)
		}
	}
	return kws
}
