// Package discovery implements the natural-language discovery engine:
// intent classification, sensitive-data heuristics, lexical scoring over the
// catalog, and the orchestration that turns a free-text query into ranked
// suggestions, alternative queries and compliance warnings.
package discovery

import (
	"strings"
	"unicode"
)

// stopWords are dropped from search terms. Tokens this common carry no
// ranking signal and would inflate per-term match counts.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"what": {}, "which": {}, "where": {}, "who": {}, "how": {}, "can": {},
	"could": {}, "would": {}, "should": {}, "you": {}, "are": {}, "was": {},
	"were": {}, "been": {}, "does": {}, "did": {}, "have": {}, "has": {},
	"had": {}, "about": {}, "all": {}, "any": {}, "some": {}, "need": {},
	"want": {}, "looking": {}, "from": {}, "into": {}, "our": {}, "your": {},
}

// Tokenize derives the search-term set from a raw query: lower-case, strip
// punctuation, split on whitespace, drop stop words and tokens of length <= 2.
// Duplicates collapse to the first occurrence; a repeated word must not score
// twice. Order is preserved but not significant to scoring.
func Tokenize(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, query)

	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 {
			continue
		}
		if _, ok := stopWords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}
