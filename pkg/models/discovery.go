package models

// SensitiveDataType classifies the kind of PII or financial data a query is
// asking about. Attached transiently to a query, never persisted.
type SensitiveDataType string

const (
	SensitiveCreditCard  SensitiveDataType = "credit_card"
	SensitiveSSN         SensitiveDataType = "ssn"
	SensitiveEmail       SensitiveDataType = "email"
	SensitivePhone       SensitiveDataType = "phone"
	SensitiveAddress     SensitiveDataType = "address"
	SensitiveName        SensitiveDataType = "name"
	SensitivePassword    SensitiveDataType = "password"
	SensitiveSalary      SensitiveDataType = "salary"
	SensitiveDateOfBirth SensitiveDataType = "date_of_birth"
)

// MatchType describes how strongly a result matched the query.
type MatchType string

const (
	// MatchExact means a sensitive-type-specific field name matched directly
	// (e.g. a column literally named card_number for a credit card query).
	MatchExact MatchType = "exact"
	// MatchSemantic means individual query terms were found in the entity's text.
	MatchSemantic MatchType = "semantic"
	// MatchRelated is the default for weak generic signals.
	MatchRelated MatchType = "related"
)

// SearchType tags the broad shape of a query.
type SearchType string

const (
	SearchTypeSpecific SearchType = "specific"
	SearchTypeCategory SearchType = "category"
	SearchTypeFeature  SearchType = "feature"
	SearchTypeGeneral  SearchType = "general"
)

// QueryIntent is the classifier's view of what the user is asking for.
type QueryIntent struct {
	Intent     string     `json:"intent"`
	Category   string     `json:"category,omitempty"`
	Keywords   []string   `json:"keywords"`
	SearchType SearchType `json:"search_type"`
}

// ScoredResult is one ranked entity produced by the discovery engine.
type ScoredResult struct {
	Kind      EntityKind `json:"kind"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Score     float64    `json:"score"`
	Reason    string     `json:"reason"`
	Path      string     `json:"path"`
	Sensitive bool       `json:"sensitive"`
	MatchType MatchType  `json:"match_type"`
}

// DiscoveryResult is the full response of the discovery orchestrator.
type DiscoveryResult struct {
	Query              string         `json:"query"`
	Intent             QueryIntent    `json:"intent"`
	Suggestions        []ScoredResult `json:"suggestions"`
	AlternativeQueries []string       `json:"alternative_queries"`
	Warnings           []string       `json:"warnings"`
}

// SearchResult is one row of the plain application relevance search.
// Score is normalized to [0, 1].
type SearchResult struct {
	Application Application `json:"application"`
	Score       float64     `json:"score"`
}
