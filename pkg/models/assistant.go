package models

// AIResponse is a conversational answer produced by a response provider.
// Every provider path returns a well-formed AIResponse; backend failures are
// absorbed and surface only as degraded confidence.
type AIResponse struct {
	Answer           string   `json:"answer"`
	EntityIDs        []string `json:"entity_ids"`        // referenced catalog ids, at most 5
	SuggestedQueries []string `json:"suggested_queries"` // follow-up queries, at most 4
	Confidence       float64  `json:"confidence"`        // 0.0 - 1.0
}
