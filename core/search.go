package core

// SearchResult is one recalled memory snippet. Score is backend-defined
// relevance, higher is better; Metadata carries whatever the store captured
// when the snippet was written (source agent, timestamps, tags).
type SearchResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}
