package core

// MemoryStore persists and recalls conversational memory snippets so agents
// can consult earlier investigations before starting a new one ("memory
// first"). Search may be backed by embeddings, keywords or any heuristic;
// results carry relevance scores. Implementations must be safe for concurrent
// use.
type MemoryStore interface {
	// Get returns the memory bag for a session.
	Get(sessionID string) (map[string]any, error)
	// Put merges a delta into the session's memory bag.
	Put(sessionID string, delta map[string]any) error
	// Search returns up to limit snippets relevant to the query.
	Search(sessionID string, query string, limit int) ([]SearchResult, error)
	// Store appends one content snippet with metadata.
	Store(sessionID string, content string, metadata map[string]any) error
	// Delete removes a snippet by id.
	Delete(sessionID string, memoryID string) error
}
