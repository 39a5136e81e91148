package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// record is one stored memory snippet with its insertion sequence number.
type record struct {
	id       string
	content  string
	metadata map[string]any
}

// InMemoryStore is a process-local MemoryStore holding per-session recall
// snippets plus a session-scoped key/value bag. Specialists write their
// findings here so a later turn can answer "what did we already try" without
// re-running the investigation.
//
// Search is a case-insensitive substring scan returned newest first, so the
// most recent findings for a recurring issue surface before stale ones. Safe
// for concurrent use.
type InMemoryStore struct {
	mu      sync.RWMutex
	bags    map[string]map[string]any // sessionID -> key -> value
	records map[string][]record       // sessionID -> snippets in insertion order
	seq     map[string]int            // sessionID -> next memory id
}

// NewInMemoryStore constructs an empty in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bags:    make(map[string]map[string]any),
		records: make(map[string][]record),
		seq:     make(map[string]int),
	}
}

// Get returns a copy of the key/value memory bag for the session.
func (m *InMemoryStore) Get(sessionID string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bag, ok := m.bags[sessionID]
	if !ok {
		return map[string]any{}, nil
	}

	out := make(map[string]any, len(bag))
	for k, v := range bag {
		out[k] = v
	}
	return out, nil
}

// Put merges the delta into the session's key/value memory bag.
func (m *InMemoryStore) Put(sessionID string, delta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bag, ok := m.bags[sessionID]
	if !ok {
		bag = make(map[string]any, len(delta))
		m.bags[sessionID] = bag
	}
	for k, v := range delta {
		bag[k] = v
	}
	return nil
}

// Search scans the session's snippets for the query, case-insensitively,
// newest first. An empty query matches everything. Every hit carries a
// constant score of 1.0; there is no ranking beyond recency.
func (m *InMemoryStore) Search(sessionID string, query string, limit int) ([]core.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.records[sessionID]
	needle := strings.ToLower(query)

	results := make([]core.SearchResult, 0, limit)
	for i := len(stored) - 1; i >= 0; i-- {
		if limit > 0 && len(results) >= limit {
			break
		}
		rec := stored[i]
		if needle != "" && !strings.Contains(strings.ToLower(rec.content), needle) {
			continue
		}

		md := make(map[string]any, len(rec.metadata))
		for k, v := range rec.metadata {
			md[k] = v
		}
		results = append(results, core.SearchResult{ID: rec.id, Content: rec.content, Score: 1.0, Metadata: md})
	}

	return results, nil
}

// Store appends one snippet to the session's memory. IDs are stable across
// deletions.
func (m *InMemoryStore) Store(sessionID string, content string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := fmt.Sprintf("mem_%d", m.seq[sessionID])
	m.seq[sessionID]++

	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}

	m.records[sessionID] = append(m.records[sessionID], record{id: id, content: content, metadata: md})
	return nil
}

// Delete removes a snippet by id.
func (m *InMemoryStore) Delete(sessionID string, memoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.records[sessionID]
	for i, rec := range stored {
		if rec.id == memoryID {
			m.records[sessionID] = append(stored[:i], stored[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("memory %s not found for session %s", memoryID, sessionID)
}
