package artifact

import (
	"fmt"
	"sort"
	"sync"
)

// InMemoryStore is a process-local ArtifactStore keeping artifact bytes in a
// nested map keyed sessionID -> artifactID. Troubleshooting runs store their
// synthesized solution reports here so a later turn (or the report command)
// can fetch them without re-running the investigation.
//
// Bytes are copied on save and retrieval, so neither side can mutate stored
// data through a shared slice. Safe for concurrent use.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes for the session and id.
func (a *InMemoryStore) Save(sessionID, artifactID string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	byID, ok := a.artifacts[sessionID]
	if !ok {
		byID = make(map[string][]byte)
		a.artifacts[sessionID] = byID
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	byID[artifactID] = cp

	return nil
}

// Get returns a copy of the stored artifact bytes, or ErrNotFound.
func (a *InMemoryStore) Get(sessionID, artifactID string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.artifacts[sessionID][artifactID]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, sessionID, artifactID)
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	return cp, nil
}

// List returns the artifact ids stored for the session, sorted for stable
// display.
func (a *InMemoryStore) List(sessionID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	byID := a.artifacts[sessionID]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

// Delete removes the artifact if present, or returns ErrNotFound.
func (a *InMemoryStore) Delete(sessionID, artifactID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	byID := a.artifacts[sessionID]
	if _, ok := byID[artifactID]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, sessionID, artifactID)
	}
	delete(byID, artifactID)

	return nil
}
