package session

import (
	"sync"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// InMemoryStore is a volatile SessionStore keeping support conversations in a
// process local map. It is safe for concurrent access and suited for tests,
// examples and single-instance chat deployments. Returned sessions are clones
// so callers cannot mutate store internals.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Create ensures a session with the given id exists and returns a clone of it.
// Creating an id that already exists returns the existing session unchanged.
func (s *InMemoryStore) Create(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(sessionID).Clone(), nil
}

// Get returns a clone of an existing session, creating it lazily when absent.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	if sess, ok := s.sessions[sessionID]; ok {
		clone := sess.Clone()
		s.mu.RUnlock()
		return clone, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(sessionID).Clone(), nil
}

// AppendEvent commits one event: the event's state delta is applied first,
// then the event joins the history. Partial streaming fragments are expected
// to be filtered by the caller.
func (s *InMemoryStore) AppendEvent(sessionID string, ev core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ensureLocked(sessionID)
	if len(ev.Actions.StateDelta) > 0 {
		sess.ApplyStateDelta(ev.Actions.StateDelta)
	}
	sess.AddEvent(ev)
	return nil
}

// ApplyDelta merges a key/value delta into the session state.
func (s *InMemoryStore) ApplyDelta(sessionID string, delta map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(sessionID).ApplyStateDelta(delta)
	return nil
}

// ensureLocked returns the stored session for the id, allocating it on first
// use. Caller must hold the write lock.
func (s *InMemoryStore) ensureLocked(sessionID string) *core.Session {
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess
	return sess
}
