package testutil

import (
	"github.com/satyamsundaram01/moe-support-assist/core"
)

// SessionBuilder constructs sessions with pre-populated state and history for
// tests of the conversation state machine.
//
//	sess := NewSessionBuilder("sess-1").
//		State("last_active_agent", "KnowledgeSpecialist").
//		Turn("how do I set up push?", "KnowledgeSpecialist", "Here is how...").
//		Build()
type SessionBuilder struct {
	id     string
	state  map[string]any
	events []core.Event
}

// NewSessionBuilder creates a builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// State sets a state key on the resulting session.
func (b *SessionBuilder) State(key string, val any) *SessionBuilder {
	b.state[key] = val
	return b
}

// Event appends a single event to the session history.
func (b *SessionBuilder) Event(ev core.Event) *SessionBuilder {
	b.events = append(b.events, ev)
	return b
}

// Events appends multiple events to the session history.
func (b *SessionBuilder) Events(evs ...core.Event) *SessionBuilder {
	b.events = append(b.events, evs...)
	return b
}

// Turn appends one completed exchange: a user message followed by the named
// agent's reply.
func (b *SessionBuilder) Turn(userMsg, author, reply string) *SessionBuilder {
	b.events = append(b.events,
		NewEventBuilder().UserText(userMsg).Build(),
		NewEventBuilder().Author(author).AssistantText(reply).Build(),
	)
	return b
}

// Build returns a *core.Session with the staged state and events.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id)

	for k, v := range b.state {
		s.State[k] = v
	}
	s.Events = append(s.Events, b.events...)

	return s
}
