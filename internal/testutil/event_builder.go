package testutil

import (
	"github.com/satyamsundaram01/moe-support-assist/core"
)

// EventBuilder is a fluent helper for constructing events in tests.
//
//	ev := NewEventBuilder().Author("KnowledgeSpecialist").AssistantText("Found it.").Build()
//
// Chain only the parts you need; defaults cover the rest.
type EventBuilder struct {
	author        string
	invocationID  string
	role          string
	parts         []core.Part
	partial       *bool
	turnComplete  *bool
	actions       core.EventActions
	funcCalls     []core.FunctionCall
	funcResponses []core.FunctionResponse
}

// NewEventBuilder creates a builder with default author "agent".
func NewEventBuilder() *EventBuilder { return &EventBuilder{author: "agent"} }

// Author sets the event author.
func (b *EventBuilder) Author(a string) *EventBuilder { b.author = a; return b }

// Invocation sets the run id the event belongs to.
func (b *EventBuilder) Invocation(id string) *EventBuilder { b.invocationID = id; return b }

// Partial marks the event as a streaming fragment.
func (b *EventBuilder) Partial(p bool) *EventBuilder { b.partial = &p; return b }

// TurnComplete sets the turn completion flag.
func (b *EventBuilder) TurnComplete(c bool) *EventBuilder { b.turnComplete = &c; return b }

// UserText appends a user text part and sets the role to user.
func (b *EventBuilder) UserText(t string) *EventBuilder {
	b.role = "user"
	b.parts = append(b.parts, core.TextPart{Text: t})
	return b
}

// AssistantText appends an assistant text part and sets the role to assistant.
func (b *EventBuilder) AssistantText(t string) *EventBuilder {
	b.role = "assistant"
	b.parts = append(b.parts, core.TextPart{Text: t})
	return b
}

// Thought appends a hidden reasoning part and sets the role to assistant.
func (b *EventBuilder) Thought(t string) *EventBuilder {
	b.role = "assistant"
	b.parts = append(b.parts, core.TextPart{Text: t, Thought: true})
	return b
}

// ToolText appends a tool text part and sets the role to tool.
func (b *EventBuilder) ToolText(t string) *EventBuilder {
	b.role = "tool"
	b.parts = append(b.parts, core.TextPart{Text: t})
	return b
}

// FunctionCall adds a function call part with a JSON argument string.
func (b *EventBuilder) FunctionCall(name, args string) *EventBuilder {
	b.funcCalls = append(b.funcCalls, core.FunctionCall{Name: name, Arguments: args})
	return b
}

// FunctionResponse adds a function response part for a completed tool call.
func (b *EventBuilder) FunctionResponse(id, name string, result any, err error) *EventBuilder {
	fr := core.FunctionResponse{ID: id, Name: name, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	b.funcResponses = append(b.funcResponses, fr)
	return b
}

// StateDelta merges a key/value pair into the event's state delta.
func (b *EventBuilder) StateDelta(key string, val any) *EventBuilder {
	if b.actions.StateDelta == nil {
		b.actions.StateDelta = map[string]any{}
	}
	b.actions.StateDelta[key] = val
	return b
}

// Transfer sets the transfer target for a control handoff.
func (b *EventBuilder) Transfer(to string) *EventBuilder { b.actions.TransferToAgent = &to; return b }

// Escalate sets the escalate action flag.
func (b *EventBuilder) Escalate() *EventBuilder {
	t := true
	b.actions.Escalate = &t
	return b
}

// Build constructs the core.Event value.
func (b *EventBuilder) Build() core.Event {
	ev := core.NewEvent(b.invocationID, b.author)
	ev.Actions = b.actions
	if b.partial != nil {
		ev.Partial = b.partial
	}
	if b.turnComplete != nil {
		ev.TurnComplete = b.turnComplete
	}

	parts := make([]core.Part, 0, len(b.parts)+len(b.funcCalls)+len(b.funcResponses))
	parts = append(parts, b.parts...)
	for _, fc := range b.funcCalls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	for _, fr := range b.funcResponses {
		parts = append(parts, core.FunctionResponsePart{FunctionResponse: fr})
	}

	if len(parts) > 0 {
		role := b.role
		if role == "" {
			role = "assistant"
		}
		ev.Content = &core.Content{Role: role, Parts: parts}
	}

	return ev
}
