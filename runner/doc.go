// Package runner implements the orchestration entry point for the support
// assistant.
//
// The Runner owns the lifecycle of one conversational turn: it persists the
// incoming user content, executes the root agent, pumps emitted events through
// validation and persistence, and streams them to the caller. When an agent
// ends its turn with a transfer directive the runner validates the target
// against the route registry and dispatches the named agent within the same
// run, so a single user message can travel from the conversation manager to a
// specialist and back without another round trip.
//
// Agents and the pump advance in lock step: after each complete event the
// emitting agent suspends until the runner has applied the event's state delta
// and appended it to session history. Partial streaming fragments bypass
// persistence and, when streaming is enabled, flow straight to the caller.
package runner
