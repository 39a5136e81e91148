package core

import "errors"

var (
	// ErrUnknownTransferTarget is returned when an agent requests handoff to a
	// name that no registered agent answers to. It is fatal to the current
	// turn: the conversation stays with the prior agent and the user sees a
	// routing error instead of a silently rerouted answer.
	ErrUnknownTransferTarget = errors.New("unknown transfer target")

	// ErrSessionNotFound is returned by session stores when no session exists
	// for the requested id and lazy creation is disabled.
	ErrSessionNotFound = errors.New("session not found")
)

// Error codes carried on error events. A backend failure surfaces as exactly
// one visible error event; session state is left untouched so the turn can be
// retried.
const (
	ErrorCodeBackendFailure        = "BACKEND_FAILURE"
	ErrorCodeUnknownTransferTarget = "UNKNOWN_TRANSFER_TARGET"
	ErrorCodeMaxModelCalls         = "MAX_MODEL_CALLS_EXCEEDED"
)
