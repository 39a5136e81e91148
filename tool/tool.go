// Package tool implements the function calling subsystem that lets support
// agents invoke structured capabilities (knowledge search, ticket lookups,
// control handoff) with schema validated arguments and uniform error handling.
//
// Every tool receives a *core.ToolContext scoped to one function call. The
// context stages session state writes, transfer and escalation requests as
// EventActions; the flow layer merges them into the function response event so
// an abandoned call leaves no trace.
package tool

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/internal/util"
)

// Tool is one callable capability exposed to a model.
//
// Implementations should provide a snake_case name, a description that tells
// the model when to call it, and a minimal JSON-Schema parameter map. Call
// receives already-decoded arguments; implementations that can be invoked
// concurrently (the executor runs batches in parallel) must be thread-safe.
type Tool interface {
	// Name returns the unique identifier used in function call routing.
	Name() string

	// Description is shown to the model to guide tool selection.
	Description() string

	// Parameters returns a JSON-Schema-like map describing accepted arguments.
	Parameters() map[string]interface{}

	// Call executes the tool. Arguments arrive parsed from the model's JSON.
	Call(toolCtx *core.ToolContext, args map[string]interface{}) (interface{}, error)
}

// ValidationError reports a schema/argument mismatch.
type ValidationError = util.ValidationError

// Error codes carried by ToolError. Custom codes from tool implementations
// pass through unchanged.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeExecutionError  = "EXECUTION_ERROR"
)

// ToolError is the uniform failure shape for tool execution. It reaches the
// model as a function response with the Error field set; tools degrade into
// answers, they do not abort the turn.
type ToolError struct {
	Tool    string      `json:"tool"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the given coordinates.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
