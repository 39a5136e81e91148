// Package flow implements the model-call loop that drives an LLM-backed
// support agent through one conversational turn.
//
// A flow assembles the model request (instructions, conversation history,
// planning contract, tool definitions), streams the completion, separates
// hidden reasoning from user-visible output, executes requested tools and
// loops until the agent produces a final response or hands the conversation
// off. Flows are composed from small request/response processors so
// individual concerns stay testable.
package flow

import (
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/planner"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// Flow executes one agent turn and reports progress as a stream of events.
type Flow interface {
	// Execute runs the flow against the given run context. The returned
	// channel closes when the turn finishes or an unrecoverable error occurs.
	// A transfer directive, once emitted, is terminal: the flow stops and the
	// runner hands control to the named agent.
	Execute(runCtx *core.RunContext) (<-chan core.Event, error)
}

// FlowAgent is the view of an agent that flows operate on. It exposes the
// knobs a flow needs (model, instructions, tools, planner, limits) without
// leaking the full agent implementation.
type FlowAgent interface {
	// GetName returns the agent's display name.
	GetName() string

	// GetLLM returns the language model instance.
	GetLLM() model.Model

	// ResolveInstructions produces the agent's system instructions for this run.
	ResolveInstructions(runCtx *core.RunContext) (string, error)

	// GetPlanner returns the reasoning planner, or nil when the agent
	// responds without a planning contract.
	GetPlanner() planner.Planner

	// GetTools returns the registered tools for function calling.
	GetTools() map[string]tool.Tool

	// GetSubAgents returns the list of child agents.
	GetSubAgents() []FlowAgent

	// IsFunctionCallingEnabled returns whether function calling is enabled.
	IsFunctionCallingEnabled() bool

	// IsStreamingEnabled returns whether streaming responses are enabled.
	IsStreamingEnabled() bool

	// IsTransferEnabled returns whether control handoff to other agents is enabled.
	IsTransferEnabled() bool

	// GetOutputKey returns the session state key for saving final responses.
	GetOutputKey() string

	// MaxHistoryMessages returns the maximum number of conversation history messages to keep.
	MaxHistoryMessages() int
}

// RequestProcessor mutates the model request before generation.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the chat request before model execution.
	ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error
}

// ResponseProcessor inspects or rewrites each model response fragment.
type ResponseProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessResponse handles the model response and may rewrite its parts.
	ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error
}
