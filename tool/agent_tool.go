package tool

import (
	"fmt"
	"strings"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// AgentTool exposes another agent as a callable tool. Unlike a transfer,
// which moves conversation ownership, a sub-call runs the wrapped agent to
// completion and hands its answer back to the caller: the user never sees the
// sub-agent speak.
//
// The sub-agent runs against an isolated session snapshot carrying the
// caller's history plus the request, so nothing it emits is persisted
// directly. Its final state delta is re-staged on the calling tool context
// (so output keys like "knowledge_findings" survive), while transfer and
// escalation actions are dropped: a sub-call must never delegate.
type AgentTool struct {
	agent             core.Agent
	skipSummarization bool
}

// AgentToolOption customizes an AgentTool.
type AgentToolOption func(*AgentTool)

// WithSkipSummarization marks the sub-agent's answer as final: the calling
// model does not get another turn to rephrase it.
func WithSkipSummarization() AgentToolOption {
	return func(t *AgentTool) { t.skipSummarization = true }
}

// NewAgentTool wraps an agent as a tool. The tool takes the agent's name and
// description, so the caller's model picks sub-agents the same way it picks
// ordinary functions.
func NewAgentTool(agent core.Agent, opts ...AgentToolOption) *AgentTool {
	t := &AgentTool{agent: agent}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the wrapped agent's name.
func (t *AgentTool) Name() string { return t.agent.Name() }

// Description returns the wrapped agent's description.
func (t *AgentTool) Description() string { return t.agent.Description() }

// Parameters describes the single request argument.
func (t *AgentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"request": map[string]any{
				"type":        "string",
				"description": "The question or task for the agent",
			},
		},
		"required": []string{"request"},
	}
}

// Call runs the wrapped agent on the request and returns its final visible
// text.
func (t *AgentTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	request, ok := args["request"].(string)
	if !ok || request == "" {
		return nil, fmt.Errorf("missing required field 'request'")
	}

	// This function call's own actions must not move ownership either.
	toolCtx.LockTransfer()

	parent := toolCtx.InternalRunContext()

	childEmit := make(chan core.Event, 64)
	child := parent.NewChildContext(childEmit, nil, branchName(parent.Branch, t.agent.Name()))
	child.Agent = core.AgentInfo{Name: t.agent.Name(), Type: "sub_call"}
	child.UserContent = core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: request}}}

	// Isolated snapshot: the sub-agent sees the conversation so far plus its
	// request, but its session reads never hit the store and its events are
	// consumed here instead of being persisted.
	if parent.Session != nil {
		snap := parent.Session.Clone()
		snap.AddEvent(core.NewUserContentEvent(parent.RunID, &child.UserContent))
		child.Session = snap
	}
	child.SessionStore = nil

	runErr := make(chan error, 1)
	go func() {
		runErr <- t.agent.Run(child)
		close(childEmit)
	}()

	var (
		answer     string
		stateDelta = map[string]any{}
	)
	for ev := range childEmit {
		if ev.IsPartial() {
			continue
		}
		if ev.IsError() {
			// Drain the channel so the runner goroutine can finish.
			for range childEmit {
			}
			<-runErr
			return nil, NewToolError(t.Name(), *ev.ErrorMessage, CodeExecutionError)
		}
		if text := ev.VisibleText(); text != "" {
			answer = text
		}
		for k, v := range ev.Actions.StateDelta {
			stateDelta[k] = v
		}
		if ev.Actions.TransferToAgent != nil {
			toolCtx.Logger().Debug("tool.sub_call.transfer_dropped",
				"agent", t.agent.Name(), "target", *ev.Actions.TransferToAgent)
		}
	}
	if err := <-runErr; err != nil {
		return nil, fmt.Errorf("sub-agent %s: %w", t.agent.Name(), err)
	}

	for k, v := range stateDelta {
		toolCtx.SetState(k, v)
	}
	if t.skipSummarization {
		toolCtx.SkipSummarization()
	}

	return strings.TrimSpace(answer), nil
}

func branchName(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
