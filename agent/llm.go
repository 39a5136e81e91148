package agent

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/flow"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/planner"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// LLMAgentOptions configures an LLMAgent instance.
//
// Use functional options with NewLLMAgent to override defaults.
type LLMAgentOptions struct {
	Description           string
	Instruction           Instruction
	Planner               planner.Planner
	EnableStreaming       bool
	EnableFunctionCalling bool
	AllowTransfer         bool
	OutputKey             string
	MaxHistoryMessages    int
	Tools                 map[string]tool.Tool
}

// LLMAgent is a conversational agent backed by a language model. It resolves
// instructions (optionally templated over session state), calls the model
// through the flow pipeline, separates planner reasoning from visible output,
// executes requested tools and can hand the conversation off to sub-agents.
type LLMAgent struct {
	BaseAgent
	llm                   model.Model
	instruction           Instruction
	pl                    planner.Planner
	tools                 map[string]tool.Tool
	enableFunctionCalling bool
	enableStreaming       bool
	allowTransfer         bool
	outputKey             string
	maxHistoryMessages    int
}

// NewLLMAgent creates a model-backed agent. Defaults: streaming and function
// calling on, transfer allowed, 20-message history window, no planner.
func NewLLMAgent(name string, llm model.Model, optFns ...func(o *LLMAgentOptions)) *LLMAgent {
	opts := LLMAgentOptions{
		Instruction:           NewInstructionFromText(fmt.Sprintf("You are %s, a helpful support assistant.", name)),
		EnableStreaming:       true,
		EnableFunctionCalling: true,
		AllowTransfer:         true,
		MaxHistoryMessages:    20,
		Tools:                 make(map[string]tool.Tool),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &LLMAgent{
		BaseAgent:             NewBaseAgent(name),
		llm:                   llm,
		instruction:           opts.Instruction,
		pl:                    opts.Planner,
		tools:                 opts.Tools,
		enableFunctionCalling: opts.EnableFunctionCalling,
		enableStreaming:       opts.EnableStreaming,
		allowTransfer:         opts.AllowTransfer,
		outputKey:             opts.OutputKey,
		maxHistoryMessages:    opts.MaxHistoryMessages,
	}

	if opts.Description != "" {
		a.SetDescription(opts.Description)
	}

	return a
}

// RegisterTool adds a tool to the agent's capability set. Registered tools
// become callable by the model when function calling is enabled.
func (a *LLMAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *LLMAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// HasTool checks if a tool is registered with the agent.
func (a *LLMAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the names of all registered tools.
func (a *LLMAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	return names
}

// GetName returns the agent's display name.
func (a *LLMAgent) GetName() string { return a.Name() }

// GetLLM returns the language model instance.
func (a *LLMAgent) GetLLM() model.Model { return a.llm }

// GetPlanner returns the agent's reasoning planner, nil when unset.
func (a *LLMAgent) GetPlanner() planner.Planner { return a.pl }

// GetTools returns a copy of the registered tools for function calling.
func (a *LLMAgent) GetTools() map[string]tool.Tool {
	tools := make(map[string]tool.Tool, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
	}

	return tools
}

// GetSubAgents returns the child agents that participate in flow scheduling.
func (a *LLMAgent) GetSubAgents() []flow.FlowAgent {
	subAgents := a.SubAgents()
	flowAgents := make([]flow.FlowAgent, 0, len(subAgents))
	for _, subAgent := range subAgents {
		if flowAgent, ok := subAgent.(flow.FlowAgent); ok {
			flowAgents = append(flowAgents, flowAgent)
		}
	}
	return flowAgents
}

// IsFunctionCallingEnabled returns whether function calling is enabled.
func (a *LLMAgent) IsFunctionCallingEnabled() bool { return a.enableFunctionCalling }

// IsStreamingEnabled returns whether streaming responses are enabled.
func (a *LLMAgent) IsStreamingEnabled() bool { return a.enableStreaming }

// IsTransferEnabled returns whether control handoff to other agents is enabled.
func (a *LLMAgent) IsTransferEnabled() bool { return a.allowTransfer }

// GetOutputKey returns the session state key final responses are saved
// under, empty when responses are not persisted to state.
func (a *LLMAgent) GetOutputKey() string { return a.outputKey }

// MaxHistoryMessages returns the conversation history window size.
func (a *LLMAgent) MaxHistoryMessages() int { return a.maxHistoryMessages }

// ResolveInstructions produces the final instruction string (system prompt)
// by resolving static or dynamic instruction sources.
func (a *LLMAgent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instruction.Resolve(runCtx)
}

// Run implements core.Agent. It selects the flow matching the agent's
// capabilities, executes one turn and relays the flow's events to the caller.
func (a *LLMAgent) Run(runCtx *core.RunContext) (err error) {
	if err = a.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { a.RunAfter(runCtx, err) }()

	fl := flow.NewSelector().SelectFlow(a)

	runCtx.LogDebug(
		"agent.run.start",
		"agent", a.Name(),
		"run", runCtx.RunID,
		"flow", fmt.Sprintf("%T", fl),
	)

	eventChan, err := fl.Execute(runCtx)
	if err != nil {
		runCtx.LogError("agent.flow.execute.error", "agent", a.Name(), "error", err.Error())
		return fmt.Errorf("flow execution failed: %w", err)
	}

	for event := range eventChan {
		select {
		case runCtx.Emit <- event:
		case <-runCtx.Done():
			runCtx.LogWarn("agent.run.context_done", "agent", a.Name(), "error", runCtx.Err())
			err = runCtx.Err()
			return err
		}
	}

	runCtx.LogDebug("agent.run.complete", "agent", a.Name(), "run", runCtx.RunID)

	return nil
}
