package tool

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// TransferToAgentName is the reserved function name for control handoff. The
// flow advertises it when an agent may delegate and answers it from its own
// registry; it never appears among an agent's registered tools.
const TransferToAgentName = "transfer_to_agent"

// transferToAgentTool records a handoff request on the tool context. Target
// validation happens in the runner against its agent registry; an unknown
// name there is fatal for the run.
type transferToAgentTool struct{}

// NewTransferToAgentTool constructs the transfer tool instance.
func NewTransferToAgentTool() Tool { return &transferToAgentTool{} }

func (t *transferToAgentTool) Name() string { return TransferToAgentName }

func (t *transferToAgentTool) Description() string {
	return "Hand the conversation to another support agent by name. Use when a different specialist owns the user's problem."
}

func (t *transferToAgentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent": map[string]any{"type": "string", "description": "Target agent name"},
		},
		"required": []string{"agent"},
	}
}

func (t *transferToAgentTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	raw, ok := args["agent"]
	if !ok {
		return nil, fmt.Errorf("missing required field 'agent'")
	}
	agentName, ok := raw.(string)
	if !ok || agentName == "" {
		return nil, fmt.Errorf("field 'agent' must be non-empty string")
	}
	tc.TransferToAgent(agentName)
	return map[string]any{"transferred": true, "agent": agentName}, nil
}
