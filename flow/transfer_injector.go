package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// TransferToolInjector exposes the transfer_to_agent function to the model
// when the agent may hand the conversation off. The definition enumerates the
// agent's children as valid targets so the model cannot invent names; the
// runner still validates every requested target against the route registry.
type TransferToolInjector struct{}

// NewTransferToolInjector creates a new transfer tool injector.
func NewTransferToolInjector() *TransferToolInjector { return &TransferToolInjector{} }

// Name returns the processor's identifier.
func (p *TransferToolInjector) Name() string { return "transfer_tool" }

// ProcessRequest appends the transfer_to_agent tool definition when transfers
// are enabled and at least one target exists. Repeated calls do not duplicate
// the definition.
func (p *TransferToolInjector) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	if !agent.IsTransferEnabled() {
		return nil
	}

	targets := transferTargets(agent)
	if len(targets) == 0 {
		return nil
	}

	for _, td := range req.Tools {
		if td.Function.Name == tool.TransferToAgentName {
			return nil
		}
	}

	names := make([]string, 0, len(targets))
	lines := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.name)
		lines = append(lines, fmt.Sprintf("- %s: %s", t.name, t.description))
	}

	req.Tools = append(req.Tools, model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name: tool.TransferToAgentName,
			Description: "Hand the conversation over to another agent when it is better suited " +
				"to handle the user's request. Available agents:\n" + strings.Join(lines, "\n"),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent": map[string]any{
						"type":        "string",
						"description": "Target agent name",
						"enum":        names,
					},
				},
				"required": []string{"agent"},
			},
		},
	})

	runCtx.LogDebug("flow.transfer_tool.injected", "agent", agent.GetName(), "targets", len(names))

	return nil
}

type transferTarget struct{ name, description string }

// transferTargets enumerates the agent's children as addressable handoff
// targets, sorted by name for a stable definition.
func transferTargets(agent FlowAgent) []transferTarget {
	subAgents := agent.GetSubAgents()
	targets := make([]transferTarget, 0, len(subAgents))
	for _, sub := range subAgents {
		desc := ""
		if d, ok := sub.(interface{ Description() string }); ok {
			desc = d.Description()
		}
		targets = append(targets, transferTarget{name: sub.GetName(), description: desc})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].name < targets[j].name })
	return targets
}
