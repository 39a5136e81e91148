package tool

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// ConversationStateTool lets model-driven agents work the shared context bag
// the way coded specialists do: read and write routing context, record
// investigation findings, escalate to a human, and inspect recent history.
//
// Findings recorded here land in session state via the function response
// event's state delta, so the synthesis stage and follow-up turns see them.
type ConversationStateTool struct {
	name        string
	description string
}

// NewConversationStateTool creates the shared-context management tool.
func NewConversationStateTool() *ConversationStateTool {
	return &ConversationStateTool{
		name: "conversation_state",
		description: "Read and update the shared support conversation context. " +
			"Operations: get_context, set_context, record_finding, escalate, get_history.",
	}
}

// Name returns the tool identifier.
func (t *ConversationStateTool) Name() string { return t.name }

// Description returns the tool description.
func (t *ConversationStateTool) Description() string { return t.description }

// Parameters returns the JSON schema for tool arguments.
func (t *ConversationStateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"operation": map[string]interface{}{
				"type": "string",
				"enum": []string{
					"get_context", "set_context", "record_finding", "escalate", "get_history",
				},
				"description": "The context operation to perform",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Context key, e.g. conversation_context or last_active_agent",
			},
			"value": map[string]interface{}{
				"description": "Value for set_context (any type)",
			},
			"finding": map[string]interface{}{
				"type":        "string",
				"description": "Investigation finding text for record_finding",
			},
			"source": map[string]interface{}{
				"type":        "string",
				"description": "What produced the finding (tool or check name)",
			},
			"reason": map[string]interface{}{
				"type":        "string",
				"description": "Why a human should take over, for escalate",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum history entries to return (default 10)",
			},
		},
		"required": []string{"operation"},
	}
}

// Call dispatches on the operation argument.
func (t *ConversationStateTool) Call(toolCtx *core.ToolContext, args map[string]interface{}) (interface{}, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return nil, fmt.Errorf("operation parameter is required")
	}

	switch operation {
	case "get_context":
		return t.handleGetContext(args, toolCtx)
	case "set_context":
		return t.handleSetContext(args, toolCtx)
	case "record_finding":
		return t.handleRecordFinding(args, toolCtx)
	case "escalate":
		return t.handleEscalate(args, toolCtx)
	case "get_history":
		return t.handleGetHistory(args, toolCtx)
	default:
		return nil, fmt.Errorf("unknown operation: %s", operation)
	}
}

func (t *ConversationStateTool) handleGetContext(args map[string]interface{}, toolCtx *core.ToolContext) (interface{}, error) {
	key, ok := args["key"].(string)
	if !ok {
		return nil, fmt.Errorf("key parameter is required for get_context")
	}

	value, exists := toolCtx.GetState(key)
	return map[string]interface{}{
		"key":    key,
		"exists": exists,
		"value":  value,
	}, nil
}

func (t *ConversationStateTool) handleSetContext(args map[string]interface{}, toolCtx *core.ToolContext) (interface{}, error) {
	key, ok := args["key"].(string)
	if !ok {
		return nil, fmt.Errorf("key parameter is required for set_context")
	}

	value := args["value"]
	toolCtx.SetState(key, value)

	return map[string]interface{}{
		"key":     key,
		"value":   value,
		"success": true,
	}, nil
}

// handleRecordFinding appends one finding to the agent's findings list in
// shared state, keyed by the calling agent.
func (t *ConversationStateTool) handleRecordFinding(args map[string]interface{}, toolCtx *core.ToolContext) (interface{}, error) {
	finding, ok := args["finding"].(string)
	if !ok || finding == "" {
		return nil, fmt.Errorf("finding parameter is required for record_finding")
	}
	source, _ := args["source"].(string)

	key := "findings_" + toolCtx.AgentName()
	var findings []interface{}
	if existing, ok := toolCtx.GetState(key); ok {
		if list, ok := existing.([]interface{}); ok {
			findings = list
		}
	}
	entry := map[string]interface{}{"finding": finding}
	if source != "" {
		entry["source"] = source
	}
	findings = append(findings, entry)
	toolCtx.SetState(key, findings)

	return map[string]interface{}{
		"recorded": true,
		"key":      key,
		"count":    len(findings),
	}, nil
}

func (t *ConversationStateTool) handleEscalate(args map[string]interface{}, toolCtx *core.ToolContext) (interface{}, error) {
	toolCtx.Escalate()
	if reason, ok := args["reason"].(string); ok && reason != "" {
		toolCtx.SetState("escalation_reason", reason)
	}

	return map[string]interface{}{
		"success": true,
		"message": "Escalation requested; a human will review this conversation",
	}, nil
}

func (t *ConversationStateTool) handleGetHistory(args map[string]interface{}, toolCtx *core.ToolContext) (interface{}, error) {
	limit := 10
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	history := toolCtx.GetSessionHistory()
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	entries := make([]map[string]interface{}, 0, len(history))
	for _, ev := range history {
		entry := map[string]interface{}{
			"author": ev.Author,
			"role":   ev.Content.Role,
		}
		if text := ev.VisibleText(); text != "" {
			if len(text) > 200 {
				text = text[:200] + "..."
			}
			entry["text"] = text
		}
		entries = append(entries, entry)
	}

	return map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	}, nil
}
