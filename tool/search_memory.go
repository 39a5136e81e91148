package tool

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// NewSearchMemoryTool exposes the session memory store to the model. Planners
// instruct investigating agents to consult memory before starting a fresh
// investigation, so repeated questions reuse earlier findings.
func NewSearchMemoryTool() *FunctionTool {
	return NewFunctionTool(
		"search_memory",
		"Search earlier findings and conversations from this support session. Use before starting a new investigation.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to look for in past findings",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum results to return (default 5)",
				},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, ok := args["query"].(string)
			if !ok || query == "" {
				return nil, fmt.Errorf("missing required field 'query'")
			}

			limit := 5
			if l, ok := args["limit"].(float64); ok && l > 0 {
				limit = int(l)
			}

			results, err := tc.SearchMemory(query, limit)
			if err != nil {
				return nil, fmt.Errorf("memory search failed: %w", err)
			}

			items := make([]map[string]any, 0, len(results))
			for _, r := range results {
				items = append(items, map[string]any{
					"content":  r.Content,
					"score":    r.Score,
					"metadata": r.Metadata,
				})
			}
			return map[string]any{
				"query":   query,
				"count":   len(items),
				"results": items,
			}, nil
		},
	)
}
