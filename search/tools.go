package search

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// NewRunbooksTool searches Confluence support runbooks: troubleshooting
// guides, procedures and internal technical documentation.
func NewRunbooksTool(b Backend, dataStoreID string) *tool.FunctionTool {
	return newSearchTool(
		b,
		"search_runbooks",
		"Search MoEngage Confluence support runbooks for troubleshooting guides, procedures and technical documentation.",
		dataStoreID,
		RunbooksPreamble,
	)
}

// NewZendeskTool searches historical Zendesk tickets for similar issues and
// their resolutions.
func NewZendeskTool(b Backend, dataStoreID string) *tool.FunctionTool {
	return newSearchTool(
		b,
		"search_zendesk_tickets",
		"Search historical Zendesk support tickets for similar issues, resolutions and support patterns.",
		dataStoreID,
		ZendeskPreamble,
	)
}

// NewHelpDocsTool searches the public help documentation: guides, feature
// explanations and API documentation.
func NewHelpDocsTool(b Backend, dataStoreID string) *tool.FunctionTool {
	return newSearchTool(
		b,
		"search_help_docs",
		"Search MoEngage public help documentation for guides, feature explanations and API documentation.",
		dataStoreID,
		HelpDocsPreamble,
	)
}

// newSearchTool builds one datastore-bound search tool. Backend failures are
// returned as error-status results rather than tool errors: a failed lookup
// must degrade the investigation, not abort the model turn.
func newSearchTool(b Backend, name, description, dataStoreID, preamble string) *tool.FunctionTool {
	return tool.NewFunctionTool(
		name,
		description,
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query describing the issue or topic",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results to return (default 3)",
				},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, ok := args["query"].(string)
			if !ok || query == "" {
				return nil, fmt.Errorf("missing required field 'query'")
			}

			maxResults := 0
			if m, ok := args["max_results"].(float64); ok && m > 0 {
				maxResults = int(m)
			}

			answer, err := b.Search(tc.Context(), Query{
				Text:        query,
				DataStoreID: dataStoreID,
				MaxResults:  maxResults,
				Preamble:    preamble,
				SessionID:   tc.SessionID(),
			})
			if err != nil {
				tc.Logger().Warn("search.tool.degraded", "tool", name, "error", err.Error())
				return map[string]any{
					"status":        StatusError,
					"error_message": err.Error(),
					"answer":        "",
					"citations":     []map[string]any{},
				}, nil
			}

			citations := make([]map[string]any, 0, len(answer.Citations))
			for _, c := range answer.Citations {
				citations = append(citations, map[string]any{
					"start_index": c.StartIndex,
					"end_index":   c.EndIndex,
					"uri":         c.URI,
					"title":       c.Title,
				})
			}
			return map[string]any{
				"status":    answer.Status,
				"answer":    answer.Text,
				"citations": citations,
			}, nil
		},
	)
}
