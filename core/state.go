package core

import "time"

// Well-known session state keys shared between the conversation manager and
// the specialists. Any agent may read or write these; writes go through state
// deltas so they are applied atomically when the carrying event is persisted.
const (
	StateKeyCurrentQuery        = "current_query"
	StateKeyUserQuery           = "user_query"
	StateKeyConversationContext = "conversation_context"
	StateKeyLastActiveAgent     = "last_active_agent"
	StateKeyTransferReason      = "transfer_reason"
	StateKeyConversationHistory = "conversation_history"
	StateKeyTechnicalContext    = "technical_context"
	StateKeyKnowledgeContext    = "knowledge_context"
	StateKeyTicketContext       = "ticket_context"
	StateKeyFollowupContext     = "followup_context"
	StateKeyKnowledgeFindings   = "knowledge_findings"
	StateKeyExecutionResults    = "execution_results"
	StateKeyCampaignLogAnalysis = "campaign_log_analysis"
	StateKeyResponse            = "response"
	StateKeyPhase               = "phase"
)

// Conversation context labels stored under StateKeyConversationContext.
const (
	ContextTechnical     = "technical"
	ContextKnowledge     = "knowledge"
	ContextTicket        = "ticket"
	ContextGreeting      = "greeting"
	ContextClarification = "clarification"
	ContextGeneral       = "general"
)

// Investigation phases written by the deterministic pipeline.
const (
	PhaseGreetingComplete      = "greeting_complete"
	PhaseClarificationComplete = "clarification_complete"
	PhaseKnowledgeComplete     = "knowledge_complete"
	PhaseTechnicalComplete     = "technical_complete"
)

// StateReader is the read surface shared by Session, RunContext and
// ToolContext. Typed context accessors accept it so they work from any scope.
type StateReader interface {
	GetState(key string) (any, bool)
}

// StateString reads a string value, returning "" when absent or mistyped.
func StateString(s StateReader, key string) string {
	v, ok := s.GetState(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// TechnicalContext is the per-domain scratchpad maintained by the technical
// troubleshooting specialists (general, push, WhatsApp). It accumulates across
// turns while the conversation stays in the technical context.
type TechnicalContext struct {
	InvestigationStarted   bool           `json:"investigation_started"`
	InvestigationCompleted bool           `json:"investigation_completed"`
	ToolsUsed              []string       `json:"tools_used"`
	Findings               map[string]any `json:"findings"`
	PreviousQueries        []string       `json:"previous_queries"`
}

// KnowledgeContext tracks documentation searches performed by the knowledge
// specialist.
type KnowledgeContext struct {
	SearchCompleted   bool           `json:"search_completed"`
	SearchesPerformed []string       `json:"searches_performed"`
	Findings          map[string]any `json:"findings"`
	PreviousQueries   []string       `json:"previous_queries"`
	SourcesUsed       []string       `json:"sources_used"`
}

// TicketContext tracks historical ticket analysis progress.
type TicketContext struct {
	AnalysisCompleted bool           `json:"analysis_completed"`
	TicketsAnalyzed   []string       `json:"tickets_analyzed"`
	PatternsFound     []string       `json:"patterns_found"`
	PreviousQueries   []string       `json:"previous_queries"`
	AnalysisResults   map[string]any `json:"analysis_results"`
}

// FollowupContext tracks follow-up handling across turns.
type FollowupContext struct {
	FollowupCount    int            `json:"followup_count"`
	ContextSwitches  []string       `json:"context_switches"`
	PreviousFindings map[string]any `json:"previous_findings"`
	LastHandled      string         `json:"last_handled"`
}

// TechnicalContextFrom loads the technical scratchpad from state, returning
// the zero value when the block is absent or malformed.
func TechnicalContextFrom(s StateReader) TechnicalContext {
	v, ok := s.GetState(StateKeyTechnicalContext)
	if !ok {
		return TechnicalContext{}
	}
	switch c := v.(type) {
	case TechnicalContext:
		return c
	case map[string]any:
		return TechnicalContext{
			InvestigationStarted:   asBool(c["investigation_started"]),
			InvestigationCompleted: asBool(c["investigation_completed"]),
			ToolsUsed:              asStringSlice(c["tools_used"]),
			Findings:               asMap(c["findings"]),
			PreviousQueries:        asStringSlice(c["previous_queries"]),
		}
	}
	return TechnicalContext{}
}

// Map converts the block to its state-bag representation.
func (c TechnicalContext) Map() map[string]any {
	return map[string]any{
		"investigation_started":   c.InvestigationStarted,
		"investigation_completed": c.InvestigationCompleted,
		"tools_used":              emptySliceIfNil(c.ToolsUsed),
		"findings":                emptyMapIfNil(c.Findings),
		"previous_queries":        emptySliceIfNil(c.PreviousQueries),
	}
}

// KnowledgeContextFrom loads the knowledge scratchpad from state.
func KnowledgeContextFrom(s StateReader) KnowledgeContext {
	v, ok := s.GetState(StateKeyKnowledgeContext)
	if !ok {
		return KnowledgeContext{}
	}
	switch c := v.(type) {
	case KnowledgeContext:
		return c
	case map[string]any:
		return KnowledgeContext{
			SearchCompleted:   asBool(c["search_completed"]),
			SearchesPerformed: asStringSlice(c["searches_performed"]),
			Findings:          asMap(c["findings"]),
			PreviousQueries:   asStringSlice(c["previous_queries"]),
			SourcesUsed:       asStringSlice(c["sources_used"]),
		}
	}
	return KnowledgeContext{}
}

// Map converts the block to its state-bag representation.
func (c KnowledgeContext) Map() map[string]any {
	return map[string]any{
		"search_completed":   c.SearchCompleted,
		"searches_performed": emptySliceIfNil(c.SearchesPerformed),
		"findings":           emptyMapIfNil(c.Findings),
		"previous_queries":   emptySliceIfNil(c.PreviousQueries),
		"sources_used":       emptySliceIfNil(c.SourcesUsed),
	}
}

// TicketContextFrom loads the ticket analysis scratchpad from state.
func TicketContextFrom(s StateReader) TicketContext {
	v, ok := s.GetState(StateKeyTicketContext)
	if !ok {
		return TicketContext{}
	}
	switch c := v.(type) {
	case TicketContext:
		return c
	case map[string]any:
		return TicketContext{
			AnalysisCompleted: asBool(c["analysis_completed"]),
			TicketsAnalyzed:   asStringSlice(c["tickets_analyzed"]),
			PatternsFound:     asStringSlice(c["patterns_found"]),
			PreviousQueries:   asStringSlice(c["previous_queries"]),
			AnalysisResults:   asMap(c["analysis_results"]),
		}
	}
	return TicketContext{}
}

// Map converts the block to its state-bag representation.
func (c TicketContext) Map() map[string]any {
	return map[string]any{
		"analysis_completed": c.AnalysisCompleted,
		"tickets_analyzed":   emptySliceIfNil(c.TicketsAnalyzed),
		"patterns_found":     emptySliceIfNil(c.PatternsFound),
		"previous_queries":   emptySliceIfNil(c.PreviousQueries),
		"analysis_results":   emptyMapIfNil(c.AnalysisResults),
	}
}

// FollowupContextFrom loads the follow-up scratchpad from state.
func FollowupContextFrom(s StateReader) FollowupContext {
	v, ok := s.GetState(StateKeyFollowupContext)
	if !ok {
		return FollowupContext{}
	}
	switch c := v.(type) {
	case FollowupContext:
		return c
	case map[string]any:
		return FollowupContext{
			FollowupCount:    asInt(c["followup_count"]),
			ContextSwitches:  asStringSlice(c["context_switches"]),
			PreviousFindings: asMap(c["previous_findings"]),
			LastHandled:      asString(c["last_handled"]),
		}
	}
	return FollowupContext{}
}

// Map converts the block to its state-bag representation.
func (c FollowupContext) Map() map[string]any {
	return map[string]any{
		"followup_count":    c.FollowupCount,
		"context_switches":  emptySliceIfNil(c.ContextSwitches),
		"previous_findings": emptyMapIfNil(c.PreviousFindings),
		"last_handled":      c.LastHandled,
	}
}

// HistoryEntry is one element of the conversation_history state list.
type HistoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationHistoryFrom decodes the conversation_history list from state.
func ConversationHistoryFrom(s StateReader) []HistoryEntry {
	v, ok := s.GetState(StateKeyConversationHistory)
	if !ok {
		return nil
	}
	switch h := v.(type) {
	case []HistoryEntry:
		return h
	case []any:
		entries := make([]HistoryEntry, 0, len(h))
		for _, e := range h {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			entry := HistoryEntry{Role: asString(m["role"]), Content: asString(m["content"])}
			if ts, ok := m["timestamp"].(time.Time); ok {
				entry.Timestamp = ts
			} else if raw, ok := m["timestamp"].(string); ok {
				entry.Timestamp, _ = time.Parse(time.RFC3339, raw)
			}
			entries = append(entries, entry)
		}
		return entries
	}
	return nil
}

// AppendedHistory returns the conversation_history value with one entry
// appended, suitable for inclusion in a state delta.
func AppendedHistory(s StateReader, role, content string) []HistoryEntry {
	history := ConversationHistoryFrom(s)
	return append(history, HistoryEntry{Role: role, Content: content, Timestamp: time.Now().UTC()})
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func emptySliceIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyMapIfNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
