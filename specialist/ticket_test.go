package specialist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/route"
)

func TestTicket_RedirectsDocumentationQuestion(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	tk := NewTicket(llm)

	runCtx, events := newSpecialistContext(t, "documentation guide please", map[string]any{
		core.StateKeyCurrentQuery: "documentation guide please",
	})

	collected := runAndCollect(t, tk, runCtx, events)
	require.Len(t, collected, 1)

	require.NotNil(t, collected[0].Actions.TransferToAgent)
	assert.Equal(t, route.KnowledgeSpecialist, *collected[0].Actions.TransferToAgent)
	assert.Zero(t, llm.calls)
}

func TestTicket_RedirectsImplementationQuestion(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	tk := NewTicket(llm)

	runCtx, events := newSpecialistContext(t, "how to fix this in the api", map[string]any{
		core.StateKeyCurrentQuery: "how to fix this in the api",
	})

	collected := runAndCollect(t, tk, runCtx, events)
	require.Len(t, collected, 1)

	require.NotNil(t, collected[0].Actions.TransferToAgent)
	assert.Equal(t, route.TechnicalTroubleshootAgent, *collected[0].Actions.TransferToAgent)
	assert.Zero(t, llm.calls)
}

func TestTicket_AnalysisTurn(t *testing.T) {
	query := "summarize ticket 8893"

	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse(query, "Ticket 8893 reports template rejection, resolved by re-approval.")

	tk := NewTicket(llm)
	runCtx, events := newSpecialistContext(t, query, map[string]any{
		core.StateKeyCurrentQuery: query,
	})

	finals := finalEvents(runAndCollect(t, tk, runCtx, events))
	require.Len(t, finals, 3)

	intro := finals[0]
	assert.Equal(t, ticketIntro, intro.VisibleText())

	delta := intro.Actions.StateDelta
	assert.Equal(t, route.TicketSpecialist, delta[core.StateKeyLastActiveAgent])
	assert.Equal(t, core.ContextTicket, delta[core.StateKeyConversationContext])

	tc, ok := delta[core.StateKeyTicketContext].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{query}, tc["previous_queries"])

	assert.Equal(t, "Ticket 8893 reports template rejection, resolved by re-approval.", finals[1].VisibleText())

	tc, ok = finals[2].Actions.StateDelta[core.StateKeyTicketContext].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, tc["analysis_completed"])
}

func TestTicket_FollowupIntroAfterHandoff(t *testing.T) {
	query := "summarize ticket 8893"

	tk := NewTicket(model.NewMockModel("test-model", "mock"))
	runCtx, events := newSpecialistContext(t, query, map[string]any{
		core.StateKeyCurrentQuery:   query,
		core.StateKeyTransferReason: route.ReasonFollowupQuestion,
		core.StateKeyConversationHistory: []core.HistoryEntry{
			{Role: "user", Content: "what happened with my ticket"},
			{Role: "user", Content: query},
		},
	})

	finals := finalEvents(runAndCollect(t, tk, runCtx, events))
	require.NotEmpty(t, finals)
	assert.Equal(t, ticketFollowupIntro, finals[0].VisibleText())
}
