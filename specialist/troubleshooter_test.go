package specialist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/route"
)

func TestTroubleshooter_RedirectsKnowledgeQuestionWithoutModelCall(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	ts := NewTechnical(llm)

	runCtx, events := newSpecialistContext(t, "how to configure sdk integration", map[string]any{
		core.StateKeyCurrentQuery: "how to configure sdk integration",
	})

	collected := runAndCollect(t, ts, runCtx, events)
	require.Len(t, collected, 1)

	ev := collected[0]
	assert.True(t, ev.IsTransfer())
	require.NotNil(t, ev.Actions.TransferToAgent)
	assert.Equal(t, route.KnowledgeSpecialist, *ev.Actions.TransferToAgent)
	assert.Equal(t, route.LeadSpecialist, ev.VisibleText())

	// A redirected query leaves no trace of a started investigation.
	assert.Empty(t, ev.Actions.StateDelta)
	assert.Zero(t, llm.calls)
}

func TestTroubleshooter_CourtesyCloseReturnsToManager(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	ts := NewTechnical(llm)

	runCtx, events := newSpecialistContext(t, "thank you, that's all", map[string]any{
		core.StateKeyCurrentQuery: "thank you, that's all",
	})

	collected := runAndCollect(t, ts, runCtx, events)
	require.Len(t, collected, 1)

	require.NotNil(t, collected[0].Actions.TransferToAgent)
	assert.Equal(t, route.SupportChatManager, *collected[0].Actions.TransferToAgent)
	assert.Zero(t, llm.calls)
}

func TestTroubleshooter_InvestigationTurn(t *testing.T) {
	query := "campaign delivery failed with errors"

	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse(query, "Delivery backlog cleared after throttling fix.")

	ts := NewTechnical(llm)
	runCtx, events := newSpecialistContext(t, query, map[string]any{
		core.StateKeyCurrentQuery: query,
	})

	finals := finalEvents(runAndCollect(t, ts, runCtx, events))
	require.Len(t, finals, 3)

	// Intro first, carrying the staged investigation context.
	intro := finals[0]
	assert.Equal(t, technicalIntro, intro.VisibleText())

	delta := intro.Actions.StateDelta
	assert.Equal(t, route.TechnicalTroubleshootAgent, delta[core.StateKeyLastActiveAgent])
	assert.Equal(t, core.ContextTechnical, delta[core.StateKeyConversationContext])

	tc, ok := delta[core.StateKeyTechnicalContext].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, tc["investigation_started"])
	assert.Equal(t, []string{query}, tc["previous_queries"])

	// Then the model's answer.
	answer := finals[1]
	assert.Equal(t, "Delivery backlog cleared after throttling fix.", answer.VisibleText())
	require.NotNil(t, answer.TurnComplete)
	assert.True(t, *answer.TurnComplete)

	// Finally the completion flag on a content-free event.
	closing := finals[2]
	assert.Nil(t, closing.Content)

	tc, ok = closing.Actions.StateDelta[core.StateKeyTechnicalContext].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, tc["investigation_completed"])
}

func TestTroubleshooter_FollowupIntroAfterHandoff(t *testing.T) {
	query := "campaign error again"

	ts := NewTechnical(model.NewMockModel("test-model", "mock"))
	runCtx, events := newSpecialistContext(t, query, map[string]any{
		core.StateKeyCurrentQuery:   query,
		core.StateKeyTransferReason: route.ReasonFollowupQuestion,
		core.StateKeyConversationHistory: []core.HistoryEntry{
			{Role: "user", Content: "campaign not delivering"},
			{Role: "user", Content: query},
		},
	})

	finals := finalEvents(runAndCollect(t, ts, runCtx, events))
	require.NotEmpty(t, finals)
	assert.Equal(t, technicalFollowupIntro, finals[0].VisibleText())
}

func TestTroubleshooter_FreshTransferKeepsStandardIntro(t *testing.T) {
	query := "campaign error again"

	ts := NewTechnical(model.NewMockModel("test-model", "mock"))
	runCtx, events := newSpecialistContext(t, query, map[string]any{
		core.StateKeyCurrentQuery:   query,
		core.StateKeyTransferReason: route.ReasonTechnicalIssue,
		core.StateKeyConversationHistory: []core.HistoryEntry{
			{Role: "user", Content: "campaign not delivering"},
			{Role: "user", Content: query},
		},
	})

	finals := finalEvents(runAndCollect(t, ts, runCtx, events))
	require.NotEmpty(t, finals)
	assert.Equal(t, technicalIntro, finals[0].VisibleText())
}

func TestTroubleshooterVariants(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")

	technical := NewTechnical(llm)
	assert.Equal(t, route.TechnicalTroubleshootAgent, technical.Name())
	assert.Equal(t, technicalIntro, technical.intro)

	push := NewPush(llm)
	assert.Equal(t, route.PushTroubleshootAgent, push.Name())
	assert.Equal(t, pushIntro, push.intro)

	// The WhatsApp variant announces itself with the generic technical line.
	whatsapp := NewWhatsApp(llm)
	assert.Equal(t, route.WhatsAppTroubleshootAgent, whatsapp.Name())
	assert.Equal(t, technicalIntro, whatsapp.intro)

	assert.NotNil(t, technical.GetPlanner())
	assert.NotEmpty(t, technical.Description())
}
