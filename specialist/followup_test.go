package specialist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/route"
)

func TestFollowUp_HandlesQuestionInPlace(t *testing.T) {
	query := "what about the segment size"

	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse(query, "The segment holds 1.2M users, unchanged since the last run.")

	f := NewFollowUp(llm)
	runCtx, events := newSpecialistContext(t, query, map[string]any{
		core.StateKeyCurrentQuery:    query,
		core.StateKeyFollowupContext: map[string]any{"followup_count": 2},
	})

	finals := finalEvents(runAndCollect(t, f, runCtx, events))
	require.Len(t, finals, 3)

	intro := finals[0]
	assert.Equal(t, followupIntro, intro.VisibleText())

	delta := intro.Actions.StateDelta
	assert.Equal(t, route.FollowUpSpecialist, delta[core.StateKeyLastActiveAgent])

	// The active domain context is preserved, not overwritten.
	_, staged := delta[core.StateKeyConversationContext]
	assert.False(t, staged)

	fc, ok := delta[core.StateKeyFollowupContext].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, fc["followup_count"])

	assert.Equal(t, "The segment holds 1.2M users, unchanged since the last run.", finals[1].VisibleText())

	fc, ok = finals[2].Actions.StateDelta[core.StateKeyFollowupContext].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, query, fc["last_handled"])
}

func TestFollowUp_RedirectsTechnicalDeepDive(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	f := NewFollowUp(llm)

	runCtx, events := newSpecialistContext(t, "investigate the root cause in logs", map[string]any{
		core.StateKeyCurrentQuery: "investigate the root cause in logs",
	})

	collected := runAndCollect(t, f, runCtx, events)
	require.Len(t, collected, 1)

	require.NotNil(t, collected[0].Actions.TransferToAgent)
	assert.Equal(t, route.TechnicalTroubleshootAgent, *collected[0].Actions.TransferToAgent)
	assert.Zero(t, llm.calls)
}

func TestFollowUp_RedirectsDocumentationRequest(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	f := NewFollowUp(llm)

	runCtx, events := newSpecialistContext(t, "step by step guide please", map[string]any{
		core.StateKeyCurrentQuery: "step by step guide please",
	})

	collected := runAndCollect(t, f, runCtx, events)
	require.Len(t, collected, 1)

	require.NotNil(t, collected[0].Actions.TransferToAgent)
	assert.Equal(t, route.KnowledgeSpecialist, *collected[0].Actions.TransferToAgent)
	assert.Zero(t, llm.calls)
}

func TestFollowUp_NewTopicReturnsToManager(t *testing.T) {
	llm := &countingModel{inner: model.NewMockModel("test-model", "mock")}
	f := NewFollowUp(llm)

	runCtx, events := newSpecialistContext(t, "i have a different question entirely", map[string]any{
		core.StateKeyCurrentQuery: "i have a different question entirely",
	})

	collected := runAndCollect(t, f, runCtx, events)
	require.Len(t, collected, 1)

	require.NotNil(t, collected[0].Actions.TransferToAgent)
	assert.Equal(t, route.SupportChatManager, *collected[0].Actions.TransferToAgent)
	assert.Zero(t, llm.calls)
}
