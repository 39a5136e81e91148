package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/internal/util"
	"github.com/satyamsundaram01/moe-support-assist/logging"
	"github.com/satyamsundaram01/moe-support-assist/session"
)

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")

	req, _ := schema["required"].([]string)
	if req == nil { // reflection may produce []any
		ifaceReq, _ := schema["required"].([]any)
		for _, v := range ifaceReq {
			req = append(req, v.(string))
		}
	}
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		"required": []any{"x"},
	}

	assert.NoError(t, util.ValidateParameters(map[string]any{"x": 5}, schema))

	err := util.ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected ValidationError, got %T", err)
	assert.Equal(t, "x", vErr.Field)

	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.Error(t, err)
	vErr, ok = err.(*ValidationError)
	require.True(t, ok, "expected ValidationError, got %T", err)
	assert.Contains(t, vErr.Message, "expected type integer")
}

func testRunContext(t *testing.T) *core.RunContext {
	t.Helper()

	store := session.NewInMemoryStore()
	sess, err := store.Create("sess-1")
	require.NoError(t, err)

	return core.NewRunContext(
		context.Background(),
		"sess-1",
		"run-1",
		core.AgentInfo{Name: "TechnicalTroubleshootAgent", Type: "specialist"},
		core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "push campaign stuck"}}},
		100,
		make(chan core.Event, 16),
		nil,
		sess,
		store,
		nil,
		nil,
		logging.NoOpLogger{},
	)
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})

	tc := core.NewToolContext(testRunContext(t), "fc1")
	result, err := sumTool.Call(tc, map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}
	tl := NewFunctionTool("test", "Test", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return 0, nil
	})
	tc := core.NewToolContext(testRunContext(t), "fc2")
	_, err := tl.Call(tc, map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, CodeValidationError, toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	failing := NewFunctionTool("fail", "Fails", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, errors.New("boom")
	})
	tc := core.NewToolContext(testRunContext(t), "fc3")
	_, err := failing.Call(tc, map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, CodeExecutionError, toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestTransferToAgentTool(t *testing.T) {
	tc := core.NewToolContext(testRunContext(t), "fc-transfer")

	result, err := NewTransferToAgentTool().Call(tc, map[string]any{"agent": "KnowledgeSpecialist"})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, true, m["transferred"])
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, "KnowledgeSpecialist", *tc.Actions().TransferToAgent)
}

func TestTransferToAgentTool_BlockedInSubCall(t *testing.T) {
	tc := core.NewToolContext(testRunContext(t), "fc-locked")
	tc.LockTransfer()

	_, err := NewTransferToAgentTool().Call(tc, map[string]any{"agent": "KnowledgeSpecialist"})
	require.NoError(t, err)
	assert.Nil(t, tc.Actions().TransferToAgent)
}

func TestTransferToAgentTool_MissingAgent(t *testing.T) {
	tc := core.NewToolContext(testRunContext(t), "fc-bad")
	_, err := NewTransferToAgentTool().Call(tc, map[string]any{})
	assert.Error(t, err)
}

func TestConversationStateTool_SetAndGetContext(t *testing.T) {
	cs := NewConversationStateTool()
	runCtx := testRunContext(t)
	tc := core.NewToolContext(runCtx, "fc-set")

	res, err := cs.Call(tc, map[string]any{"operation": "set_context", "key": "conversation_context", "value": "technical"})
	require.NoError(t, err)
	m := res.(map[string]any)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, "technical", tc.Actions().StateDelta["conversation_context"])

	// Staged writes are visible to later calls in the same run.
	tcGet := core.NewToolContext(runCtx, "fc-get")
	res, err = cs.Call(tcGet, map[string]any{"operation": "get_context", "key": "conversation_context"})
	require.NoError(t, err)
	gm := res.(map[string]any)
	assert.Equal(t, true, gm["exists"])
	assert.Equal(t, "technical", gm["value"])
}

func TestConversationStateTool_RecordFindingAccumulates(t *testing.T) {
	cs := NewConversationStateTool()
	runCtx := testRunContext(t)
	tc := core.NewToolContext(runCtx, "fc-find")

	_, err := cs.Call(tc, map[string]any{"operation": "record_finding", "finding": "FCM token expired", "source": "push_log_check"})
	require.NoError(t, err)
	res, err := cs.Call(tc, map[string]any{"operation": "record_finding", "finding": "Campaign paused by rate limit"})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, 2, m["count"])
	assert.Equal(t, "findings_TechnicalTroubleshootAgent", m["key"])
}

func TestConversationStateTool_Escalate(t *testing.T) {
	cs := NewConversationStateTool()
	tc := core.NewToolContext(testRunContext(t), "fc-esc")

	_, err := cs.Call(tc, map[string]any{"operation": "escalate", "reason": "customer asked for a human"})
	require.NoError(t, err)
	require.NotNil(t, tc.Actions().Escalate)
	assert.True(t, *tc.Actions().Escalate)
	assert.Equal(t, "customer asked for a human", tc.Actions().StateDelta["escalation_reason"])
}

type fakeMemoryStore struct {
	results []core.SearchResult
}

func (f *fakeMemoryStore) Get(string) (map[string]any, error) { return map[string]any{}, nil }
func (f *fakeMemoryStore) Put(string, map[string]any) error   { return nil }

func (f *fakeMemoryStore) Store(string, string, map[string]any) error { return nil }
func (f *fakeMemoryStore) Delete(string, string) error                { return nil }
func (f *fakeMemoryStore) Search(_ string, _ string, limit int) ([]core.SearchResult, error) {
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func TestSearchMemoryTool(t *testing.T) {
	runCtx := testRunContext(t)
	runCtx.MemoryStore = &fakeMemoryStore{results: []core.SearchResult{
		{ID: "m1", Content: "FCM key was rotated on 2024-11-02", Score: 0.9},
	}}
	tc := core.NewToolContext(runCtx, "fc-mem")

	res, err := NewSearchMemoryTool().Call(tc, map[string]any{"query": "fcm key"})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, 1, m["count"])
	items := m["results"].([]map[string]any)
	assert.Contains(t, items[0]["content"], "FCM key")
}

// scriptedAgent emits a fixed event sequence, used to exercise AgentTool.
type scriptedAgent struct {
	name   string
	events []core.Event
	err    error
}

func (a *scriptedAgent) Name() string                     { return a.name }
func (a *scriptedAgent) Description() string              { return "scripted test agent" }
func (a *scriptedAgent) SubAgents() []core.Agent          { return nil }
func (a *scriptedAgent) Parent() core.Agent               { return nil }
func (a *scriptedAgent) FindAgent(name string) core.Agent { return nil }

func (a *scriptedAgent) SetSubAgents(children ...core.Agent) error { return nil }

func (a *scriptedAgent) Run(runCtx *core.RunContext) error {
	for _, ev := range a.events {
		if err := runCtx.EmitEvent(ev); err != nil {
			return err
		}
	}
	return a.err
}

func TestAgentTool_ReturnsFinalTextAndRestagesDelta(t *testing.T) {
	final := core.NewMessageEvent("KnowledgeAgent", "Use the campaign archive API.")
	final.Actions.StateDelta = map[string]any{"knowledge_findings": "archive API"}
	target := "FollowUpSpecialist"
	final.Actions.TransferToAgent = &target // must be dropped, never propagated

	partial := core.NewMessageEvent("KnowledgeAgent", "Use the")
	isPartial := true
	partial.Partial = &isPartial

	sub := &scriptedAgent{name: "KnowledgeAgent", events: []core.Event{partial, final}}
	tc := core.NewToolContext(testRunContext(t), "fc-sub")

	result, err := NewAgentTool(sub).Call(tc, map[string]any{"request": "how do I archive a campaign?"})
	require.NoError(t, err)
	assert.Equal(t, "Use the campaign archive API.", result)

	assert.Equal(t, "archive API", tc.Actions().StateDelta["knowledge_findings"])
	assert.Nil(t, tc.Actions().TransferToAgent)
}

func TestAgentTool_SkipSummarization(t *testing.T) {
	sub := &scriptedAgent{name: "KnowledgeAgent", events: []core.Event{
		core.NewMessageEvent("KnowledgeAgent", "Final answer."),
	}}
	tc := core.NewToolContext(testRunContext(t), "fc-skip")

	_, err := NewAgentTool(sub, WithSkipSummarization()).Call(tc, map[string]any{"request": "q"})
	require.NoError(t, err)
	require.NotNil(t, tc.Actions().SkipSummarization)
	assert.True(t, *tc.Actions().SkipSummarization)
}

func TestAgentTool_SubAgentError(t *testing.T) {
	sub := &scriptedAgent{name: "KnowledgeAgent", err: errors.New("model offline")}
	tc := core.NewToolContext(testRunContext(t), "fc-err")

	_, err := NewAgentTool(sub).Call(tc, map[string]any{"request": "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")
}
