package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/planner"
	"github.com/satyamsundaram01/moe-support-assist/session"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

type mockFlowAgent struct {
	name        string
	llm         model.Model
	pl          planner.Planner
	tools       map[string]tool.Tool
	subAgents   []FlowAgent
	streaming   bool
	transfer    bool
	outputKey   string
	instruction string
}

func (m *mockFlowAgent) GetName() string             { return m.name }
func (m *mockFlowAgent) GetLLM() model.Model         { return m.llm }
func (m *mockFlowAgent) GetPlanner() planner.Planner { return m.pl }

func (m *mockFlowAgent) ResolveInstructions(*core.RunContext) (string, error) {
	if m.instruction != "" {
		return m.instruction, nil
	}
	return "You are a support assistant.", nil
}

func (m *mockFlowAgent) GetTools() map[string]tool.Tool {
	tools := map[string]tool.Tool{}
	for k, v := range m.tools {
		tools[k] = v
	}
	return tools
}

func (m *mockFlowAgent) GetSubAgents() []FlowAgent      { return m.subAgents }
func (m *mockFlowAgent) IsFunctionCallingEnabled() bool { return true }
func (m *mockFlowAgent) IsStreamingEnabled() bool       { return m.streaming }
func (m *mockFlowAgent) IsTransferEnabled() bool        { return m.transfer }
func (m *mockFlowAgent) GetOutputKey() string           { return m.outputKey }
func (m *mockFlowAgent) MaxHistoryMessages() int        { return 20 }

func newFlowRunContext(t *testing.T, userText string, maxModelCalls int) *core.RunContext {
	t.Helper()

	store := session.NewInMemoryStore()
	sess, err := store.Create("sess")
	require.NoError(t, err)

	userContent := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: userText}}}
	require.NoError(t, store.AppendEvent("sess", core.NewUserContentEvent("run", &userContent)))

	return core.NewRunContext(
		context.Background(),
		"sess",
		"run",
		core.AgentInfo{Name: "TestAgent", Type: "specialist"},
		userContent,
		maxModelCalls,
		make(chan core.Event, 100),
		nil,
		sess,
		store,
		nil,
		nil,
		logging.NoOpLogger{},
	)
}

func collectEvents(t *testing.T, ch <-chan core.Event) []core.Event {
	t.Helper()

	var events []core.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timeout waiting for flow events, got %d so far", len(events))
			return events
		}
	}
}

func TestSingleAgentFlow_FinalResponse(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse("push campaign stuck", "Checked the campaign, delivery is resuming.")

	agent := &mockFlowAgent{name: "TestAgent", llm: llm}
	runCtx := newFlowRunContext(t, "push campaign stuck", 10)

	eventChan, err := NewSingleAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 1)
	assert.Equal(t, "Checked the campaign, delivery is resuming.", events[0].VisibleText())
	assert.False(t, events[0].IsPartial())
	require.NotNil(t, events[0].TurnComplete)
	assert.True(t, *events[0].TurnComplete)
}

func TestSingleAgentFlow_StreamingPartials(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse("hi", "Hey")

	agent := &mockFlowAgent{name: "TestAgent", llm: llm, streaming: true}
	runCtx := newFlowRunContext(t, "hi", 10)

	eventChan, err := NewSingleAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 4) // one partial per rune, then the final

	for _, ev := range events[:3] {
		assert.True(t, ev.IsPartial())
	}
	final := events[3]
	assert.False(t, final.IsPartial())
	assert.Equal(t, "Hey", final.VisibleText())
}

func TestBaseFlow_OutputKeySavedOnFinalEvent(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse("summarize", "All good.")

	agent := &mockFlowAgent{name: "TestAgent", llm: llm, outputKey: "response"}
	runCtx := newFlowRunContext(t, "summarize", 10)

	eventChan, err := NewSingleAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Actions.StateDelta)
	assert.Equal(t, "All good.", events[0].Actions.StateDelta["response"])
}

func TestBaseFlow_PlannerSeparatesReasoning(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse("why is delivery failing",
		"/*PLANNING*/ inspect logs, then check templates /*FINAL_ANSWER*/Template was rejected.")

	agent := &mockFlowAgent{name: "TestAgent", llm: llm, pl: planner.NewReActPlanner()}
	runCtx := newFlowRunContext(t, "why is delivery failing", 10)

	eventChan, err := NewSingleAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 1)

	// Reasoning survives as a thought part but is excluded from visible text.
	assert.Equal(t, "Template was rejected.", events[0].VisibleText())
	require.Len(t, events[0].Content.Parts, 2)
	first, ok := events[0].Content.Parts[0].(core.TextPart)
	require.True(t, ok)
	assert.True(t, first.Thought)
	assert.Contains(t, first.Text, "/*PLANNING*/")
}

// errModel fails every generation.
type errModel struct{}

func (m *errModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response)
	errCh := make(chan error, 1)
	go func() {
		defer close(respCh)
		defer close(errCh)
		errCh <- errors.New("backend unavailable")
	}()
	return respCh, errCh
}

func (m *errModel) Info() model.Info { return model.Info{Name: "err", Provider: "mock"} }

func TestBaseFlow_BackendFailureEmitsSingleErrorEvent(t *testing.T) {
	agent := &mockFlowAgent{name: "TestAgent", llm: &errModel{}}
	runCtx := newFlowRunContext(t, "hello", 10)

	eventChan, err := NewSingleAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsError())
	require.NotNil(t, events[0].ErrorCode)
	assert.Equal(t, core.ErrorCodeBackendFailure, *events[0].ErrorCode)
	assert.Contains(t, *events[0].ErrorMessage, "backend unavailable")
	assert.Empty(t, events[0].Actions.StateDelta)
}

func TestBaseFlow_MaxModelCallsStopsLoop(t *testing.T) {
	// The model answers every turn with a tool call, so only the limiter can
	// end the loop.
	agent := &mockFlowAgent{name: "TestAgent", llm: &loopingToolModel{}, tools: map[string]tool.Tool{
		"lookup": &staticTool{name: "lookup", result: "nothing"},
	}}
	runCtx := newFlowRunContext(t, "loop", 3)

	eventChan, err := NewSingleAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.IsError())
	require.NotNil(t, last.ErrorCode)
	assert.Equal(t, core.ErrorCodeMaxModelCalls, *last.ErrorCode)
	assert.Equal(t, 4, runCtx.Limiter.Count())
}

func TestBaseFlow_TransferEndsTurn(t *testing.T) {
	// After the transfer-carrying function response the flow must stop
	// instead of granting the model another turn.
	llm := &transferOnceModel{target: "KnowledgeSpecialist"}
	agent := &mockFlowAgent{name: "TestAgent", llm: llm, transfer: true}
	runCtx := newFlowRunContext(t, "docs please", 10)

	eventChan, err := NewMultiAgentFlow(agent).Execute(runCtx)
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 2) // the tool call event, then the transfer response

	last := events[len(events)-1]
	assert.True(t, last.IsTransfer())
	assert.Equal(t, "KnowledgeSpecialist", *last.Actions.TransferToAgent)
	assert.Equal(t, 1, llm.calls)
}

func TestSelector(t *testing.T) {
	isolated := &mockFlowAgent{name: "isolated"}
	if _, ok := NewSelector().SelectFlow(isolated).(*SingleAgentFlow); !ok {
		t.Fatalf("expected SingleAgentFlow for isolated agent")
	}

	router := &mockFlowAgent{name: "router", transfer: true}
	if _, ok := NewSelector().SelectFlow(router).(*MultiAgentFlow); !ok {
		t.Fatalf("expected MultiAgentFlow for transfer-enabled agent")
	}
}

func TestInstructionsProcessor_RendersStateTemplate(t *testing.T) {
	agent := &mockFlowAgent{
		name:        "TestAgent",
		llm:         model.NewMockModel("test-model", "mock"),
		instruction: "Context: {{.conversation_context}}. Answer briefly.",
	}
	runCtx := newFlowRunContext(t, "hello", 10)
	runCtx.Session.SetState("conversation_context", "technical")

	req := &model.Request{}
	require.NoError(t, NewInstructionsProcessor().ProcessRequest(runCtx, req, agent))
	assert.True(t, strings.Contains(req.Instructions, "Context: technical."), "got %q", req.Instructions)
}

// staticTool returns a fixed result.
type staticTool struct {
	name   string
	result any
}

func (s *staticTool) Name() string               { return s.name }
func (s *staticTool) Description() string        { return "static test tool" }
func (s *staticTool) Parameters() map[string]any { return map[string]any{"type": "object"} }

func (s *staticTool) Call(*core.ToolContext, map[string]any) (any, error) {
	return s.result, nil
}

// loopingToolModel requests the lookup tool on every call.
type loopingToolModel struct{}

func (m *loopingToolModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(respCh)
		defer close(errCh)
		respCh <- model.Response{
			Content: core.Content{
				Role: "assistant",
				Parts: []core.Part{core.FunctionCallPart{
					FunctionCall: core.FunctionCall{ID: "fc", Name: "lookup", Arguments: "{}"},
				}},
			},
			FinishReason: "tool_calls",
		}
	}()
	return respCh, errCh
}

func (m *loopingToolModel) Info() model.Info {
	return model.Info{Name: "looping", Provider: "mock", SupportsTools: true}
}

// transferOnceModel requests transfer_to_agent and counts invocations.
type transferOnceModel struct {
	target string
	calls  int
}

func (m *transferOnceModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	m.calls++
	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(respCh)
		defer close(errCh)
		respCh <- model.Response{
			Content: core.Content{
				Role: "assistant",
				Parts: []core.Part{core.FunctionCallPart{
					FunctionCall: core.FunctionCall{
						ID:        "fc-transfer",
						Name:      tool.TransferToAgentName,
						Arguments: `{"agent":"` + m.target + `"}`,
					},
				}},
			},
			FinishReason: "tool_calls",
		}
	}()
	return respCh, errCh
}

func (m *transferOnceModel) Info() model.Info {
	return model.Info{Name: "transfer-once", Provider: "mock", SupportsTools: true}
}
