package specialist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/agent"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/session"
)

// newSpecialistContext builds a run context backed by an in-memory session
// holding the user text as the latest event. seed is applied to the session
// state before the snapshot is taken.
func newSpecialistContext(t *testing.T, userText string, seed map[string]any) (*core.RunContext, chan core.Event) {
	t.Helper()

	store := session.NewInMemoryStore()
	_, err := store.Create("sess")
	require.NoError(t, err)

	if len(seed) > 0 {
		require.NoError(t, store.ApplyDelta("sess", seed))
	}

	userContent := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: userText}}}
	require.NoError(t, store.AppendEvent("sess", core.NewUserContentEvent("run", &userContent)))

	sess, err := store.Get("sess")
	require.NoError(t, err)

	events := make(chan core.Event, 256)

	runCtx := core.NewRunContext(
		context.Background(),
		"sess",
		"run",
		core.AgentInfo{Name: "TestHarness", Type: "specialist"},
		userContent,
		10,
		events,
		nil,
		sess,
		store,
		nil,
		nil,
		logging.NoOpLogger{},
	)

	return runCtx, events
}

// runAndCollect executes the agent synchronously and returns every event it
// emitted. With a nil resume channel the run never blocks, so the buffered
// channel holds the full turn by the time Run returns.
func runAndCollect(t *testing.T, a core.Agent, runCtx *core.RunContext, events chan core.Event) []core.Event {
	t.Helper()

	require.NoError(t, a.Run(runCtx))
	close(events)

	var collected []core.Event
	for ev := range events {
		collected = append(collected, ev)
	}
	return collected
}

// finalEvents filters out streaming partials.
func finalEvents(events []core.Event) []core.Event {
	var out []core.Event
	for _, ev := range events {
		if !ev.IsPartial() {
			out = append(out, ev)
		}
	}
	return out
}

// countingModel wraps a model and counts Generate calls. Specialists that
// redirect a query must never reach the model layer.
type countingModel struct {
	inner model.Model
	calls int
}

func (m *countingModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	m.calls++
	return m.inner.Generate(ctx, req)
}

func (m *countingModel) Info() model.Info { return m.inner.Info() }

// scriptedAgent emits a fixed sequence of message events, staging delta (if
// any) before the first one. Stands in for pipeline sub-agents.
type scriptedAgent struct {
	agent.BaseAgent

	lines []string
	delta map[string]any
}

func newScriptedAgent(name string, lines ...string) *scriptedAgent {
	return &scriptedAgent{BaseAgent: agent.NewBaseAgent(name), lines: lines}
}

func (a *scriptedAgent) Run(runCtx *core.RunContext) error {
	for k, v := range a.delta {
		runCtx.SetState(k, v)
	}

	for _, line := range a.lines {
		ev := core.NewMessageEvent(a.Name(), line)
		ev.InvocationID = runCtx.RunID
		if err := runCtx.EmitEvent(ev); err != nil {
			return err
		}
		if err := runCtx.WaitForResume(); err != nil {
			return err
		}
	}
	return nil
}

// failingAgent aborts immediately without emitting anything.
type failingAgent struct {
	agent.BaseAgent

	err error
}

func newFailingAgent(name string, err error) *failingAgent {
	return &failingAgent{BaseAgent: agent.NewBaseAgent(name), err: err}
}

func (a *failingAgent) Run(*core.RunContext) error { return a.err }
