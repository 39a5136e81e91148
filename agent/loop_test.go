package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
)

// loopChild emits one event per run and escalates on the configured run
// (0 means never).
type loopChild struct {
	BaseAgent
	runCount   int
	escalateOn int
}

func newLoopChild(name string, escalateOn int) *loopChild {
	return &loopChild{BaseAgent: NewBaseAgent(name), escalateOn: escalateOn}
}

func (c *loopChild) Run(runCtx *core.RunContext) error {
	c.runCount++

	ev := core.NewEvent(runCtx.RunID, c.Name())
	text := fmt.Sprintf("working on iteration %d", c.runCount)
	if c.escalateOn > 0 && c.runCount >= c.escalateOn {
		escalate := true
		ev.Actions.Escalate = &escalate
		text = "cannot resolve this, escalating"
	}
	ev.Content = &core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: text}}}

	if err := runCtx.EmitEvent(ev); err != nil {
		return err
	}

	return runCtx.WaitForResume()
}

// failingChild always returns an error without emitting.
type failingChild struct {
	BaseAgent
	runCount int
	err      error
}

func (c *failingChild) Run(*core.RunContext) error {
	c.runCount++
	return c.err
}

func newLoopRunContext(t *testing.T) (*core.RunContext, chan core.Event) {
	t.Helper()

	emit := make(chan core.Event, 20)
	rc := core.NewRunContext(
		context.Background(),
		"session-1",
		"run-1",
		core.AgentInfo{Name: "LoopAgent", Type: "loop"},
		core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "poll status"}}},
		100,
		emit,
		nil,
		core.NewSession("session-1"),
		nil,
		nil,
		nil,
		logging.NoOpLogger{},
	)
	return rc, emit
}

func drainEvents(ch chan core.Event) []core.Event {
	var events []core.Event
	for len(ch) > 0 {
		events = append(events, <-ch)
	}
	return events
}

func TestLoopAgent_EscalationHandling(t *testing.T) {
	tests := []struct {
		name           string
		escalateOn     int
		maxIters       int
		expectedRuns   int
		shouldEscalate bool
	}{
		{name: "escalates on iteration 2", escalateOn: 2, maxIters: 5, expectedRuns: 2, shouldEscalate: true},
		{name: "never escalates, completes all iterations", escalateOn: 0, maxIters: 3, expectedRuns: 3},
		{name: "escalates immediately", escalateOn: 1, maxIters: 5, expectedRuns: 1, shouldEscalate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child := newLoopChild("worker", tt.escalateOn)
			loop := NewLoopAgent("LoopAgent", child, WithMaxIters(tt.maxIters))
			runCtx, emit := newLoopRunContext(t)

			require.NoError(t, loop.Run(runCtx))

			events := drainEvents(emit)
			assert.Len(t, events, tt.expectedRuns)
			assert.Equal(t, tt.expectedRuns, child.runCount)

			if tt.shouldEscalate {
				require.NotEmpty(t, events)
				last := events[len(events)-1]
				require.NotNil(t, last.Actions.Escalate)
				assert.True(t, *last.Actions.Escalate)
			}
		})
	}
}

func TestLoopAgent_PredicateStopsLoop(t *testing.T) {
	child := newLoopChild("worker", 0)
	loop := NewLoopAgent("LoopAgent", child,
		WithMaxIters(10),
		WithPredicate(func(output string) bool {
			return strings.Contains(output, "iteration 2")
		}),
	)
	runCtx, emit := newLoopRunContext(t)

	require.NoError(t, loop.Run(runCtx))

	assert.Equal(t, 2, child.runCount)
	assert.Len(t, drainEvents(emit), 2)
}

func TestLoopAgent_StopOnError(t *testing.T) {
	sentinel := errors.New("backend down")
	child := &failingChild{BaseAgent: NewBaseAgent("worker"), err: sentinel}
	loop := NewLoopAgent("LoopAgent", child, WithMaxIters(5))
	runCtx, _ := newLoopRunContext(t)

	err := loop.Run(runCtx)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, child.runCount)
}

func TestLoopAgent_ContinueOnError(t *testing.T) {
	child := &failingChild{BaseAgent: NewBaseAgent("worker"), err: errors.New("flaky")}
	loop := NewLoopAgent("LoopAgent", child, WithMaxIters(3), WithContinueOnError())
	runCtx, _ := newLoopRunContext(t)

	assert.NoError(t, loop.Run(runCtx))
	assert.Equal(t, 3, child.runCount)
}

func TestLoopAgent_IntervalRespectsCancellation(t *testing.T) {
	child := newLoopChild("worker", 0)
	loop := NewLoopAgent("LoopAgent", child, WithMaxIters(10), WithInterval(time.Second))

	runCtx, _ := newLoopRunContext(t)
	ctx, cancel := context.WithCancel(runCtx.Context)
	runCtx.Context = ctx

	done := make(chan error, 1)
	go func() { done <- loop.Run(runCtx) }()

	// Let the first iteration complete, then cancel during the interval wait.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Equal(t, 1, child.runCount)
}

func TestCreateEscalationEvent(t *testing.T) {
	content := &core.Content{
		Role:  "assistant",
		Parts: []core.Part{core.TextPart{Text: "cannot complete task, escalating"}},
	}

	ev := CreateEscalationEvent("run-123", "worker", content)

	assert.Equal(t, "worker", ev.Author)
	assert.Equal(t, "run-123", ev.InvocationID)
	require.NotNil(t, ev.Actions.Escalate)
	assert.True(t, *ev.Actions.Escalate)
	assert.Equal(t, content, ev.Content)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}
