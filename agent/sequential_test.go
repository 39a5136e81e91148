package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

func TestNewSequentialAgent(t *testing.T) {
	child1 := newTestChildAgent("Child1", nil)
	child2 := newTestChildAgent("Child2", nil)

	agent := NewSequentialAgent("SequentialAgent", child1, child2)

	assert.NotNil(t, agent)
	assert.Equal(t, "SequentialAgent", agent.Name())

	subs := agent.SubAgents()
	assert.Len(t, subs, 2)
	assert.Same(t, core.Agent(child1), subs[0])
	assert.Same(t, core.Agent(child2), subs[1])
}

func TestSequentialAgent_Run_Success(t *testing.T) {
	child1 := NewMockAgent("Child1")
	child2 := NewMockAgent("Child2")
	child3 := NewMockAgent("Child3")

	agent := NewSequentialAgent("SequentialAgent", child1, child2, child3)
	runCtx := newTestRunContext(t, "SequentialAgent", "sequential")

	child1.On("Run", runCtx).Return(nil)
	child2.On("Run", runCtx).Return(nil)
	child3.On("Run", runCtx).Return(nil)

	assert.NoError(t, agent.Run(runCtx))
	child1.AssertExpectations(t)
	child2.AssertExpectations(t)
	child3.AssertExpectations(t)
}

func TestSequentialAgent_Run_FirstChildError(t *testing.T) {
	child1 := NewMockAgent("Child1")
	child2 := NewMockAgent("Child2")

	agent := NewSequentialAgent("SequentialAgent", child1, child2)
	runCtx := newTestRunContext(t, "SequentialAgent", "sequential")

	expectedErr := assert.AnError
	child1.On("Run", runCtx).Return(expectedErr)

	err := agent.Run(runCtx)

	assert.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), "Child1")
	child1.AssertExpectations(t)
	child2.AssertNotCalled(t, "Run")
}

func TestSequentialAgent_Run_NoChildren(t *testing.T) {
	agent := NewSequentialAgent("SequentialAgent")
	assert.NoError(t, agent.Run(newTestRunContext(t, "SequentialAgent", "sequential")))
}

func TestSequentialAgent_ContextPropagation(t *testing.T) {
	child1 := NewMockAgent("Child1")
	child2 := NewMockAgent("Child2")

	agent := NewSequentialAgent("SequentialAgent", child1, child2)
	runCtx := newTestRunContext(t, "SequentialAgent", "sequential")

	// Children share the exact same context so state accumulates across steps.
	child1.On("Run", mock.MatchedBy(func(ctx *core.RunContext) bool {
		return ctx == runCtx
	})).Return(nil)
	child2.On("Run", mock.MatchedBy(func(ctx *core.RunContext) bool {
		return ctx == runCtx
	})).Return(nil)

	assert.NoError(t, agent.Run(runCtx))
	child1.AssertExpectations(t)
	child2.AssertExpectations(t)
}
