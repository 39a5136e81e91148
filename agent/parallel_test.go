package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

func TestNewParallelAgent(t *testing.T) {
	c1 := newTestChildAgent("Child1", nil)
	c2 := newTestChildAgent("Child2", nil)

	p := NewParallelAgent("ParallelAgent", 0, c1, c2)
	assert.Equal(t, "ParallelAgent", p.Name())
	assert.Len(t, p.SubAgents(), 2)
}

func TestParallelAgent_Run_Success(t *testing.T) {
	var mu sync.Mutex
	branches := map[string]string{}

	mkChild := func(name string) *testChildAgent {
		return newTestChildAgent(name, func(ctx *core.RunContext) error {
			mu.Lock()
			branches[name] = ctx.Branch
			mu.Unlock()
			return nil
		})
	}

	c1 := mkChild("Child1")
	c2 := mkChild("Child2")
	c3 := mkChild("Child3")

	p := NewParallelAgent("ParallelAgent", 0, c1, c2, c3)
	runCtx := newTestRunContext(t, "ParallelAgent", "parallel")

	assert.NoError(t, p.Run(runCtx))

	// Each child ran with an isolated branch context named Parent.Child.
	assert.Len(t, branches, 3)
	for _, child := range []*testChildAgent{c1, c2, c3} {
		assert.NotNil(t, child.receivedCtx)
		assert.Truef(t, strings.HasSuffix(child.receivedCtx.Branch, "ParallelAgent."+child.Name()),
			"branch %q has correct suffix", child.receivedCtx.Branch)
	}

	// The original context branch stays unchanged.
	assert.Equal(t, "", runCtx.Branch)
}

func TestParallelAgent_Run_ErrorAggregation(t *testing.T) {
	sentinel := errors.New("boom")

	c1 := newTestChildAgent("Child1", func(*core.RunContext) error { return nil })
	c2 := newTestChildAgent("Child2", func(*core.RunContext) error { return sentinel })
	c3 := newTestChildAgent("Child3", func(*core.RunContext) error { return nil })

	p := NewParallelAgent("ParallelAgent", 0, c1, c2, c3)

	err := p.Run(newTestRunContext(t, "ParallelAgent", "parallel"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "agent Child2")

	// Siblings keep running despite the failure.
	assert.NotNil(t, c1.receivedCtx)
	assert.NotNil(t, c2.receivedCtx)
	assert.NotNil(t, c3.receivedCtx)
}

func TestParallelAgent_Run_NoChildren(t *testing.T) {
	p := NewParallelAgent("ParallelAgent", 0)
	assert.NoError(t, p.Run(newTestRunContext(t, "ParallelAgent", "parallel")))
}

func TestParallelAgent_Run_Timeout(t *testing.T) {
	blocker := newTestChildAgent("Blocker", func(ctx *core.RunContext) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	p := NewParallelAgent("ParallelAgent", 20*time.Millisecond, blocker)

	err := p.Run(newTestRunContext(t, "ParallelAgent", "parallel"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParallelAgent_Run_StateIsolation(t *testing.T) {
	// Staged deltas in one branch must not leak into the sibling's context.
	c1 := newTestChildAgent("Child1", func(ctx *core.RunContext) error {
		ctx.SetState("finding", "from-child1")
		return nil
	})
	c2 := newTestChildAgent("Child2", func(*core.RunContext) error { return nil })

	p := NewParallelAgent("ParallelAgent", 0, c1, c2)
	runCtx := newTestRunContext(t, "ParallelAgent", "parallel")

	assert.NoError(t, p.Run(runCtx))

	_, ok := c2.receivedCtx.StateDelta["finding"]
	assert.False(t, ok)
	_, ok = runCtx.StateDelta["finding"]
	assert.False(t, ok)
}
