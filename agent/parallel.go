package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// ParallelAgent executes its children concurrently, each in an isolated
// branch context so staged state deltas never collide. Children share the
// parent's emit channel; the runner serializes persistence per event.
//
// Useful for independent lookups, e.g. searching help docs and runbooks at
// the same time during an investigation.
type ParallelAgent struct {
	BaseAgent
	timeout time.Duration
}

// NewParallelAgent creates a parallel execution coordinator. A timeout of 0
// means no deadline beyond the parent context.
func NewParallelAgent(name string, timeout time.Duration, children ...core.Agent) *ParallelAgent {
	p := &ParallelAgent{BaseAgent: NewBaseAgent(name), timeout: timeout}
	_ = p.SetSubAgents(children...)
	return p
}

// branchCtxForSubAgent clones the parent context and assigns a hierarchical
// branch path ("Parent.Child") for the child agent, isolating its pending
// deltas and artifacts.
func (p *ParallelAgent) branchCtxForSubAgent(runCtx *core.RunContext, subAgent core.Agent) *core.RunContext {
	suffix := fmt.Sprintf("%s.%s", p.Name(), subAgent.Name())
	return runCtx.WithBranch(buildBranchPath(runCtx.Branch, suffix))
}

// Run implements core.Agent, launching all children concurrently. The first
// error encountered (after all complete) is returned; successful children
// continue even if siblings fail.
func (p *ParallelAgent) Run(runCtx *core.RunContext) (err error) {
	if err = p.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { p.RunAfter(runCtx, err) }()

	children := p.SubAgents()
	if len(children) == 0 {
		return nil
	}

	ctx := runCtx.Context
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(runCtx.Context, p.timeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(children))

	for _, child := range children {
		wg.Add(1)
		go func(c core.Agent) {
			defer wg.Done()

			branchCtx := p.branchCtxForSubAgent(runCtx, c)
			branchCtx.Context = ctx

			if runErr := c.Run(branchCtx); runErr != nil {
				errCh <- fmt.Errorf("parallel execution failed for agent %s: %w", c.Name(), runErr)
			}
		}(child)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		err = <-errCh
		return err
	}

	return nil
}
