package agent

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// SequentialAgent executes its children one after another with a shared run
// context, so each step sees the session state its predecessors accumulated.
// The first child error stops the sequence.
//
// The support pipeline uses this shape for investigation chains: gather
// knowledge first, then act on it, then synthesize.
type SequentialAgent struct {
	BaseAgent
}

// NewSequentialAgent creates a sequential execution coordinator. Children run
// in the order given.
func NewSequentialAgent(name string, children ...core.Agent) *SequentialAgent {
	s := &SequentialAgent{BaseAgent: NewBaseAgent(name)}
	_ = s.SetSubAgents(children...)
	return s
}

// Run implements core.Agent. It executes each child agent in order with the
// same run context; errors stop further processing immediately.
func (s *SequentialAgent) Run(runCtx *core.RunContext) (err error) {
	if err = s.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { s.RunAfter(runCtx, err) }()

	for _, child := range s.SubAgents() {
		if err = child.Run(runCtx); err != nil {
			err = fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
			return err
		}
	}

	return nil
}
