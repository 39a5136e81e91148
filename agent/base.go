package agent

import (
	"fmt"
	"sync"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// BeforeRunFunc runs before an agent's turn starts. Returning an error aborts
// the run without emitting events.
type BeforeRunFunc func(runCtx *core.RunContext) error

// AfterRunFunc runs after an agent's turn finishes, successful or not. runErr
// carries the error the turn is about to return, nil on success.
type AfterRunFunc func(runCtx *core.RunContext, runErr error)

// BaseAgent bundles identity, hierarchy management and run callbacks shared by
// every agent kind. Embed it in concrete agent implementations and supply a
// Run method to satisfy core.Agent. All exported methods are goroutine-safe.
type BaseAgent struct {
	name        string
	description string
	mu          sync.Mutex
	parent      core.Agent
	subAgents   []core.Agent
	before      []BeforeRunFunc
	after       []AfterRunFunc
}

// NewBaseAgent constructs a BaseAgent with a generated description
// (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose. The
// router surfaces it to the model when enumerating transfer targets, so it
// should state what the agent handles.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// OnBeforeRun registers a callback invoked before each run. Callbacks execute
// in registration order; the first error aborts the run.
func (b *BaseAgent) OnBeforeRun(fn BeforeRunFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.before = append(b.before, fn)
}

// OnAfterRun registers a callback invoked after each run completes.
func (b *BaseAgent) OnAfterRun(fn AfterRunFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.after = append(b.after, fn)
}

// RunBefore invokes the registered before-run callbacks. Concrete agents call
// it at the top of Run.
func (b *BaseAgent) RunBefore(runCtx *core.RunContext) error {
	b.mu.Lock()
	callbacks := make([]BeforeRunFunc, len(b.before))
	copy(callbacks, b.before)
	b.mu.Unlock()

	for _, fn := range callbacks {
		if err := fn(runCtx); err != nil {
			return err
		}
	}

	return nil
}

// RunAfter invokes the registered after-run callbacks with the run's outcome.
func (b *BaseAgent) RunAfter(runCtx *core.RunContext, runErr error) {
	b.mu.Lock()
	callbacks := make([]AfterRunFunc, len(b.after))
	copy(callbacks, b.after)
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(runCtx, runErr)
	}
}

// SetSubAgents atomically replaces the child agent set, clearing any previous
// parent links then assigning this agent as the parent of each new child. It
// enforces a single-parent invariant for all managed children.
func (b *BaseAgent) SetSubAgents(children ...core.Agent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, child := range b.subAgents {
		if setter, ok := child.(interface{ setParent(core.Agent) }); ok {
			setter.setParent(nil)
		}
	}
	b.subAgents = nil

	for _, child := range children {
		if setter, ok := child.(interface{ setParent(core.Agent) }); ok {
			// Wrap base agent so it satisfies Agent (Run provided by wrapper).
			setter.setParent(&agentWrapper{b})
		}
		b.subAgents = append(b.subAgents, child)
	}

	return nil
}

// setParent sets the internal parent reference.
func (b *BaseAgent) setParent(p core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parent = p
}

// Parent returns the current parent agent or nil if this agent is root.
func (b *BaseAgent) Parent() core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

// SubAgents returns a shallow copy of current child agents for safe iteration.
func (b *BaseAgent) SubAgents() []core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]core.Agent, len(b.subAgents))
	copy(result, b.subAgents)
	return result
}

// FindAgent performs a depth-first search over the subtree rooted at this
// agent (including itself) returning the first agent whose Name matches.
// Returns nil if no match is found.
func (b *BaseAgent) FindAgent(name string) core.Agent {
	if b.name == name {
		return &agentWrapper{b}
	}

	for _, child := range b.SubAgents() {
		if child.Name() == name {
			return child
		}
		if found := child.FindAgent(name); found != nil {
			return found
		}
	}
	return nil
}

// agentWrapper wraps BaseAgent to satisfy core.Agent for hierarchy references.
type agentWrapper struct{ *BaseAgent }

// Run rejects direct execution; BaseAgent is only a building block.
func (w *agentWrapper) Run(_ *core.RunContext) error {
	return fmt.Errorf("cannot execute BaseAgent directly, embed it in a concrete agent with a Run implementation")
}
