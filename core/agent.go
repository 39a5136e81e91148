package core

// Agent is the unit of work in the support copilot. The conversation manager,
// every specialist, and the workflow coordinators (sequential, parallel, loop)
// all implement it.
//
// Agents receive inputs through a RunContext, process them asynchronously, and
// emit events to communicate results and state changes back to the Runner.
// The sub-agent methods support hierarchical multi-agent trees: the root owns
// its specialists, and control moves between them via transfer events.
//
// Implementations must:
//   - Respect context cancellation for graceful shutdown
//   - Emit events through the provided RunContext
//   - Suspend via WaitForResume after each non-partial emission
//   - Emit a transfer directive only as the final event of their turn
type Agent interface {
	Name() string
	Description() string
	Run(runCtx *RunContext) error
	SetSubAgents(children ...Agent) error
	SubAgents() []Agent
	Parent() Agent
	FindAgent(name string) Agent
}

// AgentInfo carries identifying details about an agent used in contexts & events.
// Name is the external identifier; Type categorizes implementation (e.g.
// "orchestrator", "specialist").
type AgentInfo struct{ Name, Type string }
