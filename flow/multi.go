package flow

// MultiAgentFlow drives an agent that may perform tool calls and hand the
// conversation off to peers or children. It extends the single-agent
// processor set with transfer tool injection; the emitted transfer directive
// ends the flow and the runner dispatches the target.
type MultiAgentFlow struct{ *BaseFlow }

// NewMultiAgentFlow creates a new multi-agent flow with default processors.
func NewMultiAgentFlow(agent FlowAgent) *MultiAgentFlow {
	baseFlow := NewBaseFlow(agent)

	baseFlow.AddRequestProcessor(NewInstructionsProcessor())
	baseFlow.AddRequestProcessor(NewPlanningRequestProcessor())
	baseFlow.AddRequestProcessor(NewContentsProcessor())
	baseFlow.AddRequestProcessor(NewTransferToolInjector())
	baseFlow.AddResponseProcessor(NewPlanningResponseProcessor())

	return &MultiAgentFlow{BaseFlow: baseFlow}
}
