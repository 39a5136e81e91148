package flow

// SingleAgentFlow executes a standalone agent (no transfers, no sub-agent
// delegation). It wires the default processors for instruction resolution,
// planning and content assembly, then relays model streaming events directly.
type SingleAgentFlow struct{ *BaseFlow }

// NewSingleAgentFlow creates a new basic single-agent flow.
func NewSingleAgentFlow(agent FlowAgent) *SingleAgentFlow {
	baseFlow := NewBaseFlow(agent)

	baseFlow.AddRequestProcessor(NewInstructionsProcessor())
	baseFlow.AddRequestProcessor(NewPlanningRequestProcessor())
	baseFlow.AddRequestProcessor(NewContentsProcessor())
	baseFlow.AddResponseProcessor(NewPlanningResponseProcessor())

	return &SingleAgentFlow{BaseFlow: baseFlow}
}
