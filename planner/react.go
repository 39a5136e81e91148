package planner

import (
	"github.com/satyamsundaram01/moe-support-assist/core"
)

// reactReasoningTags mark sections the user never sees. Unlike the deep
// planner, ActionTag is included: the compact contract treats tool usage
// notes as internal.
var reactReasoningTags = []string{
	PlanningTag,
	ReasoningTag,
	ActionTag,
	ReplanningTag,
}

// ReActPlanner drives a compact plan/act/reason loop: plan first, execute
// tools with interleaved reasoning, then deliver a standalone final answer.
type ReActPlanner struct{}

// NewReActPlanner creates a plan/act/reason planner.
func NewReActPlanner() *ReActPlanner { return &ReActPlanner{} }

// BuildInstruction implements Planner.
func (p *ReActPlanner) BuildInstruction(_ *core.RunContext) string {
	return reactInstruction
}

// ProcessResponse implements Planner.
func (p *ReActPlanner) ProcessResponse(parts []core.Part) []core.Part {
	return processParts(parts, reactReasoningTags)
}

const reactInstruction = `
When answering, gather information with the available tools instead of relying on memorized knowledge.

Follow this process: (1) come up with an investigation plan first; (2) execute the plan with tools, interleaving reasoning about intermediate results between tool calls; (3) finish with one final answer.

Follow this format: the plan goes under /*PLANNING*/, tool execution notes go under /*ACTION*/, reasoning between steps goes under /*REASONING*/, and the answer goes under /*FINAL_ANSWER*/. If the original plan stops working, revise it under /*REPLANNING*/.

Only the text after the last /*FINAL_ANSWER*/ tag is shown to the user, so it must stand alone: summarize the evidence and the fix without referring to your internal notes. Every internal section MUST start with its tag.
`
