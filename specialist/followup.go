package specialist

import (
	"github.com/satyamsundaram01/moe-support-assist/agent"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/intent"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/planner"
	"github.com/satyamsundaram01/moe-support-assist/route"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

const followupIntro = "Let me help you with that follow-up question based on our previous conversation..."

// FollowUp handles contextual follow-up questions across specialist
// domains. It keeps a per-session follow-up counter and routes deep-dives
// back to the domain specialists. Unlike the other specialists it leaves
// the conversation context untouched: the domain being followed up on
// stays the active one.
type FollowUp struct {
	*agent.LLMAgent

	policy *intent.RuleSet
	table  route.Table
}

// NewFollowUp builds the follow-up specialist. All search tools are the
// usual binding so cross-domain questions can be answered in place.
func NewFollowUp(llm model.Model, tools ...tool.Tool) *FollowUp {
	llmAgent := agent.NewLLMAgent(route.FollowUpSpecialist, llm, func(o *agent.LLMAgentOptions) {
		o.Description = "Follow-up specialist for contextual questions and clarifications"
		o.Instruction = agent.NewInstructionFromText(followupInstruction)
		o.Planner = planner.NewReActPlanner()
	})
	llmAgent.RegisterTools(tools...)

	return &FollowUp{
		LLMAgent: llmAgent,
		policy:   intent.FollowupPolicy(),
		table:    route.DefaultTable(),
	}
}

// Run drives one follow-up turn.
func (f *FollowUp) Run(runCtx *core.RunContext) (err error) {
	if err = f.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { f.RunAfter(runCtx, err) }()

	query := core.StateString(runCtx, core.StateKeyCurrentQuery)

	if d, ok := transferDecision(f.table, f.policy, f.Name(), query); ok {
		runCtx.LogInfo("specialist.redirect", "agent", f.Name(), "target", d.Target)
		return emitTransfer(runCtx, f.Name(), d)
	}

	runCtx.SetState(core.StateKeyLastActiveAgent, f.Name())

	fc := core.FollowupContextFrom(runCtx)
	fc.FollowupCount++
	runCtx.SetState(core.StateKeyFollowupContext, fc.Map())

	if err = emitMessage(runCtx, f.Name(), followupIntro); err != nil {
		return err
	}

	if err = runModelTurn(f.LLMAgent, runCtx); err != nil {
		return err
	}

	if runCtx.SessionStore != nil {
		if err := runCtx.RefreshSession(); err != nil {
			runCtx.LogDebug("specialist.session.refresh.failed", "agent", f.Name(), "error", err.Error())
		}
	}
	fc = core.FollowupContextFrom(runCtx)
	fc.LastHandled = query
	runCtx.SetState(core.StateKeyFollowupContext, fc.Map())

	return emitState(runCtx, f.Name())
}
