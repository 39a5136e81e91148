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

const (
	ticketIntro         = "🎫 Starting ticket analysis and search..."
	ticketFollowupIntro = "Let me continue the ticket analysis based on your follow-up question..."
)

// Ticket analyzes Zendesk tickets: summaries, historical searches and
// pattern analysis over past support cases.
type Ticket struct {
	*agent.LLMAgent

	policy *intent.RuleSet
	table  route.Table
}

// NewTicket builds the ticket specialist. The Zendesk search tool is the
// usual binding.
func NewTicket(llm model.Model, tools ...tool.Tool) *Ticket {
	llmAgent := agent.NewLLMAgent(route.TicketSpecialist, llm, func(o *agent.LLMAgentOptions) {
		o.Description = "Ticket specialist for Zendesk analysis, summaries, and historical ticket searches"
		o.Instruction = agent.NewInstructionFromText(ticketInstruction)
		o.Planner = planner.NewReActPlanner()
	})
	llmAgent.RegisterTools(tools...)

	return &Ticket{
		LLMAgent: llmAgent,
		policy:   intent.TicketPolicy(),
		table:    route.DefaultTable(),
	}
}

// Run drives one ticket analysis turn.
func (t *Ticket) Run(runCtx *core.RunContext) (err error) {
	if err = t.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { t.RunAfter(runCtx, err) }()

	query := core.StateString(runCtx, core.StateKeyCurrentQuery)

	if d, ok := transferDecision(t.table, t.policy, t.Name(), query); ok {
		runCtx.LogInfo("specialist.redirect", "agent", t.Name(), "target", d.Target)
		return emitTransfer(runCtx, t.Name(), d)
	}

	runCtx.SetState(core.StateKeyLastActiveAgent, t.Name())
	runCtx.SetState(core.StateKeyConversationContext, core.ContextTicket)

	tc := core.TicketContextFrom(runCtx)
	tc.PreviousQueries = append(tc.PreviousQueries, query)
	runCtx.SetState(core.StateKeyTicketContext, tc.Map())

	isFollowup := len(core.ConversationHistoryFrom(runCtx)) > 1 &&
		core.StateString(runCtx, core.StateKeyTransferReason) != route.ReasonTicketAnalysis

	intro := ticketIntro
	if isFollowup {
		intro = ticketFollowupIntro
	}
	if err = emitMessage(runCtx, t.Name(), intro); err != nil {
		return err
	}

	if err = runModelTurn(t.LLMAgent, runCtx); err != nil {
		return err
	}

	if runCtx.SessionStore != nil {
		if err := runCtx.RefreshSession(); err != nil {
			runCtx.LogDebug("specialist.session.refresh.failed", "agent", t.Name(), "error", err.Error())
		}
	}
	tc = core.TicketContextFrom(runCtx)
	tc.AnalysisCompleted = true
	runCtx.SetState(core.StateKeyTicketContext, tc.Map())

	return emitState(runCtx, t.Name())
}
