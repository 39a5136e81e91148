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

// Intro lines announcing the investigation before the model turn starts.
const (
	technicalIntro         = "🔍 Starting technical investigation of your issue..."
	pushIntro              = "🔍 Starting technical investigation of your push issue..."
	technicalFollowupIntro = "Let me continue our technical investigation with your follow-up question..."
)

// Troubleshooter is the deterministic wrapper shared by the three technical
// specialists. Each turn it checks the redirect policy before anything else,
// stages the technical investigation context and then hands the turn to its
// model layer; afterwards it marks the investigation completed.
type Troubleshooter struct {
	*agent.LLMAgent

	policy *intent.RuleSet
	table  route.Table
	intro  string
}

// NewTechnical builds the general technical troubleshooter.
func NewTechnical(llm model.Model, tools ...tool.Tool) *Troubleshooter {
	return newTroubleshooter(
		route.TechnicalTroubleshootAgent,
		llm,
		"Technical specialist for campaign debugging, API troubleshooting, and performance issues",
		technicalInstruction,
		planner.NewDeepReasonPlanner(""),
		technicalIntro,
		tools,
	)
}

// NewPush builds the push notification troubleshooter.
func NewPush(llm model.Model, tools ...tool.Tool) *Troubleshooter {
	return newTroubleshooter(
		route.PushTroubleshootAgent,
		llm,
		"Technical specialist for Push campaign debugging, API troubleshooting, and performance issues",
		pushInstruction,
		planner.NewDeepReasonPlanner("push"),
		pushIntro,
		tools,
	)
}

// NewWhatsApp builds the WhatsApp campaign troubleshooter.
func NewWhatsApp(llm model.Model, tools ...tool.Tool) *Troubleshooter {
	return newTroubleshooter(
		route.WhatsAppTroubleshootAgent,
		llm,
		"Technical specialist for WhatsApp campaign debugging, API troubleshooting, and performance issues",
		whatsappInstruction,
		planner.NewDeepReasonPlanner("whatsapp"),
		technicalIntro,
		tools,
	)
}

func newTroubleshooter(name string, llm model.Model, description, instruction string, pl planner.Planner, intro string, tools []tool.Tool) *Troubleshooter {
	llmAgent := agent.NewLLMAgent(name, llm, func(o *agent.LLMAgentOptions) {
		o.Description = description
		o.Instruction = agent.NewInstructionFromText(instruction)
		o.Planner = pl
	})
	llmAgent.RegisterTools(tools...)

	return &Troubleshooter{
		LLMAgent: llmAgent,
		policy:   intent.TechnicalPolicy(),
		table:    route.DefaultTable(),
		intro:    intro,
	}
}

// Run drives one troubleshooting turn. The redirect policy is consulted
// before any message or state change so a handed-off query leaves no trace
// of a started investigation.
func (t *Troubleshooter) Run(runCtx *core.RunContext) (err error) {
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
	runCtx.SetState(core.StateKeyConversationContext, core.ContextTechnical)

	tc := core.TechnicalContextFrom(runCtx)
	tc.InvestigationStarted = true
	tc.PreviousQueries = append(tc.PreviousQueries, query)
	runCtx.SetState(core.StateKeyTechnicalContext, tc.Map())

	isFollowup := len(core.ConversationHistoryFrom(runCtx)) > 1 &&
		core.StateString(runCtx, core.StateKeyTransferReason) != route.ReasonTechnicalIssue

	intro := t.intro
	if isFollowup {
		intro = technicalFollowupIntro
	}
	if err = emitMessage(runCtx, t.Name(), intro); err != nil {
		return err
	}

	if err = runModelTurn(t.LLMAgent, runCtx); err != nil {
		return err
	}

	// Re-read the persisted context so the completion flag lands on top of
	// everything the intro event and the model turn staged.
	if runCtx.SessionStore != nil {
		if err := runCtx.RefreshSession(); err != nil {
			runCtx.LogDebug("specialist.session.refresh.failed", "agent", t.Name(), "error", err.Error())
		}
	}
	tc = core.TechnicalContextFrom(runCtx)
	tc.InvestigationCompleted = true
	runCtx.SetState(core.StateKeyTechnicalContext, tc.Map())

	return emitState(runCtx, t.Name())
}
