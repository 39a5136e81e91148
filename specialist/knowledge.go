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
	knowledgeIntro         = "📚 Searching our knowledge base for relevant information..."
	knowledgeFollowupIntro = "Let me search for additional information based on your follow-up question..."
)

// Knowledge answers documentation and how-to queries from the search tools.
// Technical debugging and courtesy closes are redirected before the model
// layer ever runs.
type Knowledge struct {
	*agent.LLMAgent

	policy *intent.RuleSet
	table  route.Table
}

// NewKnowledge builds the knowledge specialist. Tools are typically the
// help docs, runbooks and Zendesk search tools.
func NewKnowledge(llm model.Model, tools ...tool.Tool) *Knowledge {
	llmAgent := agent.NewLLMAgent(route.KnowledgeSpecialist, llm, func(o *agent.LLMAgentOptions) {
		o.Description = "Knowledge specialist for documentation, guides, and how-to questions"
		o.Instruction = agent.NewInstructionFromText(knowledgeInstruction)
		o.Planner = planner.NewReActPlanner()
	})
	llmAgent.RegisterTools(tools...)

	return &Knowledge{
		LLMAgent: llmAgent,
		policy:   intent.KnowledgePolicy(),
		table:    route.DefaultTable(),
	}
}

// Run drives one knowledge turn: redirect check, search context staging,
// model turn, completion flag.
func (k *Knowledge) Run(runCtx *core.RunContext) (err error) {
	if err = k.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { k.RunAfter(runCtx, err) }()

	query := core.StateString(runCtx, core.StateKeyCurrentQuery)

	if d, ok := transferDecision(k.table, k.policy, k.Name(), query); ok {
		runCtx.LogInfo("specialist.redirect", "agent", k.Name(), "target", d.Target)
		return emitTransfer(runCtx, k.Name(), d)
	}

	runCtx.SetState(core.StateKeyLastActiveAgent, k.Name())
	runCtx.SetState(core.StateKeyConversationContext, core.ContextKnowledge)

	kc := core.KnowledgeContextFrom(runCtx)
	kc.PreviousQueries = append(kc.PreviousQueries, query)
	runCtx.SetState(core.StateKeyKnowledgeContext, kc.Map())

	isFollowup := len(core.ConversationHistoryFrom(runCtx)) > 1 &&
		core.StateString(runCtx, core.StateKeyTransferReason) != route.ReasonKnowledgeSearch

	intro := knowledgeIntro
	if isFollowup {
		intro = knowledgeFollowupIntro
	}
	if err = emitMessage(runCtx, k.Name(), intro); err != nil {
		return err
	}

	if err = runModelTurn(k.LLMAgent, runCtx); err != nil {
		return err
	}

	if runCtx.SessionStore != nil {
		if err := runCtx.RefreshSession(); err != nil {
			runCtx.LogDebug("specialist.session.refresh.failed", "agent", k.Name(), "error", err.Error())
		}
	}
	kc = core.KnowledgeContextFrom(runCtx)
	kc.SearchCompleted = true
	runCtx.SetState(core.StateKeyKnowledgeContext, kc.Map())

	return emitState(runCtx, k.Name())
}
