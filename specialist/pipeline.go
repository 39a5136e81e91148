package specialist

import (
	"fmt"
	"maps"
	"strings"

	"github.com/satyamsundaram01/moe-support-assist/agent"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/intent"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/planner"
	"github.com/satyamsundaram01/moe-support-assist/route"
	"github.com/satyamsundaram01/moe-support-assist/synthesis"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

const (
	pipelineName           = "SupportPipeline"
	pipelinePreamble       = "Hello! I'm your MoEngage WhatsApp Support Assistant."
	solutionReportArtifact = "solution_report.md"
)

const pipelineGreeting = `Hello! I'm your MoEngage WhatsApp Support Assistant. I'm here to help you troubleshoot WhatsApp campaign issues, analyze delivery problems, and provide technical support.

How can I assist you today? You can ask me about:
• WhatsApp campaign delivery issues
• Push notification problems
• Campaign performance analysis
• Technical troubleshooting
• Error investigation

Please describe the issue you're experiencing, and I'll investigate it for you!`

const pipelineClarification = `I'd be happy to help you with your WhatsApp campaign issue! However, I need a bit more information to provide the best assistance.

Could you please provide more details about:
• What specific issue are you experiencing?
• Which WhatsApp campaign is affected?
• Any error messages you've seen?
• When did the problem start?

The more details you can share, the better I can help troubleshoot and resolve your issue!`

// Pipeline is the single-pass troubleshooter. Each turn it greets, decides
// between greeting / clarification / knowledge-only / full technical debug,
// runs its knowledge and execution sub-agents as bounded calls whose output
// the user never sees directly, and answers with either the knowledge
// findings or the synthesized solution report.
//
// Unlike the conversational tree there are no transfers: the pipeline owns
// the whole turn and every sub-agent runs to completion inside it.
type Pipeline struct {
	agent.BaseAgent

	rules     *intent.RuleSet
	knowledge core.Agent
	execution core.Agent
	engine    *synthesis.Engine
}

// NewPipeline builds the single-pass troubleshooter around its two
// sub-agents, typically NewKnowledgeAgent and NewExecutionAgent.
func NewPipeline(knowledge, execution core.Agent) *Pipeline {
	p := &Pipeline{
		BaseAgent: agent.NewBaseAgent(pipelineName),
		rules:     intent.PipelineRules(),
		knowledge: knowledge,
		execution: execution,
		engine:    synthesis.NewEngine(),
	}
	_ = p.SetSubAgents(knowledge, execution)
	return p
}

// Run executes one pipeline turn: preamble, query bookkeeping with findings
// reset on a new query, intent dispatch, final response.
func (p *Pipeline) Run(runCtx *core.RunContext) (err error) {
	if err = p.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { p.RunAfter(runCtx, err) }()

	if err = emitMessage(runCtx, p.Name(), pipelinePreamble); err != nil {
		return err
	}

	latest := userQuery(runCtx.UserContent)
	if latest == "" {
		latest = fallbackQuery
	}
	previous := core.StateString(runCtx, core.StateKeyUserQuery)
	if latest != previous {
		runCtx.SetState(core.StateKeyUserQuery, latest)
		// Findings belong to the query they were gathered for.
		if previous != "" {
			runCtx.SetState(core.StateKeyKnowledgeFindings, "")
			runCtx.SetState(core.StateKeyExecutionResults, "")
		}
	}

	label, _ := p.rules.Match(latest, false)
	runCtx.LogInfo("pipeline.intent.classified", "agent", p.Name(), "intent", string(label))

	var response string
	switch label {
	case intent.LabelGreeting:
		response = pipelineGreeting
		runCtx.SetState(core.StateKeyPhase, core.PhaseGreetingComplete)
	case intent.LabelClarification:
		response = pipelineClarification
		runCtx.SetState(core.StateKeyPhase, core.PhaseClarificationComplete)
	case intent.LabelTechnicalDebug:
		if response, err = p.technicalDebug(runCtx); err != nil {
			return err
		}
	default:
		if response, err = p.knowledgeOnly(runCtx); err != nil {
			return err
		}
	}

	runCtx.SetState(core.StateKeyResponse, response)
	if response == "" {
		return emitState(runCtx, p.Name())
	}
	return emitFinal(runCtx, p.Name(), response)
}

// knowledgeOnly answers from the knowledge agent alone.
func (p *Pipeline) knowledgeOnly(runCtx *core.RunContext) (string, error) {
	findings, err := p.collect(runCtx, p.knowledge)
	if err != nil {
		return "", err
	}

	runCtx.SetState(core.StateKeyKnowledgeFindings, findings)
	runCtx.SetState(core.StateKeyPhase, core.PhaseKnowledgeComplete)
	return findings, nil
}

// technicalDebug chains knowledge search and execution investigation, then
// synthesizes the solution report from both findings.
func (p *Pipeline) technicalDebug(runCtx *core.RunContext) (string, error) {
	knowledge, err := p.collect(runCtx, p.knowledge)
	if err != nil {
		return "", err
	}
	runCtx.SetState(core.StateKeyKnowledgeFindings, knowledge)

	execution, err := p.collect(runCtx, p.execution)
	if err != nil {
		return "", err
	}
	runCtx.SetState(core.StateKeyExecutionResults, execution)

	// Staged before synthesis so the report reflects the finished phase.
	runCtx.SetState(core.StateKeyPhase, core.PhaseTechnicalComplete)

	report := p.engine.FinalSolution(runCtx)
	if runCtx.ArtifactStore != nil {
		if err := runCtx.SaveArtifact(solutionReportArtifact, []byte(report)); err != nil {
			runCtx.LogWarn("pipeline.artifact.save_failed", "artifact", solutionReportArtifact, "error", err.Error())
		}
	}
	return report, nil
}

// collect runs a sub-agent as a bounded call and returns its visible text,
// one line per text part. The child works against an isolated session
// snapshot seeded with the state staged so far this turn; its state deltas
// are re-staged on the pipeline context and transfers are dropped.
func (p *Pipeline) collect(runCtx *core.RunContext, sub core.Agent) (string, error) {
	branch := sub.Name()
	if runCtx.Branch != "" {
		branch = runCtx.Branch + "." + sub.Name()
	}

	childEmit := make(chan core.Event, 64)
	child := runCtx.NewChildContext(childEmit, nil, branch)
	child.Agent = core.AgentInfo{Name: sub.Name(), Type: "sub_call"}
	child.SessionStore = nil
	if runCtx.Session != nil {
		child.Session = runCtx.Session.Clone()
	}
	maps.Copy(child.StateDelta, runCtx.StateDelta)

	runErr := make(chan error, 1)
	go func() {
		runErr <- sub.Run(child)
		close(childEmit)
	}()

	var (
		findings strings.Builder
		delta    = map[string]any{}
	)
	for ev := range childEmit {
		if ev.IsPartial() {
			continue
		}
		if ev.IsError() {
			for range childEmit {
			}
			<-runErr
			return "", fmt.Errorf("sub-agent %s: %s", sub.Name(), *ev.ErrorMessage)
		}
		if ev.Content != nil {
			for _, part := range ev.Content.Parts {
				if tp, ok := part.(core.TextPart); ok && !tp.Thought && tp.Text != "" {
					findings.WriteString(tp.Text)
					findings.WriteString("\n")
				}
			}
		}
		maps.Copy(delta, ev.Actions.StateDelta)
		if ev.Actions.TransferToAgent != nil {
			runCtx.LogDebug("pipeline.sub_call.transfer_dropped", "agent", sub.Name(), "target", *ev.Actions.TransferToAgent)
		}
	}
	if err := <-runErr; err != nil {
		return "", fmt.Errorf("sub-agent %s: %w", sub.Name(), err)
	}

	for k, v := range delta {
		runCtx.SetState(k, v)
	}

	return findings.String(), nil
}

// NewKnowledgeAgent builds the pipeline's knowledge stage: a bounded
// sub-call agent that searches runbooks and Zendesk tickets. It never
// transfers and never streams; the pipeline consumes its whole answer.
func NewKnowledgeAgent(llm model.Model, tools ...tool.Tool) *agent.LLMAgent {
	a := agent.NewLLMAgent(route.KnowledgeAgent, llm, func(o *agent.LLMAgentOptions) {
		o.Description = "Knowledge specialist that searches runbooks and Zendesk tickets to provide comprehensive information."
		o.Instruction = agent.NewInstructionFromText(knowledgeAgentInstruction)
		o.Planner = planner.NewReActPlanner()
		o.EnableStreaming = false
		o.AllowTransfer = false
	})
	a.RegisterTools(tools...)
	return a
}

// NewExecutionAgent builds the pipeline's execution stage: technical
// investigation over campaign APIs and logs.
func NewExecutionAgent(llm model.Model, tools ...tool.Tool) *agent.LLMAgent {
	a := agent.NewLLMAgent(route.ExecutionAgent, llm, func(o *agent.LLMAgentOptions) {
		o.Description = "Execution specialist that performs technical investigation using campaign APIs."
		o.Instruction = agent.NewInstructionFromText(executionAgentInstruction)
		o.Planner = planner.NewReActPlanner()
		o.EnableStreaming = false
		o.AllowTransfer = false
	})
	a.RegisterTools(tools...)
	return a
}

// NewCampaignLogsAgent builds the log analysis helper the execution agent
// can call as a tool (wrap it with tool.NewAgentTool). Its summary lands
// under the campaign_log_analysis state key via the output key.
func NewCampaignLogsAgent(llm model.Model, tools ...tool.Tool) *agent.LLMAgent {
	a := agent.NewLLMAgent("CampaignLogsAgent", llm, func(o *agent.LLMAgentOptions) {
		o.Description = "Campaign logs specialist that fetches and analyzes WhatsApp campaign logs."
		o.Instruction = agent.NewInstructionFromText(campaignLogsInstruction)
		o.Planner = planner.NewReActPlanner()
		o.EnableStreaming = false
		o.AllowTransfer = false
		o.OutputKey = core.StateKeyCampaignLogAnalysis
	})
	a.RegisterTools(tools...)
	return a
}
