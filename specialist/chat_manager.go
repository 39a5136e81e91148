package specialist

import (
	"github.com/satyamsundaram01/moe-support-assist/agent"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/intent"
	"github.com/satyamsundaram01/moe-support-assist/route"
)

// Canned responses for turns the root agent answers itself.
const (
	greetingResponse = `Hello! I'm your MoEngage Support Assistant. I can help you with:

🔧 **Technical Issues**: Campaign delivery, API errors, debugging
📚 **Knowledge & Guides**: How-to guides, feature explanations, setup
🎫 **Ticket Analysis**: Zendesk ticket summaries and analysis
💬 **Follow-up Questions**: Clarifications and additional help

What can I assist you with today?`

	clarificationResponse = `I'd be happy to help you! However, I need a bit more information to provide the best assistance.

Could you please provide more details about:
• What specific issue are you experiencing?
• Which feature or campaign is affected?
• Any error messages you've seen?
• What you're trying to accomplish?

The more details you can share, the better I can help you!`

	generalResponse = `I understand you have a question. Let me help you find the right information.

Based on your query, I can:
• Search our knowledge base and documentation
• Look up technical troubleshooting guides
• Analyze support tickets and historical solutions
• Provide step-by-step guidance

Could you provide a bit more context about what you're looking for? This will help me direct you to the most relevant specialist.`
)

// ChatManager is the deterministic root of the support tree. It classifies
// every user turn against the session snapshot, answers greetings and
// too-vague queries itself and hands everything else to a specialist
// through a transfer event resolved from the routing table.
type ChatManager struct {
	agent.BaseAgent

	classifier *intent.Classifier
	table      route.Table
}

// NewChatManager builds the root agent with the default classifier and
// routing table. Specialists are attached afterwards via SetSubAgents.
func NewChatManager() *ChatManager {
	return &ChatManager{
		BaseAgent:  agent.NewBaseAgent(route.SupportChatManager),
		classifier: intent.NewClassifier(),
		table:      route.DefaultTable(),
	}
}

// Run classifies the current utterance and either responds directly or
// emits a transfer to the selected specialist. Exactly one event is
// produced per turn.
func (m *ChatManager) Run(runCtx *core.RunContext) (err error) {
	if err = m.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { m.RunAfter(runCtx, err) }()

	query := userQuery(runCtx.UserContent)
	if query == "" {
		query = fallbackQuery
	}

	runCtx.SetState(core.StateKeyCurrentQuery, query)
	runCtx.SetState(core.StateKeyConversationHistory, core.AppendedHistory(runCtx, "user", query))

	cls := m.classifier.Classify(query, intent.Snapshot{
		Context:   core.StateString(runCtx, core.StateKeyConversationContext),
		LastAgent: core.StateString(runCtx, core.StateKeyLastActiveAgent),
	})
	runCtx.LogInfo("manager.intent.classified", "agent", m.Name(), "intent", string(cls.Label), "channel", string(cls.Channel))

	d, ok := m.table.Lookup(m.Name(), cls)
	if !ok {
		d = route.Decision{Action: route.ActionRespond, Context: core.ContextGeneral}
	}

	if d.Action == route.ActionTransfer {
		runCtx.LogInfo("manager.transfer", "agent", m.Name(), "target", d.Target, "reason", d.Reason)
		return emitTransfer(runCtx, m.Name(), d)
	}

	runCtx.SetState(core.StateKeyConversationContext, d.Context)
	runCtx.SetState(core.StateKeyLastActiveAgent, m.Name())

	return emitFinal(runCtx, m.Name(), m.respond(d.Context))
}

// respond maps a conversation context to its canned manager response.
func (m *ChatManager) respond(context string) string {
	switch context {
	case core.ContextGreeting:
		return greetingResponse
	case core.ContextClarification:
		return clarificationResponse
	default:
		return generalResponse
	}
}
