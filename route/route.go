package route

import (
	"github.com/satyamsundaram01/moe-support-assist/intent"
)

// Canonical agent names. These form the closed addressable set of the
// conversational state machine; transfer targets are validated against them.
const (
	SupportChatManager         = "SupportChatManager"
	TechnicalTroubleshootAgent = "TechnicalTroubleshootAgent"
	PushTroubleshootAgent      = "PushTroubleshootAgent"
	WhatsAppTroubleshootAgent  = "WhatsAppTroubleshootAgent"
	KnowledgeSpecialist        = "KnowledgeSpecialist"
	TicketSpecialist           = "TicketSpecialist"
	FollowUpSpecialist         = "FollowUpSpecialist"
)

// Pipeline sub-call agents. They are invoked as bounded calls by the
// single-pass pipeline and never own the conversation.
const (
	KnowledgeAgent = "KnowledgeAgent"
	ExecutionAgent = "ExecutionAgent"
)

// Transfer reasons stored under the transfer_reason state key when the
// conversation manager delegates a turn.
const (
	ReasonFollowupQuestion = "followup_question"
	ReasonKnowledgeSearch  = "knowledge_search"
	ReasonTechnicalIssue   = "technical_issue"
	ReasonTicketAnalysis   = "ticket_analysis"
)

// Action describes what a routing decision tells the current agent to do.
type Action int

const (
	// ActionRespond handles the turn locally; no control movement.
	ActionRespond Action = iota
	// ActionTransfer hands conversation ownership to Target. The transfer
	// event is the last event of the emitting agent's turn.
	ActionTransfer
	// ActionSubCall invokes Target as a bounded call. The caller keeps
	// ownership and the callee must not transfer further.
	ActionSubCall
)

// String returns the lowercase name of the action.
func (a Action) String() string {
	switch a {
	case ActionRespond:
		return "respond"
	case ActionTransfer:
		return "transfer"
	case ActionSubCall:
		return "sub_call"
	default:
		return "unknown"
	}
}

// Decision is one resolved routing outcome.
type Decision struct {
	Action  Action
	Target  string // agent name for transfer / sub-call actions
	Reason  string // written to transfer_reason on delegation, "" = leave as is
	Context string // conversation_context to set before acting, "" = leave as is
	Lead    string // user-visible lead message emitted with a transfer
}

// Key addresses one transition of the routing state machine. Channel
// qualifies technical intents; the zero channel is the channel-agnostic
// entry.
type Key struct {
	Agent   string
	Intent  intent.Label
	Channel intent.Channel
}

// Table maps (current agent, intent[, channel]) to a Decision, replacing
// chained conditionals with an exhaustively checkable lookup.
type Table map[Key]Decision

// Lookup resolves a classification for the given agent. A channel-qualified
// entry takes precedence over the channel-agnostic entry for the same
// (agent, intent) pair.
func (t Table) Lookup(agent string, cls intent.Classification) (Decision, bool) {
	if cls.Channel != "" {
		if d, ok := t[Key{Agent: agent, Intent: cls.Label, Channel: cls.Channel}]; ok {
			return d, true
		}
	}
	d, ok := t[Key{Agent: agent, Intent: cls.Label}]
	return d, ok
}
