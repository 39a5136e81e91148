package route

import (
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/intent"
)

// Lead messages shown to the user before control moves. Specialists share one
// generic line; the conversation manager's lines name the work it is handing
// off.
const (
	LeadFollowup   = "Let me help you with that follow-up question..."
	LeadKnowledge  = "I'll search our knowledge base for you..."
	LeadTechnical  = "I'll investigate this technical issue for you..."
	LeadTicket     = "I'll analyze that ticket for you..."
	LeadSpecialist = "Let me connect you with the right specialist for this question..."
)

// DefaultTable returns the standard routing table for the support assistant.
// Every conversational intent of every agent has exactly one entry; intents
// absent from the table (specialist "stay" outcomes) mean the agent handles
// the turn locally.
func DefaultTable() Table {
	t := Table{
		// Conversation manager: local handlers.
		{Agent: SupportChatManager, Intent: intent.LabelGreeting}:      {Action: ActionRespond, Context: core.ContextGreeting},
		{Agent: SupportChatManager, Intent: intent.LabelClarification}: {Action: ActionRespond, Context: core.ContextClarification},
		{Agent: SupportChatManager, Intent: intent.LabelGeneral}:       {Action: ActionRespond, Context: core.ContextGeneral},

		// Conversation manager: delegations.
		{Agent: SupportChatManager, Intent: intent.LabelFollowup}: {
			Action: ActionTransfer, Target: FollowUpSpecialist,
			Reason: ReasonFollowupQuestion, Lead: LeadFollowup,
		},
		{Agent: SupportChatManager, Intent: intent.LabelKnowledge}: {
			Action: ActionTransfer, Target: KnowledgeSpecialist,
			Reason: ReasonKnowledgeSearch, Context: core.ContextKnowledge, Lead: LeadKnowledge,
		},
		{Agent: SupportChatManager, Intent: intent.LabelTicketAnalysis}: {
			Action: ActionTransfer, Target: TicketSpecialist,
			Reason: ReasonTicketAnalysis, Context: core.ContextTicket, Lead: LeadTicket,
		},
		{Agent: SupportChatManager, Intent: intent.LabelTechnical}: {
			Action: ActionTransfer, Target: TechnicalTroubleshootAgent,
			Reason: ReasonTechnicalIssue, Context: core.ContextTechnical, Lead: LeadTechnical,
		},
		{Agent: SupportChatManager, Intent: intent.LabelTechnical, Channel: intent.ChannelPush}: {
			Action: ActionTransfer, Target: PushTroubleshootAgent,
			Reason: ReasonTechnicalIssue, Context: core.ContextTechnical, Lead: LeadTechnical,
		},
		{Agent: SupportChatManager, Intent: intent.LabelTechnical, Channel: intent.ChannelWhatsApp}: {
			Action: ActionTransfer, Target: WhatsAppTroubleshootAgent,
			Reason: ReasonTechnicalIssue, Context: core.ContextTechnical, Lead: LeadTechnical,
		},
	}

	// Technical troubleshooters (general, push, WhatsApp) share one policy.
	for _, agent := range []string{TechnicalTroubleshootAgent, PushTroubleshootAgent, WhatsAppTroubleshootAgent} {
		t[Key{Agent: agent, Intent: intent.LabelKnowledgeRequest}] = Decision{
			Action: ActionTransfer, Target: KnowledgeSpecialist, Lead: LeadSpecialist,
		}
		t[Key{Agent: agent, Intent: intent.LabelCourtesyClose}] = Decision{
			Action: ActionTransfer, Target: SupportChatManager, Lead: LeadSpecialist,
		}
	}

	t[Key{Agent: KnowledgeSpecialist, Intent: intent.LabelTechnicalRequest}] = Decision{
		Action: ActionTransfer, Target: TechnicalTroubleshootAgent, Lead: LeadSpecialist,
	}
	t[Key{Agent: KnowledgeSpecialist, Intent: intent.LabelCourtesyClose}] = Decision{
		Action: ActionTransfer, Target: SupportChatManager, Lead: LeadSpecialist,
	}

	t[Key{Agent: TicketSpecialist, Intent: intent.LabelTechnicalRequest}] = Decision{
		Action: ActionTransfer, Target: TechnicalTroubleshootAgent, Lead: LeadSpecialist,
	}
	t[Key{Agent: TicketSpecialist, Intent: intent.LabelKnowledgeRequest}] = Decision{
		Action: ActionTransfer, Target: KnowledgeSpecialist, Lead: LeadSpecialist,
	}
	t[Key{Agent: TicketSpecialist, Intent: intent.LabelCourtesyClose}] = Decision{
		Action: ActionTransfer, Target: SupportChatManager, Lead: LeadSpecialist,
	}

	t[Key{Agent: FollowUpSpecialist, Intent: intent.LabelTechnicalRequest}] = Decision{
		Action: ActionTransfer, Target: TechnicalTroubleshootAgent, Lead: LeadSpecialist,
	}
	t[Key{Agent: FollowUpSpecialist, Intent: intent.LabelKnowledgeRequest}] = Decision{
		Action: ActionTransfer, Target: KnowledgeSpecialist, Lead: LeadSpecialist,
	}
	t[Key{Agent: FollowUpSpecialist, Intent: intent.LabelNewTopic}] = Decision{
		Action: ActionTransfer, Target: SupportChatManager, Lead: LeadSpecialist,
	}

	return t
}
