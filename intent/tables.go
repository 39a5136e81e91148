package intent

import "github.com/satyamsundaram01/moe-support-assist/core"

// Conversation manager trigger tables. Order inside a table is irrelevant
// (any match fires); order between tables is the priority order fixed in
// Classifier.Classify and must not be reshuffled.
var (
	greetingTriggers = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

	followupTriggers = []string{
		"what about", "what if", "can you also", "how about", "and what",
		"also", "additionally", "furthermore", "what else", "any other",
		"follow up", "more details", "explain more", "tell me more",
	}

	// Keyed by the active conversation context; while that context is set,
	// its keywords reclassify an utterance as a follow-up before the fresh
	// domain tables get a chance.
	continuationKeywords = map[string][]string{
		core.ContextTechnical: {"campaign", "delivery", "error", "issue", "problem", "debug", "fix"},
		core.ContextKnowledge: {"how", "what", "explain", "guide", "setup", "configure"},
		core.ContextTicket:    {"ticket", "summary", "analyze", "details"},
	}

	ticketTriggers = []string{"ticket", "zendesk", "summarize", "summarise", "summary", "analyze ticket"}

	technicalTriggers = []string{
		"campaign", "not delivering", "error", "failed", "debug", "issue",
		"problem", "api", "logs", "delivery", "performance", "rate limit",
	}

	knowledgeTriggers = []string{
		"how to", "what is", "explain", "setup", "configure", "guide",
		"documentation", "help", "best practice", "feature",
	}
)

// Single-pass pipeline trigger tables.
var (
	pipelineGreetingTriggers = []string{"hey", "hi", "hello", "good morning", "good afternoon", "good evening"}

	pipelineTechnicalTriggers = []string{
		"campaign id", "not delivering", "error", "failed", "issue with campaign",
		"debug", "logs", "api",
	}

	pipelineKnowledgeTriggers = []string{
		"how to", "what is", "explain", "documentation", "guide", "setup", "configure",
	}
)

// Channel detection tables. WhatsApp is checked first: every WhatsApp trigger
// is unambiguous, while the push set carries broad keywords ("push",
// "notification") that would otherwise shadow WhatsApp utterances mentioning
// notifications.
var (
	whatsappTriggers = []string{
		"whatsapp", "whatsapp campaign", "whatsapp template", "waba",
		"whatsapp delivery", "whatsapp not sending",
	}

	pushTriggers = []string{
		"push not delivering", "push notification", "push campaign",
		"fcm", "apns", "push template", "push delivery", "push", "notification",
	}
)

// Courtesy closings shared by every specialist policy.
var courtesyTriggers = []string{"thank you", "thanks", "that's all", "no more questions"}

// DetectChannel identifies the messaging channel a technical utterance is
// about, defaulting to the general channel.
func DetectChannel(utterance string) Channel {
	q := Normalize(utterance)
	if ContainsAny(q, whatsappTriggers) {
		return ChannelWhatsApp
	}
	if ContainsAny(q, pushTriggers) {
		return ChannelPush
	}
	return ChannelGeneral
}

// PipelineRules returns the single-pass pipeline's classifier: greeting,
// technical debug (needs knowledge plus execution findings), knowledge-only,
// short-utterance clarification, then knowledge-only as the default for
// anything unmatched.
func PipelineRules() *RuleSet {
	return NewRuleSet(
		Rule{Label: LabelGreeting, Triggers: pipelineGreetingTriggers, MaxLen: 20},
		Rule{Label: LabelTechnicalDebug, Triggers: pipelineTechnicalTriggers},
		Rule{Label: LabelKnowledgeOnly, Triggers: pipelineKnowledgeTriggers},
		Rule{Label: LabelClarification, MaxLen: 5},
		Rule{Label: LabelKnowledgeOnly},
	)
}

// TechnicalPolicy returns the transfer policy shared by the technical
// troubleshooting specialists (general, push, WhatsApp): documentation-style
// questions carrying no error language move to the knowledge specialist,
// courtesy closings return to the conversation manager, everything else stays.
func TechnicalPolicy() *RuleSet {
	return NewRuleSet(
		Rule{
			Label: LabelKnowledgeRequest,
			Triggers: []string{
				"how to", "what is", "explain", "documentation", "guide",
				"help", "tutorial", "setup", "configure",
			},
			Exclude: []string{"error", "issue", "problem", "debug", "fix"},
		},
		Rule{Label: LabelCourtesyClose, Triggers: courtesyTriggers},
	)
}

// KnowledgePolicy returns the knowledge specialist's transfer policy: error
// language moves to the technical specialist, courtesy closings return to the
// conversation manager.
func KnowledgePolicy() *RuleSet {
	return NewRuleSet(
		Rule{
			Label: LabelTechnicalRequest,
			Triggers: []string{
				"error", "issue", "problem", "debug", "fix", "not working",
				"failed", "delivery", "api", "logs",
			},
		},
		Rule{Label: LabelCourtesyClose, Triggers: courtesyTriggers},
	)
}

// TicketPolicy returns the ticket specialist's transfer policy.
func TicketPolicy() *RuleSet {
	return NewRuleSet(
		Rule{
			Label: LabelTechnicalRequest,
			Triggers: []string{
				"how to fix", "implement", "debug", "technical solution",
				"api", "configuration", "setup", "troubleshoot",
			},
		},
		Rule{
			Label:    LabelKnowledgeRequest,
			Triggers: []string{"documentation", "guide", "how to", "tutorial", "best practice"},
		},
		Rule{Label: LabelCourtesyClose, Triggers: courtesyTriggers},
	)
}

// FollowupPolicy returns the follow-up specialist's transfer policy: technical
// deep-dives, documentation-heavy questions and explicit topic changes each
// leave, everything else stays with the follow-up specialist.
func FollowupPolicy() *RuleSet {
	return NewRuleSet(
		Rule{
			Label: LabelTechnicalRequest,
			Triggers: []string{
				"debug", "logs", "api error", "technical details", "investigate",
				"root cause", "performance", "rate limit", "configuration",
			},
		},
		Rule{
			Label: LabelKnowledgeRequest,
			Triggers: []string{
				"how to", "step by step", "guide", "documentation", "tutorial",
				"setup", "configure", "best practice", "feature explanation",
			},
		},
		Rule{
			Label: LabelNewTopic,
			Triggers: []string{
				"different question", "new issue", "another problem", "switch topic",
				"something else", "different matter",
			},
		},
	)
}
