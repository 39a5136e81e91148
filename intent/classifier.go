package intent

import "unicode/utf8"

// Context-continuation only applies to utterances longer than this many runes;
// shorter ones fall through to the fresh domain tables.
const continuationMinLen = 5

// Snapshot carries the conversational markers that influence classification,
// read from session state before the turn is routed.
type Snapshot struct {
	Context   string // conversation_context value, "" when unset
	LastAgent string // last_active_agent value, "" when unset
}

// Classification is the outcome of classifying one utterance. Channel is
// populated for technical labels only; every other label leaves it empty.
type Classification struct {
	Label   Label
	Channel Channel
}

// Classifier is the conversation manager's intent classifier. Priority order:
// greeting, explicit follow-up markers, context continuation, ticket keywords,
// technical keywords, knowledge keywords, length-based clarification, general.
// The context-continuation step runs between the explicit follow-up markers
// and the fresh domain tables: while a context is active, its keywords
// reclassify the utterance as a follow-up even when a fresh domain table would
// also match. Reordering these steps changes routing.
type Classifier struct {
	pre          *RuleSet
	post         *RuleSet
	continuation map[string][]string
}

// NewClassifier builds the conversation manager classifier with the standard
// trigger tables.
func NewClassifier() *Classifier {
	return &Classifier{
		pre: NewRuleSet(
			Rule{Label: LabelGreeting, Triggers: greetingTriggers, MaxLen: 25},
			Rule{Label: LabelFollowup, Triggers: followupTriggers, RequireContext: true},
		),
		post: NewRuleSet(
			Rule{Label: LabelTicketAnalysis, Triggers: ticketTriggers},
			Rule{Label: LabelTechnical, Triggers: technicalTriggers},
			Rule{Label: LabelKnowledge, Triggers: knowledgeTriggers},
			Rule{Label: LabelClarification, MaxLen: 5},
			Rule{Label: LabelGeneral},
		),
		continuation: continuationKeywords,
	}
}

// Classify maps an utterance to an intent label. It never fails: anything
// unmatched falls through to the general label.
func (c *Classifier) Classify(utterance string, snap Snapshot) Classification {
	q := Normalize(utterance)
	contextActive := snap.Context != ""

	if label, ok := c.pre.Match(q, contextActive); ok {
		return c.withChannel(q, label)
	}

	if contextActive && snap.LastAgent != "" && utf8.RuneCountInString(q) > continuationMinLen {
		if kws, ok := c.continuation[snap.Context]; ok && ContainsAny(q, kws) {
			return Classification{Label: LabelFollowup}
		}
	}

	label, _ := c.post.Match(q, contextActive)
	return c.withChannel(q, label)
}

func (c *Classifier) withChannel(q string, label Label) Classification {
	cls := Classification{Label: label}
	if label == LabelTechnical {
		cls.Channel = DetectChannel(q)
	}
	return cls
}
