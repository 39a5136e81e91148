package intent

import (
	"strings"
	"unicode/utf8"
)

// Label is an intent classification outcome. The vocabulary is closed: the
// conversation manager vocabulary (greeting through general), the single-pass
// pipeline vocabulary (technical_debug, knowledge_only) and the specialist
// policy vocabulary (stay, *_request, courtesy_close, new_topic).
type Label string

// Conversation manager labels.
const (
	LabelGreeting       Label = "greeting"
	LabelFollowup       Label = "followup"
	LabelTicketAnalysis Label = "ticket_analysis"
	LabelTechnical      Label = "technical_troubleshooting"
	LabelKnowledge      Label = "knowledge_search"
	LabelClarification  Label = "clarification"
	LabelGeneral        Label = "general"
)

// Single-pass pipeline labels.
const (
	LabelTechnicalDebug Label = "technical_debug"
	LabelKnowledgeOnly  Label = "knowledge_only"
)

// Specialist transfer-policy labels.
const (
	LabelStay             Label = "stay"
	LabelKnowledgeRequest Label = "knowledge_request"
	LabelTechnicalRequest Label = "technical_request"
	LabelCourtesyClose    Label = "courtesy_close"
	LabelNewTopic         Label = "new_topic"
)

// Channel identifies the messaging channel a technical utterance concerns.
type Channel string

// Channels recognized by DetectChannel.
const (
	ChannelGeneral  Channel = "general"
	ChannelPush     Channel = "push"
	ChannelWhatsApp Channel = "whatsapp"
)

// Normalize lowercases and trims an utterance. Every matcher in this package
// operates on normalized text; callers holding raw user input do not need to
// pre-normalize, the entry points do it themselves.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// ContainsAny reports whether any trigger occurs as a substring of the
// normalized utterance. An empty trigger list never matches.
func ContainsAny(normalized string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(normalized, t) {
			return true
		}
	}
	return false
}

// Rule is one entry of an ordered trigger-set matcher. A rule fires when all
// guards pass and any trigger occurs in the utterance. An empty trigger list
// fires unconditionally (subject to guards), which is how length-based
// clarification and default rules are expressed.
type Rule struct {
	Label          Label
	Triggers       []string // any substring match fires the rule; empty = always
	Exclude        []string // any substring match suppresses the rule
	MaxLen         int      // if >0, utterance rune count must be < MaxLen
	MinLen         int      // if >0, utterance rune count must be > MinLen
	RequireContext bool     // only fire while a conversation context is active
}

// Matches reports whether the rule fires for the normalized utterance.
func (r Rule) Matches(normalized string, contextActive bool) bool {
	if r.RequireContext && !contextActive {
		return false
	}

	n := utf8.RuneCountInString(normalized)
	if r.MaxLen > 0 && n >= r.MaxLen {
		return false
	}
	if r.MinLen > 0 && n <= r.MinLen {
		return false
	}

	if ContainsAny(normalized, r.Exclude) {
		return false
	}

	if len(r.Triggers) == 0 {
		return true
	}

	return ContainsAny(normalized, r.Triggers)
}

// RuleSet evaluates rules in declaration order; the first match wins. Rule
// sets are immutable after construction and safe for concurrent use.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a RuleSet preserving declaration order.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Match normalizes the utterance and returns the label of the first matching
// rule. The second return is false only when no rule fires; sets that end in
// an unconditional default rule always match.
func (rs *RuleSet) Match(utterance string, contextActive bool) (Label, bool) {
	q := Normalize(utterance)
	for _, r := range rs.rules {
		if r.Matches(q, contextActive) {
			return r.Label, true
		}
	}
	return "", false
}
