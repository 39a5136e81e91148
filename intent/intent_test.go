package intent

import "testing"

func TestNormalize(t *testing.T) {
	if got := Normalize("  Push Campaign FAILED  "); got != "push campaign failed" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestRule_Guards(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		utterance string
		context   bool
		want      bool
	}{
		{"trigger match", Rule{Label: LabelGreeting, Triggers: []string{"hi"}}, "hi there", false, true},
		{"no trigger", Rule{Label: LabelGreeting, Triggers: []string{"hi"}}, "good day", false, false},
		{"max len blocks", Rule{Label: LabelGreeting, Triggers: []string{"hi"}, MaxLen: 5}, "hi my campaign", false, false},
		{"max len boundary", Rule{Label: LabelGreeting, Triggers: []string{"hi"}, MaxLen: 3}, "hip", false, false},
		{"under max len", Rule{Label: LabelGreeting, Triggers: []string{"hi"}, MaxLen: 3}, "hi", false, true},
		{"min len blocks", Rule{Label: LabelFollowup, Triggers: []string{"error"}, MinLen: 5}, "error", false, false},
		{"over min len", Rule{Label: LabelFollowup, Triggers: []string{"error"}, MinLen: 5}, "an error", false, true},
		{"exclude suppresses", Rule{Label: LabelKnowledgeRequest, Triggers: []string{"how to"}, Exclude: []string{"error"}}, "how to fix this error", false, false},
		{"context required missing", Rule{Label: LabelFollowup, Triggers: []string{"also"}, RequireContext: true}, "also this", false, false},
		{"context required present", Rule{Label: LabelFollowup, Triggers: []string{"also"}, RequireContext: true}, "also this", true, true},
		{"empty triggers always fire", Rule{Label: LabelGeneral}, "anything at all", false, true},
		{"empty triggers with max len", Rule{Label: LabelClarification, MaxLen: 5}, "why", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(Normalize(tt.utterance), tt.context); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestRuleSet_FirstMatchWins(t *testing.T) {
	rs := NewRuleSet(
		Rule{Label: LabelTicketAnalysis, Triggers: []string{"ticket"}},
		Rule{Label: LabelTechnical, Triggers: []string{"error", "ticket"}},
	)
	// Both rules trigger on "ticket"; declaration order decides.
	label, ok := rs.Match("analyze ticket error", false)
	if !ok || label != LabelTicketAnalysis {
		t.Fatalf("expected ticket_analysis, got %v", label)
	}
}

func TestRuleSet_NoMatch(t *testing.T) {
	rs := NewRuleSet(Rule{Label: LabelGreeting, Triggers: []string{"hi"}})
	if _, ok := rs.Match("completely unrelated", false); ok {
		t.Fatal("expected no match")
	}
}

func TestDetectChannel(t *testing.T) {
	tests := []struct {
		utterance string
		want      Channel
	}{
		{"my push campaign is not delivering", ChannelPush},
		{"FCM errors on android devices", ChannelPush},
		{"APNS certificate expired", ChannelPush},
		{"whatsapp template got rejected", ChannelWhatsApp},
		{"WABA messaging limits reached", ChannelWhatsApp},
		{"whatsapp notification not sending", ChannelWhatsApp}, // whatsapp beats the broad push keywords
		{"email campaign bounce rates", ChannelGeneral},
		{"sms delivery failures", ChannelGeneral},
	}
	for _, tt := range tests {
		if got := DetectChannel(tt.utterance); got != tt.want {
			t.Errorf("DetectChannel(%q) = %v, want %v", tt.utterance, got, tt.want)
		}
	}
}

func TestPipelineRules(t *testing.T) {
	rs := PipelineRules()
	tests := []struct {
		utterance string
		want      Label
	}{
		{"hey", LabelGreeting},
		{"good morning", LabelGreeting},
		{"campaign id 12345 not delivering", LabelTechnicalDebug},
		{"how to set up push notifications", LabelKnowledgeOnly},
		{"why", LabelClarification},
		{"my messages look strange today somehow", LabelKnowledgeOnly}, // default
	}
	for _, tt := range tests {
		label, ok := rs.Match(tt.utterance, false)
		if !ok || label != tt.want {
			t.Errorf("PipelineRules.Match(%q) = %v, want %v", tt.utterance, label, tt.want)
		}
	}
}

func TestSpecialistPolicies(t *testing.T) {
	tests := []struct {
		name      string
		rs        *RuleSet
		utterance string
		want      Label
		match     bool
	}{
		{"technical doc question leaves", TechnicalPolicy(), "how to configure sender ids?", LabelKnowledgeRequest, true},
		{"technical doc question with error stays", TechnicalPolicy(), "how to fix this error?", "", false},
		{"technical courtesy close", TechnicalPolicy(), "thanks, that's all", LabelCourtesyClose, true},
		{"technical followup stays", TechnicalPolicy(), "what if the rate limit is still hit?", "", false},
		{"knowledge error leaves", KnowledgePolicy(), "the api keeps returning errors", LabelTechnicalRequest, true},
		{"knowledge question stays", KnowledgePolicy(), "and the segmentation docs?", "", false},
		{"ticket implementation leaves", TicketPolicy(), "how to fix the root cause?", LabelTechnicalRequest, true},
		{"ticket documentation leaves", TicketPolicy(), "any best practice write-up?", LabelKnowledgeRequest, true},
		{"ticket detail stays", TicketPolicy(), "which customers were affected?", "", false},
		{"followup deep dive leaves", FollowupPolicy(), "can we investigate the logs?", LabelTechnicalRequest, true},
		{"followup docs leave", FollowupPolicy(), "show me the step by step", LabelKnowledgeRequest, true},
		{"followup topic change", FollowupPolicy(), "actually, different question", LabelNewTopic, true},
		{"followup stays", FollowupPolicy(), "was that the only campaign affected?", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := tt.rs.Match(tt.utterance, false)
			if ok != tt.match || label != tt.want {
				t.Errorf("Match(%q) = (%v, %v), want (%v, %v)", tt.utterance, label, ok, tt.want, tt.match)
			}
		})
	}
}
