package planner

import (
	"strings"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// Section markers. Models are instructed to open every internal reasoning
// section with one of these tags; response processing uses them to decide
// which parts the user may see.
const (
	ThinkTag       = "/*THINK*/"
	IntuitionTag   = "/*INTUITION*/"
	HypothesisTag  = "/*HYPOTHESIS*/"
	PlanTag        = "/*PLAN*/"
	ActionTag      = "/*ACTION*/"
	ObservationTag = "/*OBSERVATION*/"
	ReflectionTag  = "/*REFLECTION*/"
	ClarifyTag     = "/*CLARIFY*/"
	ReplanTag      = "/*REPLAN*/"

	PlanningTag   = "/*PLANNING*/"
	ReasoningTag  = "/*REASONING*/"
	ReplanningTag = "/*REPLANNING*/"

	// FinalAnswerTag closes the reasoning phase. Text after its last
	// occurrence in a part is the user-visible answer.
	FinalAnswerTag = "/*FINAL_ANSWER*/"
)

// Planner shapes one model call. BuildInstruction contributes the planning
// contract to the request; ProcessResponse rewrites the completion's ordered
// parts, separating hidden reasoning from visible answer text.
type Planner interface {
	// BuildInstruction returns the planning instruction appended to the
	// agent's system instructions.
	BuildInstruction(runCtx *core.RunContext) string

	// ProcessResponse rewrites one completion's parts. Thought-marked text
	// stays in conversation context but is excluded from user-facing
	// surfaces; a nil result means nothing survived.
	ProcessResponse(parts []core.Part) []core.Part
}

// processParts applies the marker rules shared by all planners.
//
// The first function-call part with a non-empty name opens a terminal run:
// that call and every directly following named call are preserved, calls
// with an empty name are dropped, and nothing after the run is processed.
// Text parts seen before any run are split at the last FinalAnswerTag
// occurrence into a hidden reasoning prefix (marker included) and a visible
// answer suffix, each kept only if non-empty; text without the final marker
// is hidden when it contains any of the given reasoning tags.
func processParts(parts []core.Part, reasoningTags []string) []core.Part {
	if len(parts) == 0 {
		return nil
	}

	preserved := make([]core.Part, 0, len(parts))
	for i, part := range parts {
		switch p := part.(type) {
		case core.FunctionCallPart:
			if p.FunctionCall.Name == "" {
				continue
			}
			preserved = append(preserved, part)
			for j := i + 1; j < len(parts); j++ {
				next, ok := parts[j].(core.FunctionCallPart)
				if !ok {
					break
				}
				if next.FunctionCall.Name != "" {
					preserved = append(preserved, next)
				}
			}
			return preserved
		case core.TextPart:
			preserved = appendTextPart(preserved, p, reasoningTags)
		}
	}
	return preserved
}

// appendTextPart applies the hidden/visible rules to a single text part.
func appendTextPart(preserved []core.Part, part core.TextPart, reasoningTags []string) []core.Part {
	if idx := strings.LastIndex(part.Text, FinalAnswerTag); idx != -1 {
		cut := idx + len(FinalAnswerTag)
		if reasoning := part.Text[:cut]; reasoning != "" {
			preserved = append(preserved, core.TextPart{Text: reasoning, Thought: true})
		}
		if answer := part.Text[cut:]; answer != "" {
			preserved = append(preserved, core.TextPart{Text: answer})
		}
		return preserved
	}

	for _, tag := range reasoningTags {
		if strings.Contains(part.Text, tag) {
			part.Thought = true
			break
		}
	}
	return append(preserved, part)
}
