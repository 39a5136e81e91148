package flow

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
	internalutil "github.com/satyamsundaram01/moe-support-assist/internal/util"
	"github.com/satyamsundaram01/moe-support-assist/model"
)

// stateView returns the merged view of persisted session state plus staged
// deltas, for read-only use in prompt construction.
func stateView(runCtx *core.RunContext) map[string]any {
	view := map[string]any{}
	if runCtx.Session != nil {
		for k, v := range runCtx.Session.Clone().State {
			view[k] = v
		}
	}
	for k, v := range runCtx.StateDelta {
		view[k] = v
	}
	return view
}

// InstructionsProcessor resolves the agent's system instructions and renders
// them as a template over current session state, so prompts can reference
// accumulated context ("{{.conversation_context}}", "{{.current_query}}").
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest adds system instructions to the chat request.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	runCtx.LogDebug("agent.instruction.resolved", "agent", agent.GetName(), "length", len(instructions))

	rendered, err := internalutil.RenderTemplate(instructions, stateView(runCtx))
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	req.Instructions = rendered

	return nil
}

// PlanningRequestProcessor appends the planner's reasoning contract to the
// system instructions so the model structures its output into tagged
// sections the response processor can separate.
type PlanningRequestProcessor struct{}

// NewPlanningRequestProcessor creates a new planning request processor.
func NewPlanningRequestProcessor() *PlanningRequestProcessor { return &PlanningRequestProcessor{} }

// Name returns the processor's identifier.
func (p *PlanningRequestProcessor) Name() string { return "planning" }

// ProcessRequest appends the planning instruction when the agent carries a planner.
func (p *PlanningRequestProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	pl := agent.GetPlanner()
	if pl == nil {
		return nil
	}

	instruction := pl.BuildInstruction(runCtx)
	if instruction == "" {
		return nil
	}

	if req.Instructions != "" {
		req.Instructions += "\n\n"
	}
	req.Instructions += instruction

	return nil
}

// ContentsProcessor assembles the role-based contents sent to the model:
// system instructions followed by the trimmed conversation history.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest adds system instructions and conversation history to the chat request.
func (p *ContentsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	contents := []core.Content{{
		Role:  "system",
		Parts: []core.Part{core.TextPart{Text: req.Instructions}},
	}}

	if runCtx.Session != nil {
		events := runCtx.Session.GetConversationHistory()
		if max := agent.MaxHistoryMessages(); max > 0 && len(events) > max {
			events = events[len(events)-max:]
		}

		for _, ev := range events {
			if ev.Content != nil && len(ev.Content.Parts) > 0 {
				contents = append(contents, *ev.Content)
			}
		}
	}

	req.Contents = contents

	return nil
}

// PlanningResponseProcessor applies the planner's stream processing to each
// complete model response: reasoning sections become thought-marked hidden
// parts, the final answer stays visible, and trailing content after a
// terminal tool-call run is dropped. Partial streaming fragments pass
// through untouched; the complete non-partial response is authoritative and
// is what the session persists.
type PlanningResponseProcessor struct{}

// NewPlanningResponseProcessor creates a new planning response processor.
func NewPlanningResponseProcessor() *PlanningResponseProcessor { return &PlanningResponseProcessor{} }

// Name returns the processor's identifier.
func (p *PlanningResponseProcessor) Name() string { return "planning" }

// ProcessResponse rewrites the completed response parts via the planner.
func (p *PlanningResponseProcessor) ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error {
	pl := agent.GetPlanner()
	if pl == nil || resp.Partial {
		return nil
	}

	if len(resp.Content.Parts) == 0 {
		return nil
	}

	resp.Content.Parts = pl.ProcessResponse(resp.Content.Parts)

	return nil
}
