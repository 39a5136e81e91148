package specialist

import (
	"fmt"
	"strings"

	"github.com/satyamsundaram01/moe-support-assist/agent"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/flow"
	"github.com/satyamsundaram01/moe-support-assist/intent"
	"github.com/satyamsundaram01/moe-support-assist/route"
)

// fallbackQuery stands in when the user content carries no usable text.
const fallbackQuery = "No query provided for this session."

// userQuery extracts the first non-empty text part of the user content.
func userQuery(content core.Content) string {
	for _, p := range content.Parts {
		tp, ok := p.(core.TextPart)
		if !ok || tp.Thought {
			continue
		}
		if text := strings.TrimSpace(tp.Text); text != "" {
			return text
		}
	}
	return ""
}

// emitMessage sends a visible assistant message and waits for the resume
// signal before the caller continues.
func emitMessage(runCtx *core.RunContext, author, text string) error {
	ev := core.NewMessageEvent(author, text)
	ev.InvocationID = runCtx.RunID
	if err := runCtx.EmitEvent(ev); err != nil {
		return err
	}
	return runCtx.WaitForResume()
}

// emitFinal sends the turn-closing assistant message.
func emitFinal(runCtx *core.RunContext, author, text string) error {
	ev := core.NewMessageEvent(author, text)
	ev.InvocationID = runCtx.RunID
	done := true
	ev.TurnComplete = &done
	if err := runCtx.EmitEvent(ev); err != nil {
		return err
	}
	return runCtx.WaitForResume()
}

// emitState flushes staged state through a content-free event.
func emitState(runCtx *core.RunContext, author string) error {
	if err := runCtx.EmitEvent(core.NewEvent(runCtx.RunID, author)); err != nil {
		return err
	}
	return runCtx.WaitForResume()
}

// emitTransfer stages the routing bookkeeping of a transfer decision and
// emits its lead-in message carrying the transfer action. The follow-up
// route deliberately leaves the conversation context untouched so the
// receiving specialist can see what was being discussed.
func emitTransfer(runCtx *core.RunContext, author string, d route.Decision) error {
	if d.Reason != "" {
		runCtx.SetState(core.StateKeyTransferReason, d.Reason)
	}
	if d.Context != "" {
		runCtx.SetState(core.StateKeyConversationContext, d.Context)
	}
	ev := core.NewTransferEvent(author, d.Target, d.Lead)
	ev.InvocationID = runCtx.RunID
	if err := runCtx.EmitEvent(ev); err != nil {
		return err
	}
	return runCtx.WaitForResume()
}

// transferDecision consults a specialist's redirect policy and resolves the
// matched label through the routing table. The second return is false when
// the specialist should keep the conversation.
func transferDecision(table route.Table, policy *intent.RuleSet, agentName, query string) (route.Decision, bool) {
	label, ok := policy.Match(query, true)
	if !ok {
		return route.Decision{}, false
	}
	d, ok := table.Lookup(agentName, intent.Classification{Label: label})
	if !ok || d.Action != route.ActionTransfer {
		return route.Decision{}, false
	}
	return d, true
}

// runModelTurn drives one model-backed turn through the flow layer and
// forwards its events. It bypasses LLMAgent.Run so the wrapping
// specialist's callbacks fire exactly once per run.
func runModelTurn(a *agent.LLMAgent, runCtx *core.RunContext) error {
	eventChan, err := flow.NewSelector().SelectFlow(a).Execute(runCtx)
	if err != nil {
		return fmt.Errorf("flow execution failed: %w", err)
	}

	for event := range eventChan {
		select {
		case runCtx.Emit <- event:
		case <-runCtx.Done():
			return runCtx.Err()
		}
	}

	return nil
}
