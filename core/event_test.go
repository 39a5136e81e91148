package core

import (
	"errors"
	"testing"
)

// Event constructor & helper method tests
func TestEvent_ConstructorsAndMethods(t *testing.T) {
	e := NewEvent("run-123", "authorA")
	if e.Author != "authorA" || e.InvocationID != "run-123" || e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("NewEvent did not initialize fields correctly: %+v", e)
	}

	msg := NewMessageEvent("agent1", "hello world")
	if msg.Content == nil || msg.Content.Role != "assistant" || len(msg.Content.Parts) != 1 {
		t.Fatalf("NewMessageEvent malformed: %+v", msg)
	}

	user := NewUserMessageEvent("run-123", "hi")
	if user.Content == nil || user.Content.Role != "user" || user.InvocationID != "run-123" {
		t.Fatalf("NewUserMessageEvent malformed: %+v", user)
	}

	callArgs := "test"
	fCall := NewFunctionCallEvent("agent2", "do_stuff", callArgs)
	calls := fCall.GetFunctionCalls()
	if len(calls) != 1 || calls[0].Name != "do_stuff" || calls[0].Arguments != callArgs {
		t.Fatalf("GetFunctionCalls extraction failed: %+v", calls)
	}

	fRespOK := NewFunctionResponseEvent("agent2", "call-1", "do_stuff", 42, nil)
	resps := fRespOK.GetFunctionResponses()
	if len(resps) != 1 || resps[0].Response.(int) != 42 || resps[0].Error != "" {
		t.Fatalf("Function response success extraction failed: %+v", resps)
	}

	fRespErr := NewFunctionResponseEvent("agent2", "call-2", "do_stuff", nil, errors.New("boom"))
	resps = fRespErr.GetFunctionResponses()
	if resps[0].Error == "" {
		t.Fatalf("Expected error message in function response: %+v", resps[0])
	}
}

func TestEvent_TransferEvent(t *testing.T) {
	e := NewTransferEvent("SupportChatManager", "TechnicalTroubleshootAgent", "I'll investigate this technical issue for you...")
	if !e.IsTransfer() {
		t.Fatal("expected transfer event")
	}
	if *e.Actions.TransferToAgent != "TechnicalTroubleshootAgent" {
		t.Fatalf("wrong transfer target: %v", *e.Actions.TransferToAgent)
	}
	if e.VisibleText() != "I'll investigate this technical issue for you..." {
		t.Fatalf("lead message missing: %q", e.VisibleText())
	}
}

func TestEvent_ErrorEvent(t *testing.T) {
	e := NewErrorEvent("run-1", "TechnicalTroubleshootAgent", ErrorCodeBackendFailure, errors.New("model unavailable"))
	if !e.IsError() {
		t.Fatal("expected error event")
	}
	if *e.ErrorCode != ErrorCodeBackendFailure || *e.ErrorMessage != "model unavailable" {
		t.Fatalf("error metadata malformed: %+v", e)
	}
	if e.Content != nil {
		t.Fatal("error events carry no content")
	}
}

func TestEvent_VisibleTextExcludesThoughts(t *testing.T) {
	e := NewEvent("run", "agent")
	e.Content = &Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "checking delivery logs", Thought: true},
		TextPart{Text: "Your campaign failed because "},
		TextPart{Text: "of an invalid sender id."},
	}}
	if got := e.VisibleText(); got != "Your campaign failed because of an invalid sender id." {
		t.Fatalf("unexpected visible text: %q", got)
	}
	if vp := e.Content.VisibleParts(); len(vp) != 2 {
		t.Fatalf("expected 2 visible parts, got %d", len(vp))
	}
}

func TestEvent_IsFinalResponseLogic(t *testing.T) {
	e := NewEvent("run", "authorA")
	if !e.IsFinalResponse() {
		t.Error("Expected basic event to be final")
	}

	partial := true
	e2 := NewEvent("run", "agent")
	e2.Partial = &partial
	if e2.IsFinalResponse() {
		t.Error("Partial event should not be final")
	}

	e3 := NewFunctionCallEvent("agent", "f", "")
	if e3.IsFinalResponse() {
		t.Error("Event with function call should not be final")
	}

	e4 := NewFunctionResponseEvent("agent", "call-3", "f", "ok", nil)
	if e4.IsFinalResponse() {
		t.Error("Event with function response should not be final")
	}

	skip := true
	e5 := NewEvent("run", "agent")
	e5.Partial = &partial
	e5.Actions.SkipSummarization = &skip
	if !e5.IsFinalResponse() {
		t.Error("SkipSummarization should force final")
	}

	e6 := NewEvent("run", "agent")
	e6.LongRunningToolIDs = []string{"tool1"}
	if !e6.IsFinalResponse() {
		t.Error("Long running tool should mark final")
	}
}

func TestEvent_IDUniqueness(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == b {
		t.Error("Expected unique IDs")
	}
}

// IO Parts discrimination tests
func TestParts_DiscriminatedUnion(t *testing.T) {
	parts := []Part{
		TextPart{Text: "hello"},
		DataPart{Data: map[string]any{"k": "v"}},
		FilePart{File: FilePartFile{URI: "file://x"}},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "f"}},
		FunctionResponsePart{FunctionResponse: FunctionResponse{Name: "f"}},
	}
	for _, p := range parts {
		switch pt := p.(type) {
		case TextPart, DataPart, FilePart, FunctionCallPart, FunctionResponsePart:
		default:
			t.Fatalf("Unexpected part type: %T (%v)", pt, pt)
		}
	}
}
