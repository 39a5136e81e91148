package core

import (
	"context"
	"testing"
	"time"
)

func TestRunContext_EmitEventStateAndArtifacts(t *testing.T) {
	rc, emitCh := newRunContextForTest()
	rc.SetState("foo", "bar")
	rc.AddArtifact("file1")
	ev := NewEvent(rc.RunID, "agent1")
	if err := rc.EmitEvent(ev); err != nil {
		t.Fatalf("EmitEvent error: %v", err)
	}
	received := <-emitCh
	if received.Actions.StateDelta["foo"].(string) != "bar" {
		t.Fatalf("State delta missing: %+v", received.Actions)
	}
	if received.Actions.ArtifactDelta["file1"] != 1 {
		t.Fatalf("Artifact delta missing: %+v", received.Actions)
	}
	if len(rc.StateDelta) != 0 || len(rc.Artifacts) != 0 {
		t.Fatal("StateDelta & Artifacts should clear after emit")
	}
}

func TestRunContext_GetStatePrefersStagedDelta(t *testing.T) {
	rc, _ := newRunContextForTest()
	rc.Session.SetState("k", "persisted")
	rc.SetState("k", "staged")
	v, ok := rc.GetState("k")
	if !ok || v.(string) != "staged" {
		t.Fatalf("expected staged value, got %v", v)
	}
}

func TestRunContext_CloneIsolation(t *testing.T) {
	rc, _ := newRunContextForTest()
	rc.SetState("a", 1)
	rc.AddArtifact("f1")
	clone := rc.Clone()
	if clone.Session != rc.Session {
		t.Error("Session pointer should be shared")
	}
	clone.SetState("b", 2)
	if _, exists := rc.StateDelta["b"]; exists {
		t.Error("Original should not have clone's new state")
	}
	if v, _ := clone.GetState("a"); v.(int) != 1 {
		t.Error("Clone missing original state")
	}
}

func TestRunContext_WithBranch(t *testing.T) {
	rc, _ := newRunContextForTest()
	branched := rc.WithBranch("Root.Child")
	if branched.Branch != "Root.Child" {
		t.Errorf("Expected branch Root.Child, got %s", branched.Branch)
	}
	if rc.Branch != "" {
		t.Error("Original branch should remain empty")
	}
}

func TestRunContext_NewChildContextFreshBuffers(t *testing.T) {
	rc, _ := newRunContextForTest()
	rc.SetState("parent", true)
	childEmit := make(chan Event, 1)
	childResume := make(chan struct{}, 1)
	child := rc.NewChildContext(childEmit, childResume, "Root.Sub")
	if len(child.StateDelta) != 0 {
		t.Fatal("child should start with an empty state delta")
	}
	if child.Branch != "Root.Sub" {
		t.Fatalf("expected branch Root.Sub, got %s", child.Branch)
	}
	if err := child.EmitEvent(NewEvent(child.RunID, "sub")); err != nil {
		t.Fatalf("child EmitEvent error: %v", err)
	}
	select {
	case <-childEmit:
	default:
		t.Fatal("child event should flow through the child emit channel")
	}
}

func TestRunContext_WaitForResumeCancellation(t *testing.T) {
	emit := make(chan Event, 1)
	resume := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	rc := NewRunContext(ctx, "s", "r", AgentInfo{Name: "a"}, Content{}, 0,
		emit, resume, NewSession("s"), &mockSessionStore{}, nil, nil, testLogger{})

	done := make(chan error, 1)
	go func() { done <- rc.WaitForResume() }()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error from WaitForResume")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForResume did not observe cancellation")
	}
}
