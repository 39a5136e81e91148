package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
)

// MockAgent for testing composite agents.
type MockAgent struct {
	mock.Mock
	name string
}

func NewMockAgent(name string) *MockAgent {
	return &MockAgent{name: name}
}

func (m *MockAgent) Name() string        { return m.name }
func (m *MockAgent) Description() string { return "mock agent " + m.name }

func (m *MockAgent) Run(runCtx *core.RunContext) error {
	args := m.Called(runCtx)
	return args.Error(0)
}

func (m *MockAgent) SetSubAgents(children ...core.Agent) error {
	args := m.Called(children)
	return args.Error(0)
}

func (m *MockAgent) SubAgents() []core.Agent { return nil }
func (m *MockAgent) Parent() core.Agent     { return nil }

func (m *MockAgent) FindAgent(name string) core.Agent {
	if name == m.name {
		return m
	}
	return nil
}

// testChildAgent is a lightweight concrete agent used for testing composite
// agents. It captures the run context passed to Run and optionally returns an
// error.
type testChildAgent struct {
	BaseAgent
	runFn       func(*core.RunContext) error
	receivedCtx *core.RunContext
}

func newTestChildAgent(name string, runFn func(*core.RunContext) error) *testChildAgent {
	if runFn == nil {
		runFn = func(*core.RunContext) error { return nil }
	}

	return &testChildAgent{BaseAgent: NewBaseAgent(name), runFn: runFn}
}

func (t *testChildAgent) Run(runCtx *core.RunContext) error {
	t.receivedCtx = runCtx
	return t.runFn(runCtx)
}

func newTestRunContext(t *testing.T, agentName, agentType string) *core.RunContext {
	t.Helper()

	userContent := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "hello"}}}
	return core.NewRunContext(
		context.Background(),
		"session-1",
		"run-1",
		core.AgentInfo{Name: agentName, Type: agentType},
		userContent,
		100,
		make(chan core.Event, 10),
		nil,
		core.NewSession("session-1"),
		nil,
		nil,
		nil,
		logging.NoOpLogger{},
	)
}

func TestBaseAgent_SetSubAgentsAndFind(t *testing.T) {
	root := newTestChildAgent("Root", nil)
	c1 := newTestChildAgent("Child1", nil)
	c2 := newTestChildAgent("Child2", nil)

	assert.NoError(t, root.SetSubAgents(c1, c2))
	assert.Len(t, root.SubAgents(), 2)

	assert.NotNil(t, c1.Parent())
	assert.Equal(t, root.Name(), c1.Parent().Name())
	assert.NotNil(t, c2.Parent())

	foundChild := root.FindAgent("Child1")
	assert.NotNil(t, foundChild)
	assert.Equal(t, c1.Name(), foundChild.Name())

	foundRoot := root.FindAgent("Root")
	assert.NotNil(t, foundRoot)
	assert.Equal(t, root.Name(), foundRoot.Name())

	assert.Nil(t, root.FindAgent("NoSuchAgent"))
}

func TestBaseAgent_SetSubAgents_ReassignClearsOldParents(t *testing.T) {
	root := newTestChildAgent("Root", nil)
	c1 := newTestChildAgent("Child1", nil)
	c2 := newTestChildAgent("Child2", nil)
	c3 := newTestChildAgent("Child3", nil)

	assert.NoError(t, root.SetSubAgents(c1, c2))
	assert.NoError(t, root.SetSubAgents(c3))

	assert.Nil(t, c1.Parent())
	assert.Nil(t, c2.Parent())

	assert.Equal(t, root.Name(), c3.Parent().Name())

	assert.Nil(t, root.FindAgent("Child1"))
	assert.NotNil(t, root.FindAgent("Child3"))
}

func TestBaseAgent_FindAgent_Nested(t *testing.T) {
	root := newTestChildAgent("Root", nil)
	mid := newTestChildAgent("Mid", nil)
	leaf := newTestChildAgent("Leaf", nil)

	assert.NoError(t, mid.SetSubAgents(leaf))
	assert.NoError(t, root.SetSubAgents(mid))

	found := root.FindAgent("Leaf")
	assert.NotNil(t, found)
	assert.Equal(t, "Leaf", found.Name())
}

func TestBaseAgent_DirectRunRejected(t *testing.T) {
	root := newTestChildAgent("Root", nil)
	wrapper := root.FindAgent("Root")

	err := wrapper.Run(newTestRunContext(t, "Root", "test"))
	assert.Error(t, err)
}

func TestBaseAgent_RunCallbacks(t *testing.T) {
	var calls []string

	child := newTestChildAgent("Child", nil)
	seq := NewSequentialAgent("Coordinator", child)
	seq.OnBeforeRun(func(*core.RunContext) error {
		calls = append(calls, "before")
		return nil
	})
	seq.OnAfterRun(func(_ *core.RunContext, runErr error) {
		calls = append(calls, "after")
		assert.NoError(t, runErr)
	})

	assert.NoError(t, seq.Run(newTestRunContext(t, "Coordinator", "sequential")))
	assert.Equal(t, []string{"before", "after"}, calls)
	assert.NotNil(t, child.receivedCtx)
}

func TestBaseAgent_BeforeCallbackAbortsRun(t *testing.T) {
	sentinel := errors.New("precondition failed")

	child := newTestChildAgent("Child", nil)
	seq := NewSequentialAgent("Coordinator", child)
	seq.OnBeforeRun(func(*core.RunContext) error { return sentinel })

	err := seq.Run(newTestRunContext(t, "Coordinator", "sequential"))
	assert.ErrorIs(t, err, sentinel)
	assert.Nil(t, child.receivedCtx, "child must not run after an aborted before-callback")
}

func TestBaseAgent_AfterCallbackSeesRunError(t *testing.T) {
	sentinel := errors.New("boom")

	child := newTestChildAgent("Child", func(*core.RunContext) error { return sentinel })
	seq := NewSequentialAgent("Coordinator", child)

	var observed error
	seq.OnAfterRun(func(_ *core.RunContext, runErr error) { observed = runErr })

	err := seq.Run(newTestRunContext(t, "Coordinator", "sequential"))
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, observed, sentinel)
}
