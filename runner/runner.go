package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/satyamsundaram01/moe-support-assist/artifact"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
	"github.com/satyamsundaram01/moe-support-assist/memory"
	"github.com/satyamsundaram01/moe-support-assist/route"
	"github.com/satyamsundaram01/moe-support-assist/session"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxConcurrentInvocations limits concurrent runs; Run returns an error
	// once the limit is reached. Zero means unlimited.
	MaxConcurrentInvocations int
	// EnableStreaming forwards partial events to the caller. When disabled
	// only complete events are delivered.
	EnableStreaming bool
	// EventBufferSize sets channel buffering for events.
	EventBufferSize int
	// MaxModelCalls limits the number of model calls per run, shared across
	// every agent that participates in the run via transfers.
	MaxModelCalls int
	// Registry is the addressable set transfer targets are validated
	// against. Nil derives the set from the agent tree at Run time.
	Registry *route.Registry
	// Session management services.
	SessionStore core.SessionStore
	// Artifact management services.
	ArtifactStore core.ArtifactStore
	// Memory management services.
	MemoryStore core.MemoryStore
	// Logging services.
	Logger logging.Logger
}

// Runner coordinates agent execution: it appends the user turn, creates run
// contexts, streams events, applies side effects, persists history and moves
// control between agents when a transfer directive is emitted. Public methods
// are safe for concurrent use.
type Runner struct {
	agent core.Agent

	maxConcurrentInvocations int
	enableStreaming          bool
	eventBufferSize          int
	maxModelCalls            int

	registry      *route.Registry
	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	memoryStore   core.MemoryStore
	logger        logging.Logger

	activeRuns map[string]*runState
	mu         sync.RWMutex
}

// runState tracks one in-flight run: its cancel function and the transfer
// target set by the pump for the dispatch loop to pick up.
type runState struct {
	cancel context.CancelFunc

	mu   sync.Mutex
	next string
}

func (rs *runState) setNext(target string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.next = target
}

func (rs *runState) takeNext() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	target := rs.next
	rs.next = ""
	return target
}

// New constructs a Runner rooted at the given agent with optional overrides.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxConcurrentInvocations: 10,
		EnableStreaming:          true,
		EventBufferSize:          100,
		MaxModelCalls:            100,
		SessionStore:             session.NewInMemoryStore(),
		ArtifactStore:            artifact.NewInMemoryStore(),
		MemoryStore:              memory.NewInMemoryStore(),
		Logger:                   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		agent:                    agent,
		maxConcurrentInvocations: opts.MaxConcurrentInvocations,
		enableStreaming:          opts.EnableStreaming,
		eventBufferSize:          opts.EventBufferSize,
		maxModelCalls:            opts.MaxModelCalls,
		registry:                 opts.Registry,
		sessionStore:             opts.SessionStore,
		artifactStore:            opts.ArtifactStore,
		memoryStore:              opts.MemoryStore,
		logger:                   opts.Logger,
		activeRuns:               make(map[string]*runState),
	}
}

// Run starts an asynchronous invocation. The user content is persisted before
// the root agent starts, so every agent observes it in session history. Events
// stream on the returned channel in emission order; the error channel carries
// at most one terminal error. Both channels close when the run finishes.
func (r *Runner) Run(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	runID := core.NewID()

	ctx, cancel := context.WithCancel(ctx)
	rs := &runState{cancel: cancel}

	r.mu.Lock()
	if r.maxConcurrentInvocations > 0 && len(r.activeRuns) >= r.maxConcurrentInvocations {
		r.mu.Unlock()
		cancel()
		return "", nil, nil, fmt.Errorf("max concurrent invocations reached (%d)", r.maxConcurrentInvocations)
	}
	r.activeRuns[runID] = rs
	r.mu.Unlock()

	release := func() {
		r.mu.Lock()
		delete(r.activeRuns, runID)
		r.mu.Unlock()
		cancel()
	}

	userEvent := core.NewUserContentEvent(runID, &userContent)
	if err := r.sessionStore.AppendEvent(sessionID, userEvent); err != nil {
		release()
		return "", nil, nil, fmt.Errorf("failed to append user event: %w", err)
	}

	sess, err := r.sessionStore.Get(sessionID)
	if err != nil {
		release()
		return "", nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)
	agentEmit := make(chan core.Event, r.eventBufferSize)
	resumeCh := make(chan struct{}, 1)
	runErrCh := make(chan error, 1)

	index := indexAgents(r.agent)

	registry := r.registry
	if registry == nil {
		names := make([]string, 0, len(index))
		for name := range index {
			names = append(names, name)
		}
		registry = route.NewRegistry(names...)
	}

	runCtx := core.NewRunContext(
		ctx,
		sessionID,
		runID,
		core.AgentInfo{Name: r.agent.Name(), Type: "agent"},
		userContent,
		r.maxModelCalls,
		agentEmit,
		resumeCh,
		sess,
		r.sessionStore,
		r.artifactStore,
		r.memoryStore,
		r.logger,
	)

	go func() {
		defer func() {
			close(agentEmit)
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()
		}()

		runErrCh <- r.runAgents(runCtx, rs, index)
	}()

	go func() {
		// The pump outlives the agent goroutine, so it releases the run
		// context once every buffered event has been handled.
		defer func() { rs.cancel(); close(eventsCh); close(errorsCh) }()

		r.processEvents(runCtx, rs, sessionID, registry, agentEmit, resumeCh, runErrCh, eventsCh, errorsCh)
	}()

	return runID, eventsCh, errorsCh, nil
}

// Cancel requests cooperative termination of a run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	rs, exists := r.activeRuns[runID]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	rs.cancel()

	return nil
}

// runAgents executes the root agent, then keeps dispatching whichever agent a
// validated transfer directive named until a turn ends without one. The
// dispatched agent shares the run's model call budget and resumes from the
// session state the transfer left behind.
func (r *Runner) runAgents(runCtx *core.RunContext, rs *runState, index map[string]core.Agent) error {
	current := r.agent

	for {
		if err := current.Run(runCtx); err != nil {
			return err
		}

		target := rs.takeNext()
		if target == "" {
			return nil
		}

		next, ok := index[target]
		if !ok {
			// The pump already validated the name against the registry, so a
			// miss here means the tree changed mid-run.
			return fmt.Errorf("%w: %q", core.ErrUnknownTransferTarget, target)
		}

		r.logger.Debug("runner.transfer.dispatch", "from", current.Name(), "to", target, "run_id", runCtx.RunID)

		runCtx = runCtx.Clone()
		runCtx.Agent = core.AgentInfo{Name: next.Name(), Type: "agent"}

		// The transfer event is persisted before the agent goroutine resumes,
		// so the refreshed snapshot always carries its state delta.
		if err := runCtx.RefreshSession(); err != nil {
			r.logger.Warn("runner.session.refresh.failed", "session_id", runCtx.SessionID, "error", err)
		}

		current = next
	}
}

// processEvents is the run's event pump. For every emitted event it validates
// any transfer directive, persists complete events through the session store
// (which merges the attached state delta), forwards the event to the caller
// and signals the suspended agent to resume. It owns the outbound channels.
func (r *Runner) processEvents(
	runCtx *core.RunContext,
	rs *runState,
	sessionID string,
	registry *route.Registry,
	agentEmit <-chan core.Event,
	resumeCh chan<- struct{},
	runErrCh <-chan error,
	eventsCh chan<- core.Event,
	errorsCh chan<- error,
) {
	for ev := range agentEmit {
		if ev.IsTransfer() {
			target := *ev.Actions.TransferToAgent
			if err := registry.Resolve(target); err != nil {
				// Fatal to the turn: reject the event so session state stays
				// untouched, surface one visible error event, stop the run.
				r.logger.Error("runner.transfer.rejected", "target", target, "session_id", sessionID, "error", err)
				errEv := core.NewErrorEvent(runCtx.RunID, ev.Author, core.ErrorCodeUnknownTransferTarget, err)
				select {
				case <-runCtx.Done():
				case eventsCh <- errEv:
				}
				errorsCh <- err
				rs.cancel()
				return
			}
			rs.setNext(target)
		}

		if !ev.IsPartial() {
			if err := r.sessionStore.AppendEvent(sessionID, ev); err != nil {
				r.logger.Error("runner.event.append.failed", "event_id", ev.ID, "session_id", sessionID, "error", err)
				errorsCh <- fmt.Errorf("failed to append event to session: %w", err)
				rs.cancel()
				return
			}
		}

		if !ev.IsPartial() || r.enableStreaming {
			select {
			case <-runCtx.Done():
				if !ev.IsPartial() {
					r.signalResume(resumeCh)
				}
				continue
			case eventsCh <- ev:
				r.logger.Debug("runner.event.delivered", "event_id", ev.ID, "session_id", sessionID)
			}
		}

		if !ev.IsPartial() {
			r.signalResume(resumeCh)
		}
	}

	if err := <-runErrCh; err != nil && !errors.Is(err, context.Canceled) {
		errorsCh <- fmt.Errorf("agent execution failed: %w", err)
	}
}

// signalResume wakes the agent waiting on persistence. Non-blocking: the
// buffer holds one pending signal and the agent consumes exactly one per
// complete event.
func (r *Runner) signalResume(resumeCh chan<- struct{}) {
	select {
	case resumeCh <- struct{}{}:
	default:
	}
}

// indexAgents walks the tree under root and maps every agent name to its
// concrete agent. The first occurrence of a name wins.
func indexAgents(root core.Agent) map[string]core.Agent {
	index := make(map[string]core.Agent)

	var walk func(a core.Agent)
	walk = func(a core.Agent) {
		if a == nil {
			return
		}
		if _, ok := index[a.Name()]; !ok {
			index[a.Name()] = a
		}
		for _, child := range a.SubAgents() {
			walk(child)
		}
	}
	walk(root)

	return index
}
