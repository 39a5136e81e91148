package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// ErrEscalated is returned internally when a child agent signals escalation.
var ErrEscalated = errors.New("child agent escalated")

// LoopAgent executes a single child agent repeatedly until it escalates, a
// predicate over its final output matches, the iteration limit is reached or
// the context is cancelled. The same session backs every iteration, so the
// child accumulates findings across passes.
//
// Suited to polling scenarios, e.g. re-checking campaign delivery status
// until it settles.
type LoopAgent struct {
	BaseAgent
	child       core.Agent
	maxIters    int
	interval    time.Duration
	stopOnError bool
	predicate   func(string) bool
}

// LoopOption customizes LoopAgent behavior.
type LoopOption func(*LoopAgent)

// WithMaxIters caps the number of iterations. The default is 100.
func WithMaxIters(n int) LoopOption {
	return func(l *LoopAgent) { l.maxIters = n }
}

// WithInterval inserts a delay between iterations, for polling and
// rate-limited backends. The default is no delay.
func WithInterval(d time.Duration) LoopOption {
	return func(l *LoopAgent) { l.interval = d }
}

// WithPredicate stops the loop early once the child's final visible output
// satisfies the predicate.
//
// Example:
//
//	WithPredicate(func(output string) bool {
//	    return strings.Contains(output, "delivery confirmed")
//	})
func WithPredicate(pred func(string) bool) LoopOption {
	return func(l *LoopAgent) { l.predicate = pred }
}

// WithContinueOnError keeps iterating when the child fails instead of
// stopping at the first error.
func WithContinueOnError() LoopOption {
	return func(l *LoopAgent) { l.stopOnError = false }
}

// NewLoopAgent constructs a looping coordinator around a child agent.
// Defaults: 100 iterations, no interval, stop on first error.
func NewLoopAgent(name string, child core.Agent, opts ...LoopOption) *LoopAgent {
	la := &LoopAgent{
		BaseAgent:   NewBaseAgent(name),
		child:       child,
		maxIters:    100,
		stopOnError: true,
	}

	for _, o := range opts {
		o(la)
	}

	_ = la.SetSubAgents(child)

	return la
}

// Run implements core.Agent, performing iterative execution with escalation
// detection. Escalation ends the loop early with a nil error; the escalation
// event itself is forwarded to the caller.
func (l *LoopAgent) Run(runCtx *core.RunContext) (err error) {
	if err = l.RunBefore(runCtx); err != nil {
		return err
	}
	defer func() { l.RunAfter(runCtx, err) }()

	for i := 0; i < l.maxIters; i++ {
		select {
		case <-runCtx.Done():
			err = runCtx.Err()
			return err
		default:
		}

		runCtx.LogDebug("agent.loop.iteration", "agent", l.Name(), "iteration", i+1)

		lastText, childErr := l.runChild(runCtx)

		if errors.Is(childErr, ErrEscalated) {
			runCtx.LogInfo("agent.loop.escalated", "agent", l.Name(), "iteration", i+1)
			return nil
		}

		if childErr != nil {
			if l.stopOnError {
				err = fmt.Errorf("loop iteration %d failed for agent %s: %w", i+1, l.child.Name(), childErr)
				return err
			}
			runCtx.LogWarn("agent.loop.iteration.failed", "agent", l.Name(), "iteration", i+1, "error", childErr.Error())
		}

		if l.predicate != nil && l.predicate(lastText) {
			runCtx.LogInfo("agent.loop.predicate.stop", "agent", l.Name(), "iteration", i+1)
			return nil
		}

		if l.interval > 0 && i < l.maxIters-1 {
			select {
			case <-runCtx.Done():
				err = runCtx.Err()
				return err
			case <-time.After(l.interval):
			}
		}
	}

	runCtx.LogDebug("agent.loop.complete", "agent", l.Name(), "iterations", l.maxIters)

	return nil
}

// runChild executes one iteration, relaying child events to the parent while
// watching for escalation flags. It returns the child's last non-partial
// visible text for predicate evaluation.
func (l *LoopAgent) runChild(runCtx *core.RunContext) (string, error) {
	interceptChan := make(chan core.Event, 10)
	resumeChan := make(chan struct{}, 1)
	childCtx := runCtx.NewChildContext(interceptChan, resumeChan, runCtx.Branch)

	done := make(chan error, 1)
	go func() {
		done <- l.child.Run(childCtx)
		close(interceptChan)
	}()

	var lastText string
	var escalated bool

	for ev := range interceptChan {
		if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
			escalated = true
		}
		if text := ev.VisibleText(); !ev.IsPartial() && text != "" {
			lastText = text
		}

		if err := l.forward(runCtx, ev); err != nil {
			return lastText, err
		}

		// Relay the persistence handshake: wait for the runner to commit the
		// forwarded event, then release the child. Partial events carry no
		// resume signal.
		if !ev.IsPartial() {
			if err := runCtx.WaitForResume(); err != nil {
				return lastText, err
			}
			select {
			case resumeChan <- struct{}{}:
			case <-runCtx.Done():
				return lastText, runCtx.Err()
			}
		}
	}

	if err := <-done; err != nil {
		return lastText, err
	}

	if escalated {
		return lastText, ErrEscalated
	}

	return lastText, nil
}

func (l *LoopAgent) forward(runCtx *core.RunContext, ev core.Event) error {
	select {
	case runCtx.Emit <- ev:
		return nil
	case <-runCtx.Done():
		return runCtx.Err()
	}
}

// CreateEscalationEvent builds an event carrying the escalation flag.
// Agents emit it when a task exceeds their scope and a parent (or human)
// should take over.
func CreateEscalationEvent(runID, author string, content *core.Content) core.Event {
	escalate := true
	ev := core.NewEvent(runID, author)
	ev.Actions.Escalate = &escalate
	ev.Content = content
	return ev
}
