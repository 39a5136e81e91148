package flow

import (
	"fmt"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// BaseFlow is a single-agent flow implementation that supports a
// request -> model -> (optional tool loop) cycle with pluggable pre/post processors.
type BaseFlow struct {
	agent              FlowAgent
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	executor           FunctionExecutor
}

// NewBaseFlow creates a new basic single-agent flow.
func NewBaseFlow(agent FlowAgent) *BaseFlow {
	return &BaseFlow{
		agent:              agent,
		requestProcessors:  []RequestProcessor{},
		responseProcessors: []ResponseProcessor{},
		executor:           NewParallelFunctionExecutor(FunctionExecutorConfig{PreserveOrder: true}),
	}
}

// AddRequestProcessor appends a request processor; order of registration
// defines execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed on each model
// response fragment.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// SetFunctionExecutor replaces the tool execution strategy.
func (f *BaseFlow) SetFunctionExecutor(e FunctionExecutor) { f.executor = e }

// Execute launches the flow asynchronously and returns a channel of Events.
// The channel is closed when a final response is emitted, a transfer
// directive hands the conversation off, or an unrecoverable error occurs.
func (f *BaseFlow) Execute(runCtx *core.RunContext) (<-chan core.Event, error) {
	eventChan := make(chan core.Event, 100)

	go func() {
		defer close(eventChan)

		for {
			last := f.runOnce(runCtx, eventChan)
			if last == nil {
				break
			}
			if last.IsTransfer() {
				// Transfer is terminal for this agent's turn.
				break
			}
			// A function response means the model gets another turn to act on it.
			if len(last.GetFunctionResponses()) > 0 {
				continue
			}
			if last.IsPartial() {
				runCtx.LogWarn("flow.terminated.partial", "agent", f.agent.GetName())
				break
			}
			if last.IsFinalResponse() {
				break
			}
		}
	}()

	return eventChan, nil
}

// send delivers an event to the flow's consumer, honoring cancellation. An
// abandoned consumer kills generation after the in-flight fragment.
func (f *BaseFlow) send(runCtx *core.RunContext, eventChan chan<- core.Event, ev core.Event) error {
	select {
	case <-runCtx.Context.Done():
		return runCtx.Context.Err()
	case eventChan <- ev:
		return nil
	}
}

// emitError surfaces an internal failure as a single visible error event.
// Session state is left untouched so the next turn can retry.
func (f *BaseFlow) emitError(runCtx *core.RunContext, eventChan chan<- core.Event, code string, err error) *core.Event {
	runCtx.LogError("flow.error", "agent", f.agent.GetName(), "code", code, "error", err.Error())

	ev := core.NewErrorEvent(runCtx.RunID, f.agent.GetName(), code, err)
	if sendErr := f.send(runCtx, eventChan, ev); sendErr != nil {
		return nil
	}

	if err := runCtx.WaitForResume(); err != nil {
		return nil
	}

	return &ev
}

// runOnce performs one model turn (including any tool executions) and returns
// the last emitted Event (final or intermediate). A nil return signals termination.
func (f *BaseFlow) runOnce(runCtx *core.RunContext, eventChan chan<- core.Event) *core.Event {
	if err := runCtx.Limiter.Increment(); err != nil {
		return f.emitError(runCtx, eventChan, core.ErrorCodeMaxModelCalls, err)
	}

	// Refresh the session snapshot so request processors see the latest
	// conversation, including tool responses persisted by the runner.
	if runCtx.SessionStore != nil {
		if err := runCtx.RefreshSession(); err != nil {
			runCtx.LogDebug("flow.session.refresh.failed", "agent", f.agent.GetName(), "error", err.Error())
		}
	}

	req := &model.Request{Stream: f.agent.IsStreamingEnabled()}

	// The registry used for execution also answers transfer requests; the
	// injector processor advertises the definition separately.
	registry := f.agent.GetTools()
	if f.agent.IsTransferEnabled() {
		registry[tool.TransferToAgentName] = tool.NewTransferToAgentTool()
	}

	if f.agent.IsFunctionCallingEnabled() {
		for _, t := range f.agent.GetTools() {
			req.Tools = append(req.Tools, model.ToolDefinition{
				Type: "function",
				Function: model.FunctionDefinition{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}
	}

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(runCtx, req, f.agent); err != nil {
			return f.emitError(runCtx, eventChan, core.ErrorCodeBackendFailure,
				fmt.Errorf("request processor %s failed: %w", processor.Name(), err))
		}
	}

	respCh, errCh := f.agent.GetLLM().Generate(runCtx.Context, *req)

	var lastEvent *core.Event

loop:
	for {
		select {
		case resp, ok := <-respCh:
			if !ok {
				break loop
			}

			for _, processor := range f.responseProcessors {
				if err := processor.ProcessResponse(runCtx, &resp, f.agent); err != nil {
					return f.emitError(runCtx, eventChan, core.ErrorCodeBackendFailure,
						fmt.Errorf("response processor %s failed: %w", processor.Name(), err))
				}
			}

			ev := core.NewEvent(runCtx.RunID, f.agent.GetName())
			ev.Content = &resp.Content
			ev.Partial = &resp.Partial

			fnCalls := ev.GetFunctionCalls()

			if !resp.Partial && len(fnCalls) == 0 {
				complete := true
				ev.TurnComplete = &complete

				if key := f.agent.GetOutputKey(); key != "" {
					if text := ev.VisibleText(); text != "" {
						ev.Actions.StateDelta = map[string]any{key: text}
					}
				}
			}

			lastEvent = &ev

			if err := f.send(runCtx, eventChan, ev); err != nil {
				return lastEvent
			}

			// Wait for session persistence (the runner resumes after append).
			if !ev.IsPartial() {
				if err := runCtx.WaitForResume(); err != nil {
					return lastEvent
				}
			}

			if len(fnCalls) > 0 {
				var transferred bool

				f.executor.Execute(runCtx, f.agent, registry, fnCalls, func(respEv core.Event) error {
					if err := f.send(runCtx, eventChan, respEv); err != nil {
						return err
					}
					if err := runCtx.WaitForResume(); err != nil {
						return err
					}

					lastEvent = &respEv
					if respEv.IsTransfer() {
						transferred = true
					}

					return nil
				})

				if transferred {
					break loop
				}
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}

			return f.emitError(runCtx, eventChan, core.ErrorCodeBackendFailure, err)
		}
	}

	return lastEvent
}
