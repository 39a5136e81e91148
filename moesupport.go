// Package moesupport provides a high-level facade over the support agent
// runner and the assembly of the MoEngage support team. Most applications
// interact with this package by:
//  1. Building an agent team via NewTeam or NewPipelineTeam (NewTeamFromConfig wires per-role models and the search client)
//  2. Creating an Assistant via New (optionally overriding the default in-memory services)
//  3. Invoking turns asynchronously (Invoke) or synchronously (InvokeSync)
//
// The facade delegates orchestration to runner.Runner while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply the Postgres session
// store and a structured logger.
package moesupport

import (
	"context"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/satyamsundaram01/moe-support-assist/artifact"
	"github.com/satyamsundaram01/moe-support-assist/config"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/logging"
	"github.com/satyamsundaram01/moe-support-assist/memory"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/model/anthropic"
	"github.com/satyamsundaram01/moe-support-assist/model/gemini"
	"github.com/satyamsundaram01/moe-support-assist/model/openai"
	"github.com/satyamsundaram01/moe-support-assist/runner"
	"github.com/satyamsundaram01/moe-support-assist/search"
	"github.com/satyamsundaram01/moe-support-assist/session"
	"github.com/satyamsundaram01/moe-support-assist/specialist"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// Version identifies the library release, reported by the CLI.
const Version = "0.1.0"

// Options configures the Assistant instance.
type Options struct {
	// MaxConcurrentInvocations limits the number of invocations that can
	// execute simultaneously. Zero means unlimited.
	MaxConcurrentInvocations int

	// EnableStreaming forwards partial model output to the caller in real
	// time. When disabled only complete events are delivered.
	EnableStreaming bool

	// EventBufferSize sets the channel buffer size for event delivery.
	EventBufferSize int

	// MaxModelCalls caps model calls per invocation, shared across every
	// agent a turn transfers through.
	MaxModelCalls int

	// Stores (default to in-memory implementations if not provided).
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	MemoryStore   core.MemoryStore

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Assistant is the high-level facade aggregating the runner and the services
// it runs against.
type Assistant struct {
	opts   Options
	runner *runner.Runner
}

// New wires a root agent into a runner with optional service overrides. Any
// unset service is initialized with an in-memory implementation.
func New(root core.Agent, optFns ...func(o *Options)) *Assistant {
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

	r := runner.New(root, func(o *runner.Options) {
		o.MaxConcurrentInvocations = opts.MaxConcurrentInvocations
		o.EnableStreaming = opts.EnableStreaming
		o.EventBufferSize = opts.EventBufferSize
		o.MaxModelCalls = opts.MaxModelCalls
		o.SessionStore = opts.SessionStore
		o.ArtifactStore = opts.ArtifactStore
		o.MemoryStore = opts.MemoryStore
		o.Logger = opts.Logger
	})

	return &Assistant{opts: opts, runner: r}
}

// Invoke starts an asynchronous invocation returning the run ID plus event
// and error channels. Both channels close when the run finishes.
func (a *Assistant) Invoke(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	return a.runner.Run(ctx, sessionID, userContent)
}

// InvokeSync is a synchronous helper that drains the async channels,
// accumulates events and returns them once the run completes.
func (a *Assistant) InvokeSync(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, []core.Event, error) {
	runID, eventsCh, errorsCh, err := a.runner.Run(ctx, sessionID, userContent)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event
	for {
		select {
		case <-ctx.Done():
			return runID, events, ctx.Err()

		case ev, ok := <-eventsCh:
			if !ok {
				select {
				case err := <-errorsCh:
					return runID, events, err
				default:
					return runID, events, nil
				}
			}
			events = append(events, ev)

		case err, ok := <-errorsCh:
			if !ok {
				// Terminal error channel is done; keep draining events.
				errorsCh = nil
				continue
			}
			if err != nil {
				return runID, events, err
			}
		}
	}
}

// Cancel aborts an in-flight invocation.
func (a *Assistant) Cancel(runID string) error { return a.runner.Cancel(runID) }

// SessionStore exposes the configured session store, for seeding state or
// reading history after a run.
func (a *Assistant) SessionStore() core.SessionStore { return a.opts.SessionStore }

// ArtifactStore exposes the configured artifact store, where the pipeline
// publishes its synthesis reports.
func (a *Assistant) ArtifactStore() core.ArtifactStore { return a.opts.ArtifactStore }

// TeamOptions configures the support team assembly.
type TeamOptions struct {
	// Search answers the specialists' knowledge lookups. Defaults to the
	// credential-free static backend so a team works without a search
	// deployment.
	Search search.Backend

	// Datastores names the data stores handed to the search tools.
	Datastores search.Datastores

	// Models overrides the shared completion backend for individual agent
	// roles; keys are the config.Role constants.
	Models map[string]model.Model

	// LLMRoot swaps the rule-based SupportChatManager for the model-driven
	// variant that routes through the transfer tool and can consult the
	// knowledge specialist as a callable tool.
	LLMRoot bool
}

func (o TeamOptions) modelFor(role string, shared model.Model) model.Model {
	if m, ok := o.Models[role]; ok && m != nil {
		return m
	}
	return shared
}

// NewTeam assembles the support team rooted at the SupportChatManager: the
// technical trio, knowledge, ticket and follow-up specialists attached as
// transfer targets, each bound to its search and state tools.
func NewTeam(llm model.Model, optFns ...func(o *TeamOptions)) (core.Agent, error) {
	opts := TeamOptions{Search: search.NewStatic()}
	for _, fn := range optFns {
		fn(&opts)
	}

	team, knowledge := buildSpecialists(llm, opts)

	if opts.LLMRoot {
		return specialist.NewLLMManager(opts.modelFor(config.RoleRoot, llm), knowledge, team...)
	}

	root := specialist.NewChatManager()
	if err := root.SetSubAgents(team...); err != nil {
		return nil, err
	}
	return root, nil
}

// NewPipelineTeam assembles the sequential pipeline variant: a knowledge pass
// over runbooks and tickets, then an execution pass that can call the
// campaign logs agent as a tool before the synthesis report is produced.
func NewPipelineTeam(llm model.Model, optFns ...func(o *TeamOptions)) *specialist.Pipeline {
	opts := TeamOptions{Search: search.NewStatic()}
	for _, fn := range optFns {
		fn(&opts)
	}

	runbooks := search.NewRunbooksTool(opts.Search, opts.Datastores.Runbooks)
	zendesk := search.NewZendeskTool(opts.Search, opts.Datastores.Zendesk)

	knowledge := specialist.NewKnowledgeAgent(
		opts.modelFor(config.RoleKnowledge, llm),
		runbooks, zendesk,
	)

	logs := specialist.NewCampaignLogsAgent(
		opts.modelFor(config.RoleExecution, llm),
		tool.NewConversationStateTool(),
	)
	execution := specialist.NewExecutionAgent(
		opts.modelFor(config.RoleExecution, llm),
		tool.NewAgentTool(logs), tool.NewConversationStateTool(),
	)

	return specialist.NewPipeline(knowledge, execution)
}

// buildSpecialists constructs the six addressable specialists with their tool
// bindings and returns the knowledge specialist separately for the LLM root,
// which wraps it as a tool.
func buildSpecialists(llm model.Model, opts TeamOptions) ([]core.Agent, core.Agent) {
	runbooks := search.NewRunbooksTool(opts.Search, opts.Datastores.Runbooks)
	zendesk := search.NewZendeskTool(opts.Search, opts.Datastores.Zendesk)
	helpDocs := search.NewHelpDocsTool(opts.Search, opts.Datastores.HelpDocs)
	convState := tool.NewConversationStateTool()
	searchMemory := tool.NewSearchMemoryTool()

	troubleshootTools := []tool.Tool{runbooks, zendesk, convState, searchMemory}

	technical := specialist.NewTechnical(opts.modelFor(config.RoleTechnical, llm), troubleshootTools...)
	push := specialist.NewPush(opts.modelFor(config.RolePush, llm), troubleshootTools...)
	whatsApp := specialist.NewWhatsApp(opts.modelFor(config.RoleWhatsApp, llm), troubleshootTools...)
	knowledge := specialist.NewKnowledge(opts.modelFor(config.RoleKnowledge, llm), helpDocs, runbooks, zendesk)
	ticket := specialist.NewTicket(opts.modelFor(config.RoleTicket, llm), zendesk)
	followUp := specialist.NewFollowUp(opts.modelFor(config.RoleFollowup, llm), runbooks, zendesk, helpDocs)

	return []core.Agent{technical, push, whatsApp, knowledge, ticket, followUp}, knowledge
}

// NewModelFromID builds a completion backend for a model identifier, picking
// the provider from the identifier prefix: gemini-* uses the Gemini API,
// claude-* Anthropic, gpt-* and the o* reasoning family OpenAI. Credentials
// come from the usual provider environment variables.
func NewModelFromID(ctx context.Context, id string) (model.Model, error) {
	switch {
	case strings.HasPrefix(id, "gemini"):
		return gemini.NewModel(ctx, func(o *gemini.Options) { o.Model = id })
	case strings.HasPrefix(id, "claude"):
		return anthropic.NewModel(func(o *anthropic.Options) { o.Model = anthropicsdk.Model(id) }), nil
	case strings.HasPrefix(id, "gpt"), strings.HasPrefix(id, "o1"), strings.HasPrefix(id, "o3"), strings.HasPrefix(id, "o4"):
		return openai.NewModel(func(o *openai.Options) { o.Model = id }), nil
	default:
		return nil, fmt.Errorf("unsupported model id %q (expected gemini-*, claude-* or gpt-*)", id)
	}
}

// NewModelsFromConfig builds one completion backend per agent role from the
// configured identifiers. Roles sharing an identifier share the backend.
func NewModelsFromConfig(ctx context.Context, models config.Models) (map[string]model.Model, error) {
	roles := []string{
		config.RoleRoot,
		config.RoleTechnical,
		config.RolePush,
		config.RoleWhatsApp,
		config.RoleKnowledge,
		config.RoleFollowup,
		config.RoleTicket,
		config.RoleExecution,
	}

	byID := make(map[string]model.Model)
	out := make(map[string]model.Model, len(roles))
	for _, role := range roles {
		id := models.For(role)
		m, ok := byID[id]
		if !ok {
			var err error
			m, err = NewModelFromID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("model for role %s: %w", role, err)
			}
			byID[id] = m
		}
		out[role] = m
	}
	return out, nil
}

// NewTeamFromConfig assembles the team described by cfg: per-role completion
// backends from the configured model identifiers and the configured search
// client. Additional option functions run after the config wiring, so they
// can still override any of it (for example to force LLMRoot).
func NewTeamFromConfig(ctx context.Context, cfg *config.Config, optFns ...func(o *TeamOptions)) (core.Agent, error) {
	models, err := NewModelsFromConfig(ctx, cfg.Models)
	if err != nil {
		return nil, err
	}
	backend, err := search.NewClient(cfg.Search)
	if err != nil {
		return nil, err
	}

	return NewTeam(models[config.RoleRoot], func(o *TeamOptions) {
		o.Search = backend
		o.Datastores = cfg.Search.Datastores
		o.Models = models
		for _, fn := range optFns {
			fn(o)
		}
	})
}
