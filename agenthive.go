// Package agenthive provides a high-level façade over the orchestrator and
// its services (tool registry, discovery pipeline, collaboration channel,
// credits ledger & logging) enabling rapid construction of coordinated
// multi-agent systems. Most applications interact with this package by:
//  1. Creating a Hive via New() (optionally overriding the in-memory defaults)
//  2. Registering one or more agent profiles
//  3. Submitting tasks (SubmitTask/ExecuteTask) or conversing (ProcessMessage)
//
// The façade delegates coordination to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a real
// content generator, a billing-backed credits service and a structured logger.
package agenthive

import (
	"context"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"

	"github.com/hupe1980/agenthive/collab"
	"github.com/hupe1980/agenthive/config"
	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/credits"
	"github.com/hupe1980/agenthive/discovery"
	"github.com/hupe1980/agenthive/generator"
	anthropicgen "github.com/hupe1980/agenthive/generator/anthropic"
	openaigen "github.com/hupe1980/agenthive/generator/openai"
	"github.com/hupe1980/agenthive/logging"
	"github.com/hupe1980/agenthive/memory"
	"github.com/hupe1980/agenthive/orchestrator"
	"github.com/hupe1980/agenthive/tool"
)

// Options configures the Hive instance.
type Options struct {
	// Generator produces agent replies. Defaults to the deterministic
	// static generator; supply an openai or anthropic adapter for real
	// model output.
	Generator generator.ContentGenerator

	// Credits is the usage accounting boundary. Defaults to an in-memory
	// ledger that treats every user as unlimited.
	Credits credits.Service

	// MemoryConfig tunes each registered agent's tiered memory store.
	MemoryConfig memory.Config

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Hive is the high-level façade aggregating the orchestrator and services.
type Hive struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a new Hive instance with optional overrides. Any unset service
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Hive {
	opts := Options{
		Generator:    generator.NewStatic(),
		Credits:      credits.NewMemoryLedger(),
		MemoryConfig: memory.DefaultConfig(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(
		orchestrator.WithGenerator(opts.Generator),
		orchestrator.WithCredits(opts.Credits),
		orchestrator.WithMemoryConfig(opts.MemoryConfig),
		orchestrator.WithLogger(opts.Logger),
	)

	return &Hive{opts: opts, orch: orch}
}

// NewFromConfig builds a Hive from a loaded configuration: the generator
// provider and model, the log level, the tool execution timeout, the
// background job cadences and the per-agent memory capacities all come from
// cfg. Use config.Load to populate one from a .env file and the process
// environment. Option functions run after the config is applied and win over
// it.
func NewFromConfig(cfg config.Config, optFns ...func(o *Options)) (*Hive, error) {
	gen, err := generatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	memCfg := memory.DefaultConfig()
	if cfg.WorkingCapacity > 0 {
		memCfg.WorkingCapacity = cfg.WorkingCapacity
	}
	if cfg.EpisodicCapacity > 0 {
		memCfg.EpisodicCapacity = cfg.EpisodicCapacity
	}

	opts := Options{
		Generator:    gen,
		Credits:      credits.NewMemoryLedger(),
		MemoryConfig: memCfg,
		Logger:       loggerFromConfig(cfg),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(
		orchestrator.WithGenerator(opts.Generator),
		orchestrator.WithCredits(opts.Credits),
		orchestrator.WithMemoryConfig(opts.MemoryConfig),
		orchestrator.WithLogger(opts.Logger),
		orchestrator.WithToolTimeout(cfg.ToolTimeout),
		orchestrator.WithConsolidationInterval(cfg.ConsolidationInterval),
		orchestrator.WithDiscoveryInterval(cfg.DiscoveryInterval),
	)

	return &Hive{opts: opts, orch: orch}, nil
}

// generatorFromConfig maps the configured provider name to a concrete
// ContentGenerator. The SDK-backed adapters read their API keys from the
// environment.
func generatorFromConfig(cfg config.Config) (generator.ContentGenerator, error) {
	switch cfg.GeneratorProvider {
	case config.ProviderOpenAI:
		return openaigen.New(func(o *openaigen.Options) {
			if cfg.GeneratorModel != "" {
				o.Model = openaisdk.ChatModel(cfg.GeneratorModel)
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropicgen.New(func(o *anthropicgen.Options) {
			if cfg.GeneratorModel != "" {
				o.Model = anthropicsdk.Model(cfg.GeneratorModel)
			}
		}), nil
	case config.ProviderStatic, "":
		return generator.NewStatic(), nil
	default:
		return nil, fmt.Errorf("agenthive: unknown generator provider %q", cfg.GeneratorProvider)
	}
}

func loggerFromConfig(cfg config.Config) logging.Logger {
	lc := logging.DefaultLoggerConfig()
	lc.Component = "hive"
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		lc.Level = logging.LogLevelDebug
	case "warn":
		lc.Level = logging.LogLevelWarn
	case "error":
		lc.Level = logging.LogLevelError
	default:
		lc.Level = logging.LogLevelInfo
	}
	return logging.NewLogger(lc)
}

// RegisterAgent adds an agent profile to the hive, composing its flow,
// memory store and mailbox.
func (h *Hive) RegisterAgent(profile *core.AgentProfile) { h.orch.RegisterAgent(profile) }

// SubmitTask creates a task and delegates it to the best-fit agent.
func (h *Hive) SubmitTask(ctx context.Context, description string, priority core.Priority) (*core.Task, error) {
	return h.orch.SubmitTask(ctx, description, priority)
}

// ExecuteTask runs an assigned task through its agent's flow on behalf of the
// given user.
func (h *Hive) ExecuteTask(ctx context.Context, taskID, userID string) (core.AgentResponse, error) {
	return h.orch.ExecuteTask(ctx, taskID, userID)
}

// ProcessMessage runs one conversational turn with the named agent.
func (h *Hive) ProcessMessage(ctx context.Context, agentID, content string) (core.AgentResponse, error) {
	return h.orch.ProcessMessage(ctx, agentID, content)
}

// Registry returns the shared tool registry for direct registration.
func (h *Hive) Registry() *tool.Registry { return h.orch.Registry() }

// Discovery returns the tool discovery pipeline for source registration and
// manual approval of held candidates.
func (h *Hive) Discovery() *discovery.Pipeline { return h.orch.Pipeline() }

// Channel returns the collaboration channel for sessions, votes and alerts.
func (h *Hive) Channel() *collab.Channel { return h.orch.Channel() }

// Orchestrator exposes the underlying orchestrator for advanced use.
func (h *Hive) Orchestrator() *orchestrator.Orchestrator { return h.orch }

// Start launches background consolidation and discovery jobs.
func (h *Hive) Start(ctx context.Context) { h.orch.Start(ctx) }

// Shutdown stops background work. It is idempotent.
func (h *Hive) Shutdown() { h.orch.Shutdown() }
