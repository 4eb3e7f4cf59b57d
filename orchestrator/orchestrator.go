package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sync"

	"github.com/hupe1980/agenthive/collab"
	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/credits"
	"github.com/hupe1980/agenthive/discovery"
	"github.com/hupe1980/agenthive/flow"
	"github.com/hupe1980/agenthive/generator"
	"github.com/hupe1980/agenthive/internal/schedule"
	"github.com/hupe1980/agenthive/logging"
	"github.com/hupe1980/agenthive/memory"
	"github.com/hupe1980/agenthive/tool"
)

// Background job cadence defaults and the cost reserved per executed task.
const (
	DefaultConsolidationInterval = 5 * time.Minute
	DefaultDiscoveryInterval     = 15 * time.Minute
	taskBaseCost                 = 1.0
)

// Scheduled job names, usable with TriggerJob for deterministic tests.
const (
	JobConsolidation = "consolidation"
	JobDiscovery     = "discovery"
)

// Orchestrator coordinates a set of agents: it registers them, delegates
// tasks, executes them through each agent's flow, relays messages over the
// collaboration channel and runs background memory consolidation and tool
// discovery on a scheduler.
type Orchestrator struct {
	mu     sync.RWMutex
	agents map[string]*agentRuntime
	tasks  map[string]*core.Task
	closed bool

	channel   *collab.Channel
	registry  *tool.Registry
	pipeline  *discovery.Pipeline
	credits   credits.Service
	gen       generator.ContentGenerator
	scheduler *schedule.Scheduler
	clock     core.Clock
	tracer    trace.Tracer
	logger    logging.Logger

	memoryCfg     memory.Config
	toolTimeout   time.Duration
	consolidateIv time.Duration
	discoveryIv   time.Duration

	*core.LoggerAdapter
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger shared with the orchestrator's sub-components.
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock overrides the system clock.
func WithClock(clock core.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithGenerator sets the content generator handed to every agent's flow.
func WithGenerator(gen generator.ContentGenerator) Option {
	return func(o *Orchestrator) { o.gen = gen }
}

// WithCredits sets the usage accounting service.
func WithCredits(svc credits.Service) Option {
	return func(o *Orchestrator) { o.credits = svc }
}

// WithRegistry replaces the internally created tool registry.
func WithRegistry(r *tool.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithMemoryConfig sets the memory configuration for newly registered agents.
func WithMemoryConfig(cfg memory.Config) Option {
	return func(o *Orchestrator) { o.memoryCfg = cfg }
}

// WithToolTimeout bounds each tool execution during task processing.
func WithToolTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.toolTimeout = d }
}

// WithConsolidationInterval sets the memory sweep cadence.
func WithConsolidationInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.consolidateIv = d }
}

// WithDiscoveryInterval sets the discovery poll cadence.
func WithDiscoveryInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.discoveryIv = d }
}

// New creates an Orchestrator with in-memory defaults: a fresh tool registry
// and discovery pipeline, an unlimited credits ledger and a deterministic
// static generator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents:        map[string]*agentRuntime{},
		tasks:         map[string]*core.Task{},
		clock:         core.SystemClock(),
		tracer:        otel.Tracer("agenthive/orchestrator"),
		memoryCfg:     memory.DefaultConfig(),
		toolTimeout:   tool.DefaultExecTimeout,
		consolidateIv: DefaultConsolidationInterval,
		discoveryIv:   DefaultDiscoveryInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.LoggerAdapter = core.NewLoggerAdapter(o.logger)
	if o.registry == nil {
		o.registry = tool.NewRegistry(o.logger)
	}
	if o.gen == nil {
		o.gen = generator.NewStatic()
	}
	if o.credits == nil {
		o.credits = credits.NewMemoryLedger()
	}
	o.channel = collab.NewChannel(o.logger)
	o.pipeline = discovery.NewPipeline(o.registry,
		discovery.WithClock(o.clock), discovery.WithLogger(o.logger))
	o.scheduler = schedule.New(o.logger)
	o.scheduler.Add(schedule.Job{
		Name:     JobConsolidation,
		Interval: o.consolidateIv,
		Run:      o.consolidateAll,
	})
	o.scheduler.Add(schedule.Job{
		Name:     JobDiscovery,
		Interval: o.discoveryIv,
		Run:      o.runDiscovery,
	})
	return o
}

// Registry returns the tool registry shared by all agents.
func (o *Orchestrator) Registry() *tool.Registry { return o.registry }

// Pipeline returns the tool discovery pipeline.
func (o *Orchestrator) Pipeline() *discovery.Pipeline { return o.pipeline }

// Channel returns the collaboration channel.
func (o *Orchestrator) Channel() *collab.Channel { return o.channel }

// RegisterAgent composes a runtime (memory store, flow, mailbox) for the
// profile and adds it to the pool. Re-registering an id replaces the runtime
// and discards the previous flow and memory.
func (o *Orchestrator) RegisterAgent(profile *core.AgentProfile) {
	store := memory.NewTieredStore(profile.ID,
		memory.WithConfig(o.memoryCfg),
		memory.WithClock(o.clock),
		memory.WithLogger(o.logger),
	)
	fl := flow.NewFlow(profile, store, o.registry, o.gen,
		flow.WithClock(o.clock),
		flow.WithLogger(o.logger),
	)
	o.channel.Register(profile.ID)

	o.mu.Lock()
	o.agents[profile.ID] = &agentRuntime{profile: profile, flow: fl, memory: store}
	o.mu.Unlock()
	o.LogInfo("agent registered", "agent_id", profile.ID, "name", profile.Name, "capabilities", len(profile.Capabilities))
}

// DeactivateAgent marks the agent inactive so delegation skips it. Its
// runtime, memory and mailbox are kept. Unknown ids are a no-op.
func (o *Orchestrator) DeactivateAgent(agentID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if rt, ok := o.agents[agentID]; ok {
		rt.profile.Active = false
	}
}

// Agent returns the profile for the given id.
func (o *Orchestrator) Agent(agentID string) (*core.AgentProfile, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	rt, ok := o.agents[agentID]
	if !ok {
		return nil, false
	}
	return rt.profile, true
}

// Agents returns all registered agent ids, sorted.
func (o *Orchestrator) Agents() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.agents))
	for id := range o.agents {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Memory exposes an agent's memory store for inspection.
func (o *Orchestrator) Memory(agentID string) (*memory.TieredStore, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	rt, ok := o.agents[agentID]
	if !ok {
		return nil, false
	}
	return rt.memory, true
}

// Flow exposes an agent's conversation flow for inspection.
func (o *Orchestrator) Flow(agentID string) (*flow.Flow, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	rt, ok := o.agents[agentID]
	if !ok {
		return nil, false
	}
	return rt.flow, true
}

// Workload returns the agent's current in-progress task count.
func (o *Orchestrator) Workload(agentID string) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if rt, ok := o.agents[agentID]; ok {
		return rt.workload
	}
	return 0
}

// Task returns the task with the given id.
func (o *Orchestrator) Task(taskID string) (*core.Task, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	t, ok := o.tasks[taskID]
	return t, ok
}

// SubmitTask creates a task and delegates it to the best-fit agent. When no
// agent qualifies the task is kept in the pending state and the delegation
// failure is returned alongside it, so callers can resubmit later.
func (o *Orchestrator) SubmitTask(ctx context.Context, description string, priority core.Priority) (*core.Task, error) {
	task := core.NewTask(description, priority)

	o.mu.Lock()
	o.tasks[task.ID] = task
	o.mu.Unlock()

	if _, err := o.Delegate(ctx, task); err != nil {
		o.LogWarn("task left pending", "task_id", task.ID, "error", err)
		return task, err
	}
	return task, nil
}

// ExecuteTask runs an assigned task through its agent's flow: credits are
// reserved up front, the task description is processed as a turn, each
// shortlisted tool is executed with a bounded timeout and its result fed back
// into the flow, then the task completes and usage is recorded. Tool failures
// are aggregated into the task result rather than failing the task; only a
// missing task, an unassigned task or a credits refusal fail.
func (o *Orchestrator) ExecuteTask(ctx context.Context, taskID, userID string) (core.AgentResponse, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.execute_task")
	defer span.End()

	o.mu.RLock()
	task, ok := o.tasks[taskID]
	var rt *agentRuntime
	if ok && task.AssignedTo != "" {
		rt = o.agents[task.AssignedTo]
	}
	o.mu.RUnlock()
	if !ok {
		return core.AgentResponse{}, fmt.Errorf("execute task %q: %w", taskID, core.ErrNotFound)
	}
	if rt == nil {
		return core.AgentResponse{}, fmt.Errorf("execute task %q: not assigned: %w", taskID, core.ErrNoSuitableAgent)
	}

	if err := o.credits.Reserve(userID, taskBaseCost); err != nil {
		return core.AgentResponse{}, err
	}

	start := o.clock.Now()
	rt.mu.Lock()
	resp, err := rt.flow.ProcessInput(ctx, task.Description)
	if err != nil {
		rt.mu.Unlock()
		o.finishTask(task, rt, false, start)
		return core.AgentResponse{}, err
	}

	var toolFailures []string
	for _, name := range resp.ToolsUsed {
		res := o.registry.Execute(ctx, name, map[string]any{}, o.toolTimeout)
		rt.flow.ApplyToolResult(res)
		if !res.Success() {
			toolFailures = append(toolFailures, fmt.Sprintf("%s: %v", name, res.Err))
		}
		o.credits.RecordUsage(credits.UsageEntry{
			UserID:  userID,
			AgentID: rt.profile.ID,
			Kind:    "tool",
			Cost:    0,
			Metadata: map[string]string{
				"tool": name, "task_id": task.ID,
			},
		})
	}
	rt.mu.Unlock()

	succeeded := len(toolFailures) == 0 || resp.Confidence >= 0.5
	o.mu.Lock()
	task.Result = resp.Content
	if len(toolFailures) > 0 {
		task.FailureCause = fmt.Sprintf("tool failures: %v", toolFailures)
	}
	o.mu.Unlock()
	o.finishTask(task, rt, succeeded, start)

	o.credits.RecordUsage(credits.UsageEntry{
		UserID:   userID,
		AgentID:  rt.profile.ID,
		Kind:     "task",
		Cost:     taskBaseCost,
		Metadata: map[string]string{"task_id": task.ID},
	})

	status := core.NewMessage(core.MessageStatusUpdate, rt.profile.ID, "", fmt.Sprintf("task %s %s", task.ID, task.Status))
	status.Payload = map[string]any{"task_id": task.ID, "status": string(task.Status)}
	o.channel.Broadcast(status)

	o.LogInfo("task executed", "task_id", task.ID, "agent_id", rt.profile.ID,
		"status", string(task.Status), "tool_failures", len(toolFailures))
	return resp, nil
}

// finishTask transitions the task to a terminal state, releases the agent's
// workload slot and updates its performance metrics. The metrics update
// happens under the orchestrator lock: Delegate reads Metrics while scoring
// agents and must never observe a partial write.
func (o *Orchestrator) finishTask(task *core.Task, rt *agentRuntime, succeeded bool, start time.Time) {
	elapsed := o.clock.Now().Sub(start)
	o.mu.Lock()
	defer o.mu.Unlock()
	if succeeded {
		task.Transition(core.TaskCompleted)
	} else {
		task.Transition(core.TaskFailed)
	}
	if rt.workload > 0 {
		rt.workload--
	}
	rt.profile.Metrics.RecordOutcome(succeeded, elapsed)
}

// ProcessMessage runs one conversational turn for the agent under its runtime
// lock.
func (o *Orchestrator) ProcessMessage(ctx context.Context, agentID, content string) (core.AgentResponse, error) {
	o.mu.RLock()
	rt, ok := o.agents[agentID]
	o.mu.RUnlock()
	if !ok {
		return core.AgentResponse{}, fmt.Errorf("process message for %q: %w", agentID, core.ErrNotFound)
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.flow.ProcessInput(ctx, content)
}

// PumpMailboxes drains every agent's mailbox concurrently and answers the
// messages that require a response through the agent's flow. Each agent is
// pumped on its own goroutine; the first flow failure cancels the rest.
func (o *Orchestrator) PumpMailboxes(ctx context.Context) error {
	o.mu.RLock()
	ids := make([]string, 0, len(o.agents))
	for id := range o.agents {
		ids = append(ids, id)
	}
	o.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			return o.pumpAgent(ctx, id)
		})
	}
	return g.Wait()
}

func (o *Orchestrator) pumpAgent(ctx context.Context, agentID string) error {
	o.mu.RLock()
	rt, ok := o.agents[agentID]
	o.mu.RUnlock()
	if !ok {
		return nil
	}
	for _, msg := range o.channel.Drain(agentID) {
		if !msg.RequiresResponse {
			continue
		}
		rt.mu.Lock()
		resp, err := rt.flow.ProcessInput(ctx, msg.Content)
		rt.mu.Unlock()
		if err != nil {
			return fmt.Errorf("pump %q: %w", agentID, err)
		}
		reply := core.NewMessage(core.MessageResponse, agentID, msg.From, resp.Content)
		reply.CorrelationID = msg.ID
		if err := o.channel.Send(reply); err != nil {
			o.LogWarn("reply undeliverable", "from", agentID, "to", msg.From, "error", err)
		}
	}
	return nil
}

// consolidateAll sweeps every agent's memory under its runtime lock.
func (o *Orchestrator) consolidateAll(ctx context.Context) error {
	o.mu.RLock()
	runtimes := make([]*agentRuntime, 0, len(o.agents))
	for _, rt := range o.agents {
		runtimes = append(runtimes, rt)
	}
	o.mu.RUnlock()

	for _, rt := range runtimes {
		rt.mu.Lock()
		report := rt.memory.Consolidate(ctx)
		rt.mu.Unlock()
		o.LogDebug("memory consolidated", "agent_id", rt.profile.ID,
			"promoted", report.Promoted, "trimmed", report.Trimmed, "insights", report.Insights)
	}
	return nil
}

// runDiscovery polls sources and processes the candidate queue in one pass.
func (o *Orchestrator) runDiscovery(ctx context.Context) error {
	if err := o.pipeline.Poll(ctx); err != nil {
		return err
	}
	o.pipeline.ProcessQueue(ctx)
	return nil
}

// Start launches the background scheduler. It is a no-op when already
// running or after Shutdown.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	o.scheduler.Start(ctx)
	o.LogInfo("orchestrator started", "consolidation_interval", o.consolidateIv.String(), "discovery_interval", o.discoveryIv.String())
}

// TriggerJob runs a background job synchronously, primarily for tests and
// operational tooling.
func (o *Orchestrator) TriggerJob(ctx context.Context, name string) error {
	return o.scheduler.Trigger(ctx, name)
}

// Shutdown stops background jobs and marks the orchestrator closed. It is
// idempotent and safe to call before Start.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()
	o.scheduler.Stop()
	o.LogInfo("orchestrator stopped")
}
