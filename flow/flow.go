package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/generator"
	"github.com/hupe1980/agenthive/logging"
	"github.com/hupe1980/agenthive/memory"
	"github.com/hupe1980/agenthive/tool"
)

// maxTurnHistory bounds the conversational history handed to the generator.
const maxTurnHistory = 10

// retrieveLimit is how many memories a turn pulls in as context.
const retrieveLimit = 5

// Flow drives one agent's conversation. It consults memory and the tool
// registry, calls the content generator once per turn, advances the phase
// machine and writes the interaction back into memory.
type Flow struct {
	profile  *core.AgentProfile
	memory   *memory.TieredStore
	registry *tool.Registry
	gen      generator.ContentGenerator

	table *Table
	rules []AdaptationRule

	current *State
	history []*State
	turns   []generator.Turn
	goals   []*core.Goal

	clock core.Clock

	*core.LoggerAdapter
}

// Option customizes a Flow.
type Option func(*Flow)

// WithTable replaces the default transition table.
func WithTable(t *Table) Option {
	return func(f *Flow) { f.table = t }
}

// WithRules replaces the default adaptation rules.
func WithRules(rules []AdaptationRule) Option {
	return func(f *Flow) { f.rules = rules }
}

// WithClock overrides the system clock.
func WithClock(clock core.Clock) Option {
	return func(f *Flow) { f.clock = clock }
}

// WithLogger sets the flow's logger.
func WithLogger(logger logging.Logger) Option {
	return func(f *Flow) { f.LoggerAdapter = core.NewLoggerAdapter(logger) }
}

// NewFlow creates a flow in the initiation phase.
func NewFlow(profile *core.AgentProfile, mem *memory.TieredStore, registry *tool.Registry, gen generator.ContentGenerator, opts ...Option) *Flow {
	f := &Flow{
		profile:       profile,
		memory:        mem,
		registry:      registry,
		gen:           gen,
		table:         DefaultTable(),
		rules:         defaultRules(),
		clock:         core.SystemClock(),
		LoggerAdapter: core.NewLoggerAdapter(nil),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.current = newState(PhaseInitiation, f.clock.Now())
	return f
}

// Current returns the current conversation state.
func (f *Flow) Current() *State { return f.current }

// History returns the superseded states, oldest first. The returned slice
// must not be mutated.
func (f *Flow) History() []*State { return f.history }

// AddGoal attaches a goal the flow works toward.
func (f *Flow) AddGoal(g *core.Goal) { f.goals = append(f.goals, g) }

// Goals returns the attached goals.
func (f *Flow) Goals() []*core.Goal { return f.goals }

// Advance runs the adaptation-free transition step: it evaluates the table
// for the current phase and trigger and fires the first transition whose
// guard passes, pushing the old state to history. It returns whether a
// transition fired; with no passing guard the phase is unchanged.
func (f *Flow) Advance(in Input) bool {
	if f.current.Phase.Terminal() {
		return false
	}
	for _, tr := range f.table.candidates(f.current.Phase, in.Trigger) {
		if tr.Guard != nil && !tr.Guard(f.current, in) {
			continue
		}
		if tr.Action != nil {
			tr.Action(f.current, in)
		}
		old := f.current
		f.history = append(f.history, old)
		f.current = old.succeed(tr.To, f.clock.Now())
		f.LogDebug("phase transition", "agent_id", f.profile.ID, "from", string(old.Phase), "to", string(tr.To))
		return true
	}
	return false
}

// Adapt runs every adaptation rule against the current state.
func (f *Flow) Adapt(input string) {
	for _, rule := range f.rules {
		rule.Apply(f, f.current, input)
	}
}

// ProcessInput handles one conversational turn: adaptation rules, memory
// retrieval, a single generator call, transition evaluation, then memory
// write-back and an episodic snapshot. Generator failures degrade to a
// low-confidence reply instead of an error.
func (f *Flow) ProcessInput(ctx context.Context, input string) (core.AgentResponse, error) {
	start := time.Now()

	if f.current.Phase.Terminal() {
		return core.AgentResponse{
			Content:    "This conversation is closed.",
			Confidence: 1.0,
			Metadata:   map[string]any{"phase": string(PhaseClosure)},
		}, nil
	}

	f.Adapt(input)

	var memories []string
	if f.memory != nil {
		for _, r := range f.memory.RetrieveRelevant(input, retrieveLimit) {
			memories = append(memories, r.Entry.Content)
		}
	}

	gen, err := f.generate(ctx, input, memories)
	if err != nil {
		f.LogWarn("generation failed, degrading", "agent_id", f.profile.ID, "error", err)
		gen = generator.Generation{
			Text:       fmt.Sprintf("I could not produce a full answer for %q right now.", input),
			Confidence: 0.2,
		}
	}
	f.current.Confidence = gen.Confidence

	fired := f.Advance(Input{Text: input, Trigger: TriggerUserInput})

	f.turns = append(f.turns, generator.Turn{Role: "user", Content: input}, generator.Turn{Role: "assistant", Content: gen.Text})
	if len(f.turns) > maxTurnHistory {
		f.turns = f.turns[len(f.turns)-maxTurnHistory:]
	}

	f.remember(input, gen, start)
	f.advanceGoals()

	resp := core.AgentResponse{
		Content:          gen.Text,
		Confidence:       gen.Confidence,
		SuggestedActions: suggestedActions(f.current.Phase, f.current.UserIntent),
		ToolsUsed:        append([]string(nil), f.current.ToolsInUse...),
		NeedsFollowUp:    f.current.UserIntent == IntentInquiry || gen.Confidence < 0.5,
		Metadata: map[string]any{
			"phase":       string(f.current.Phase),
			"intent":      f.current.UserIntent,
			"complexity":  f.current.Complexity,
			"transition":  fired,
			"elapsed_ms":  time.Since(start).Milliseconds(),
			"memory_hits": len(memories),
		},
	}
	return resp, nil
}

// ApplyToolResult feeds a completed tool call back into the machine and
// stores its outcome as an interaction memory.
func (f *Flow) ApplyToolResult(res tool.Result) bool {
	if f.memory != nil {
		content := fmt.Sprintf("tool %s result: %v", res.Tool, res.Output)
		importance := 5
		if !res.Success() {
			content = fmt.Sprintf("tool %s failed: %v", res.Tool, res.Err)
			importance = 4
		}
		f.memory.Store(content, memory.TypeInteraction, importance, []string{"tool", res.Tool}, nil)
	}
	return f.Advance(Input{Trigger: TriggerToolResult})
}

func (f *Flow) generate(ctx context.Context, input string, memories []string) (generator.Generation, error) {
	var hints []generator.ToolHint
	if f.registry != nil {
		for _, name := range f.current.ToolsInUse {
			if t, ok := f.registry.Get(name); ok {
				hints = append(hints, generator.ToolHint{Name: t.Name, Description: t.Description})
			}
		}
	}
	req := generator.Request{
		Profile:  f.profile,
		Input:    input,
		Phase:    string(f.current.Phase),
		Intent:   f.current.UserIntent,
		Memories: memories,
		Tools:    hints,
		History:  append([]generator.Turn(nil), f.turns...),
	}
	return f.gen.Generate(ctx, req)
}

// remember stores the turn and appends an episodic snapshot.
func (f *Flow) remember(input string, gen generator.Generation, start time.Time) {
	if f.memory == nil {
		return
	}
	importance := 3 + int(f.current.Complexity*4)
	f.memory.Store(
		fmt.Sprintf("user: %s | agent: %s", input, gen.Text),
		memory.TypeInteraction,
		importance,
		[]string{f.current.UserIntent},
		map[string]any{"phase": string(f.current.Phase)},
	)
	f.memory.AddSnapshot(memory.Snapshot{
		Conversation: memory.ConversationRecord{
			Topic:      f.current.UserIntent,
			UserIntent: f.current.UserIntent,
			Phase:      string(f.current.Phase),
			Summary:    input,
		},
		Business: memory.BusinessRecord{
			ActiveGoals:  goalIDs(f.goals),
			PendingTasks: 0,
		},
		Performance: memory.PerformanceRecord{
			ResponseTime: time.Since(start),
			Confidence:   gen.Confidence,
			ToolsUsed:    append([]string(nil), f.current.ToolsInUse...),
		},
	})
}

// advanceGoals nudges open goals forward when the conversation produces
// concrete work.
func (f *Flow) advanceGoals() {
	if f.current.UserIntent != IntentAction && f.current.UserIntent != IntentCreation {
		return
	}
	for _, g := range f.goals {
		if !g.Completed() {
			g.Advance(10)
			return
		}
	}
}

func goalIDs(goals []*core.Goal) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		if !g.Completed() {
			out = append(out, g.ID)
		}
	}
	return out
}

// suggestedActions proposes follow-ups appropriate to the phase.
func suggestedActions(phase Phase, intent string) []string {
	switch phase {
	case PhaseExploration:
		return []string{"clarify requirements", "share relevant context"}
	case PhaseAnalysis:
		return []string{"review the analysis", "provide missing details"}
	case PhaseAction:
		return []string{"approve tool execution", "adjust the plan"}
	case PhaseSynthesis:
		return []string{"confirm the summary", "request changes"}
	case PhaseClosure:
		if intent == IntentFarewell {
			return nil
		}
		return []string{"start a new conversation"}
	default:
		return []string{"describe what you need"}
	}
}
