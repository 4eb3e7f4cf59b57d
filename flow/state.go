package flow

import (
	"time"

	"github.com/hupe1980/agenthive/core"
)

// Phase names a stage of the conversation lifecycle.
type Phase string

const (
	// PhaseInitiation is the opening phase of every conversation.
	PhaseInitiation Phase = "initiation"
	// PhaseExploration is open-ended scoping of the request.
	PhaseExploration Phase = "exploration"
	// PhaseAnalysis is focused reasoning over gathered context.
	PhaseAnalysis Phase = "analysis"
	// PhaseAction is tool-assisted execution.
	PhaseAction Phase = "action"
	// PhaseSynthesis consolidates results into an answer.
	PhaseSynthesis Phase = "synthesis"
	// PhaseClosure is terminal; a closed conversation stays closed.
	PhaseClosure Phase = "closure"

	// PhaseAny marks a universal transition source, evaluated after all
	// phase-specific transitions.
	PhaseAny Phase = "*"
)

// Terminal reports whether the phase accepts no further transitions.
func (p Phase) Terminal() bool { return p == PhaseClosure }

// TriggerKind categorizes what prompted a transition check.
type TriggerKind string

const (
	// TriggerUserInput is a new user message.
	TriggerUserInput TriggerKind = "user_input"
	// TriggerToolResult is the completion of a tool call.
	TriggerToolResult TriggerKind = "tool_result"
	// TriggerInternal is a flow-initiated check (goal progress, timeouts).
	TriggerInternal TriggerKind = "internal"
)

// Input is one unit of work fed to the state machine.
type Input struct {
	Text    string
	Trigger TriggerKind
}

// State is one conversation snapshot. A state is mutable while current
// (adaptation rules update it in place) and immutable once superseded and
// pushed to history.
type State struct {
	ID               string         `json:"id"`
	Phase            Phase          `json:"phase"`
	Complexity       float64        `json:"complexity"` // [0,1]
	UserIntent       string         `json:"user_intent"`
	Confidence       float64        `json:"confidence"` // [0,1]
	ContextVariables map[string]any `json:"context_variables,omitempty"`
	ToolsInUse       []string       `json:"tools_in_use,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func newState(phase Phase, now time.Time) *State {
	return &State{
		ID:               core.NewID(),
		Phase:            phase,
		Confidence:       0.5,
		ContextVariables: map[string]any{},
		CreatedAt:        now,
	}
}

// succeed creates the follow-up state for a fired transition, carrying over
// the adaptive fields and context variables under a fresh id.
func (s *State) succeed(to Phase, now time.Time) *State {
	next := &State{
		ID:               core.NewID(),
		Phase:            to,
		Complexity:       s.Complexity,
		UserIntent:       s.UserIntent,
		Confidence:       s.Confidence,
		ContextVariables: make(map[string]any, len(s.ContextVariables)),
		ToolsInUse:       append([]string(nil), s.ToolsInUse...),
		CreatedAt:        now,
	}
	for k, v := range s.ContextVariables {
		next.ContextVariables[k] = v
	}
	return next
}
