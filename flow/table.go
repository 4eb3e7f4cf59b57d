package flow

import "sort"

// Transition is one row of the transition table. Guard must be free of side
// effects; Action (optional) runs after the guard passes and before the new
// state is committed.
type Transition struct {
	From     Phase
	To       Phase
	Trigger  TriggerKind
	Priority int
	Guard    func(s *State, in Input) bool
	Action   func(s *State, in Input)
}

// Table holds transitions in declaration order. Evaluation order is
// priority-then-declaration-order within the source phase, with universal
// (PhaseAny) transitions always evaluated last; iteration never relies on
// map ordering, keeping the machine deterministic.
type Table struct {
	transitions []Transition
}

// NewTable creates an empty table.
func NewTable() *Table { return &Table{} }

// Add appends a transition, preserving declaration order.
func (t *Table) Add(tr Transition) *Table {
	t.transitions = append(t.transitions, tr)
	return t
}

// candidates returns the transitions to evaluate for the given phase and
// trigger: phase-specific rows sorted by descending priority (stable, so
// equal priorities keep declaration order), followed by universal rows in
// the same ordering.
func (t *Table) candidates(from Phase, trigger TriggerKind) []Transition {
	var specific, universal []Transition
	for _, tr := range t.transitions {
		if tr.Trigger != "" && tr.Trigger != trigger {
			continue
		}
		switch tr.From {
		case from:
			specific = append(specific, tr)
		case PhaseAny:
			universal = append(universal, tr)
		}
	}
	sort.SliceStable(specific, func(i, j int) bool { return specific[i].Priority > specific[j].Priority })
	sort.SliceStable(universal, func(i, j int) bool { return universal[i].Priority > universal[j].Priority })
	return append(specific, universal...)
}

// DefaultTable returns the standard conversation lifecycle. Guards read the
// adaptive fields maintained by the adaptation rules.
func DefaultTable() *Table {
	t := NewTable()

	// Any substantive first input moves the conversation out of initiation.
	t.Add(Transition{
		From: PhaseInitiation, To: PhaseExploration, Trigger: TriggerUserInput, Priority: 10,
		Guard: func(s *State, in Input) bool { return in.Text != "" },
	})

	// Complex or analytical requests earn an analysis phase; simple
	// actionable ones jump straight to action.
	t.Add(Transition{
		From: PhaseExploration, To: PhaseAction, Trigger: TriggerUserInput, Priority: 20,
		Guard: func(s *State, in Input) bool {
			return s.UserIntent == IntentAction && s.Complexity < 0.4
		},
	})
	t.Add(Transition{
		From: PhaseExploration, To: PhaseAnalysis, Trigger: TriggerUserInput, Priority: 10,
		Guard: func(s *State, in Input) bool {
			return s.Complexity >= 0.4 || s.UserIntent == IntentInquiry
		},
	})

	t.Add(Transition{
		From: PhaseAnalysis, To: PhaseAction, Priority: 10,
		Guard: func(s *State, in Input) bool {
			return s.UserIntent == IntentAction || s.Confidence >= 0.7
		},
	})

	t.Add(Transition{
		From: PhaseAction, To: PhaseSynthesis, Priority: 10,
		Guard: func(s *State, in Input) bool {
			return in.Trigger == TriggerToolResult || s.Confidence >= 0.7
		},
	})

	t.Add(Transition{
		From: PhaseSynthesis, To: PhaseClosure, Priority: 10,
		Guard: func(s *State, in Input) bool { return s.UserIntent == IntentFarewell },
		Action: func(s *State, in Input) {
			s.ContextVariables["closed_by"] = "synthesis"
		},
	})

	// A farewell closes the conversation from any phase, but only after
	// every phase-specific rule has had its chance.
	t.Add(Transition{
		From: PhaseAny, To: PhaseClosure, Priority: 5,
		Guard: func(s *State, in Input) bool { return s.UserIntent == IntentFarewell },
		Action: func(s *State, in Input) {
			s.ContextVariables["closed_by"] = "farewell"
		},
	})

	return t
}
