// Package flow implements the per-conversation phase state machine. Each
// input first runs every adaptation rule (complexity, intent, tool
// shortlist) against the current state, then evaluates the transition table:
// phase-specific transitions by descending priority and declaration order,
// universal transitions last, first passing guard fires. Superseded states
// are pushed to an append-only history.
//
// A Flow is owned by a single agent runtime and is not internally
// synchronized; the orchestrator serializes access per agent.
package flow
