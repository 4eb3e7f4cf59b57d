package generator

import (
	"context"
	"fmt"
	"strings"
)

// Static is a deterministic ContentGenerator producing templated responses
// from the request's phase, intent and memory context. It makes flows fully
// testable without a model behind them and doubles as a degraded-mode
// fallback.
type Static struct {
	// Confidence is attached to every generation. Defaults to 0.75.
	Confidence float64
}

// NewStatic creates a Static generator with the default confidence.
func NewStatic() *Static { return &Static{Confidence: 0.75} }

// Generate composes a templated reply. It never fails.
func (s *Static) Generate(_ context.Context, req Request) (Generation, error) {
	confidence := s.Confidence
	if confidence == 0 {
		confidence = 0.75
	}

	var b strings.Builder
	name := "agent"
	if req.Profile != nil && req.Profile.Name != "" {
		name = req.Profile.Name
	}
	switch req.Phase {
	case "initiation":
		fmt.Fprintf(&b, "%s here. Let's get started on: %s.", name, req.Input)
	case "exploration":
		fmt.Fprintf(&b, "Exploring the request %q", req.Input)
		if req.Intent != "" {
			fmt.Fprintf(&b, " (intent: %s)", req.Intent)
		}
		b.WriteString(".")
	case "analysis":
		fmt.Fprintf(&b, "Analyzing %q against %d relevant memories.", req.Input, len(req.Memories))
	case "action":
		fmt.Fprintf(&b, "Acting on %q", req.Input)
		if len(req.Tools) > 0 {
			fmt.Fprintf(&b, " using %s", req.Tools[0].Name)
		}
		b.WriteString(".")
	case "synthesis":
		fmt.Fprintf(&b, "Summarizing the work on %q.", req.Input)
	case "closure":
		b.WriteString("Wrapping up. Let me know if anything else comes up.")
	default:
		fmt.Fprintf(&b, "Considering: %s.", req.Input)
	}
	if len(req.Memories) > 0 {
		fmt.Fprintf(&b, " Context recalled: %s.", req.Memories[0])
	}
	return Generation{Text: b.String(), Confidence: confidence}, nil
}
