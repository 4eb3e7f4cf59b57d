package generator

import (
	"context"

	"github.com/hupe1980/agenthive/core"
)

// Turn is one prior conversational exchange supplied as context.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ToolHint tells the generator which tools the flow has shortlisted.
type ToolHint struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Request is the normalized conversational context handed to a generator.
type Request struct {
	Profile  *core.AgentProfile `json:"profile"`
	Input    string             `json:"input"`
	Phase    string             `json:"phase"`
	Intent   string             `json:"intent"`
	Memories []string           `json:"memories,omitempty"`
	Tools    []ToolHint         `json:"tools,omitempty"`
	History  []Turn             `json:"history,omitempty"`
}

// Generation is the generator's per-turn output.
type Generation struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ContentGenerator produces one response per conversational turn. Generate
// must respect ctx cancellation. Implementations should degrade to a
// low-confidence result rather than fail hard where possible.
type ContentGenerator interface {
	Generate(ctx context.Context, req Request) (Generation, error)
}
