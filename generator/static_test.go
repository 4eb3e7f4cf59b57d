package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthive/core"
)

func TestStaticGenerateIsDeterministic(t *testing.T) {
	g := NewStatic()
	req := Request{
		Profile: core.NewAgentProfile("a-1", "Ada"),
		Input:   "summarize the launch",
		Phase:   "synthesis",
	}

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 0.75, first.Confidence)
	assert.NotEmpty(t, first.Text)
}

func TestStaticGenerateVariesByPhase(t *testing.T) {
	g := NewStatic()
	phases := []string{"initiation", "exploration", "analysis", "action", "synthesis", "closure"}
	seen := map[string]struct{}{}
	for _, phase := range phases {
		gen, err := g.Generate(context.Background(), Request{Input: "same input", Phase: phase})
		require.NoError(t, err)
		seen[gen.Text] = struct{}{}
	}
	assert.Len(t, seen, len(phases))
}

func TestStaticGenerateIncludesMemoryContext(t *testing.T) {
	g := NewStatic()
	gen, err := g.Generate(context.Background(), Request{
		Input:    "check the budget",
		Phase:    "analysis",
		Memories: []string{"budget approved last week"},
	})
	require.NoError(t, err)
	assert.Contains(t, gen.Text, "budget approved last week")
}

func TestStaticZeroConfidenceFallsBack(t *testing.T) {
	g := &Static{}
	gen, err := g.Generate(context.Background(), Request{Input: "x", Phase: "exploration"})
	require.NoError(t, err)
	assert.Equal(t, 0.75, gen.Confidence)
}
