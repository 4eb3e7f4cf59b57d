package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/generator"
	"github.com/hupe1980/agenthive/memory"
	"github.com/hupe1980/agenthive/tool"
)

// failingGenerator always errors, exercising the degraded path.
type failingGenerator struct{}

func (failingGenerator) Generate(_ context.Context, _ generator.Request) (generator.Generation, error) {
	return generator.Generation{}, errors.New("model unavailable")
}

func newTestFlow(t *testing.T, opts ...Option) *Flow {
	t.Helper()
	profile := core.NewAgentProfile("agent-1", "Ada", "design", "frontend")
	store := memory.NewTieredStore(profile.ID)
	registry := tool.NewRegistry(nil)
	return NewFlow(profile, store, registry, generator.NewStatic(), opts...)
}

func TestNewFlowStartsInInitiation(t *testing.T) {
	f := newTestFlow(t)
	assert.Equal(t, PhaseInitiation, f.Current().Phase)
	assert.Empty(t, f.History())
	assert.Equal(t, 0.5, f.Current().Confidence)
}

func TestAdvanceWithoutPassingGuardKeepsPhase(t *testing.T) {
	f := newTestFlow(t)
	fired := f.Advance(Input{Text: "", Trigger: TriggerUserInput})
	assert.False(t, fired)
	assert.Equal(t, PhaseInitiation, f.Current().Phase)
	assert.Empty(t, f.History())
}

func TestAdvancePushesOldStateToHistory(t *testing.T) {
	f := newTestFlow(t)
	oldID := f.Current().ID

	fired := f.Advance(Input{Text: "hello", Trigger: TriggerUserInput})
	require.True(t, fired)
	assert.Equal(t, PhaseExploration, f.Current().Phase)
	assert.NotEqual(t, oldID, f.Current().ID)

	require.Len(t, f.History(), 1)
	assert.Equal(t, oldID, f.History()[0].ID)
	assert.Equal(t, PhaseInitiation, f.History()[0].Phase)
}

func TestProcessInputMovesToExploration(t *testing.T) {
	f := newTestFlow(t)
	resp, err := f.ProcessInput(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, PhaseExploration, f.Current().Phase)
	assert.NotEmpty(t, resp.Content)
	assert.Equal(t, "exploration", resp.Metadata["phase"])
	assert.Equal(t, true, resp.Metadata["transition"])
}

func TestProcessInputClassifiesIntent(t *testing.T) {
	f := newTestFlow(t)
	_, err := f.ProcessInput(context.Background(), "please create a landing page draft")
	require.NoError(t, err)
	assert.Equal(t, IntentCreation, f.Current().UserIntent)
}

func TestFarewellClosesFromAnyPhase(t *testing.T) {
	f := newTestFlow(t)
	_, err := f.ProcessInput(context.Background(), "hello there")
	require.NoError(t, err)
	require.Equal(t, PhaseExploration, f.Current().Phase)

	_, err = f.ProcessInput(context.Background(), "goodbye for now")
	require.NoError(t, err)
	assert.Equal(t, PhaseClosure, f.Current().Phase)
	assert.Equal(t, "farewell", f.Current().ContextVariables["closed_by"])
}

func TestClosedFlowStaysClosed(t *testing.T) {
	f := newTestFlow(t)
	_, err := f.ProcessInput(context.Background(), "hello there")
	require.NoError(t, err)
	_, err = f.ProcessInput(context.Background(), "goodbye for now")
	require.NoError(t, err)
	require.True(t, f.Current().Phase.Terminal())

	history := len(f.History())
	resp, err := f.ProcessInput(context.Background(), "one more thing")
	require.NoError(t, err)
	assert.Equal(t, PhaseClosure, f.Current().Phase)
	assert.Len(t, f.History(), history)
	assert.Equal(t, 1.0, resp.Confidence)
}

func TestGeneratorFailureDegrades(t *testing.T) {
	profile := core.NewAgentProfile("agent-1", "Ada")
	store := memory.NewTieredStore(profile.ID)
	f := NewFlow(profile, store, tool.NewRegistry(nil), failingGenerator{})

	resp, err := f.ProcessInput(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, 0.2, resp.Confidence)
	assert.True(t, resp.NeedsFollowUp)
	assert.NotEmpty(t, resp.Content)
}

func TestProcessInputWritesMemory(t *testing.T) {
	profile := core.NewAgentProfile("agent-1", "Ada")
	store := memory.NewTieredStore(profile.ID)
	f := NewFlow(profile, store, tool.NewRegistry(nil), generator.NewStatic())

	_, err := f.ProcessInput(context.Background(), "remember the deployment window")
	require.NoError(t, err)

	total := store.TierCount(memory.TierWorking) + store.TierCount(memory.TierShortTerm) + store.TierCount(memory.TierLongTerm)
	assert.Equal(t, 1, total)
	assert.Len(t, store.Snapshots(), 1)
}

func TestAdaptComplexityGrowsWithTechnicalDensity(t *testing.T) {
	f := newTestFlow(t)
	f.Adapt("hi")
	simple := f.Current().Complexity

	f.Adapt("how should we migrate the database schema and cache architecture?")
	assert.Greater(t, f.Current().Complexity, simple)
}

func TestToolShortlistCapsAtThree(t *testing.T) {
	f := newTestFlow(t)
	for _, name := range []string{"search_one", "search_two", "search_three", "search_four"} {
		f.registry.Register(&tool.Tool{Name: name, Description: "search helper for queries", Category: "search"})
	}
	f.Adapt("search for the launch checklist")
	assert.LessOrEqual(t, len(f.Current().ToolsInUse), 3)
	assert.NotEmpty(t, f.Current().ToolsInUse)
}

func TestApplyToolResultStoresOutcome(t *testing.T) {
	profile := core.NewAgentProfile("agent-1", "Ada")
	store := memory.NewTieredStore(profile.ID)
	f := NewFlow(profile, store, tool.NewRegistry(nil), generator.NewStatic())

	f.ApplyToolResult(tool.Result{Tool: "web_search", Output: "three results"})
	assert.Equal(t, 1, store.TierCount(memory.TierWorking))
}

func TestApplyToolResultAdvancesActionPhase(t *testing.T) {
	f := newTestFlow(t)
	_, err := f.ProcessInput(context.Background(), "hello there")
	require.NoError(t, err)

	// Drive the machine to action through an actionable low-complexity turn.
	_, err = f.ProcessInput(context.Background(), "run it")
	require.NoError(t, err)
	require.Equal(t, PhaseAction, f.Current().Phase)

	fired := f.ApplyToolResult(tool.Result{Tool: "deployer", Output: "ok"})
	assert.True(t, fired)
	assert.Equal(t, PhaseSynthesis, f.Current().Phase)
}

func TestGoalsAdvanceOnActionIntents(t *testing.T) {
	f := newTestFlow(t)
	goal := core.NewGoal("delivery", "ship the feature", core.PriorityNormal)
	f.AddGoal(goal)

	_, err := f.ProcessInput(context.Background(), "deploy the new build")
	require.NoError(t, err)
	assert.Greater(t, goal.Progress, 0.0)
}
