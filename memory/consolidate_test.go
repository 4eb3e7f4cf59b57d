package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidatePromotesHighImportance(t *testing.T) {
	s := NewTieredStore("agent-1")
	id := s.Store("deployment runbook location", TypeContext, 7, nil, nil)
	_, tier, _ := s.Get(id)
	require.Equal(t, TierShortTerm, tier)

	report := s.Consolidate(context.Background())
	assert.Equal(t, 1, report.Promoted)

	e, tier, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, TierLongTerm, tier)
	assert.Equal(t, 8, e.Importance)
}

func TestConsolidatePromotesFrequentlyAccessed(t *testing.T) {
	s := NewTieredStore("agent-1")
	id := s.Store("staging environment credentials path", TypeContext, 4, nil, nil)

	for i := 0; i < 3; i++ {
		s.RetrieveRelevant("staging environment credentials path", 1)
	}

	report := s.Consolidate(context.Background())
	assert.Equal(t, 1, report.Promoted)
	_, tier, _ := s.Get(id)
	assert.Equal(t, TierLongTerm, tier)
}

func TestConsolidatePromotesAgedAccessedEntries(t *testing.T) {
	clock := newStubClock()
	s := NewTieredStore("agent-1", WithClock(clock))
	id := s.Store("weekly report format", TypeContext, 4, nil, nil)

	s.RetrieveRelevant("weekly report format", 1)
	clock.advance(25 * time.Hour)

	report := s.Consolidate(context.Background())
	assert.Equal(t, 1, report.Promoted)
	_, tier, _ := s.Get(id)
	assert.Equal(t, TierLongTerm, tier)
}

func TestConsolidateLeavesUnqualifiedEntriesAlone(t *testing.T) {
	s := NewTieredStore("agent-1")
	id := s.Store("one-off clarification", TypeContext, 4, nil, nil)

	report := s.Consolidate(context.Background())
	assert.Equal(t, 0, report.Promoted)
	_, tier, _ := s.Get(id)
	assert.Equal(t, TierShortTerm, tier)
}

func TestConsolidateTrimsWorkingOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkingCapacity = 2
	s := NewTieredStore("agent-1", WithConfig(cfg))

	weak := s.Store("small talk", TypeInteraction, 1, nil, nil)
	mid := s.Store("scheduling note", TypeInteraction, 3, nil, nil)
	strong := s.Store("pressing follow-up", TypeInteraction, 5, nil, nil)

	report := s.Consolidate(context.Background())
	assert.Equal(t, 1, report.Trimmed)
	assert.Equal(t, 2, s.TierCount(TierWorking))

	_, _, ok := s.Get(weak)
	assert.False(t, ok)
	_, _, ok = s.Get(mid)
	assert.True(t, ok)
	_, _, ok = s.Get(strong)
	assert.True(t, ok)
}

func TestConsolidateStrengthensCoAccessedEntries(t *testing.T) {
	s := NewTieredStore("agent-1")
	a := s.Store("postgres migration plan", TypeKnowledge, 5, nil, nil)
	b := s.Store("postgres rollback procedure", TypeKnowledge, 5, nil, nil)

	s.RetrieveRelevant("postgres", 2)
	s.Consolidate(context.Background())

	assert.Greater(t, s.Graph().Strength(a, b), 0.0)

	ea, _, _ := s.Get(a)
	eb, _, _ := s.Get(b)
	assert.Contains(t, ea.Associations, b)
	assert.Contains(t, eb.Associations, a)
}

func TestConsolidateDerivesInsightFromRecurringTopic(t *testing.T) {
	s := NewTieredStore("agent-1")
	for i := 0; i < 3; i++ {
		s.AddSnapshot(Snapshot{Conversation: ConversationRecord{Topic: "billing", UserIntent: "inquiry"}})
	}
	s.AddSnapshot(Snapshot{Conversation: ConversationRecord{Topic: "onboarding", UserIntent: "inquiry"}})

	report := s.Consolidate(context.Background())
	assert.Equal(t, 1, report.Insights)

	// Re-running the sweep must not duplicate the same insight.
	report = s.Consolidate(context.Background())
	assert.Equal(t, 0, report.Insights)
}
