package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClock is a fixed, manually advanced clock.
type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func (c *stubClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func TestRouteTier(t *testing.T) {
	tests := []struct {
		name       string
		memType    Type
		importance int
		expected   Tier
	}{
		{name: "high importance", memType: TypeInteraction, importance: 8, expected: TierLongTerm},
		{name: "knowledge always durable", memType: TypeKnowledge, importance: 2, expected: TierLongTerm},
		{name: "skill always durable", memType: TypeSkill, importance: 1, expected: TierLongTerm},
		{name: "moderate importance", memType: TypeInteraction, importance: 6, expected: TierShortTerm},
		{name: "context is short term", memType: TypeContext, importance: 2, expected: TierShortTerm},
		{name: "low importance interaction", memType: TypeInteraction, importance: 3, expected: TierWorking},
		{name: "preference low", memType: TypePreference, importance: 4, expected: TierWorking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeTier(tt.memType, tt.importance))
		})
	}
}

func TestStoreRoutesHighImportanceKnowledgeToLongTerm(t *testing.T) {
	s := NewTieredStore("agent-1")
	for i := 0; i < 5; i++ {
		s.Store("fact", TypeKnowledge, 9, nil, nil)
	}
	assert.Equal(t, 5, s.TierCount(TierLongTerm))
	assert.Equal(t, 0, s.TierCount(TierShortTerm))
	assert.Equal(t, 0, s.TierCount(TierWorking))
}

func TestStoreClampsImportanceAndSetsDefaults(t *testing.T) {
	s := NewTieredStore("agent-1")
	id := s.Store("over the top", TypeInteraction, 42, nil, nil)
	e, tier, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, TierLongTerm, tier)
	assert.Equal(t, 10, e.Importance)
	assert.Equal(t, 0.8, e.Confidence)
	assert.NotEmpty(t, e.Embedding)

	id = s.Store("below the floor", TypeInteraction, -3, nil, nil)
	e, _, ok = s.Get(id)
	require.True(t, ok)
	assert.Equal(t, 1, e.Importance)
}

func TestRetrieveRelevantRanksSelfMatchFirst(t *testing.T) {
	s := NewTieredStore("agent-1")
	target := s.Store("golang concurrency patterns with channels", TypeKnowledge, 5, nil, nil)
	s.Store("lunch preferences for the team", TypeInteraction, 5, nil, nil)
	s.Store("quarterly budget review notes", TypeInteraction, 5, nil, nil)

	results := s.RetrieveRelevant("golang concurrency patterns with channels", 3)
	require.NotEmpty(t, results)
	assert.Equal(t, target, results[0].Entry.ID)
	assert.Equal(t, 1, results[0].Entry.AccessCount)
}

func TestRetrieveRelevantHonorsLimit(t *testing.T) {
	s := NewTieredStore("agent-1")
	for i := 0; i < 10; i++ {
		s.Store("note about deployments", TypeInteraction, 3, nil, nil)
	}
	assert.Len(t, s.RetrieveRelevant("deployments", 4), 4)
	assert.Nil(t, s.RetrieveRelevant("deployments", 0))
}

func TestForgetAbsentIDIsNoOp(t *testing.T) {
	s := NewTieredStore("agent-1")
	id := s.Store("to be removed", TypeInteraction, 3, nil, nil)

	s.Forget("does-not-exist")
	assert.Equal(t, 1, s.TierCount(TierWorking))

	s.Forget(id)
	assert.Equal(t, 0, s.TierCount(TierWorking))
	_, _, ok := s.Get(id)
	assert.False(t, ok)
}

func TestSnapshotLogIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EpisodicCapacity = 3
	s := NewTieredStore("agent-1", WithConfig(cfg))

	for i := 0; i < 5; i++ {
		s.AddSnapshot(Snapshot{Conversation: ConversationRecord{Topic: "t", Summary: string(rune('a' + i))}})
	}
	snaps := s.Snapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, "c", snaps[0].Conversation.Summary)
	assert.Equal(t, "e", snaps[2].Conversation.Summary)
	assert.NotEmpty(t, snaps[0].ID)
}

func TestRecencyAffectsScore(t *testing.T) {
	clock := newStubClock()
	s := NewTieredStore("agent-1", WithClock(clock))

	stale := s.Store("release checklist review", TypeInteraction, 5, nil, nil)
	clock.advance(48 * time.Hour)
	fresh := s.Store("release checklist review", TypeInteraction, 5, nil, nil)

	results := s.RetrieveRelevant("release checklist review", 2)
	require.Len(t, results, 2)
	assert.Equal(t, fresh, results[0].Entry.ID)
	assert.Equal(t, stale, results[1].Entry.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}
