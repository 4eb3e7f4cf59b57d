package memory

import (
	"sort"
	"time"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/internal/textutil"
	"github.com/hupe1980/agenthive/logging"

	"sync"
)

// Config tunes capacities, decay windows and consolidation thresholds.
type Config struct {
	// WorkingCapacity bounds the working tier; the sweep trims overflow.
	WorkingCapacity int
	// EpisodicCapacity bounds the snapshot log (FIFO).
	EpisodicCapacity int
	// RecencyWindow is the span over which retrieval recency decays to zero.
	RecencyWindow time.Duration
	// PromotionAge is the minimum age for the age-based promotion rule.
	PromotionAge time.Duration
	// EdgeStrengthFloor is the pruning threshold for knowledge graph edges.
	EdgeStrengthFloor float64
	// InsightWindow is how many recent snapshots the insight pass reads.
	InsightWindow int
}

// DefaultConfig returns the baseline memory configuration.
func DefaultConfig() Config {
	return Config{
		WorkingCapacity:   20,
		EpisodicCapacity:  100,
		RecencyWindow:     24 * time.Hour,
		PromotionAge:      24 * time.Hour,
		EdgeStrengthFloor: 0.2,
		InsightWindow:     10,
	}
}

// Retrieval scoring weights. Cosine similarity dominates, lexical overlap
// and importance follow, recency and access frequency nudge.
const (
	weightSimilarity = 0.4
	weightLexical    = 0.3
	weightImportance = 0.2
	weightRecency    = 0.1
	accessBoostStep  = 0.02
	accessBoostCap   = 0.1
)

// SearchResult pairs an entry with its retrieval score.
type SearchResult struct {
	Entry *Entry
	Score float64
}

// TieredStore is one agent's memory. See the package documentation for the
// tier/routing model.
type TieredStore struct {
	mu         sync.Mutex
	agentID    string
	cfg        Config
	clock      core.Clock
	similarity SimilarityStrategy

	tiers map[Tier]map[string]*Entry

	episodic []Snapshot
	graph    *KnowledgeGraph

	// ids retrieved since the last sweep, in access order; the sweep
	// strengthens associations between them and resets the window.
	coAccessed []string

	*core.LoggerAdapter
}

// Option customizes a TieredStore.
type Option func(*TieredStore)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *TieredStore) { s.cfg = cfg }
}

// WithSimilarity overrides the default hashing similarity strategy.
func WithSimilarity(strategy SimilarityStrategy) Option {
	return func(s *TieredStore) { s.similarity = strategy }
}

// WithClock overrides the system clock, enabling virtual time in tests.
func WithClock(clock core.Clock) Option {
	return func(s *TieredStore) { s.clock = clock }
}

// WithLogger sets the store's logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *TieredStore) { s.LoggerAdapter = core.NewLoggerAdapter(logger) }
}

// NewTieredStore creates an empty store for the given agent.
func NewTieredStore(agentID string, opts ...Option) *TieredStore {
	s := &TieredStore{
		agentID:    agentID,
		cfg:        DefaultConfig(),
		clock:      core.SystemClock(),
		similarity: NewHashingStrategy(64),
		tiers: map[Tier]map[string]*Entry{
			TierWorking:   {},
			TierShortTerm: {},
			TierLongTerm:  {},
		},
		graph:         NewKnowledgeGraph(),
		LoggerAdapter: core.NewLoggerAdapter(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AgentID returns the owning agent's id.
func (s *TieredStore) AgentID() string { return s.agentID }

// routeTier decides the initial tier for an entry. Long-term wins for high
// importance or durable types, short-term for moderate importance or
// context, working memory otherwise.
func routeTier(memType Type, importance int) Tier {
	if importance >= 8 || memType == TypeKnowledge || memType == TypeSkill {
		return TierLongTerm
	}
	if importance >= 6 || memType == TypeContext {
		return TierShortTerm
	}
	return TierWorking
}

// Store inserts a new entry and returns its id. Importance is clamped to
// [1,10] and the entry receives the default confidence of 0.8 plus an
// embedding from the similarity strategy.
func (s *TieredStore) Store(content string, memType Type, importance int, tags []string, metadata map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeLocked(content, memType, importance, tags, metadata)
}

func (s *TieredStore) storeLocked(content string, memType Type, importance int, tags []string, metadata map[string]any) string {
	if importance < 1 {
		importance = 1
	}
	if importance > 10 {
		importance = 10
	}
	now := s.clock.Now()
	entry := &Entry{
		ID:           core.NewID(),
		Content:      content,
		Type:         memType,
		Importance:   importance,
		Confidence:   0.8,
		Tags:         tags,
		Embedding:    s.similarity.Embed(content),
		Metadata:     metadata,
		CreatedAt:    now,
		LastAccessed: now,
	}
	tier := routeTier(memType, importance)
	s.tiers[tier][entry.ID] = entry
	s.graph.AddNode(entry.ID)
	s.LogDebug("memory stored", "agent_id", s.agentID, "memory_id", entry.ID, "tier", string(tier), "type", string(memType))
	return entry.ID
}

// Get returns the entry with the given id and the tier holding it. The
// lookup has no retrieval side effects.
func (s *TieredStore) Get(id string) (*Entry, Tier, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *TieredStore) findLocked(id string) (*Entry, Tier, bool) {
	for _, tier := range []Tier{TierWorking, TierShortTerm, TierLongTerm} {
		if e, ok := s.tiers[tier][id]; ok {
			return e, tier, true
		}
	}
	return nil, "", false
}

// RetrieveRelevant scores every entry against the query and returns the top
// limit results in descending score order. Retrieval is a side effect: each
// returned entry's access count and last-accessed timestamp are updated and
// the entry joins the co-access window for the next consolidation sweep.
func (s *TieredStore) RetrieveRelevant(query string, limit int) []SearchResult {
	if limit <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	queryEmbedding := s.similarity.Embed(query)

	var results []SearchResult
	for _, tier := range []Tier{TierWorking, TierShortTerm, TierLongTerm} {
		for _, e := range s.tiers[tier] {
			results = append(results, SearchResult{Entry: e, Score: s.scoreLocked(e, query, queryEmbedding, now)})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.ID < results[j].Entry.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	for _, r := range results {
		r.Entry.AccessCount++
		r.Entry.LastAccessed = now
		s.coAccessed = append(s.coAccessed, r.Entry.ID)
	}
	return results
}

func (s *TieredStore) scoreLocked(e *Entry, query string, queryEmbedding []float64, now time.Time) float64 {
	score := weightSimilarity * s.similarity.Similarity(queryEmbedding, e.Embedding)
	score += weightLexical * textutil.Overlap(e.Content, query)
	score += weightImportance * float64(e.Importance) / 10.0

	age := now.Sub(e.LastAccessed)
	if age < s.cfg.RecencyWindow {
		score += weightRecency * (1 - float64(age)/float64(s.cfg.RecencyWindow))
	}

	boost := accessBoostStep * float64(e.AccessCount)
	if boost > accessBoostCap {
		boost = accessBoostCap
	}
	return score + boost
}

// Forget removes the entry from whichever tier holds it along with its graph
// node. An absent id is a no-op, not an error.
func (s *TieredStore) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tier := range []Tier{TierWorking, TierShortTerm, TierLongTerm} {
		if _, ok := s.tiers[tier][id]; ok {
			delete(s.tiers[tier], id)
			s.graph.RemoveNode(id)
			return
		}
	}
}

// AddSnapshot appends an episodic snapshot, evicting the oldest when the log
// exceeds its capacity.
func (s *TieredStore) AddSnapshot(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.ID == "" {
		snap.ID = core.NewID()
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = s.clock.Now()
	}
	s.episodic = append(s.episodic, snap)
	if over := len(s.episodic) - s.cfg.EpisodicCapacity; over > 0 {
		s.episodic = s.episodic[over:]
	}
}

// Snapshots returns a copy of the episodic log, oldest first.
func (s *TieredStore) Snapshots() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.episodic))
	copy(out, s.episodic)
	return out
}

// TierCount returns the number of entries in the given tier.
func (s *TieredStore) TierCount(tier Tier) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tiers[tier])
}

// Graph exposes the knowledge graph for inspection. Callers must not mutate
// it concurrently with store operations.
func (s *TieredStore) Graph() *KnowledgeGraph { return s.graph }
