package memory

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// associationDelta is how much a co-access strengthens a graph edge per sweep.
const associationDelta = 0.1

// ConsolidationReport summarizes one sweep for logging and tests.
type ConsolidationReport struct {
	Promoted    int `json:"promoted"`
	Trimmed     int `json:"trimmed"`
	PrunedEdges int `json:"pruned_edges"`
	Insights    int `json:"insights"`
}

// Consolidate runs one sweep: promote short-term entries meeting the
// promotion rule to long-term, trim working memory overflow, strengthen
// associations between co-accessed entries, prune weak graph edges and
// derive insight entries from the recent episodic window. The sweep holds
// the store lock for its whole duration so it never races foreground calls.
func (s *TieredStore) Consolidate(ctx context.Context) ConsolidationReport {
	_, span := otel.Tracer("agenthive/memory").Start(ctx, "memory.consolidate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var report ConsolidationReport
	report.Promoted = s.promoteLocked()
	report.Trimmed = s.trimWorkingLocked()
	s.strengthenLocked()
	report.PrunedEdges = s.graph.Prune(s.cfg.EdgeStrengthFloor)
	report.Insights = s.deriveInsightsLocked()

	span.SetAttributes(
		attribute.String("agent_id", s.agentID),
		attribute.Int("promoted", report.Promoted),
		attribute.Int("trimmed", report.Trimmed),
		attribute.Int("insights", report.Insights),
	)
	s.LogDebug("consolidation sweep", "agent_id", s.agentID,
		"promoted", report.Promoted, "trimmed", report.Trimmed,
		"pruned_edges", report.PrunedEdges, "insights", report.Insights)
	return report
}

// promoteLocked moves qualifying short-term entries to long-term, bumping
// importance by one (capped at 10). Promotion fires on high importance,
// frequent access, or age combined with at least one access.
func (s *TieredStore) promoteLocked() int {
	now := s.clock.Now()
	promoted := 0
	for id, e := range s.tiers[TierShortTerm] {
		aged := now.Sub(e.CreatedAt) >= s.cfg.PromotionAge && e.AccessCount >= 1
		if e.Importance >= 7 || e.AccessCount >= 3 || aged {
			delete(s.tiers[TierShortTerm], id)
			if e.Importance < 10 {
				e.Importance++
			}
			s.tiers[TierLongTerm][id] = e
			promoted++
		}
	}
	return promoted
}

// trimWorkingLocked evicts working-memory overflow, keeping the entries with
// the highest retention value 0.6*importance + 0.4*accessCount.
func (s *TieredStore) trimWorkingLocked() int {
	working := s.tiers[TierWorking]
	over := len(working) - s.cfg.WorkingCapacity
	if over <= 0 {
		return 0
	}
	type ranked struct {
		id    string
		value float64
	}
	entries := make([]ranked, 0, len(working))
	for id, e := range working {
		entries = append(entries, ranked{id: id, value: 0.6*float64(e.Importance) + 0.4*float64(e.AccessCount)})
	}
	// Weakest first; ties broken by id so eviction is deterministic.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			a, b := entries[j], entries[j-1]
			if a.value < b.value || (a.value == b.value && a.id < b.id) {
				entries[j], entries[j-1] = b, a
			} else {
				break
			}
		}
	}
	for i := 0; i < over; i++ {
		delete(working, entries[i].id)
		s.graph.RemoveNode(entries[i].id)
	}
	return over
}

// strengthenLocked records bidirectional associations between entries that
// were retrieved together since the last sweep, then resets the window.
func (s *TieredStore) strengthenLocked() {
	for i := 0; i < len(s.coAccessed); i++ {
		for j := i + 1; j < len(s.coAccessed); j++ {
			a, b := s.coAccessed[i], s.coAccessed[j]
			if a == b {
				continue
			}
			ea, _, okA := s.findLocked(a)
			eb, _, okB := s.findLocked(b)
			if !okA || !okB {
				continue
			}
			s.graph.Strengthen(a, b, associationDelta)
			ea.associateWith(b)
			eb.associateWith(a)
		}
	}
	s.coAccessed = s.coAccessed[:0]
}

// deriveInsightsLocked reads only the recent episodic window (never the
// retrievable tiers, which would feed derived entries back into themselves)
// and stores an insight entry per topic that recurs in it.
func (s *TieredStore) deriveInsightsLocked() int {
	window := s.episodic
	if len(window) > s.cfg.InsightWindow {
		window = window[len(window)-s.cfg.InsightWindow:]
	}
	if len(window) < 2 {
		return 0
	}

	topicCounts := map[string]int{}
	intentByTopic := map[string]string{}
	for _, snap := range window {
		topic := snap.Conversation.Topic
		if topic == "" {
			continue
		}
		topicCounts[topic]++
		intentByTopic[topic] = snap.Conversation.UserIntent
	}

	insights := 0
	for topic, count := range topicCounts {
		if count < 2 {
			continue
		}
		content := fmt.Sprintf("recurring focus on %q across %d recent interactions (intent: %s)", topic, count, intentByTopic[topic])
		if s.hasInsightLocked(content) {
			continue
		}
		importance := 6 + count
		if importance > 10 {
			importance = 10
		}
		s.storeLocked(content, TypeInsight, importance, []string{"insight", topic}, nil)
		insights++
	}
	return insights
}

func (s *TieredStore) hasInsightLocked(content string) bool {
	for _, tier := range []Tier{TierWorking, TierShortTerm, TierLongTerm} {
		for _, e := range s.tiers[tier] {
			if e.Type == TypeInsight && e.Content == content {
				return true
			}
		}
	}
	return false
}
