package memory

import "time"

// Type categorizes what a memory entry represents. Knowledge and skill
// entries are durable by nature and route straight to long-term storage.
type Type string

const (
	// TypeInteraction records a single conversational exchange.
	TypeInteraction Type = "interaction"
	// TypeKnowledge records a durable fact.
	TypeKnowledge Type = "knowledge"
	// TypeSkill records a learned procedure or capability.
	TypeSkill Type = "skill"
	// TypePreference records a user or agent preference.
	TypePreference Type = "preference"
	// TypeContext records situational context for the current work.
	TypeContext Type = "context"
	// TypeInsight records a derived observation produced by consolidation.
	TypeInsight Type = "insight"
)

// Tier names one of the retrievable memory tiers. An entry lives in exactly
// one tier at a time.
type Tier string

const (
	// TierWorking holds transient, capacity-bounded context.
	TierWorking Tier = "working"
	// TierShortTerm holds recent entries awaiting promotion or decay.
	TierShortTerm Tier = "short_term"
	// TierLongTerm holds durable entries.
	TierLongTerm Tier = "long_term"
)

// Entry is a single retrievable memory. Importance is clamped to [1,10],
// Confidence to [0,1]. Associations hold ids of related entries and are kept
// bidirectional by the consolidation sweep.
type Entry struct {
	ID           string         `json:"id"`
	Content      string         `json:"content"`
	Type         Type           `json:"type"`
	Importance   int            `json:"importance"`
	Confidence   float64        `json:"confidence"`
	Tags         []string       `json:"tags,omitempty"`
	Associations []string       `json:"associations,omitempty"`
	AccessCount  int            `json:"access_count"`
	Embedding    []float64      `json:"-"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed time.Time      `json:"last_accessed"`
}

func (e *Entry) associateWith(id string) {
	for _, a := range e.Associations {
		if a == id {
			return
		}
	}
	e.Associations = append(e.Associations, id)
}

// ConversationRecord is the conversational slice of a snapshot.
type ConversationRecord struct {
	Topic      string `json:"topic"`
	UserIntent string `json:"user_intent"`
	Phase      string `json:"phase"`
	Summary    string `json:"summary,omitempty"`
}

// BusinessRecord is the workload slice of a snapshot.
type BusinessRecord struct {
	ActiveGoals  []string `json:"active_goals,omitempty"`
	PendingTasks int      `json:"pending_tasks"`
}

// PerformanceRecord is the delivery slice of a snapshot.
type PerformanceRecord struct {
	ResponseTime time.Duration `json:"response_time"`
	Confidence   float64       `json:"confidence"`
	ToolsUsed    []string      `json:"tools_used,omitempty"`
}

// Snapshot is an episodic context capture. Snapshots are append-only and the
// store keeps at most its configured capacity, dropping the oldest first.
type Snapshot struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Conversation ConversationRecord `json:"conversation"`
	Business     BusinessRecord     `json:"business"`
	Performance  PerformanceRecord  `json:"performance"`
}
