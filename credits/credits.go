// Package credits defines the usage accounting boundary consumed by task
// execution: reserve a cost before work, record usage after. The in-memory
// ledger keeps the core self-contained; production deployments supply a
// billing-backed implementation.
package credits

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agenthive/core"
)

// UsageEntry is one fire-and-forget usage record.
type UsageEntry struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	AgentID   string            `json:"agent_id"`
	Kind      string            `json:"kind"` // "generation", "tool", "task"
	Cost      float64           `json:"cost"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Service is the credits/usage boundary. Reserve fails with
// core.ErrInsufficientCredits when the balance cannot cover the cost;
// RecordUsage appends and never fails.
type Service interface {
	Reserve(userID string, cost float64) error
	RecordUsage(entry UsageEntry)
}

// MemoryLedger is an in-memory Service. Users without an explicit balance
// are treated as unlimited so the core runs without billing configuration.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]float64
	usage    []UsageEntry
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: map[string]float64{}}
}

// SetBalance fixes a user's balance, enabling enforcement for that user.
func (l *MemoryLedger) SetBalance(userID string, balance float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = balance
}

// Balance returns the user's remaining balance and whether one is tracked.
func (l *MemoryLedger) Balance(userID string) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.balances[userID]
	return b, ok
}

// Reserve deducts cost from the user's balance. Untracked users always
// succeed.
func (l *MemoryLedger) Reserve(userID string, cost float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, tracked := l.balances[userID]
	if !tracked {
		return nil
	}
	if balance < cost {
		return fmt.Errorf("reserve %.2f for %q: %w", cost, userID, core.ErrInsufficientCredits)
	}
	l.balances[userID] = balance - cost
	return nil
}

// RecordUsage appends a usage entry, assigning id and timestamp if unset.
func (l *MemoryLedger) RecordUsage(entry UsageEntry) {
	if entry.ID == "" {
		entry.ID = core.NewID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.usage = append(l.usage, entry)
}

// Usage returns a copy of all recorded usage entries, oldest first.
func (l *MemoryLedger) Usage() []UsageEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]UsageEntry, len(l.usage))
	copy(out, l.usage)
	return out
}
