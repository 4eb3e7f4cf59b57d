package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthive/core"
)

func TestUntrackedUserIsUnlimited(t *testing.T) {
	l := NewMemoryLedger()
	assert.NoError(t, l.Reserve("anyone", 1_000_000))
	_, tracked := l.Balance("anyone")
	assert.False(t, tracked)
}

func TestReserveDeductsBalance(t *testing.T) {
	l := NewMemoryLedger()
	l.SetBalance("u-1", 5)

	require.NoError(t, l.Reserve("u-1", 3))
	balance, tracked := l.Balance("u-1")
	require.True(t, tracked)
	assert.Equal(t, 2.0, balance)

	err := l.Reserve("u-1", 3)
	assert.ErrorIs(t, err, core.ErrInsufficientCredits)

	balance, _ = l.Balance("u-1")
	assert.Equal(t, 2.0, balance)
}

func TestRecordUsageFillsDefaults(t *testing.T) {
	l := NewMemoryLedger()
	l.RecordUsage(UsageEntry{UserID: "u-1", AgentID: "a-1", Kind: "task", Cost: 1})
	l.RecordUsage(UsageEntry{ID: "fixed", UserID: "u-1", Kind: "tool"})

	usage := l.Usage()
	require.Len(t, usage, 2)
	assert.NotEmpty(t, usage[0].ID)
	assert.False(t, usage[0].Timestamp.IsZero())
	assert.Equal(t, "fixed", usage[1].ID)
}
