package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/tool"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func (c *stubClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
}

func fixedSource(name string, trust TrustLevel, freq UpdateFrequency, tools ...*tool.Tool) *Source {
	return &Source{
		Name:      name,
		Trust:     trust,
		Frequency: freq,
		Fetch: func(ctx context.Context) ([]*tool.Tool, error) {
			return tools, nil
		},
	}
}

func TestPollQueuesNewCandidates(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("catalog", TrustVerified, FreqRealTime, completeTool("weather")))

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, 1, p.QueueLen())

	// The same tool is not queued twice.
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, 1, p.QueueLen())
}

func TestPollRespectsSourceFrequency(t *testing.T) {
	registry := tool.NewRegistry(nil)
	clock := newStubClock()
	p := NewPipeline(registry, WithClock(clock))

	fetches := 0
	p.AddSource(&Source{
		Name:      "hourly-feed",
		Trust:     TrustCommunity,
		Frequency: FreqHourly,
		Fetch: func(ctx context.Context) ([]*tool.Tool, error) {
			fetches++
			return nil, nil
		},
	})

	require.NoError(t, p.Poll(context.Background()))
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, 1, fetches)

	clock.advance(61 * time.Minute)
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, 2, fetches)
}

func TestPollSurvivesFailingSource(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(&Source{
		Name:      "broken",
		Trust:     TrustCommunity,
		Frequency: FreqRealTime,
		Fetch: func(ctx context.Context) ([]*tool.Tool, error) {
			return nil, errors.New("connection refused")
		},
	})
	p.AddSource(fixedSource("healthy", TrustVerified, FreqRealTime, completeTool("weather")))

	assert.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, 1, p.QueueLen())
}

func TestProcessQueueAutoRegistersVerifiedCleanTool(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("catalog", TrustVerified, FreqRealTime, completeTool("weather")))

	require.NoError(t, p.Poll(context.Background()))
	report := p.ProcessQueue(context.Background())

	assert.Equal(t, BatchReport{Evaluated: 1, Registered: 1}, report)
	assert.Equal(t, 0, p.QueueLen())
	_, ok := registry.Get("weather")
	assert.True(t, ok)
}

func TestProcessQueueHoldsCommunityTool(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("forum", TrustCommunity, FreqRealTime, completeTool("weather")))

	require.NoError(t, p.Poll(context.Background()))
	report := p.ProcessQueue(context.Background())

	assert.Equal(t, BatchReport{Evaluated: 1, Held: 1}, report)
	_, ok := registry.Get("weather")
	assert.False(t, ok)

	pending := p.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "weather", pending[0].Tool.Name)
}

func TestProcessQueueDiscardsLowScores(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("junk", TrustExperimental, FreqRealTime, &tool.Tool{Name: "broken"}))

	require.NoError(t, p.Poll(context.Background()))
	report := p.ProcessQueue(context.Background())

	assert.Equal(t, BatchReport{Evaluated: 1, Discarded: 1}, report)
	assert.Empty(t, p.Pending())
}

func TestApproveHeldCandidate(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("forum", TrustCommunity, FreqRealTime, completeTool("weather")))
	require.NoError(t, p.Poll(context.Background()))
	p.ProcessQueue(context.Background())

	require.NoError(t, p.Approve("weather"))
	_, ok := registry.Get("weather")
	assert.True(t, ok)

	// Approving again is a no-op success.
	assert.NoError(t, p.Approve("weather"))

	assert.ErrorIs(t, p.Approve("never-seen"), core.ErrNotFound)
}

func TestRejectHeldCandidate(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("forum", TrustCommunity, FreqRealTime, completeTool("weather")))
	require.NoError(t, p.Poll(context.Background()))
	p.ProcessQueue(context.Background())

	require.NoError(t, p.Reject("weather"))
	assert.Empty(t, p.Pending())
	_, ok := registry.Get("weather")
	assert.False(t, ok)

	assert.NoError(t, p.Reject("weather"))
	assert.ErrorIs(t, p.Reject("never-seen"), core.ErrNotFound)

	// A rejected tool is not re-queued on the next poll.
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, 0, p.QueueLen())
}

func TestProcessQueueCancelledContextRequeues(t *testing.T) {
	registry := tool.NewRegistry(nil)
	p := NewPipeline(registry)
	p.AddSource(fixedSource("catalog", TrustVerified, FreqRealTime, completeTool("weather")))
	require.NoError(t, p.Poll(context.Background()))
	require.Equal(t, 1, p.QueueLen())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := p.ProcessQueue(ctx)
	assert.Equal(t, 0, report.Evaluated)
	assert.Equal(t, 1, p.QueueLen())
	_, ok := registry.Get("weather")
	assert.False(t, ok)

	// The requeued candidate is decided on the next batch.
	report = p.ProcessQueue(context.Background())
	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, report.Registered)
	assert.Equal(t, 0, p.QueueLen())
}
