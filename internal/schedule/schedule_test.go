package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerRunsSynchronously(t *testing.T) {
	s := New(nil)
	var runs atomic.Int32
	s.Add(Job{Name: "sweep", Run: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})

	require.NoError(t, s.Trigger(context.Background(), "sweep"))
	require.NoError(t, s.Trigger(context.Background(), "sweep"))
	assert.Equal(t, int32(2), runs.Load())
}

func TestTriggerUnknownJobIsNoOp(t *testing.T) {
	s := New(nil)
	assert.NoError(t, s.Trigger(context.Background(), "missing"))
}

func TestTriggerPropagatesJobError(t *testing.T) {
	s := New(nil)
	boom := errors.New("boom")
	s.Add(Job{Name: "failing", Run: func(ctx context.Context) error { return boom }})
	assert.ErrorIs(t, s.Trigger(context.Background(), "failing"), boom)
}

func TestStartRunsIntervalJobs(t *testing.T) {
	s := New(nil)
	ticks := make(chan struct{}, 16)
	s.Add(Job{Name: "tick", Interval: 5 * time.Millisecond, Run: func(ctx context.Context) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("interval job never ran")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(nil)
	s.Add(Job{Name: "tick", Interval: time.Millisecond, Run: func(ctx context.Context) error { return nil }})
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestZeroIntervalJobOnlyRunsViaTrigger(t *testing.T) {
	s := New(nil)
	var runs atomic.Int32
	s.Add(Job{Name: "manual", Run: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	require.NoError(t, s.Trigger(context.Background(), "manual"))
	assert.Equal(t, int32(1), runs.Load())
}
