// Package schedule provides a cancellable repeating-task scheduler. Jobs are
// registered with an interval, started under a context and stopped together.
// Tests drive jobs deterministically through Trigger instead of waiting for
// wall-clock ticks.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agenthive/logging"
)

// Job is a named repeating task. Run receives the scheduler's context and
// must return promptly on cancellation. Errors are logged and the job is
// retried on the next tick; they never stop the loop.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler owns a set of repeating jobs. A job with a zero or negative
// interval is registered but only runs via Trigger.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	logger  logging.Logger
}

// New creates a Scheduler. A nil logger is replaced with a NoOpLogger.
func New(logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Scheduler{jobs: map[string]Job{}, logger: logger}
}

// Add registers a job under its name, replacing any previous job with the
// same name. Adding after Start does not launch the job until a restart.
func (s *Scheduler) Add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = job
}

// Start launches one goroutine per job with a positive interval. It is a
// no-op if the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := job.Run(ctx); err != nil {
				s.logger.Warn("scheduled job failed", "job", job.Name, "error", err)
			}
		}
	}
}

// Trigger runs the named job synchronously, independent of its interval.
// Unknown names are a no-op returning nil so tests can probe freely.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return job.Run(ctx)
}

// Stop cancels all job goroutines and waits for them to exit. Stop is
// idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()
	cancel()
	s.wg.Wait()
}
