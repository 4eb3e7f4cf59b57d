package discovery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/logging"
	"github.com/hupe1980/agenthive/tool"
)

// Batch decision thresholds.
const (
	autoRegisterScore = 80
	holdScore         = 60
)

// BatchReport summarizes one evaluation batch.
type BatchReport struct {
	Evaluated  int `json:"evaluated"`
	Registered int `json:"registered"`
	Held       int `json:"held"`
	Discarded  int `json:"discarded"`
}

// Pipeline polls discovery sources, evaluates candidates and feeds the tool
// registry. It is safe for concurrent use; the poll and batch entry points
// are designed to run as scheduled background jobs.
type Pipeline struct {
	mu         sync.Mutex
	registry   *tool.Registry
	clock      core.Clock
	sources    map[string]*Source
	lastPolled map[string]time.Time
	queue      []*Candidate
	held       map[string]*Candidate
	approved   map[string]struct{}
	rejected   map[string]struct{}

	*core.LoggerAdapter
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock overrides the system clock for deterministic poll cadence tests.
func WithClock(clock core.Clock) PipelineOption {
	return func(p *Pipeline) { p.clock = clock }
}

// WithLogger sets the pipeline's logger.
func WithLogger(logger logging.Logger) PipelineOption {
	return func(p *Pipeline) { p.LoggerAdapter = core.NewLoggerAdapter(logger) }
}

// NewPipeline creates a Pipeline feeding the given registry.
func NewPipeline(registry *tool.Registry, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		registry:      registry,
		clock:         core.SystemClock(),
		sources:       map[string]*Source{},
		lastPolled:    map[string]time.Time{},
		held:          map[string]*Candidate{},
		approved:      map[string]struct{}{},
		rejected:      map[string]struct{}{},
		LoggerAdapter: core.NewLoggerAdapter(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddSource registers a source, replacing any previous source with the same
// name. The new source is due immediately.
func (p *Pipeline) AddSource(src *Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[src.Name] = src
	delete(p.lastPolled, src.Name)
}

// Poll fetches candidates from every source whose poll interval has elapsed.
// Fetched tools already registered, queued, held or previously decided are
// skipped. A failing source is logged and retried on its next cycle; Poll
// always returns nil.
func (p *Pipeline) Poll(ctx context.Context) error {
	p.mu.Lock()
	due := make([]*Source, 0, len(p.sources))
	now := p.clock.Now()
	for name, src := range p.sources {
		last, polled := p.lastPolled[name]
		if !polled || now.Sub(last) >= src.Frequency.Interval() {
			due = append(due, src)
		}
	}
	p.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].Name < due[j].Name })

	for _, src := range due {
		tools, err := src.Fetch(ctx)
		p.mu.Lock()
		p.lastPolled[src.Name] = now
		if err != nil {
			p.mu.Unlock()
			p.LogWarn("discovery source failed", "source", src.Name, "error", err)
			continue
		}
		for _, t := range tools {
			if p.knownLocked(t.Name) {
				continue
			}
			p.queue = append(p.queue, &Candidate{
				Tool:         t,
				Source:       src.Name,
				Trust:        src.Trust,
				DiscoveredAt: now,
			})
		}
		p.mu.Unlock()
		p.LogDebug("discovery source polled", "source", src.Name, "candidates", len(tools))
	}
	return nil
}

func (p *Pipeline) knownLocked(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := p.registry.Get(name); ok {
		return true
	}
	if _, ok := p.held[name]; ok {
		return true
	}
	if _, ok := p.approved[name]; ok {
		return true
	}
	if _, ok := p.rejected[name]; ok {
		return true
	}
	for _, c := range p.queue {
		if c.Tool.Name == name {
			return true
		}
	}
	return false
}

// ProcessQueue evaluates all queued candidates and decides each in one
// score-descending batch: a verified candidate scoring at least 80
// auto-registers, scores in [60,80) (and high scores without verified trust)
// are held for manual approval, everything below 60 is discarded. When ctx is
// cancelled mid-batch the undecided candidates are requeued for the next
// batch; otherwise the queue is empty when ProcessQueue returns.
func (p *Pipeline) ProcessQueue(ctx context.Context) BatchReport {
	p.mu.Lock()
	batch := p.queue
	p.queue = nil
	p.mu.Unlock()

	var report BatchReport
	for _, c := range batch {
		Evaluate(c)
	}
	sort.Slice(batch, func(i, j int) bool {
		if batch[i].Score != batch[j].Score {
			return batch[i].Score > batch[j].Score
		}
		return batch[i].Tool.Name < batch[j].Tool.Name
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, c := range batch {
		if ctx.Err() != nil {
			p.queue = append(batch[i:], p.queue...)
			p.LogWarn("discovery batch interrupted", "decided", i, "requeued", len(batch)-i)
			break
		}
		report.Evaluated++
		switch {
		case c.Score >= autoRegisterScore && c.Trust == TrustVerified:
			p.registry.Register(c.Tool)
			p.approved[c.Tool.Name] = struct{}{}
			report.Registered++
		case c.Score >= holdScore:
			p.held[c.Tool.Name] = c
			report.Held++
		default:
			p.rejected[c.Tool.Name] = struct{}{}
			report.Discarded++
		}
	}
	p.LogInfo("discovery batch processed", "evaluated", report.Evaluated,
		"registered", report.Registered, "held", report.Held, "discarded", report.Discarded)
	return report
}

// Pending returns held candidates awaiting a manual decision, sorted by
// descending score.
func (p *Pipeline) Pending() []*Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Candidate, 0, len(p.held))
	for _, c := range p.held {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Tool.Name < out[j].Tool.Name
	})
	return out
}

// Approve promotes a held candidate into the registry. Approving an already
// approved name is a no-op success; an unknown name returns a NotFound
// failure.
func (p *Pipeline) Approve(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.held[name]; ok {
		delete(p.held, name)
		p.approved[name] = struct{}{}
		p.registry.Register(c.Tool)
		p.LogInfo("discovered tool approved", "tool", name)
		return nil
	}
	if _, ok := p.approved[name]; ok {
		return nil
	}
	return fmt.Errorf("approve %q: %w", name, core.ErrNotFound)
}

// Reject discards a held candidate. Rejecting an already rejected name is a
// no-op success; an unknown name returns a NotFound failure.
func (p *Pipeline) Reject(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.held[name]; ok {
		delete(p.held, name)
		p.rejected[name] = struct{}{}
		p.LogInfo("discovered tool rejected", "tool", name)
		return nil
	}
	if _, ok := p.rejected[name]; ok {
		return nil
	}
	return fmt.Errorf("reject %q: %w", name, core.ErrNotFound)
}

// QueueLen returns the number of candidates awaiting the next batch.
func (p *Pipeline) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}
