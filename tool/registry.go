package tool

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/internal/textutil"
	"github.com/hupe1980/agenthive/logging"
)

// DefaultExecTimeout bounds a tool call when the caller passes no timeout.
const DefaultExecTimeout = 10 * time.Second

// Registry is a flat name-keyed catalog of tools with a category index.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]*Tool
	byCategory map[string]map[string]struct{}

	*core.LoggerAdapter
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		tools:         map[string]*Tool{},
		byCategory:    map[string]map[string]struct{}{},
		LoggerAdapter: core.NewLoggerAdapter(logger),
	}
}

// Register adds a tool under its name. An existing name is overwritten and
// logged as a warning; whether overwrite should be an error remains a
// product decision.
func (r *Registry) Register(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.tools[t.Name]; ok {
		r.LogWarn("tool name collision, overwriting", "tool", t.Name, "previous_category", prev.Category)
		r.removeFromCategoryLocked(prev)
	}
	r.tools[t.Name] = t
	if t.Category != "" {
		if r.byCategory[t.Category] == nil {
			r.byCategory[t.Category] = map[string]struct{}{}
		}
		r.byCategory[t.Category][t.Name] = struct{}{}
	}
}

func (r *Registry) removeFromCategoryLocked(t *Tool) {
	if set, ok := r.byCategory[t.Category]; ok {
		delete(set, t.Name)
		if len(set) == 0 {
			delete(r.byCategory, t.Category)
		}
	}
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Remove deletes a tool by name. Removing an absent name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tools[name]; ok {
		r.removeFromCategoryLocked(t)
		delete(r.tools, name)
	}
}

// List returns all tools sorted by name.
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListByCategory returns the tools in a category sorted by name.
func (r *Registry) ListByCategory(category string) []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names, ok := r.byCategory[category]
	if !ok {
		return nil
	}
	out := make([]*Tool, 0, len(names))
	for name := range names {
		out = append(out, r.tools[name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search returns tools whose name, description or category overlaps the
// query, best match first. Used by the flow to build its tool shortlist.
func (r *Registry) Search(query string) []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type match struct {
		tool  *Tool
		score float64
	}
	var matches []match
	for _, t := range r.tools {
		score := textutil.Overlap(t.Name+" "+t.Description+" "+t.Category, query)
		if textutil.ContainsFold(query, t.Category) {
			score += 0.5
		}
		if score > 0 {
			matches = append(matches, match{tool: t, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].tool.Name < matches[j].tool.Name
	})
	out := make([]*Tool, len(matches))
	for i, m := range matches {
		out[i] = m.tool
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute validates args and runs the named tool under a timeout. A missing
// tool, failed validation, execution error or timeout all come back as a
// failed Result carrying a *ToolError; Execute itself never panics and never
// hangs past the timeout.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, timeout time.Duration) Result {
	start := time.Now()
	t, ok := r.Get(name)
	if !ok {
		return Result{Tool: name, Err: NewToolError(name, "tool not registered", CodeNotFound)}
	}
	if err := t.Parameters.Validate(args); err != nil {
		r.LogWarn("tool argument validation failed", "tool", name, "error", err)
		return Result{Tool: name, Err: &ToolError{Tool: name, Message: err.Error(), Code: CodeValidation, Details: err}}
	}
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := t.Execute(ctx, args)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		r.LogWarn("tool execution timed out", "tool", name, "timeout", timeout)
		return Result{
			Tool:    name,
			Err:     NewToolError(name, ctx.Err().Error(), CodeTimeout),
			Elapsed: time.Since(start).Milliseconds(),
		}
	case out := <-done:
		res := Result{Tool: name, Output: out.value, Elapsed: time.Since(start).Milliseconds()}
		if out.err != nil {
			if toolErr, ok := out.err.(*ToolError); ok {
				res.Err = toolErr
			} else {
				res.Err = NewToolError(name, out.err.Error(), CodeExecution)
			}
			r.LogWarn("tool execution failed", "tool", name, "error", res.Err)
		}
		return res
	}
}
