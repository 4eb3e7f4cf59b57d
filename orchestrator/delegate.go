package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/internal/textutil"
)

// Delegation scoring weights: capability tag hits dominate, historical
// success rate helps, slow average response time penalizes.
const (
	capabilityMatchWeight = 3.0
	descriptionWeight     = 1.0
	successRateWeight     = 2.0
	responseTimeScale     = 10 * time.Second
)

// scoredAgent pairs a candidate with its score and current workload for
// deterministic tie-breaking.
type scoredAgent struct {
	id       string
	score    float64
	workload int
}

// delegationScore computes the fit of one agent for a task description.
func delegationScore(profile *core.AgentProfile, description string) float64 {
	score := 0.0
	for _, tag := range profile.Capabilities {
		if textutil.ContainsFold(description, tag) {
			score += capabilityMatchWeight
		}
	}
	score += descriptionWeight * textutil.Overlap(description, profile.Description)
	score += successRateWeight * profile.Metrics.SuccessRate
	score -= float64(profile.Metrics.AvgResponseTime) / float64(responseTimeScale)
	return score
}

// Delegate selects the best-fit active agent for the task and assigns it.
// Ties are broken by lowest current workload, then by agent id ordering.
// It fails with core.ErrNoSuitableAgent when no active agents exist or every
// score is non-positive; the task then stays pending.
func (o *Orchestrator) Delegate(ctx context.Context, task *core.Task) (string, error) {
	_, span := o.tracer.Start(ctx, "orchestrator.delegate")
	defer span.End()

	o.mu.RLock()
	candidates := make([]scoredAgent, 0, len(o.agents))
	for id, rt := range o.agents {
		if !rt.profile.Active {
			continue
		}
		candidates = append(candidates, scoredAgent{
			id:       id,
			score:    delegationScore(rt.profile, task.Description),
			workload: rt.workload,
		})
	}
	o.mu.RUnlock()

	if len(candidates) == 0 {
		return "", fmt.Errorf("delegate task %q: %w", task.ID, core.ErrNoSuitableAgent)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.workload != b.workload {
			return a.workload < b.workload
		}
		return a.id < b.id
	})
	best := candidates[0]
	if best.score <= 0 {
		return "", fmt.Errorf("delegate task %q: %w", task.ID, core.ErrNoSuitableAgent)
	}

	o.mu.Lock()
	rt, ok := o.agents[best.id]
	if !ok || !rt.profile.Active {
		o.mu.Unlock()
		return "", fmt.Errorf("delegate task %q: %w", task.ID, core.ErrNoSuitableAgent)
	}
	task.AssignedTo = best.id
	task.Transition(core.TaskInProgress)
	rt.workload++
	o.mu.Unlock()

	span.SetAttributes(
		attribute.String("task_id", task.ID),
		attribute.String("assigned_to", best.id),
		attribute.Float64("score", best.score),
	)
	o.LogInfo("task delegated", "task_id", task.ID, "agent_id", best.id, "score", best.score, "candidates", len(candidates))

	msg := core.NewMessage(core.MessageTaskAssignment, "orchestrator", best.id, task.Description)
	msg.Priority = task.Priority
	msg.Payload = map[string]any{"task_id": task.ID}
	if err := o.channel.Send(msg); err != nil {
		o.LogWarn("assignment notification failed", "task_id", task.ID, "error", err)
	}
	return best.id, nil
}

// BalanceWorkload distributes new tasks across agents by current load: the
// agents are ordered by ascending load (ties by id) and tasks are assigned
// round-robin starting from the least loaded. The split is max-min fair for
// homogeneous tasks and deliberately not priority-aware.
func BalanceWorkload(loads map[string]int, tasks []*core.Task) map[string][]*core.Task {
	if len(loads) == 0 {
		return map[string][]*core.Task{}
	}
	ids := make([]string, 0, len(loads))
	for id := range loads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if loads[ids[i]] != loads[ids[j]] {
			return loads[ids[i]] < loads[ids[j]]
		}
		return ids[i] < ids[j]
	})
	out := make(map[string][]*core.Task, len(ids))
	for i, task := range tasks {
		id := ids[i%len(ids)]
		out[id] = append(out[id], task)
	}
	return out
}
