package orchestrator

import (
	"sync"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/flow"
	"github.com/hupe1980/agenthive/memory"
)

// agentRuntime bundles one agent's profile, conversation flow and memory
// store. Its mutex serializes foreground turns with background consolidation
// sweeps for this agent only; workload and the profile's mutable fields
// (Active, Metrics) are guarded by the orchestrator's lock instead, because
// delegation reads them across all agents at once.
type agentRuntime struct {
	mu      sync.Mutex
	profile *core.AgentProfile
	flow    *flow.Flow
	memory  *memory.TieredStore

	workload int
}
