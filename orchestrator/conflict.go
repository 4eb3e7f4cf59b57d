package orchestrator

// ConflictType categorizes a dispute between agents.
type ConflictType string

const (
	// ConflictResource is contention over a shared resource.
	ConflictResource ConflictType = "resource"
	// ConflictPriority is disagreement over task ordering.
	ConflictPriority ConflictType = "priority"
	// ConflictDependency is a blocking dependency between agents' work.
	ConflictDependency ConflictType = "dependency"
	// ConflictSkill is a capability gap on assigned work.
	ConflictSkill ConflictType = "skill"
)

// Conflict describes a dispute raised to the orchestrator.
type Conflict struct {
	ID          string       `json:"id"`
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	Parties     []string     `json:"parties,omitempty"`
}

// Resolution is the advisory outcome of conflict resolution. It always
// carries at least one action; nothing here blocks or fails.
type Resolution struct {
	ConflictID string   `json:"conflict_id"`
	Strategy   string   `json:"strategy"`
	Actions    []string `json:"actions"`
}

// conflictStrategies is the fixed dispatch table. Unknown types fall back to
// a collaborative discussion.
var conflictStrategies = map[ConflictType]Resolution{
	ConflictResource: {
		Strategy: "time_shared_access",
		Actions: []string{
			"queue access requests to the contended resource",
			"grant time-boxed exclusive slots in request order",
			"notify waiting agents of their slot",
		},
	},
	ConflictPriority: {
		Strategy: "priority_reassessment",
		Actions: []string{
			"re-rank the disputed tasks against the priority matrix",
			"escalate unresolved ranking to the task owner",
			"publish the final ordering to all parties",
		},
	},
	ConflictDependency: {
		Strategy: "dependency_reordering",
		Actions: []string{
			"map the dependency chain between the disputed tasks",
			"reorder execution so prerequisites complete first",
			"unblock downstream agents as dependencies clear",
		},
	},
	ConflictSkill: {
		Strategy: "capability_pairing",
		Actions: []string{
			"identify an agent with the missing capability",
			"pair it with the assigned agent for the gap",
			"record the gap for future delegation scoring",
		},
	},
}

// ResolveConflict dispatches on the conflict type to a fixed strategy table.
// It always returns a resolution with an action list and never fails; an
// unknown type resolves to a generic collaborative discussion.
func ResolveConflict(c Conflict) Resolution {
	if res, ok := conflictStrategies[c.Type]; ok {
		res.ConflictID = c.ID
		return res
	}
	return Resolution{
		ConflictID: c.ID,
		Strategy:   "collaborative_discussion",
		Actions: []string{
			"open a collaboration session with all parties",
			"collect each party's position",
			"vote on a way forward",
		},
	}
}
