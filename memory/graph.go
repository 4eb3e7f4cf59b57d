package memory

import "sort"

// edgeKey orders the two node ids so an undirected edge has one key.
type edgeKey struct{ a, b string }

func newEdgeKey(a, b string) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// KnowledgeGraph is a lightweight undirected graph over memory entry ids.
// Edge strength grows when entries are co-accessed and weak edges are pruned
// during consolidation. The graph is not safe for concurrent use on its own;
// the owning TieredStore serializes access.
type KnowledgeGraph struct {
	nodes map[string]struct{}
	edges map[edgeKey]float64
}

// NewKnowledgeGraph creates an empty graph.
func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{nodes: map[string]struct{}{}, edges: map[edgeKey]float64{}}
}

// AddNode registers an entry id. Adding an existing node is a no-op.
func (g *KnowledgeGraph) AddNode(id string) { g.nodes[id] = struct{}{} }

// RemoveNode drops a node and every edge touching it.
func (g *KnowledgeGraph) RemoveNode(id string) {
	delete(g.nodes, id)
	for k := range g.edges {
		if k.a == id || k.b == id {
			delete(g.edges, k)
		}
	}
}

// Strengthen raises the edge between a and b by delta, creating it at delta
// if absent and capping strength at 1.0. Self edges are ignored.
func (g *KnowledgeGraph) Strengthen(a, b string, delta float64) {
	if a == b {
		return
	}
	g.AddNode(a)
	g.AddNode(b)
	k := newEdgeKey(a, b)
	s := g.edges[k] + delta
	if s > 1.0 {
		s = 1.0
	}
	g.edges[k] = s
}

// Strength returns the current strength of the edge between a and b, or 0.
func (g *KnowledgeGraph) Strength(a, b string) float64 {
	return g.edges[newEdgeKey(a, b)]
}

// Neighbors returns ids connected to id sorted by descending edge strength,
// ties broken by id for determinism.
func (g *KnowledgeGraph) Neighbors(id string) []string {
	type neighbor struct {
		id       string
		strength float64
	}
	var out []neighbor
	for k, s := range g.edges {
		switch id {
		case k.a:
			out = append(out, neighbor{id: k.b, strength: s})
		case k.b:
			out = append(out, neighbor{id: k.a, strength: s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].strength != out[j].strength {
			return out[i].strength > out[j].strength
		}
		return out[i].id < out[j].id
	})
	ids := make([]string, len(out))
	for i, n := range out {
		ids[i] = n.id
	}
	return ids
}

// Prune removes every edge with strength below floor and returns how many
// were removed. Nodes are kept; an isolated node is harmless.
func (g *KnowledgeGraph) Prune(floor float64) int {
	removed := 0
	for k, s := range g.edges {
		if s < floor {
			delete(g.edges, k)
			removed++
		}
	}
	return removed
}

// EdgeCount returns the number of edges currently held.
func (g *KnowledgeGraph) EdgeCount() int { return len(g.edges) }
