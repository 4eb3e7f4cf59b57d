// Package memory implements the per-agent tiered memory store: working,
// short-term and long-term tiers for retrievable entries, an append-only
// FIFO-bounded episodic snapshot log, and a lightweight knowledge graph
// linking co-accessed entries.
//
// Routing places a new entry into exactly one tier based on importance and
// type. Retrieval scores candidates with a pluggable similarity strategy
// blended with lexical overlap, importance, recency and access frequency.
// A periodic consolidation sweep promotes, trims, strengthens associations,
// prunes weak graph edges and derives insight entries from the episodic
// window.
//
// A TieredStore is owned by a single agent. All exported methods are safe
// for concurrent use; foreground retrieval and the background sweep share
// the store's lock so they never race.
package memory
