// Package discovery implements the background tool discovery pipeline:
// sources with declared trust levels and poll cadences yield candidate
// tools, candidates are compatibility-checked, security-assessed and scored
// 0-100, and an evaluation queue processed in score-descending batches
// auto-registers, holds for manual approval, or discards each candidate.
//
// A candidate is consumed exactly once per batch: it ends up registered or
// discarded (possibly after a manual decision), never both and never pending
// indefinitely. Source failures are logged and retried on the next poll;
// they never escape the background loop.
package discovery
