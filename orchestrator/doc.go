// Package orchestrator is the top of the coordination core. It scores and
// selects agents for tasks, balances workload, resolves conflicts between
// agents, and composes each registered agent's flow, memory and mailbox into
// a runtime guarded by a per-agent lock.
//
// Background work (memory consolidation sweeps, discovery polls) runs on a
// cancellable scheduler and takes the same per-agent lock as foreground
// calls, so a sweep never races a conversation turn. Unrelated agents never
// share a lock.
package orchestrator
