// Package collab implements the in-memory collaboration channel: per-agent
// FIFO mailboxes with send/broadcast/drain, collaboration sessions grouping
// participants under an objective, decisions with last-write-wins vote maps,
// and advisory emergency alerts.
//
// Delivery is FIFO per mailbox only; no ordering is guaranteed across
// mailboxes or across broadcast recipients. Draining a mailbox is read-once:
// the drained messages are removed. No quorum rule is computed from votes;
// resolving an outcome is the caller's responsibility.
package collab
