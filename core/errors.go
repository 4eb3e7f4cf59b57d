package core

import "errors"

// Error taxonomy. Nothing in the core is fatal: NotFound and resource
// exhaustion are returned as failures the caller can inspect, tool execution
// failures are aggregated into responses, and background loop failures are
// logged and retried on the next cycle.
var (
	// ErrNotFound signals an unknown agent, session, task or tool.
	ErrNotFound = errors.New("not found")

	// ErrNoSuitableAgent signals that delegation found no active agent with
	// a positive score for the task.
	ErrNoSuitableAgent = errors.New("no suitable agent")

	// ErrInsufficientCredits signals that the credits service declined a
	// reservation. The task stays pending.
	ErrInsufficientCredits = errors.New("insufficient credits")
)
