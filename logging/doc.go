// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer HiveLogger with contextual
// helpers (agent, conversation, component) and domain specific logging
// helpers for delegation, memory consolidation and tool discovery.
package logging
