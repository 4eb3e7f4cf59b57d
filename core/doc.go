// Package core contains the shared data model and interfaces of AgentHive:
// agent profiles, tasks, messages, goals, the error taxonomy and small
// cross-cutting helpers (id generation, clock abstraction, logger adapter).
//
// Core deliberately holds no behavior beyond what its types own. The moving
// parts live in the sibling packages (orchestrator, memory, flow, tool,
// discovery, collab) which all depend on core and never on each other's
// internals.
package core
