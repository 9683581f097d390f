// Package agent defines the tool-enabled agent base every lane builds on:
// a per-turn Think → Act → Observe cycle around the LLM chat contract,
// with tool result capture and state-patch aggregation.
package agent

import (
	"context"

	"github.com/sergiobayona/lexi-orchestrator/internal/session"
)

// EventLogger receives the agent layer's structured events: tool
// invocations, tool results, and recovered panics from a concrete agent's
// hooks. Satisfied by *observability.Logger; kept as a minimal interface
// here to avoid an import cycle (observability has no reason to depend on
// agent).
type EventLogger interface {
	AgentFailure(tenantID, waID, lane, reason string)
	AgentToolInvoked(tenantID, waID, lane, tool string)
	AgentToolResult(tenantID, waID, lane, tool string, isError bool)
}

// OutgoingMessage mirrors session.Outgoing; agents build these directly so
// lane packages don't need to import session for message construction.
type OutgoingMessage = session.Outgoing

// Baton is a handoff request from one lane's agent to another.
type Baton struct {
	ToLane     string
	CarryState map[string]any
	Intent     string
}

// Response is what a concrete agent (or the base loop wrapping it) returns
// for one turn.
type Response struct {
	Messages   []OutgoingMessage
	StatePatch map[string]any
	Baton      *Baton
}

// Agent is the contract the registry and turn controller depend on. Agents
// are re-entrant singletons: Handle must not mutate shared fields with
// per-turn data.
type Agent interface {
	Lane() string
	Handle(ctx context.Context, text string, s session.Session, intent string) Response
}
