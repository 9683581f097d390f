package agent

import "github.com/sergiobayona/lexi-orchestrator/internal/session"

// Registry maps a lane to its shared agent instance. Agents are
// constructed once per process and must be safe for concurrent Handle
// calls across different sessions.
type Registry struct {
	agents map[string]Agent
}

// NewRegistry builds a Registry from the given agents, keyed by their own
// Lane(). Panics if two agents claim the same lane or a known lane is
// missing — that is a wiring bug, not a runtime condition.
func NewRegistry(agents ...Agent) *Registry {
	r := &Registry{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if _, exists := r.agents[a.Lane()]; exists {
			panic("agent: duplicate registration for lane " + a.Lane())
		}
		r.agents[a.Lane()] = a
	}
	for _, lane := range session.Lanes {
		if _, ok := r.agents[lane]; !ok {
			panic("agent: no agent registered for lane " + lane)
		}
	}
	return r
}

// ForLane returns the agent handling lane, or nil if unknown.
func (r *Registry) ForLane(lane string) Agent {
	return r.agents[lane]
}
