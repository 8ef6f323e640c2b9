package engine

import (
	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/world"
)

// AgentView is the read-only projection of one agent served over the
// API. Built under the simulation lock so it never shows a half
// applied tick.
type AgentView struct {
	ID      agents.AgentID     `json:"id"`
	Name    string             `json:"name"`
	Pos     world.Vec2         `json:"pos"`
	Alive   bool               `json:"alive"`
	Health  float32            `json:"health"`
	Tier    uint8              `json:"tier"`
	Needs   agents.NeedsState  `json:"needs"`
	Goal    string             `json:"goal"`
	Action  string             `json:"action"`
	Phase   string             `json:"phase"`
	PlanID  string             `json:"plan_id,omitempty"`
	Step    int                `json:"step"`
	Steps   int                `json:"steps"`
	Stashed bool               `json:"stashed"`
}

// StatsSnapshot returns a copy of the aggregate statistics.
func (s *Simulation) StatsSnapshot() SimStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := s.Stats
	stats.Overruns = s.Sched.Overruns
	return stats
}

// RecentEvents returns up to limit of the newest events.
func (s *Simulation) RecentEvents(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if len(s.Events) > limit {
		start = len(s.Events) - limit
	}
	out := make([]Event, len(s.Events)-start)
	copy(out, s.Events[start:])
	return out
}

// AgentViews projects every agent.
func (s *Simulation) AgentViews() []AgentView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AgentView, 0, len(s.Agents))
	for _, a := range s.Agents {
		out = append(out, s.view(a))
	}
	return out
}

// AgentDetail projects one agent by ID.
func (s *Simulation) AgentDetail(id agents.AgentID) (AgentView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.Index[id]
	if !ok {
		return AgentView{}, false
	}
	return s.view(a), true
}

func (s *Simulation) view(a *agents.Agent) AgentView {
	m := s.Minds[a.ID]
	v := AgentView{
		ID:     a.ID,
		Name:   a.Name,
		Pos:    a.Pos,
		Alive:  a.Alive,
		Health: a.Health,
		Tier:   a.Tier,
		Needs:  a.Needs,
		Goal:   m.State.CurrentGoal.Name(),
		Action: m.State.CurrentAction,
		Phase:  m.Exec.Phase.String(),
	}
	if p := m.Exec.Active; p != nil {
		v.PlanID = p.ID.String()
		v.Step = p.Current
		v.Steps = len(p.Steps)
	}
	v.Stashed = m.Exec.Stashed != nil
	return v
}
