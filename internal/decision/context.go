// Package decision implements the per-tick decision pass: context
// building, utility scoring through a static dispatch table, cached
// memoization, and hysteresis-based goal selection.
package decision

import (
	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/world"
)

// ResourceInfo describes one resource visible to an agent.
type ResourceInfo struct {
	ID       world.EntityID
	Kind     world.ResourceKind
	Pos      world.Vec2
	Amount   float64
	Distance float64
}

// NeighborInfo describes one nearby agent.
type NeighborInfo struct {
	ID       agents.AgentID
	Pos      world.Vec2
	Distance float64
}

// ThreatInfo describes one nearby threat.
type ThreatInfo struct {
	ID       world.EntityID
	Pos      world.Vec2
	Level    float64
	Distance float64
}

// Context is the read-only snapshot one agent's decision is made
// from. Built from a frozen world snapshot, discarded after the tick
// that built it.
type Context struct {
	AgentID agents.AgentID
	Pos     world.Vec2
	Tick    uint64
	Now     float64 // Simulated seconds

	Needs  agents.NeedsState
	Health float32

	Resources []ResourceInfo
	Neighbors []NeighborInfo
	Threats   []ThreatInfo
}

// BuildContext assembles a decision context for one agent from the
// pass snapshot via a single radius query.
func BuildContext(snap *world.Snapshot, a *agents.Agent, tick uint64, now, radius float64) *Context {
	ctx := &Context{
		AgentID: a.ID,
		Pos:     a.Pos,
		Tick:    tick,
		Now:     now,
		Needs:   a.Needs,
		Health:  a.Health,
	}

	for _, hit := range snap.QueryRadius(a.Pos, radius) {
		switch hit.Kind {
		case world.KindResource:
			r, ok := snap.Resource(hit.ID)
			if !ok || r.Amount <= 0 {
				continue
			}
			ctx.Resources = append(ctx.Resources, ResourceInfo{
				ID: r.ID, Kind: r.Kind, Pos: r.Pos, Amount: r.Amount, Distance: hit.Distance,
			})
		case world.KindThreat:
			t, ok := snap.Threat(hit.ID)
			if !ok {
				continue
			}
			ctx.Threats = append(ctx.Threats, ThreatInfo{
				ID: t.ID, Pos: t.Pos, Level: t.Level, Distance: hit.Distance,
			})
		case world.KindAgent:
			if agents.AgentID(hit.ID) == a.ID {
				continue
			}
			ctx.Neighbors = append(ctx.Neighbors, NeighborInfo{
				ID: agents.AgentID(hit.ID), Pos: hit.Pos, Distance: hit.Distance,
			})
		}
	}
	return ctx
}

// NearestResource returns the closest visible resource of a kind.
func (c *Context) NearestResource(kind world.ResourceKind) (ResourceInfo, bool) {
	best := -1
	for i, r := range c.Resources {
		if r.Kind != kind {
			continue
		}
		if best < 0 || r.Distance < c.Resources[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return ResourceInfo{}, false
	}
	return c.Resources[best], true
}

// NearestThreat returns the closest threat.
func (c *Context) NearestThreat() (ThreatInfo, bool) {
	best := -1
	for i, t := range c.Threats {
		if best < 0 || t.Distance < c.Threats[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return ThreatInfo{}, false
	}
	return c.Threats[best], true
}

// NearestNeighbor returns the closest other agent.
func (c *Context) NearestNeighbor() (NeighborInfo, bool) {
	best := -1
	for i, n := range c.Neighbors {
		if best < 0 || n.Distance < c.Neighbors[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return NeighborInfo{}, false
	}
	return c.Neighbors[best], true
}
