package engine

import (
	"fmt"
	"math"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/plan"
	"github.com/talgya/agentmind/internal/world"
)

// Need recovery rates per simulated second.
const (
	eatRate    = 15.0
	drinkRate  = 20.0
	restRate   = 5.0
	socialRate = 12.0
)

// depletionFactor scales resource drain relative to need recovery.
const depletionFactor = 0.2

const threatSpeed = 6.0

// integrate applies every agent's current action to the world, moves
// agents and threats, and decays needs. Runs after the executor pass
// so the step index reflects this tick's completions.
func (s *Simulation) integrate(tick uint64, now float64) {
	for _, a := range s.Agents {
		if !a.Alive {
			continue
		}
		m := s.Minds[a.ID]

		if step, ok := m.Exec.Active.CurrentStep(); ok {
			s.act(a, m, step, now)
		}
		s.move(a)

		agents.Decay(a, s.dt)
		if !a.Alive {
			s.bury(a, m, tick)
		}
	}

	s.moveThreats(now)
}

// act applies one step's action for one tick.
func (s *Simulation) act(a *agents.Agent, m *Mind, step plan.Step, now float64) {
	act := step.Action
	switch act.Kind {
	case plan.ActionMoveTo, plan.ActionWander, plan.ActionFleeTo:
		s.steer(a, act.Target)

	case plan.ActionConsume:
		if a.Pos.DistanceTo(act.Target) > plan.InteractionDistance {
			s.steer(a, act.Target)
			return
		}
		a.StopMoving()
		s.consume(a, m, act, now)

	case plan.ActionRest:
		a.StopMoving()
		a.Needs.Raise(agents.NeedEnergy, float32(restRate*s.dt))

	case plan.ActionSocialize:
		partner, ok := s.Index[act.Other]
		if !ok || !partner.Alive {
			return // Partner gone; the step times out
		}
		if a.Pos.DistanceTo(partner.Pos) > plan.SocialDistance {
			s.steer(a, partner.Pos)
			return
		}
		a.StopMoving()
		amount := float32(socialRate * s.dt)
		a.Needs.Raise(agents.NeedSocial, amount)
		partner.Needs.Raise(agents.NeedSocial, amount)
	}
}

// steer points the agent at a target without retriggering arrival
// detection when the target is unchanged.
func (s *Simulation) steer(a *agents.Agent, target world.Vec2) {
	if a.MoveTarget != nil && *a.MoveTarget == target {
		return
	}
	a.SetMoveTarget(target)
}

// consume eats or drinks from the resource under the action, claiming
// it exclusively first. A consume step planned from memory carries no
// resource ID; the actual resource is bound on arrival, and a missing
// one is forgotten so the step times out instead of spinning.
func (s *Simulation) consume(a *agents.Agent, m *Mind, act plan.Action, now float64) {
	id := act.Resource
	if id == 0 {
		found, ok := s.findResourceNear(act.Target, act.ResourceKind)
		if !ok {
			m.Cache.ForgetResource(act.ResourceKind, act.Target)
			return
		}
		id = found
	}

	r, ok := s.World.Resources[id]
	if !ok || r.Amount <= 0 {
		m.Cache.ForgetResource(act.ResourceKind, act.Target)
		return
	}

	// Exclusive claim; a resource held by another agent stalls the
	// step until it times out.
	if r.ClaimedBy != 0 && r.ClaimedBy != uint64(a.ID) {
		return
	}
	if r.ClaimedBy == 0 {
		r.ClaimedBy = uint64(a.ID)
		rid := id
		m.Exec.AddRelease(func() {
			if res, ok := s.World.Resources[rid]; ok && res.ClaimedBy == uint64(a.ID) {
				res.ClaimedBy = 0
			}
		})
	}

	rate := eatRate
	need := agents.NeedHunger
	if act.ResourceKind == world.ResourceWater {
		rate = drinkRate
		need = agents.NeedThirst
	}
	amount := rate * s.dt
	a.Needs.Raise(need, float32(amount))
	r.Amount -= amount * depletionFactor
	m.Cache.ReportResource(act.ResourceKind, r.Pos, now)

	if r.Amount <= 0 {
		s.World.RemoveResource(id)
		m.Cache.ForgetResource(act.ResourceKind, r.Pos)
	}
}

// findResourceNear locates a live resource of the given kind within
// interaction range of a remembered position.
func (s *Simulation) findResourceNear(pos world.Vec2, kind world.ResourceKind) (world.EntityID, bool) {
	for _, hit := range s.World.Grid.QueryRadius(pos, plan.InteractionDistance) {
		if hit.Kind != world.KindResource {
			continue
		}
		if r, ok := s.World.Resources[hit.ID]; ok && r.Kind == kind && r.Amount > 0 {
			return hit.ID, true
		}
	}
	return 0, false
}

// move advances the agent toward its target and keeps the spatial
// grid in sync.
func (s *Simulation) move(a *agents.Agent) {
	if a.MoveTarget == nil || a.Arrived {
		return
	}
	to := a.MoveTarget.Sub(a.Pos)
	dist := to.Length()
	stride := a.Speed * s.dt

	if dist <= stride || dist <= plan.ArrivalRadius {
		a.Pos = *a.MoveTarget
		a.Arrived = true
		a.Vel = world.Vec2{}
	} else {
		a.Vel = to.Normalized().Scale(a.Speed)
		a.Pos = a.Pos.Add(a.Vel.Scale(s.dt))
	}

	s.World.Grid.Insert(world.EntityID(a.ID), a.Pos, world.KindAgent)
}

// concludeTalk applies the outcome of a finished conversation: both
// parties trade remembered resource locations, and each gets a
// temporary damper on the urge to socialize again.
func (s *Simulation) concludeTalk(a *agents.Agent, m *Mind, other agents.AgentID, tick uint64, now float64) {
	partner, ok := s.Index[other]
	if !ok || !partner.Alive {
		return
	}
	pm := s.Minds[partner.ID]

	for _, kind := range []world.ResourceKind{world.ResourceFood, world.ResourceWater} {
		if known, ok := m.Cache.KnownResource(kind, now, s.cfg.ResourceStaleSeconds); ok {
			pm.Cache.ReportResource(kind, known.Pos, known.LastSeen)
		}
		if known, ok := pm.Cache.KnownResource(kind, now, s.cfg.ResourceStaleSeconds); ok {
			m.Cache.ReportResource(kind, known.Pos, known.LastSeen)
		}
	}

	m.Cache.AddInfluence(goal.GoalSocialize, 0.6, 30, now)
	pm.Cache.AddInfluence(goal.GoalSocialize, 0.6, 30, now)

	s.record(tick, "social", fmt.Sprintf("%s talked with %s", a.Name, partner.Name))
}

// bury removes a dead agent from the live indices. The mind is kept
// for post-mortem inspection over the API.
func (s *Simulation) bury(a *agents.Agent, m *Mind, tick uint64) {
	s.Executor.Clear(&m.Exec)
	s.World.Grid.Remove(world.EntityID(a.ID))
	s.Sched.Remove(a.ID)
	s.record(tick, "death", fmt.Sprintf("%s has died", a.Name))
}

// moveThreats drifts each threat, steering toward the nearest agent in
// pursuit range.
func (s *Simulation) moveThreats(now float64) {
	for id, t := range s.World.Threats {
		var dir world.Vec2
		best := math.MaxFloat64
		for _, hit := range s.World.Grid.QueryRadius(t.Pos, 40) {
			if hit.Kind != world.KindAgent {
				continue
			}
			if hit.Distance < best {
				best = hit.Distance
				dir = hit.Pos.Sub(t.Pos).Normalized()
			}
		}
		if best == math.MaxFloat64 {
			angle := math.Sin(now*0.3+float64(id)) * 2 * math.Pi
			dir = world.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
		}
		t.Vel = dir.Scale(threatSpeed)
		s.World.MoveThreat(id, t.Pos.Add(t.Vel.Scale(s.dt)))
	}
}
