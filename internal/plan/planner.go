package plan

import (
	"math"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/decision"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/world"
)

// Planning distances, in world units.
const (
	InteractionDistance = 2.0  // Close enough to consume/interact
	ArrivalRadius       = 1.0  // Position-reached tolerance
	WanderDistance      = 15.0 // Idle wander hop
	SearchDistance      = 25.0 // Hop when seeking an unseen resource
	FleeDistance        = 30.0 // Escape hop away from a threat
	SocialDistance      = 10.0
)

// Step timeouts in simulated seconds.
const (
	moveTimeout    = 15.0
	consumeTimeout = 12.0
	restTimeout    = 25.0
	talkTimeout    = 8.0
	fleeTimeout    = 10.0
)

// Satiation level a consumption step aims for. Matches the scorer's
// consume eligibility cutoff so the goal cannot be dropped mid-meal.
const satiationTarget = 90.0

// Energy level a rest step aims for; past it the selector would drop
// the goal anyway.
const restTarget = 60.0

// Planner compiles a selected goal into a step sequence. All planning
// functions are pure over the context and cache; the cache's
// known-resource memo lets a plan skip the search step when a
// location is already remembered and fresh.
type Planner struct {
	staleHorizon float64
}

// NewPlanner creates a planner. staleHorizon bounds how old a
// remembered resource location may be before it is ignored.
func NewPlanner(staleHorizon float64) *Planner {
	return &Planner{staleHorizon: staleHorizon}
}

// Build maps a goal to its plan. Triggered only on goal change. A
// returned empty plan means the goal is already satisfied and the
// executor will request an immediate re-decision.
func (p *Planner) Build(g goal.Goal, ctx *decision.Context, cache *decision.Cache) *Plan {
	switch g {
	case goal.GoalEat:
		return p.planConsume(g, agents.NeedHunger, ctx, cache)
	case goal.GoalDrink:
		return p.planConsume(g, agents.NeedThirst, ctx, cache)
	case goal.GoalRest:
		return p.planRest(ctx)
	case goal.GoalSocialize:
		return p.planSocialize(ctx)
	case goal.GoalFlee:
		return p.planFlee(ctx)
	default:
		return p.planWander(ctx)
	}
}

// planConsume builds [move, consume], dropping the move step when the
// agent is already adjacent and prepending nothing: with no visible
// and no remembered location it degrades to a single search hop,
// after which the completed plan forces a fresh decision.
func (p *Planner) planConsume(g goal.Goal, need agents.NeedKind, ctx *decision.Context, cache *decision.Cache) *Plan {
	if ctx.Needs.Value(need) >= satiationTarget {
		return New(g) // Already satisfied
	}
	kind, _ := decision.GoalResourceKind(g)

	if r, ok := ctx.NearestResource(kind); ok {
		cache.ReportResource(kind, r.Pos, ctx.Now)
		consume := Step{
			Action:    Action{Kind: ActionConsume, Target: r.Pos, Resource: r.ID, ResourceKind: kind},
			Condition: NeedAbove(need, satiationTarget),
			Timeout:   consumeTimeout,
		}
		if r.Distance <= InteractionDistance {
			return New(g, consume)
		}
		return New(g, moveStep(r.Pos), consume)
	}

	if known, ok := cache.KnownResource(kind, ctx.Now, p.staleHorizon); ok {
		// Remembered location: skip the search step.
		consume := Step{
			Action:    Action{Kind: ActionConsume, Target: known.Pos, ResourceKind: kind},
			Condition: NeedAbove(need, satiationTarget),
			Timeout:   consumeTimeout,
		}
		return New(g, moveStep(known.Pos), consume)
	}

	target := searchTarget(ctx.Pos, kind)
	return New(g, Step{
		Action:    Action{Kind: ActionMoveTo, Target: target},
		Condition: ReachPosition(target, ArrivalRadius),
		Timeout:   moveTimeout,
	})
}

func (p *Planner) planRest(ctx *decision.Context) *Plan {
	return New(goal.GoalRest, Step{
		Action:    Action{Kind: ActionRest, Target: ctx.Pos},
		Condition: NeedAbove(agents.NeedEnergy, restTarget),
		Timeout:   restTimeout,
	})
}

func (p *Planner) planSocialize(ctx *decision.Context) *Plan {
	n, ok := ctx.NearestNeighbor()
	if !ok {
		return New(goal.GoalSocialize) // Partner left view; re-decide
	}
	talk := Step{
		Action:    Action{Kind: ActionSocialize, Target: n.Pos, Other: n.ID},
		Condition: AfterSeconds(5),
		Timeout:   talkTimeout,
	}
	if n.Distance <= SocialDistance {
		return New(goal.GoalSocialize, talk)
	}
	return New(goal.GoalSocialize, moveStep(n.Pos), talk)
}

func (p *Planner) planFlee(ctx *decision.Context) *Plan {
	t, ok := ctx.NearestThreat()
	if !ok {
		return New(goal.GoalFlee)
	}
	away := ctx.Pos.Sub(t.Pos).Normalized()
	if away == (world.Vec2{}) {
		away = world.Vec2{X: 1}
	}
	target := ctx.Pos.Add(away.Scale(FleeDistance))
	return New(goal.GoalFlee, Step{
		Action:    Action{Kind: ActionFleeTo, Target: target},
		Condition: ReachPosition(target, InteractionDistance),
		Timeout:   fleeTimeout,
	})
}

func (p *Planner) planWander(ctx *decision.Context) *Plan {
	target := wanderTarget(ctx.Pos)
	return New(goal.GoalIdle, Step{
		Action:    Action{Kind: ActionWander, Target: target},
		Condition: ReachPosition(target, ArrivalRadius),
		Timeout:   moveTimeout,
	})
}

func moveStep(target world.Vec2) Step {
	return Step{
		Action:    Action{Kind: ActionMoveTo, Target: target},
		Condition: ReachPosition(target, InteractionDistance),
		Timeout:   moveTimeout,
	}
}

// wanderTarget derives a pseudo-random hop from the position alone so
// planning stays a pure function of its inputs.
func wanderTarget(pos world.Vec2) world.Vec2 {
	angle := math.Sin(pos.X*0.1+pos.Y*0.2) * 2 * math.Pi
	return pos.Add(world.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(WanderDistance))
}

// searchTarget biases the hop direction per resource kind so food and
// water searches diverge instead of retracing each other.
func searchTarget(pos world.Vec2, kind world.ResourceKind) world.Vec2 {
	offset := 0.0
	if kind == world.ResourceWater {
		offset = math.Pi
	}
	angle := math.Sin(pos.X*0.15)*2*math.Pi + offset
	return pos.Add(world.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(SearchDistance))
}
