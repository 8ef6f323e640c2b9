package decision

import (
	"math"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/world"
)

// Perception thresholds for eligibility checks.
const (
	threatProximity = 20.0 // Threats beyond this are not an emergency
	highThreatLevel = 0.5
	socialRange     = 10.0

	// Appetite thresholds: below these a need is worth acting on. The
	// consume cutoff equals the satiation level consume plans aim for,
	// so a meal in progress stays eligible until its completion
	// condition fires.
	eatThreshold  = 90.0
	restThreshold = 60.0
	talkThreshold = 60.0

	// Normalization for resource appeal in consume scoring.
	appealRange      = 30.0
	appealFullAmount = 100.0
)

// Evaluator binds one goal to its pure scoring functions. Identical
// inputs always yield identical outputs.
type Evaluator struct {
	Evaluate        func(ctx *Context, needs agents.NeedsState) float64
	RequirementsMet func(ctx *Context) bool
}

func urgency(satiation float32) float64 {
	return float64(100-satiation) / 100
}

// resourceAppeal folds the best visible source of a kind into consume
// scoring: a close, plentiful source raises the urge to act now, a
// marginal one tempers it. With nothing in view the bare urgency
// stands, so searching stays worthwhile.
func resourceAppeal(ctx *Context, kind world.ResourceKind) float64 {
	r, ok := ctx.NearestResource(kind)
	if !ok {
		return 1
	}
	closeness := 1 - math.Min(r.Distance/appealRange, 1)
	abundance := math.Min(r.Amount/appealFullAmount, 1)
	return 0.5 + 0.3*closeness + 0.2*abundance
}

// evaluators is the static dispatch table, indexed by goal tag.
// Idle's requirements always hold, so the candidate set is never
// empty by construction.
var evaluators = [goal.NumGoals]Evaluator{
	goal.GoalIdle: {
		Evaluate:        func(*Context, agents.NeedsState) float64 { return 0.05 },
		RequirementsMet: func(*Context) bool { return true },
	},
	goal.GoalEat: {
		Evaluate: func(ctx *Context, n agents.NeedsState) float64 {
			return urgency(n.Hunger) * resourceAppeal(ctx, world.ResourceFood)
		},
		RequirementsMet: func(ctx *Context) bool {
			return ctx.Needs.Hunger < eatThreshold
		},
	},
	goal.GoalDrink: {
		Evaluate: func(ctx *Context, n agents.NeedsState) float64 {
			return urgency(n.Thirst) * resourceAppeal(ctx, world.ResourceWater)
		},
		RequirementsMet: func(ctx *Context) bool {
			return ctx.Needs.Thirst < eatThreshold
		},
	},
	goal.GoalRest: {
		Evaluate: func(_ *Context, n agents.NeedsState) float64 { return urgency(n.Energy) },
		RequirementsMet: func(ctx *Context) bool {
			return ctx.Needs.Energy < restThreshold
		},
	},
	goal.GoalSocialize: {
		Evaluate: func(_ *Context, n agents.NeedsState) float64 { return urgency(n.Social) * 0.8 },
		RequirementsMet: func(ctx *Context) bool {
			if ctx.Needs.Social >= talkThreshold {
				return false
			}
			n, ok := ctx.NearestNeighbor()
			return ok && n.Distance <= socialRange
		},
	},
	goal.GoalFlee: {
		Evaluate: func(ctx *Context, _ agents.NeedsState) float64 {
			t, ok := ctx.NearestThreat()
			if !ok {
				return 0
			}
			return t.Level * (1 - t.Distance/threatProximity)
		},
		RequirementsMet: func(ctx *Context) bool {
			t, ok := ctx.NearestThreat()
			return ok && t.Level > highThreatLevel && t.Distance < threatProximity
		},
	},
}

// GoalResourceKind maps a consumption goal to the resource kind that
// satisfies it.
func GoalResourceKind(g goal.Goal) (world.ResourceKind, bool) {
	switch g {
	case goal.GoalEat:
		return world.ResourceFood, true
	case goal.GoalDrink:
		return world.ResourceWater, true
	default:
		return 0, false
	}
}

// Scores is the ephemeral per-agent goal→score map, tagged with the
// tick it was computed on. Never persisted.
type Scores struct {
	Tick     uint64
	Values   [goal.NumGoals]float64
	Eligible [goal.NumGoals]bool
}

// Scorer computes utility scores for every eligible goal.
type Scorer struct {
	catalog       *goal.Catalog
	cacheValidity float64
}

// NewScorer creates a scorer over an immutable catalog.
func NewScorer(catalog *goal.Catalog, cacheValidity float64) *Scorer {
	return &Scorer{catalog: catalog, cacheValidity: cacheValidity}
}

// Score walks the catalog in declaration order. Ineligible goals are
// absent from the candidate set, not zero-scored. The base utility is
// memoized in the cache; genetic, social, and priority modifiers are
// applied fresh every evaluation since they are time- or
// agent-dependent.
func (s *Scorer) Score(ctx *Context, traits agents.GeneticTraits, cache *Cache) Scores {
	out := Scores{Tick: ctx.Tick}

	for _, spec := range s.catalog.Specs() {
		g := spec.Goal
		ev := evaluators[g]
		if ev.RequirementsMet == nil {
			continue
		}
		if cache.Blacklisted(g, ctx.Now) {
			continue
		}
		if !ev.RequirementsMet(ctx) {
			continue
		}

		base, ok := cache.Utility(s.catalog, g, ctx.Now, s.cacheValidity)
		if !ok {
			base = ev.Evaluate(ctx, ctx.Needs)
			cache.StoreUtility(g, base, ctx.Now)
		}

		score := base
		score *= traits.Modifier(g)
		score *= cache.InfluenceModifier(g, ctx.Now)
		score *= 1 + float64(spec.Priority)/100

		out.Values[g] = score
		out.Eligible[g] = true
	}

	// The fallback goal is guaranteed eligible; this only fires if a
	// reconfigured catalog dropped Idle entirely.
	if !out.anyEligible() && s.catalog.Contains(goal.GoalIdle) {
		out.Values[goal.GoalIdle] = 0.05
		out.Eligible[goal.GoalIdle] = true
	}
	return out
}

func (s Scores) anyEligible() bool {
	for _, e := range s.Eligible {
		if e {
			return true
		}
	}
	return false
}
