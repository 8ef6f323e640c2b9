package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/decision"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/plan"
	"github.com/talgya/agentmind/internal/world"
)

func eatContext(hunger float32) *decision.Context {
	return &decision.Context{
		Now:   1.0,
		Needs: agents.NeedsState{Hunger: hunger, Thirst: 100, Energy: 100, Social: 100},
	}
}

func TestPlanEatVisibleResource(t *testing.T) {
	p := plan.NewPlanner(300)
	cache := decision.NewCache()
	ctx := eatContext(10)
	ctx.Resources = []decision.ResourceInfo{
		{ID: 42, Kind: world.ResourceFood, Pos: world.Vec2{X: 10, Y: 0}, Amount: 50, Distance: 10},
	}

	pl := p.Build(goal.GoalEat, ctx, cache)
	require.Len(t, pl.Steps, 2)
	assert.Equal(t, plan.ActionMoveTo, pl.Steps[0].Action.Kind)
	assert.Equal(t, plan.ActionConsume, pl.Steps[1].Action.Kind)
	assert.Equal(t, world.EntityID(42), pl.Steps[1].Action.Resource)
	assert.Equal(t, plan.CondNeedAbove, pl.Steps[1].Condition.Kind)
	assert.Equal(t, goal.GoalEat, pl.Goal)
	assert.NotEqual(t, pl.ID.String(), plan.New(goal.GoalEat).ID.String())

	// Planning records the sighting for later runs.
	known, ok := cache.KnownResource(world.ResourceFood, 1.0, 300)
	require.True(t, ok)
	assert.Equal(t, world.Vec2{X: 10, Y: 0}, known.Pos)
}

func TestPlanEatAdjacentSkipsMove(t *testing.T) {
	p := plan.NewPlanner(300)
	ctx := eatContext(10)
	ctx.Resources = []decision.ResourceInfo{
		{ID: 42, Kind: world.ResourceFood, Pos: world.Vec2{X: 1, Y: 0}, Amount: 50, Distance: 1},
	}

	pl := p.Build(goal.GoalEat, ctx, decision.NewCache())
	require.Len(t, pl.Steps, 1)
	assert.Equal(t, plan.ActionConsume, pl.Steps[0].Action.Kind)
}

func TestPlanEatAlreadySatisfied(t *testing.T) {
	p := plan.NewPlanner(300)
	pl := p.Build(goal.GoalEat, eatContext(95), decision.NewCache())
	assert.True(t, pl.Empty())
	assert.True(t, pl.Done())
}

func TestPlanEatFromMemorySkipsSearch(t *testing.T) {
	p := plan.NewPlanner(300)
	cache := decision.NewCache()
	cache.ReportResource(world.ResourceFood, world.Vec2{X: 40, Y: 40}, 0.5)

	pl := p.Build(goal.GoalEat, eatContext(10), cache)
	require.Len(t, pl.Steps, 2)
	assert.Equal(t, plan.ActionMoveTo, pl.Steps[0].Action.Kind)
	assert.Equal(t, world.Vec2{X: 40, Y: 40}, pl.Steps[0].Action.Target)
	assert.Equal(t, world.EntityID(0), pl.Steps[1].Action.Resource, "memory plans bind the resource on arrival")
}

func TestPlanEatNoKnowledgeSearches(t *testing.T) {
	p := plan.NewPlanner(300)
	pl := p.Build(goal.GoalEat, eatContext(10), decision.NewCache())
	require.Len(t, pl.Steps, 1)
	assert.Equal(t, plan.ActionMoveTo, pl.Steps[0].Action.Kind)
	assert.Greater(t, pl.Steps[0].Timeout, 0.0)
}

func TestStaleMemoryIgnored(t *testing.T) {
	p := plan.NewPlanner(300)
	cache := decision.NewCache()
	cache.ReportResource(world.ResourceFood, world.Vec2{X: 40, Y: 40}, 0.5)

	ctx := eatContext(10)
	ctx.Now = 400 // Far past the 300s horizon
	pl := p.Build(goal.GoalEat, ctx, cache)
	require.Len(t, pl.Steps, 1, "stale memory degrades to a search hop")
}

func TestPlanFlee(t *testing.T) {
	p := plan.NewPlanner(300)
	ctx := eatContext(100)
	ctx.Pos = world.Vec2{X: 0, Y: 0}
	ctx.Threats = []decision.ThreatInfo{{Pos: world.Vec2{X: 10, Y: 0}, Level: 0.9, Distance: 10}}

	pl := p.Build(goal.GoalFlee, ctx, decision.NewCache())
	require.Len(t, pl.Steps, 1)
	assert.Equal(t, plan.ActionFleeTo, pl.Steps[0].Action.Kind)
	// Directly away from the threat.
	assert.InDelta(t, -plan.FleeDistance, pl.Steps[0].Action.Target.X, 1e-9)
	assert.InDelta(t, 0, pl.Steps[0].Action.Target.Y, 1e-9)
}

func TestPlanSocialize(t *testing.T) {
	p := plan.NewPlanner(300)

	ctx := eatContext(100)
	pl := p.Build(goal.GoalSocialize, ctx, decision.NewCache())
	assert.True(t, pl.Empty(), "partner out of view yields an empty plan")

	ctx.Neighbors = []decision.NeighborInfo{{ID: 9, Pos: world.Vec2{X: 5, Y: 0}, Distance: 5}}
	pl = p.Build(goal.GoalSocialize, ctx, decision.NewCache())
	require.Len(t, pl.Steps, 1)
	assert.Equal(t, plan.ActionSocialize, pl.Steps[0].Action.Kind)
	assert.Equal(t, agents.AgentID(9), pl.Steps[0].Action.Other)

	ctx.Neighbors[0].Distance = 20
	pl = p.Build(goal.GoalSocialize, ctx, decision.NewCache())
	require.Len(t, pl.Steps, 2)
	assert.Equal(t, plan.ActionMoveTo, pl.Steps[0].Action.Kind)
}

func TestPlanRestAndWander(t *testing.T) {
	p := plan.NewPlanner(300)

	rest := p.Build(goal.GoalRest, eatContext(100), decision.NewCache())
	require.Len(t, rest.Steps, 1)
	assert.Equal(t, plan.ActionRest, rest.Steps[0].Action.Kind)
	assert.Equal(t, plan.CondNeedAbove, rest.Steps[0].Condition.Kind)

	idle := p.Build(goal.GoalIdle, eatContext(100), decision.NewCache())
	require.Len(t, idle.Steps, 1)
	assert.Equal(t, plan.ActionWander, idle.Steps[0].Action.Kind)
}
