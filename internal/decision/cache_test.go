package decision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentmind/internal/decision"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/world"
)

func TestUtilityMemoExpiry(t *testing.T) {
	cat := goal.DefaultCatalog()
	c := decision.NewCache()

	_, ok := c.Utility(cat, goal.GoalEat, 0, 1.0)
	assert.False(t, ok)

	c.StoreUtility(goal.GoalEat, 0.7, 0)

	v, ok := c.Utility(cat, goal.GoalEat, 0.5, 1.0)
	require.True(t, ok)
	assert.Equal(t, 0.7, v)

	_, ok = c.Utility(cat, goal.GoalEat, 1.0, 1.0)
	assert.False(t, ok, "entry at exactly the validity bound has expired")
}

func TestUtilityMissForRetiredGoal(t *testing.T) {
	c := decision.NewCache()
	c.StoreUtility(goal.GoalRest, 0.5, 0)

	trimmed := goal.NewCatalog([]goal.Spec{{Goal: goal.GoalIdle, Priority: 10}})
	_, ok := c.Utility(trimmed, goal.GoalRest, 0.1, 1.0)
	assert.False(t, ok, "goal removed from the catalog must miss")
}

func TestReportResourceMerges(t *testing.T) {
	c := decision.NewCache()
	c.ReportResource(world.ResourceFood, world.Vec2{X: 10, Y: 10}, 1)
	c.ReportResource(world.ResourceFood, world.Vec2{X: 11, Y: 10}, 5) // Same site, fresher
	c.ReportResource(world.ResourceFood, world.Vec2{X: 50, Y: 50}, 3)

	best, ok := c.KnownResource(world.ResourceFood, 6, 300)
	require.True(t, ok)
	assert.Equal(t, 5.0, best.LastSeen)
	assert.Equal(t, world.Vec2{X: 11, Y: 10}, best.Pos)
}

func TestKnownResourceStaleness(t *testing.T) {
	c := decision.NewCache()
	c.ReportResource(world.ResourceWater, world.Vec2{X: 1, Y: 1}, 0)

	_, ok := c.KnownResource(world.ResourceWater, 100, 300)
	assert.True(t, ok)

	_, ok = c.KnownResource(world.ResourceWater, 400, 300)
	assert.False(t, ok, "entry past the horizon is pruned")

	// Pruned for good, not just filtered.
	_, ok = c.KnownResource(world.ResourceWater, 100, 300)
	assert.False(t, ok)
}

func TestForgetResource(t *testing.T) {
	c := decision.NewCache()
	c.ReportResource(world.ResourceFood, world.Vec2{X: 10, Y: 10}, 1)
	c.ForgetResource(world.ResourceFood, world.Vec2{X: 10.5, Y: 10})

	_, ok := c.KnownResource(world.ResourceFood, 2, 300)
	assert.False(t, ok)
}

func TestInfluenceStacksAndExpires(t *testing.T) {
	c := decision.NewCache()
	c.AddInfluence(goal.GoalSocialize, 2.0, 10, 0)
	c.AddInfluence(goal.GoalSocialize, 0.5, 20, 0)
	c.AddInfluence(goal.GoalEat, 3.0, 20, 0)

	// Active influences multiply per goal.
	assert.InDelta(t, 1.0, c.InfluenceModifier(goal.GoalSocialize, 5), 1e-9)
	assert.InDelta(t, 3.0, c.InfluenceModifier(goal.GoalEat, 5), 1e-9)
	assert.Equal(t, 1.0, c.InfluenceModifier(goal.GoalRest, 5))

	// The 10s influence lapses; only the 0.5 remains.
	assert.InDelta(t, 0.5, c.InfluenceModifier(goal.GoalSocialize, 15), 1e-9)

	assert.Equal(t, 1.0, c.InfluenceModifier(goal.GoalSocialize, 25))
}

func TestBlacklistWindow(t *testing.T) {
	c := decision.NewCache()
	assert.False(t, c.Blacklisted(goal.GoalEat, 0))

	c.BlacklistGoal(goal.GoalEat, 10)
	assert.True(t, c.Blacklisted(goal.GoalEat, 5))
	assert.False(t, c.Blacklisted(goal.GoalEat, 10))

	// A shorter blacklist never truncates a longer one.
	c.BlacklistGoal(goal.GoalEat, 3)
	assert.True(t, c.Blacklisted(goal.GoalEat, 9))
}
