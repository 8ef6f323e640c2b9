package decision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/agentmind/internal/decision"
	"github.com/talgya/agentmind/internal/goal"
)

func scoresWith(values map[goal.Goal]float64) decision.Scores {
	var s decision.Scores
	for g, v := range values {
		s.Values[g] = v
		s.Eligible[g] = true
	}
	return s
}

func TestHysteresisHoldsCurrentGoal(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)

	// 90 does not clear 80 × 1.2.
	scores := scoresWith(map[goal.Goal]float64{
		goal.GoalEat:   80,
		goal.GoalDrink: 90,
	})
	g, changed := sel.Select(scores, goal.GoalEat)
	assert.False(t, changed)
	assert.Equal(t, goal.GoalEat, g)

	// 97 does.
	scores = scoresWith(map[goal.Goal]float64{
		goal.GoalEat:   80,
		goal.GoalDrink: 97,
	})
	g, changed = sel.Select(scores, goal.GoalEat)
	assert.True(t, changed)
	assert.Equal(t, goal.GoalDrink, g)
}

func TestIneligibleCurrentLosesImmediately(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)

	// The current goal dropped out of the candidate set, so any
	// eligible challenger wins without a margin.
	scores := scoresWith(map[goal.Goal]float64{goal.GoalIdle: 0.05})
	g, changed := sel.Select(scores, goal.GoalEat)
	assert.True(t, changed)
	assert.Equal(t, goal.GoalIdle, g)
}

func TestInterruptBypassesHysteresis(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)

	scores := scoresWith(map[goal.Goal]float64{
		goal.GoalEat:  100,
		goal.GoalFlee: 0.1, // Tiny score, but interrupt-flagged
	})
	g, changed := sel.Select(scores, goal.GoalEat)
	assert.True(t, changed)
	assert.Equal(t, goal.GoalFlee, g)
}

func TestInterruptCurrentIsNotReselected(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)

	// Already fleeing: the interrupt rule must not fire again, and a
	// bigger ordinary score still needs the margin.
	scores := scoresWith(map[goal.Goal]float64{
		goal.GoalFlee: 1.0,
		goal.GoalEat:  1.1,
	})
	g, changed := sel.Select(scores, goal.GoalFlee)
	assert.False(t, changed)
	assert.Equal(t, goal.GoalFlee, g)
}

func TestTieBreakByPriorityThenOrder(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)

	// Equal scores: drink (priority 85) beats eat (priority 80).
	scores := scoresWith(map[goal.Goal]float64{
		goal.GoalEat:   1.0,
		goal.GoalDrink: 1.0,
	})
	g, changed := sel.Select(scores, goal.GoalIdle)
	assert.True(t, changed)
	assert.Equal(t, goal.GoalDrink, g)

	// Equal scores and priorities: declaration order decides.
	cat := goal.NewCatalog([]goal.Spec{
		{Goal: goal.GoalRest, Priority: 50},
		{Goal: goal.GoalSocialize, Priority: 50},
		{Goal: goal.GoalIdle, Priority: 10},
	})
	sel = decision.NewSelector(cat, 1.2)
	scores = scoresWith(map[goal.Goal]float64{
		goal.GoalRest:      1.0,
		goal.GoalSocialize: 1.0,
	})
	g, _ = sel.Select(scores, goal.GoalIdle)
	assert.Equal(t, goal.GoalRest, g)
}

func TestNoCandidatesKeepsCurrent(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)
	g, changed := sel.Select(decision.Scores{}, goal.GoalRest)
	assert.False(t, changed)
	assert.Equal(t, goal.GoalRest, g)
}

func TestKeepingCurrentReportsNoChange(t *testing.T) {
	sel := decision.NewSelector(goal.DefaultCatalog(), 1.2)
	scores := scoresWith(map[goal.Goal]float64{goal.GoalEat: 2.0, goal.GoalIdle: 0.05})
	g, changed := sel.Select(scores, goal.GoalEat)
	assert.False(t, changed)
	assert.Equal(t, goal.GoalEat, g)
}
