package sched_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/sched"
)

func TestRegisteredAgentDueImmediately(t *testing.T) {
	s := sched.New(nil, 0, 0)
	s.Register(1, 3, 0)

	due := s.Due(0)
	require.Len(t, due, 1)
	assert.Equal(t, agents.AgentID(1), due[0])
}

func TestTierIntervals(t *testing.T) {
	s := sched.New(nil, 0, 0)
	s.Register(1, 0, 0) // 10 Hz
	s.Register(2, 3, 0) // 0.5 Hz
	s.MarkDecided(1, 0)
	s.MarkDecided(2, 0)

	assert.Empty(t, s.Due(0.05))

	due := s.Due(0.1)
	require.Len(t, due, 1)
	assert.Equal(t, agents.AgentID(1), due[0])

	s.MarkDecided(1, 0.1)
	due = s.Due(2.0)
	assert.Contains(t, due, agents.AgentID(1))
	assert.Contains(t, due, agents.AgentID(2))
}

func TestTierBeyondTableUsesSlowest(t *testing.T) {
	s := sched.New([]float64{0.1, 1.0}, 0, 0)
	s.Register(1, 9, 0)
	s.MarkDecided(1, 0)

	assert.Empty(t, s.Due(0.5))
	assert.Len(t, s.Due(1.0), 1)
}

func TestForceDueBypassesInterval(t *testing.T) {
	s := sched.New(nil, 0, 0)
	s.Register(1, 3, 0)
	s.MarkDecided(1, 0)

	assert.Empty(t, s.Due(0.1))
	s.ForceDue(1)
	assert.Len(t, s.Due(0.1), 1)

	// Deciding clears the forced flag.
	s.MarkDecided(1, 0.1)
	assert.Empty(t, s.Due(0.2))
}

func TestBudgetTruncatesAndCountsOverruns(t *testing.T) {
	s := sched.New(nil, 3, 0)
	for id := agents.AgentID(1); id <= 10; id++ {
		s.Register(id, 0, 0)
	}

	due := s.Due(0)
	assert.Len(t, due, 3)
	assert.Equal(t, uint64(1), s.Overruns)
}

func TestBudgetFairness(t *testing.T) {
	// 10 agents at tier 0 under a budget of 3: every agent must be
	// processed within ceil(10/3) = 4 passes.
	s := sched.New(nil, 3, 10)
	for id := agents.AgentID(1); id <= 10; id++ {
		s.Register(id, 0, 0)
	}

	seen := map[agents.AgentID]bool{}
	now := 0.0
	for pass := 0; pass < 4; pass++ {
		for _, id := range s.Due(now) {
			seen[id] = true
			s.MarkDecided(id, now)
		}
		now += 0.1
	}

	assert.Len(t, seen, 10, "no agent starves under the budget")
}

func TestAgingBoostPromotesStarvedAgent(t *testing.T) {
	s := sched.New(nil, 1, 2)
	s.Register(1, 0, 0)
	s.Register(2, 0, 0)

	// Keep re-deciding agent 1 so agent 2 accrues skips; after
	// maxSkips it gets boosted ahead regardless of staleness order.
	starved := false
	now := 0.0
	for pass := 0; pass < 6; pass++ {
		due := s.Due(now)
		require.Len(t, due, 1)
		if due[0] == 2 {
			starved = true
			break
		}
		s.MarkDecided(due[0], now)
		now += 0.1
	}
	assert.True(t, starved, "skipped agent is eventually processed")
}

func TestRemove(t *testing.T) {
	s := sched.New(nil, 0, 0)
	s.Register(1, 0, 0)
	assert.Equal(t, 1, s.Len())
	s.Remove(1)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Due(1))
}
