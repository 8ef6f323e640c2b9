// Package sched throttles goal re-evaluation: each agent gets a
// level-of-detail tier mapping to a decision interval, due agents are
// processed under a per-tick budget, and a bounded-aging boost
// guarantees no agent starves. Plan execution is never throttled.
package sched

import (
	"sort"

	"github.com/talgya/agentmind/internal/agents"
)

// DefaultIntervals maps LOD tier to seconds between decisions:
// tier 0 → 10 Hz, tier 1 → 2 Hz, tier 2 → 1 Hz, tier 3+ → 0.5 Hz.
var DefaultIntervals = []float64{0.1, 0.5, 1.0, 2.0}

// DefaultMaxSkips is how many consecutive ticks an agent may be passed
// over before it receives the aging boost.
const DefaultMaxSkips = 10

// entry is per-agent scheduling bookkeeping.
type entry struct {
	id           agents.AgentID
	tier         uint8
	lastDecision float64
	skipped      int  // Consecutive ticks due but not processed
	boosted      bool // Aging boost active until processed
	forced       bool // Due immediately, cooldown bypassed
}

// Scheduler decides which agents get a full decision pass each tick.
type Scheduler struct {
	intervals []float64
	budget    int
	maxSkips  int

	entries map[agents.AgentID]*entry

	// Overruns counts ticks where due agents exceeded the budget.
	Overruns uint64
}

// New creates a scheduler. Nil intervals use the defaults; a
// non-positive budget means unlimited.
func New(intervals []float64, budget, maxSkips int) *Scheduler {
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	if maxSkips <= 0 {
		maxSkips = DefaultMaxSkips
	}
	return &Scheduler{
		intervals: intervals,
		budget:    budget,
		maxSkips:  maxSkips,
		entries:   make(map[agents.AgentID]*entry),
	}
}

// Register adds an agent, due immediately.
func (s *Scheduler) Register(id agents.AgentID, tier uint8, now float64) {
	s.entries[id] = &entry{id: id, tier: tier, forced: true, lastDecision: now}
}

// Remove forgets an agent.
func (s *Scheduler) Remove(id agents.AgentID) {
	delete(s.entries, id)
}

// SetTier updates an agent's LOD tier, as reported by the external
// distance system.
func (s *Scheduler) SetTier(id agents.AgentID, tier uint8) {
	if e, ok := s.entries[id]; ok {
		e.tier = tier
	}
}

// ForceDue marks an agent for re-decision on the next tick, bypassing
// its tier interval.
func (s *Scheduler) ForceDue(id agents.AgentID) {
	if e, ok := s.entries[id]; ok {
		e.forced = true
	}
}

// MarkDecided records that an agent completed a decision pass.
func (s *Scheduler) MarkDecided(id agents.AgentID, now float64) {
	if e, ok := s.entries[id]; ok {
		e.lastDecision = now
		e.forced = false
		e.skipped = 0
		e.boosted = false
	}
}

// interval returns the decision interval for a tier; tiers beyond the
// table use the last (slowest) entry.
func (s *Scheduler) interval(tier uint8) float64 {
	if int(tier) >= len(s.intervals) {
		return s.intervals[len(s.intervals)-1]
	}
	return s.intervals[tier]
}

// Due returns the agents to process this tick, at most budget of
// them. Ordering: aging-boosted agents first, then nearest tier
// first, then most-skipped first, then stalest, then ID for
// determinism. Agents left over remain due and accrue skip counts;
// past maxSkips they gain the boost until processed.
func (s *Scheduler) Due(now float64) []agents.AgentID {
	var due []*entry
	for _, e := range s.entries {
		if e.forced || now-e.lastDecision >= s.interval(e.tier) {
			due = append(due, e)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.boosted != b.boosted {
			return a.boosted
		}
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.skipped != b.skipped {
			return a.skipped > b.skipped
		}
		sa, sb := now-a.lastDecision, now-b.lastDecision
		if sa != sb {
			return sa > sb
		}
		return a.id < b.id
	})

	take := len(due)
	if s.budget > 0 && take > s.budget {
		take = s.budget
		s.Overruns++
	}

	out := make([]agents.AgentID, 0, take)
	for _, e := range due[:take] {
		out = append(out, e.id)
	}
	for _, e := range due[take:] {
		e.skipped++
		if e.skipped > s.maxSkips {
			e.boosted = true
		}
	}
	return out
}

// Len returns the number of registered agents.
func (s *Scheduler) Len() int {
	return len(s.entries)
}
