package decision

import "github.com/talgya/agentmind/internal/goal"

// DefaultHysteresis is the multiplicative margin a challenger must
// clear over the incumbent before a switch occurs.
const DefaultHysteresis = 1.2

// Selector applies interrupt and hysteresis rules to pick the active
// goal from a score map.
type Selector struct {
	catalog    *goal.Catalog
	hysteresis float64
}

// NewSelector creates a selector. A non-positive hysteresis falls back
// to the default.
func NewSelector(catalog *goal.Catalog, hysteresis float64) *Selector {
	if hysteresis <= 0 {
		hysteresis = DefaultHysteresis
	}
	return &Selector{catalog: catalog, hysteresis: hysteresis}
}

// Select returns the goal to pursue and whether it changed.
//
// An eligible interrupt-flagged goal that is not already current wins
// immediately, bypassing hysteresis. Otherwise the top-scoring
// candidate (ties broken by higher static priority, then catalog
// declaration order) replaces the current goal only when its score
// exceeds current_score × hysteresis.
func (s *Selector) Select(scores Scores, current goal.Goal) (goal.Goal, bool) {
	if g, ok := s.bestWhere(scores, func(g goal.Goal) bool {
		return s.catalog.Interrupt(g) && g != current
	}); ok {
		return g, true
	}

	candidate, ok := s.bestWhere(scores, func(goal.Goal) bool { return true })
	if !ok {
		// Unreachable while the fallback goal is in the catalog.
		return current, false
	}
	if candidate == current {
		return current, false
	}

	currentScore := 0.0
	if int(current) < goal.NumGoals && scores.Eligible[current] {
		currentScore = scores.Values[current]
	}
	if scores.Values[candidate] > currentScore*s.hysteresis {
		return candidate, true
	}
	return current, false
}

// bestWhere returns the top-scoring eligible goal passing the filter,
// with the deterministic tie-break.
func (s *Selector) bestWhere(scores Scores, keep func(goal.Goal) bool) (goal.Goal, bool) {
	var best goal.Goal
	found := false
	for _, spec := range s.catalog.Specs() {
		g := spec.Goal
		if !scores.Eligible[g] || !keep(g) {
			continue
		}
		if !found || s.beats(scores, g, best) {
			best = g
			found = true
		}
	}
	return best, found
}

// beats reports whether a ranks strictly above b: higher score, then
// higher static priority, then earlier catalog order.
func (s *Selector) beats(scores Scores, a, b goal.Goal) bool {
	if scores.Values[a] != scores.Values[b] {
		return scores.Values[a] > scores.Values[b]
	}
	pa, pb := s.catalog.Priority(a), s.catalog.Priority(b)
	if pa != pb {
		return pa > pb
	}
	return s.catalog.Order(a) < s.catalog.Order(b)
}
