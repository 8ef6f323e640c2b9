package agents

import "github.com/talgya/agentmind/internal/goal"

// GeneticTraits holds the per-goal scoring multipliers supplied by the
// genetics collaborator. Assigned once at spawn, immutable afterwards.
type GeneticTraits [goal.NumGoals]float32

// Modifier returns the trait multiplier for a goal. Unknown goals get
// a neutral 1.0 so a reconfigured catalog never zeroes a score.
func (t GeneticTraits) Modifier(g goal.Goal) float64 {
	if int(g) >= goal.NumGoals || t[g] == 0 {
		return 1.0
	}
	return float64(t[g])
}

// NeutralTraits returns all-1.0 multipliers.
func NeutralTraits() GeneticTraits {
	var t GeneticTraits
	for i := range t {
		t[i] = 1.0
	}
	return t
}
