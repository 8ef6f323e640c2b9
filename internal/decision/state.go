package decision

import "github.com/talgya/agentmind/internal/goal"

// State is the per-agent decision state that persists for the agent's
// lifetime. At most one current goal and one current action exist at
// any time; GoalIdle with an empty action is the explicit "none".
type State struct {
	CurrentGoal    goal.Goal `json:"current_goal"`
	CurrentAction  string    `json:"current_action"`
	LastDecisionAt float64   `json:"last_decision_time"`
	Cooldown       float64   `json:"decision_cooldown"`
}

// NewState returns the initial decision state: idle, decision due.
func NewState(cooldown float64) State {
	return State{
		CurrentGoal:    goal.GoalIdle,
		LastDecisionAt: -cooldown,
		Cooldown:       cooldown,
	}
}
