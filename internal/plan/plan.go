package plan

import (
	"github.com/google/uuid"

	"github.com/talgya/agentmind/internal/goal"
)

// Plan is an agent's ordered step sequence for one goal. Owned
// exclusively by one agent and replaced wholesale on goal change.
// Current is always a valid step index while Current < len(Steps);
// an empty plan means the goal is already achieved.
type Plan struct {
	ID       uuid.UUID `json:"id"`
	Goal     goal.Goal `json:"goal"`
	Steps    []Step    `json:"steps"`
	Current  int       `json:"current"`
	Validity float64   `json:"validity"`

	// StepStartedAt is when the current step began, for timeout
	// checks. Maintained by the executor.
	StepStartedAt float64 `json:"step_started_at"`
}

// New builds a plan for a goal. Plans start at step 0 with full
// validity.
func New(g goal.Goal, steps ...Step) *Plan {
	return &Plan{
		ID:       uuid.New(),
		Goal:     g,
		Steps:    steps,
		Validity: 1.0,
	}
}

// Empty reports whether the plan has no steps.
func (p *Plan) Empty() bool {
	return len(p.Steps) == 0
}

// Done reports whether execution has advanced past the last step.
func (p *Plan) Done() bool {
	return p.Current >= len(p.Steps)
}

// CurrentStep returns the step under execution.
func (p *Plan) CurrentStep() (Step, bool) {
	if p == nil || p.Done() {
		return Step{}, false
	}
	return p.Steps[p.Current], true
}
