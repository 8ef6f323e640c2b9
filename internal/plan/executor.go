package plan

import (
	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/world"
)

// DefaultFailureThreshold is how many consecutive step failures clear
// the plan and blacklist its goal.
const DefaultFailureThreshold = 3

// Phase tags the per-agent execution state machine. There is no
// terminal phase; the cycle ends only when the agent is destroyed.
type Phase uint8

const (
	PhaseIdle        Phase = iota // No plan; awaiting a decision
	PhasePlanning                 // Transient within the decision tick
	PhaseExecuting                // Advancing the active plan
	PhaseInterrupted              // Emergency plan active, original stashed
	PhaseResuming                 // Transient: revalidating the stash
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlanning:
		return "planning"
	case PhaseExecuting:
		return "executing"
	case PhaseInterrupted:
		return "interrupted"
	case PhaseResuming:
		return "resuming"
	default:
		return "unknown"
	}
}

// Execution is the per-agent executor state: the active plan, at most
// one stashed interrupted plan, and the consecutive-failure counter
// that persists across plans until a step completes.
type Execution struct {
	Active  *Plan
	Stashed *Plan
	Phase   Phase

	// ConsecutiveFailures counts step timeouts since the last
	// successful step completion.
	ConsecutiveFailures int

	releases []func()
}

// AddRelease registers a callback releasing an exclusively held
// external resource (a claimed food item, a conversation slot).
// Invoked when the plan is abandoned; never dropped silently.
func (ex *Execution) AddRelease(fn func()) {
	ex.releases = append(ex.releases, fn)
}

func (ex *Execution) releaseAll() {
	for _, fn := range ex.releases {
		fn()
	}
	ex.releases = nil
}

// Feedback is the world state the executor reads each tick. It
// reflects the end of the previous tick, never partial results of the
// current one.
type Feedback struct {
	AgentID agents.AgentID
	Now     float64
	Pos     world.Vec2
	Arrived bool
	Needs   agents.NeedsState
}

// Revalidator checks whether a stashed plan is still viable against
// current context before execution resumes.
type Revalidator interface {
	Validate(id agents.AgentID, p *Plan) bool
}

// Result reports what happened during one executor tick.
type Result struct {
	StepCompleted   bool
	StepTimedOut    bool
	PlanCompleted   bool
	PlanFailed      bool      // Failure threshold exceeded
	FailedGoal      goal.Goal // Goal to blacklist when PlanFailed
	Resumed         bool      // Stashed plan revalidated and resumed
	ResumeDiscarded bool      // Stash invalid, dropped
	RequestDecision bool      // Agent due for re-decision, bypass cooldown
}

// Executor advances plans. It runs for every agent every tick,
// independent of the decision cadence, and writes only agent-owned
// state. Timeouts are cooperative, checked once per tick.
type Executor struct {
	predicates       *PredicateRegistry
	revalidator      Revalidator
	failureThreshold int
}

// NewExecutor creates an executor. A nil revalidator discards every
// stash on resume; a non-positive threshold uses the default.
func NewExecutor(predicates *PredicateRegistry, revalidator Revalidator, failureThreshold int) *Executor {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	return &Executor{
		predicates:       predicates,
		revalidator:      revalidator,
		failureThreshold: failureThreshold,
	}
}

// Start installs a freshly built plan as the active one. Any stash is
// dropped: its claims were just released, so resuming it later would
// act on state it no longer holds.
func (e *Executor) Start(ex *Execution, p *Plan, now float64) {
	ex.releaseAll()
	ex.Stashed = nil
	ex.Active = p
	ex.Active.StepStartedAt = now
	ex.Phase = PhaseExecuting
	ex.ConsecutiveFailures = 0
}

// Interrupt stashes the active plan (one level deep) and switches to
// an emergency plan. A second interrupt while one is outstanding
// replaces the emergency plan but keeps the original stash.
func (e *Executor) Interrupt(ex *Execution, emergency *Plan, now float64) {
	if ex.Active != nil && ex.Stashed == nil && ex.Phase != PhaseInterrupted {
		ex.Stashed = ex.Active
	}
	ex.Active = emergency
	ex.Active.StepStartedAt = now
	ex.Phase = PhaseInterrupted
}

// Clear abandons all plan state and releases held claims.
func (e *Executor) Clear(ex *Execution) {
	ex.releaseAll()
	ex.Active = nil
	ex.Stashed = nil
	ex.Phase = PhaseIdle
}

// Tick advances the current step against world feedback.
func (e *Executor) Tick(ex *Execution, fb Feedback) Result {
	if ex.Active == nil {
		ex.Phase = PhaseIdle
		return Result{}
	}

	// Empty or exhausted plan: the goal is achieved.
	if ex.Active.Done() {
		return e.finish(ex, fb)
	}

	step := ex.Active.Steps[ex.Active.Current]

	if e.satisfied(step, fb, ex.Active.StepStartedAt) {
		ex.ConsecutiveFailures = 0
		return e.advance(ex, fb, Result{StepCompleted: true})
	}

	if step.Timeout > 0 && fb.Now-ex.Active.StepStartedAt >= step.Timeout {
		ex.ConsecutiveFailures++
		if ex.ConsecutiveFailures > e.failureThreshold {
			failed := ex.Active.Goal
			e.Clear(ex)
			return Result{
				StepTimedOut:    true,
				PlanFailed:      true,
				FailedGoal:      failed,
				RequestDecision: true,
			}
		}
		// Skip-and-continue so execution never stalls.
		return e.advance(ex, fb, Result{StepTimedOut: true})
	}

	return Result{}
}

// advance moves to the next step, or finishes the plan past the last.
func (e *Executor) advance(ex *Execution, fb Feedback, res Result) Result {
	ex.Active.Current++
	ex.Active.StepStartedAt = fb.Now
	if ex.Active.Done() {
		fin := e.finish(ex, fb)
		fin.StepCompleted = res.StepCompleted
		fin.StepTimedOut = res.StepTimedOut
		return fin
	}
	return res
}

// finish completes the active plan: resume the stash when one exists
// and still validates, otherwise request a fresh decision.
func (e *Executor) finish(ex *Execution, fb Feedback) Result {
	ex.releaseAll()
	ex.Active = nil

	if ex.Stashed == nil {
		ex.Phase = PhaseIdle
		return Result{PlanCompleted: true, RequestDecision: true}
	}

	ex.Phase = PhaseResuming
	stashed := ex.Stashed
	ex.Stashed = nil

	if e.revalidator != nil && e.revalidator.Validate(fb.AgentID, stashed) {
		// Resume at the stashed step index, not from the start.
		ex.Active = stashed
		ex.Active.StepStartedAt = fb.Now
		ex.Phase = PhaseExecuting
		return Result{PlanCompleted: true, Resumed: true}
	}

	ex.Phase = PhaseIdle
	return Result{PlanCompleted: true, ResumeDiscarded: true, RequestDecision: true}
}

// satisfied checks a completion condition against feedback.
func (e *Executor) satisfied(step Step, fb Feedback, startedAt float64) bool {
	c := step.Condition
	switch c.Kind {
	case CondPositionReached:
		// The distance alone decides: the movement integrator's arrival
		// flag can linger from an earlier plan's hop.
		return fb.Pos.DistanceTo(c.Target) <= c.Radius
	case CondTimeElapsed:
		return fb.Now-startedAt >= c.Duration
	case CondNeedAbove:
		return fb.Needs.Value(c.Need) >= c.Threshold
	case CondNamed:
		fn, ok := e.predicates.lookup(c.Name)
		return ok && fn(fb)
	default:
		return false
	}
}
