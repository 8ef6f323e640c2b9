// Package plan compiles selected goals into executable step sequences
// and advances them tick by tick: completion detection, cooperative
// timeouts, failure handling, and interrupt/resume.
package plan

import (
	"fmt"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/world"
)

// ActionKind enumerates the action descriptors consumed by the
// movement/interaction collaborators. Opaque to the engine core.
type ActionKind uint8

const (
	ActionMoveTo ActionKind = iota
	ActionConsume
	ActionRest
	ActionSocialize
	ActionWander
	ActionFleeTo
)

// String returns the action kind name.
func (k ActionKind) String() string {
	switch k {
	case ActionMoveTo:
		return "move_to"
	case ActionConsume:
		return "consume"
	case ActionRest:
		return "rest"
	case ActionSocialize:
		return "socialize"
	case ActionWander:
		return "wander"
	case ActionFleeTo:
		return "flee_to"
	default:
		return "unknown"
	}
}

// Action describes what the agent should be doing during one step.
type Action struct {
	Kind         ActionKind         `json:"kind"`
	Target       world.Vec2         `json:"target"`
	Resource     world.EntityID     `json:"resource,omitempty"`
	ResourceKind world.ResourceKind `json:"resource_kind,omitempty"`
	Other        agents.AgentID     `json:"other,omitempty"`
}

// Describe returns a short label exposed as DecisionState.CurrentAction.
func (a Action) Describe() string {
	switch a.Kind {
	case ActionConsume:
		return fmt.Sprintf("consume %s", world.ResourceName(a.ResourceKind))
	case ActionSocialize:
		return fmt.Sprintf("socialize with %d", a.Other)
	default:
		return a.Kind.String()
	}
}

// ConditionKind enumerates the closed set of completion conditions.
type ConditionKind uint8

const (
	CondPositionReached ConditionKind = iota
	CondTimeElapsed
	CondNeedAbove
	CondNamed
)

// Condition is a step's completion condition. A small closed union
// plus one named-predicate variant keeps plan state inspectable and
// shareable across parallel evaluation.
type Condition struct {
	Kind ConditionKind `json:"kind"`

	// CondPositionReached
	Target world.Vec2 `json:"target,omitempty"`
	Radius float64    `json:"radius,omitempty"`

	// CondTimeElapsed
	Duration float64 `json:"duration,omitempty"`

	// CondNeedAbove
	Need      agents.NeedKind `json:"need,omitempty"`
	Threshold float32         `json:"threshold,omitempty"`

	// CondNamed, resolved through the predicate registry
	Name string `json:"name,omitempty"`
}

// ReachPosition completes when the agent is within radius of target.
func ReachPosition(target world.Vec2, radius float64) Condition {
	return Condition{Kind: CondPositionReached, Target: target, Radius: radius}
}

// AfterSeconds completes once the step has run for d simulated seconds.
func AfterSeconds(d float64) Condition {
	return Condition{Kind: CondTimeElapsed, Duration: d}
}

// NeedAbove completes once the given need reaches the threshold.
func NeedAbove(need agents.NeedKind, threshold float32) Condition {
	return Condition{Kind: CondNeedAbove, Need: need, Threshold: threshold}
}

// Named completes when the registered predicate of that name holds.
func Named(name string) Condition {
	return Condition{Kind: CondNamed, Name: name}
}

// Step is one atomic unit of a plan. Immutable once created.
type Step struct {
	Action    Action    `json:"action"`
	Condition Condition `json:"condition"`
	Timeout   float64   `json:"timeout"` // Seconds; 0 = no timeout
}

// PredicateFunc checks a named completion condition against world
// feedback.
type PredicateFunc func(fb Feedback) bool

// PredicateRegistry resolves named conditions. Registration happens at
// startup; lookups are read-only afterwards.
type PredicateRegistry struct {
	preds map[string]PredicateFunc
}

// NewPredicateRegistry creates an empty registry.
func NewPredicateRegistry() *PredicateRegistry {
	return &PredicateRegistry{preds: make(map[string]PredicateFunc)}
}

// Register installs a predicate under a name, replacing any previous
// registration.
func (r *PredicateRegistry) Register(name string, fn PredicateFunc) {
	r.preds[name] = fn
}

// lookup returns the predicate for a name. An unknown name never
// satisfies, so the step falls through to its timeout.
func (r *PredicateRegistry) lookup(name string) (PredicateFunc, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.preds[name]
	return fn, ok
}
