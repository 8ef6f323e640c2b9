// Package agents provides the agent data model: needs, genetic trait
// modifiers, and the movement feedback fields the executor reads.
package agents

import (
	"github.com/talgya/agentmind/internal/world"
)

// AgentID is a unique identifier for an agent. IDs share the world's
// entity ID space so spatial queries can return agents directly.
type AgentID uint64

// Agent is the core entity driven by the decision engine.
type Agent struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`

	Pos    world.Vec2 `json:"pos"`
	Vel    world.Vec2 `json:"vel"`
	Health float32    `json:"health"` // 0.0–1.0
	Alive  bool       `json:"alive"`

	Needs  NeedsState    `json:"needs"`
	Traits GeneticTraits `json:"traits"`

	// Tier is the level-of-detail tier assigned by the distance
	// system. Read-only input to the update scheduler.
	Tier uint8 `json:"tier"`

	// Movement feedback, written by the movement integrator at the
	// end of each tick and read by the executor on the next one.
	MoveTarget *world.Vec2 `json:"move_target,omitempty"`
	Arrived    bool        `json:"arrived"`
	Speed      float64     `json:"speed"` // Units per second

	BornTick uint64 `json:"born_tick"`
}

// SetMoveTarget points the agent at a destination and clears any
// previous arrival flag.
func (a *Agent) SetMoveTarget(target world.Vec2) {
	t := target
	a.MoveTarget = &t
	a.Arrived = false
}

// StopMoving clears the movement target.
func (a *Agent) StopMoving() {
	a.MoveTarget = nil
	a.Vel = world.Vec2{}
}
