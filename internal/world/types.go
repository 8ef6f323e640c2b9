// Package world provides the shared spatial model: 2D positions, the
// spatial hash grid used for perception queries, resources, threats,
// and the read-only snapshot decision passes are built from.
package world

import "math"

// Vec2 is a position or direction in continuous world space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the Euclidean magnitude of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec2) DistanceTo(o Vec2) float64 { return v.Sub(o).Length() }

// Normalized returns the unit vector in v's direction, or zero when v
// has no length.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// EntityID identifies any entity registered in the spatial grid.
type EntityID uint64

// EntityKind tags what a perception query returned.
type EntityKind uint8

const (
	KindAgent    EntityKind = iota
	KindResource
	KindThreat
)

// ResourceKind enumerates consumable resource types.
type ResourceKind uint8

const (
	ResourceFood ResourceKind = iota
	ResourceWater
)

// NumResourceKinds is the number of resource types.
const NumResourceKinds = 2

// ResourceName returns a stable name for logging.
func ResourceName(k ResourceKind) string {
	if k == ResourceWater {
		return "water"
	}
	return "food"
}

// Resource is a consumable item in the world. Amount drains as agents
// consume it; a depleted resource is removed by the owning world.
type Resource struct {
	ID        EntityID     `json:"id"`
	Kind      ResourceKind `json:"kind"`
	Pos       Vec2         `json:"pos"`
	Amount    float64      `json:"amount"`
	ClaimedBy uint64       `json:"claimed_by,omitempty"` // Agent holding an exclusive claim, 0 = unclaimed
}

// Threat is a roaming danger source. Level scales flee urgency.
type Threat struct {
	ID    EntityID `json:"id"`
	Pos   Vec2     `json:"pos"`
	Level float64  `json:"level"` // 0..1
	Vel   Vec2     `json:"vel"`
}
