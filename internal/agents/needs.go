package agents

// NeedsState tracks satiation of each need on a 0–100 scale.
// 100 is fully satisfied; low values are urgent. Eating raises Hunger,
// drinking raises Thirst, and so on.
type NeedsState struct {
	Hunger float32 `json:"hunger"`
	Thirst float32 `json:"thirst"`
	Energy float32 `json:"energy"`
	Social float32 `json:"social"`
}

// NeedKind enumerates the need axes.
type NeedKind uint8

const (
	NeedHunger NeedKind = iota
	NeedThirst
	NeedEnergy
	NeedSocial
)

// NeedName returns a stable name for logging and plan telemetry.
func NeedName(k NeedKind) string {
	switch k {
	case NeedHunger:
		return "hunger"
	case NeedThirst:
		return "thirst"
	case NeedEnergy:
		return "energy"
	default:
		return "social"
	}
}

// Decay rates in satiation points per simulated second. Thirst decays
// fastest; social slowest.
const (
	hungerDecayRate = 0.40
	thirstDecayRate = 0.50
	energyDecayRate = 0.25
	socialDecayRate = 0.15
)

// Value returns the satiation level of one need.
func (n *NeedsState) Value(k NeedKind) float32 {
	switch k {
	case NeedHunger:
		return n.Hunger
	case NeedThirst:
		return n.Thirst
	case NeedEnergy:
		return n.Energy
	default:
		return n.Social
	}
}

// Raise increases one need by amount, clamped to 100.
func (n *NeedsState) Raise(k NeedKind, amount float32) {
	switch k {
	case NeedHunger:
		n.Hunger += amount
	case NeedThirst:
		n.Thirst += amount
	case NeedEnergy:
		n.Energy += amount
	case NeedSocial:
		n.Social += amount
	}
	n.Clamp()
}

// Decay reduces all needs by the passage of dt simulated seconds.
// Health drains once hunger or thirst bottoms out.
func Decay(a *Agent, dt float64) {
	n := &a.Needs
	n.Hunger -= float32(hungerDecayRate * dt)
	n.Thirst -= float32(thirstDecayRate * dt)
	n.Energy -= float32(energyDecayRate * dt)
	n.Social -= float32(socialDecayRate * dt)
	n.Clamp()

	if n.Hunger <= 0 || n.Thirst <= 0 {
		a.Health -= float32(0.01 * dt)
		if a.Health <= 0 {
			a.Health = 0
			a.Alive = false
		}
	}
}

// Clamp bounds every need to [0, 100].
func (n *NeedsState) Clamp() {
	n.Hunger = clamp01x100(n.Hunger)
	n.Thirst = clamp01x100(n.Thirst)
	n.Energy = clamp01x100(n.Energy)
	n.Social = clamp01x100(n.Social)
}

func clamp01x100(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
