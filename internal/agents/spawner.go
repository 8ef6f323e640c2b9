package agents

import (
	"fmt"
	"math/rand"

	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/world"
)

// Spawner creates agents with seeded-random traits and needs so runs
// are reproducible from a seed.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a spawner with a deterministic RNG.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed))}
}

var givenNames = []string{
	"Aldric", "Brena", "Cedric", "Dara", "Edwin", "Fiora", "Garen",
	"Hilda", "Ivo", "Jessa", "Kellan", "Lyra", "Milo", "Nessa",
	"Orin", "Petra", "Quill", "Rowan", "Sela", "Torin", "Una",
	"Vance", "Wren", "Yara", "Zeph",
}

// Spawn creates n agents scattered uniformly over [0, area)². Agent
// IDs are drawn from the world's entity ID space and registered in
// the spatial grid.
func (s *Spawner) Spawn(w *world.World, n int, area float64) []*Agent {
	out := make([]*Agent, 0, n)
	for i := 0; i < n; i++ {
		id := AgentID(w.NextID())
		pos := world.Vec2{X: s.rng.Float64() * area, Y: s.rng.Float64() * area}

		a := &Agent{
			ID:     id,
			Name:   fmt.Sprintf("%s-%d", givenNames[s.rng.Intn(len(givenNames))], id),
			Pos:    pos,
			Health: 1.0,
			Alive:  true,
			Speed:  8 + s.rng.Float64()*4,
			Needs: NeedsState{
				Hunger: 50 + s.rng.Float32()*40,
				Thirst: 50 + s.rng.Float32()*40,
				Energy: 60 + s.rng.Float32()*40,
				Social: 40 + s.rng.Float32()*50,
			},
			Traits: s.rollTraits(),
		}
		w.Grid.Insert(world.EntityID(id), pos, world.KindAgent)
		out = append(out, a)
	}
	return out
}

// rollTraits draws per-goal multipliers in [0.8, 1.2]. Flee stays at
// 1.0 — danger response is not diluted by genetics.
func (s *Spawner) rollTraits() GeneticTraits {
	t := NeutralTraits()
	for g := 0; g < goal.NumGoals; g++ {
		if goal.Goal(g) == goal.GoalFlee {
			continue
		}
		t[g] = 0.8 + s.rng.Float32()*0.4
	}
	return t
}
