package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig controls demo world generation.
type GenConfig struct {
	Seed       int64
	Size       float64 // World is [0, Size) × [0, Size)
	FoodSites  int
	WaterSites int
	Threats    int
}

// DefaultGenConfig returns generation settings for the demo world.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:       42,
		Size:       500,
		FoodSites:  60,
		WaterSites: 40,
		Threats:    3,
	}
}

// Generate builds a world whose resources cluster along fertility
// bands of a noise field: candidate positions are drawn uniformly and
// kept with probability proportional to local fertility, so food ends
// up in patches rather than uniform scatter.
func Generate(cfg GenConfig) *World {
	w := New(30)
	noise := opensimplex.New(cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed))

	place := func(kind ResourceKind, count int, noiseOffset float64) {
		placed := 0
		for attempts := 0; placed < count && attempts < count*20; attempts++ {
			pos := Vec2{X: rng.Float64() * cfg.Size, Y: rng.Float64() * cfg.Size}
			fertility := (noise.Eval2(pos.X/80+noiseOffset, pos.Y/80+noiseOffset) + 1) / 2
			if rng.Float64() > fertility {
				continue
			}
			amount := 20 + fertility*80
			w.AddResource(kind, pos, amount)
			placed++
		}
	}

	place(ResourceFood, cfg.FoodSites, 0)
	place(ResourceWater, cfg.WaterSites, 1000)

	for i := 0; i < cfg.Threats; i++ {
		pos := Vec2{X: rng.Float64() * cfg.Size, Y: rng.Float64() * cfg.Size}
		vel := Vec2{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}.Normalized().Scale(2)
		w.AddThreat(pos, 0.5+rng.Float64()*0.5, vel)
	}

	return w
}
