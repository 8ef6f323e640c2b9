// Package engine provides the tick-based simulation loop and the
// aggregate wiring the decision pipeline together.
package engine

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward at a fixed simulated timestep.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Real-time duration of one tick at speed 1.0
	Running  bool

	// OnTick runs every tick with the tick counter.
	OnTick func(tick uint64)
}

// NewEngine creates an engine ticking every tickSeconds of real time
// at speed 1.0.
func NewEngine(tickSeconds float64) *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Duration(tickSeconds * float64(time.Second)),
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused; sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Tick++
		if e.OnTick != nil {
			e.OnTick(e.Tick)
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}
