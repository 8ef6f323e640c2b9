// Package config loads the externally supplied engine tunables from a
// YAML file, with defaults for every knob.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries every externally configurable parameter of the
// decision engine.
type Config struct {
	// Seed drives world generation and agent spawning.
	Seed int64 `yaml:"seed"`

	// Agents is the demo population size.
	Agents int `yaml:"agents"`

	// TickSeconds is the simulated duration of one tick.
	TickSeconds float64 `yaml:"tick_seconds"`

	// Hysteresis is the multiplicative switch margin for goal
	// selection.
	Hysteresis float64 `yaml:"hysteresis"`

	// CacheValiditySeconds bounds reuse of memoized utilities.
	CacheValiditySeconds float64 `yaml:"cache_validity_seconds"`

	// ResourceStaleSeconds bounds how old a remembered resource
	// location may be before planning ignores it.
	ResourceStaleSeconds float64 `yaml:"resource_stale_seconds"`

	// LODIntervals maps tier index to seconds between decisions.
	LODIntervals []float64 `yaml:"lod_intervals"`

	// AgentBudget is the per-tick cap on full decision passes.
	// Zero means unlimited.
	AgentBudget int `yaml:"agent_budget"`

	// MaxSkippedTicks is how long an agent may be passed over before
	// the aging boost applies.
	MaxSkippedTicks int `yaml:"max_skipped_ticks"`

	// FailureThreshold is the consecutive step failures that clear a
	// plan and blacklist its goal.
	FailureThreshold int `yaml:"failure_threshold"`

	// GoalCooldownSeconds is the blacklist window after a plan
	// failure and the default decision cooldown.
	GoalCooldownSeconds float64 `yaml:"goal_cooldown_seconds"`

	// PerceptionRadius bounds context queries.
	PerceptionRadius float64 `yaml:"perception_radius"`

	// Priorities overrides per-goal static priorities by goal name.
	Priorities map[string]int `yaml:"priorities"`

	// Workers is the decision-pass worker pool size.
	Workers int `yaml:"workers"`

	// APIPort serves the HTTP status API; 0 disables it.
	APIPort int `yaml:"api_port"`

	// DBPath is the decision telemetry database; empty disables it.
	DBPath string `yaml:"db_path"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Seed:                 42,
		Agents:               200,
		TickSeconds:          0.1,
		Hysteresis:           1.2,
		CacheValiditySeconds: 1.0,
		ResourceStaleSeconds: 300,
		LODIntervals:         []float64{0.1, 0.5, 1.0, 2.0},
		AgentBudget:          64,
		MaxSkippedTicks:      10,
		FailureThreshold:     3,
		GoalCooldownSeconds:  5.0,
		PerceptionRadius:     30,
		Workers:              4,
		APIPort:              8080,
		DBPath:               "data/decisions.db",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.TickSeconds <= 0 {
		return fmt.Errorf("tick_seconds must be positive, got %v", c.TickSeconds)
	}
	if c.Hysteresis < 1.0 {
		return fmt.Errorf("hysteresis must be >= 1.0, got %v", c.Hysteresis)
	}
	if len(c.LODIntervals) == 0 {
		return fmt.Errorf("lod_intervals must not be empty")
	}
	for i, iv := range c.LODIntervals {
		if iv <= 0 {
			return fmt.Errorf("lod_intervals[%d] must be positive, got %v", i, iv)
		}
	}
	if c.PerceptionRadius <= 0 {
		return fmt.Errorf("perception_radius must be positive, got %v", c.PerceptionRadius)
	}
	return nil
}
