package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentmind/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.2, cfg.Hysteresis)
	assert.Equal(t, []float64{0.1, 0.5, 1.0, 2.0}, cfg.LODIntervals)
	assert.Equal(t, 3, cfg.FailureThreshold)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
agents: 50
hysteresis: 1.5
lod_intervals: [0.2, 1.0]
priorities:
  eat: 120
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Agents)
	assert.Equal(t, 1.5, cfg.Hysteresis)
	assert.Equal(t, []float64{0.2, 1.0}, cfg.LODIntervals)
	assert.Equal(t, 120, cfg.Priorities["eat"])

	// Untouched keys keep their defaults.
	assert.Equal(t, 1.0, cfg.CacheValiditySeconds)
	assert.Equal(t, 30.0, cfg.PerceptionRadius)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero tick", func(c *config.Config) { c.TickSeconds = 0 }},
		{"hysteresis below one", func(c *config.Config) { c.Hysteresis = 0.9 }},
		{"empty intervals", func(c *config.Config) { c.LODIntervals = nil }},
		{"negative interval", func(c *config.Config) { c.LODIntervals = []float64{0.1, -1} }},
		{"zero perception", func(c *config.Config) { c.PerceptionRadius = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
