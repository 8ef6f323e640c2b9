// Command agentsim runs the utility-driven agent simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/api"
	"github.com/talgya/agentmind/internal/config"
	"github.com/talgya/agentmind/internal/engine"
	"github.com/talgya/agentmind/internal/persistence"
	"github.com/talgya/agentmind/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to YAML config (defaults used when empty)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		slog.Info("config loaded", "path", *configPath)
	}

	// ── Telemetry database ───────────────────────────────────────────
	var store *persistence.Store
	if cfg.DBPath != "" {
		os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
		var err error
		store, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── World (deterministic from seed) ──────────────────────────────
	slog.Info("generating world...")
	gen := world.DefaultGenConfig()
	gen.Seed = cfg.Seed
	w := world.Generate(gen)
	slog.Info("world ready",
		"resources", len(w.Resources),
		"threats", len(w.Threats),
	)

	// ── Agents ───────────────────────────────────────────────────────
	spawner := agents.NewSpawner(cfg.Seed)
	population := spawner.Spawn(w, cfg.Agents, gen.Size)
	slog.Info("agents spawned", "count", len(population))

	// ── Simulation ───────────────────────────────────────────────────
	sim := engine.NewSimulation(cfg, w, population, store)

	eng := engine.NewEngine(cfg.TickSeconds)
	eng.OnTick = sim.Step

	// ── HTTP API ─────────────────────────────────────────────────────
	if cfg.APIPort > 0 {
		adminKey := os.Getenv("AGENTSIM_ADMIN_KEY")
		if adminKey == "" {
			slog.Warn("AGENTSIM_ADMIN_KEY not set — admin POST endpoints will be disabled")
		}
		apiServer := &api.Server{
			Sim:      sim,
			Eng:      eng,
			Store:    store,
			Port:     cfg.APIPort,
			AdminKey: adminKey,
		}
		apiServer.Start()
	}

	// ── Start ────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\n%d agents are deciding for themselves.\n", len(population))
	if cfg.APIPort > 0 {
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	if store != nil {
		if err := store.SaveMeta("last_tick", fmt.Sprintf("%d", sim.CurrentTick())); err != nil {
			slog.Error("final save failed", "error", err)
		}
	}
	fmt.Println("Simulation stopped.")
}
