// Package api provides the HTTP API for observing the decision engine.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/engine"
	"github.com/talgya/agentmind/internal/persistence"
)

// Server serves simulation state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Store    *persistence.Store
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	started time.Time
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.started = time.Now()
	telemetryLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/agent/", s.handleAgentDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/goal-changes", RateLimitMiddleware(telemetryLimiter, s.handleGoalChanges))
	mux.HandleFunc("/api/v1/plan-failures", RateLimitMiddleware(telemetryLimiter, s.handlePlanFailures))

	// Admin control plane.
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server failed", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return s.AdminKey != "" && auth == "Bearer "+s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	tick := s.Sim.CurrentTick()
	stats := s.Sim.StatsSnapshot()

	status := map[string]any{
		"name":           "agentmind",
		"tick":           tick,
		"tick_pretty":    humanize.Comma(int64(tick)),
		"sim_seconds":    s.Sim.Now(tick),
		"speed":          s.Eng.Speed,
		"running":        s.Eng.Running,
		"uptime":         humanize.Time(s.started),
		"population":     stats.Population,
		"deaths":         stats.Deaths,
		"goal_changes":   stats.GoalChanges,
		"plan_failures":  stats.PlanFailures,
		"interrupts":     stats.Interrupts,
		"resumes":        stats.Resumes,
		"sched_overruns": stats.Overruns,
	}
	writeJSON(w, status)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	views := s.Sim.AgentViews()

	if tier := r.URL.Query().Get("tier"); tier != "" {
		t, err := strconv.Atoi(tier)
		if err != nil {
			http.Error(w, "invalid tier", http.StatusBadRequest)
			return
		}
		var filtered []engine.AgentView
		for _, v := range views {
			if int(v.Tier) == t {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	if g := r.URL.Query().Get("goal"); g != "" {
		var filtered []engine.AgentView
		for _, v := range views {
			if v.Goal == g {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	writeJSON(w, views)
}

func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/agent/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}

	view, ok := s.Sim.AgentDetail(agents.AgentID(id))
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events := s.Sim.RecentEvents(limit)

	if category := r.URL.Query().Get("category"); category != "" {
		var filtered []engine.Event
		for _, e := range events {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	writeJSON(w, events)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.StatsSnapshot())
}

func (s *Server) handleGoalChanges(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "telemetry disabled", http.StatusNotFound)
		return
	}
	rows, err := s.Store.RecentGoalChanges(queryLimit(r, 100))
	if err != nil {
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handlePlanFailures(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "telemetry disabled", http.StatusNotFound)
		return
	}
	rows, err := s.Store.RecentPlanFailures(queryLimit(r, 100))
	if err != nil {
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed})
}

func queryLimit(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
