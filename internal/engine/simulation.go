// Simulation ties the decision pipeline together and runs it each tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/agentmind/internal/agents"
	"github.com/talgya/agentmind/internal/config"
	"github.com/talgya/agentmind/internal/decision"
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/persistence"
	"github.com/talgya/agentmind/internal/plan"
	"github.com/talgya/agentmind/internal/sched"
	"github.com/talgya/agentmind/internal/world"
)

// LOD tier distance thresholds from the focus point, in world units.
var tierThresholds = []float64{50, 120, 250}

// tierRefreshTicks is how often agent tiers are recomputed.
const tierRefreshTicks = 10

// Mind is the agent-owned decision side of one agent: selection state,
// utility/resource cache, and plan execution. Only the owning agent's
// update path writes it.
type Mind struct {
	State decision.State
	Cache *decision.Cache
	Exec  plan.Execution
}

// Event is a notable occurrence in the simulation.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "goal", "plan", "death", "social"
}

// SimStats tracks aggregate statistics.
type SimStats struct {
	Population   int     `json:"population"`
	Deaths       int     `json:"deaths"`
	GoalChanges  uint64  `json:"goal_changes"`
	PlanFailures uint64  `json:"plan_failures"`
	Interrupts   uint64  `json:"interrupts"`
	Resumes      uint64  `json:"resumes"`
	AvgHunger    float32 `json:"avg_hunger"`
	AvgEnergy    float32 `json:"avg_energy"`
	Overruns     uint64  `json:"scheduler_overruns"`
}

// Simulation holds the complete world and agent state and wires the
// scorer, selector, planner, executor and scheduler together.
type Simulation struct {
	mu sync.RWMutex

	World  *world.World
	Agents []*agents.Agent
	Index  map[agents.AgentID]*agents.Agent
	Minds  map[agents.AgentID]*Mind

	Catalog    *goal.Catalog
	Scorer     *decision.Scorer
	Selector   *decision.Selector
	Planner    *plan.Planner
	Executor   *plan.Executor
	Sched      *sched.Scheduler
	Predicates *plan.PredicateRegistry

	Events   []Event
	Stats    SimStats
	LastTick uint64

	Store *persistence.Store // Optional decision telemetry

	cfg      config.Config
	dt       float64
	focus    world.Vec2 // LOD distance reference point
	deciders chan struct{}
}

// decisionOutcome is one worker's result for a due agent, applied
// serially after the parallel pass.
type decisionOutcome struct {
	id        agents.AgentID
	selected  goal.Goal
	changed   bool
	interrupt bool
	newPlan   *plan.Plan
}

// NewSimulation wires a simulation from generated components.
func NewSimulation(cfg config.Config, w *world.World, ag []*agents.Agent, store *persistence.Store) *Simulation {
	cat := goal.DefaultCatalog()
	if len(cfg.Priorities) > 0 {
		cat = cat.WithPriorities(cfg.Priorities)
	}

	index := make(map[agents.AgentID]*agents.Agent, len(ag))
	minds := make(map[agents.AgentID]*Mind, len(ag))
	for _, a := range ag {
		index[a.ID] = a
		minds[a.ID] = &Mind{
			State: decision.NewState(cfg.GoalCooldownSeconds),
			Cache: decision.NewCache(),
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	sim := &Simulation{
		World:      w,
		Agents:     ag,
		Index:      index,
		Minds:      minds,
		Catalog:    cat,
		Scorer:     decision.NewScorer(cat, cfg.CacheValiditySeconds),
		Selector:   decision.NewSelector(cat, cfg.Hysteresis),
		Planner:    plan.NewPlanner(cfg.ResourceStaleSeconds),
		Predicates: plan.NewPredicateRegistry(),
		Sched:      sched.New(cfg.LODIntervals, cfg.AgentBudget, cfg.MaxSkippedTicks),
		Store:      store,
		cfg:        cfg,
		dt:         cfg.TickSeconds,
		deciders:   make(chan struct{}, workers),
	}
	sim.Executor = plan.NewExecutor(sim.Predicates, sim, cfg.FailureThreshold)

	// The LOD reference point starts at the population centroid.
	if len(ag) > 0 {
		var c world.Vec2
		for _, a := range ag {
			c = c.Add(a.Pos)
		}
		sim.focus = c.Scale(1 / float64(len(ag)))
	}

	now := 0.0
	for _, a := range ag {
		a.Tier = sim.tierFor(a.Pos)
		sim.Sched.Register(a.ID, a.Tier, now)
	}
	sim.updateStats()
	return sim
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// Now converts a tick number to simulated seconds.
func (s *Simulation) Now(tick uint64) float64 {
	return float64(tick) * s.dt
}

// Step advances the simulation by one tick: decisions for due agents
// against the previous tick's snapshot, then plan execution and world
// integration for every agent.
func (s *Simulation) Step(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	now := s.Now(tick)

	// Snapshot of the fully applied previous tick. Every decision this
	// tick reads this view, never partial results of the current one.
	snap := s.World.Snapshot()

	if tick%tierRefreshTicks == 0 {
		s.refreshTiers()
	}
	s.forceThreatened(snap)

	s.decisionPass(snap, tick, now)
	s.executionPass(snap, tick, now)
	s.integrate(tick, now)

	if tick%100 == 0 {
		s.updateStats()
		s.report(tick)
	}
}

// decisionPass scores and selects goals for the agents the scheduler
// marks due, fanned out over the worker pool. Outcomes are applied
// serially so shared state (events, scheduler, telemetry) sees a
// deterministic order.
func (s *Simulation) decisionPass(snap *world.Snapshot, tick uint64, now float64) {
	due := s.Sched.Due(now)
	if len(due) == 0 {
		return
	}

	outcomes := make([]decisionOutcome, len(due))
	var wg sync.WaitGroup
	for i, id := range due {
		a, ok := s.Index[id]
		if !ok || !a.Alive {
			s.Sched.Remove(id)
			continue
		}
		wg.Add(1)
		s.deciders <- struct{}{}
		go func(i int, a *agents.Agent) {
			defer wg.Done()
			defer func() { <-s.deciders }()
			outcomes[i] = s.decide(snap, a, tick, now)
		}(i, a)
	}
	wg.Wait()

	for _, out := range outcomes {
		if out.id == 0 {
			continue
		}
		s.apply(out, tick, now)
	}
}

// decide runs one agent's full decision: context, scoring, selection,
// and planning on goal change. Writes only agent-owned state.
func (s *Simulation) decide(snap *world.Snapshot, a *agents.Agent, tick uint64, now float64) decisionOutcome {
	m := s.Minds[a.ID]
	ctx := decision.BuildContext(snap, a, tick, now, s.cfg.PerceptionRadius)
	scores := s.Scorer.Score(ctx, a.Traits, m.Cache)
	selected, changed := s.Selector.Select(scores, m.State.CurrentGoal)

	out := decisionOutcome{id: a.ID, selected: selected, changed: changed}
	switch {
	case changed:
		out.interrupt = s.Catalog.Interrupt(selected) && m.Exec.Active != nil
		out.newPlan = s.Planner.Build(selected, ctx, m.Cache)
	case m.Exec.Active == nil:
		// Same goal re-selected while planless: without a rebuild the
		// agent would stand still until the goal changed.
		out.newPlan = s.Planner.Build(selected, ctx, m.Cache)
	}
	return out
}

// apply installs a decision outcome: plan start or interrupt, state
// update, events and telemetry.
func (s *Simulation) apply(out decisionOutcome, tick uint64, now float64) {
	a := s.Index[out.id]
	m := s.Minds[out.id]

	m.State.LastDecisionAt = now
	s.Sched.MarkDecided(out.id, now)

	if !out.changed {
		if out.newPlan != nil {
			s.Executor.Start(&m.Exec, out.newPlan, now)
		}
		return
	}

	prev := m.State.CurrentGoal
	m.State.CurrentGoal = out.selected
	s.Stats.GoalChanges++

	if out.interrupt {
		s.Executor.Interrupt(&m.Exec, out.newPlan, now)
		s.Stats.Interrupts++
	} else {
		s.Executor.Start(&m.Exec, out.newPlan, now)
	}

	s.record(tick, "goal", fmt.Sprintf("%s: %s -> %s", a.Name, prev.Name(), out.selected.Name()))
	if s.Store != nil {
		if err := s.Store.RecordGoalChange(tick, uint64(a.ID), prev.Name(), out.selected.Name(), out.interrupt); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
}

// executionPass ticks every alive agent's executor, independent of the
// decision cadence.
func (s *Simulation) executionPass(snap *world.Snapshot, tick uint64, now float64) {
	for _, a := range s.Agents {
		if !a.Alive {
			continue
		}
		m := s.Minds[a.ID]

		prevStep, hadStep := m.Exec.Active.CurrentStep()
		fb := plan.Feedback{
			AgentID: a.ID,
			Now:     now,
			Pos:     a.Pos,
			Arrived: a.Arrived,
			Needs:   a.Needs,
		}
		res := s.Executor.Tick(&m.Exec, fb)
		if res.StepCompleted && hadStep && prevStep.Action.Kind == plan.ActionSocialize {
			s.concludeTalk(a, m, prevStep.Action.Other, tick, now)
		}
		s.handleResult(a, m, res, tick, now)
	}
}

// handleResult folds an executor result into agent state, the
// scheduler and telemetry.
func (s *Simulation) handleResult(a *agents.Agent, m *Mind, res plan.Result, tick uint64, now float64) {
	if res.StepCompleted || res.StepTimedOut {
		a.StopMoving()
	}

	if res.PlanFailed {
		until := now + m.State.Cooldown
		m.Cache.BlacklistGoal(res.FailedGoal, until)
		m.State.CurrentGoal = goal.GoalIdle
		m.State.CurrentAction = ""
		s.Stats.PlanFailures++
		s.record(tick, "plan", fmt.Sprintf("%s abandoned %s after repeated step failures", a.Name, res.FailedGoal.Name()))
		if s.Store != nil {
			if err := s.Store.RecordPlanFailure(tick, uint64(a.ID), res.FailedGoal.Name()); err != nil {
				slog.Warn("telemetry write failed", "error", err)
			}
		}
	}

	if res.Resumed {
		s.Stats.Resumes++
		if m.Exec.Active != nil {
			m.State.CurrentGoal = m.Exec.Active.Goal
		}
	}

	if res.RequestDecision {
		// Bypass the tier interval; the next tick re-decides.
		s.Sched.ForceDue(a.ID)
	}

	if step, ok := m.Exec.Active.CurrentStep(); ok {
		m.State.CurrentAction = step.Action.Describe()
	} else if m.Exec.Active == nil {
		m.State.CurrentAction = ""
	}
}

// Validate reports whether a stashed plan is still worth resuming:
// its goal must be off the blacklist and any bound resource still
// present. Position and time based plans resume as-is.
func (s *Simulation) Validate(id agents.AgentID, p *plan.Plan) bool {
	m, ok := s.Minds[id]
	if !ok {
		return false
	}
	now := s.Now(s.LastTick)
	if m.Cache.Blacklisted(p.Goal, now) {
		return false
	}
	for _, st := range p.Steps[p.Current:] {
		if st.Action.Kind == plan.ActionConsume && st.Action.Resource != 0 {
			r, exists := s.World.Resources[st.Action.Resource]
			if !exists || r.Amount <= 0 {
				return false
			}
		}
	}
	return true
}

// refreshTiers reassigns LOD tiers by distance from the focus point.
func (s *Simulation) refreshTiers() {
	for _, a := range s.Agents {
		if !a.Alive {
			continue
		}
		t := s.tierFor(a.Pos)
		if t != a.Tier {
			a.Tier = t
			s.Sched.SetTier(a.ID, t)
		}
	}
}

func (s *Simulation) tierFor(pos world.Vec2) uint8 {
	d := pos.DistanceTo(s.focus)
	for i, th := range tierThresholds {
		if d < th {
			return uint8(i)
		}
	}
	return uint8(len(tierThresholds))
}

// forceThreatened marks agents near a dangerous threat due now, so the
// interrupt path never waits out a slow LOD interval.
func (s *Simulation) forceThreatened(snap *world.Snapshot) {
	for _, t := range s.World.Threats {
		if t.Level <= 0.5 {
			continue
		}
		for _, hit := range snap.QueryRadius(t.Pos, 20) {
			if hit.Kind != world.KindAgent {
				continue
			}
			id := agents.AgentID(hit.ID)
			if m, ok := s.Minds[id]; ok && m.State.CurrentGoal != goal.GoalFlee {
				s.Sched.ForceDue(id)
			}
		}
	}
}

func (s *Simulation) record(tick uint64, category, desc string) {
	s.Events = append(s.Events, Event{Tick: tick, Description: desc, Category: category})
	// Keep the last 1000 events.
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
	if s.Store != nil {
		if err := s.Store.RecordEvent(tick, desc, category); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
}

func (s *Simulation) updateStats() {
	alive, deaths := 0, 0
	var hunger, energy float32
	for _, a := range s.Agents {
		if a.Alive {
			alive++
			hunger += a.Needs.Hunger
			energy += a.Needs.Energy
		} else {
			deaths++
		}
	}
	s.Stats.Population = alive
	s.Stats.Deaths = deaths
	if alive > 0 {
		s.Stats.AvgHunger = hunger / float32(alive)
		s.Stats.AvgEnergy = energy / float32(alive)
	}
	s.Stats.Overruns = s.Sched.Overruns
}

func (s *Simulation) report(tick uint64) {
	slog.Info("simulation report",
		"tick", tick,
		"alive", s.Stats.Population,
		"deaths", s.Stats.Deaths,
		"goal_changes", s.Stats.GoalChanges,
		"plan_failures", s.Stats.PlanFailures,
		"interrupts", s.Stats.Interrupts,
		"resumes", s.Stats.Resumes,
		"avg_hunger", fmt.Sprintf("%.1f", s.Stats.AvgHunger),
		"avg_energy", fmt.Sprintf("%.1f", s.Stats.AvgEnergy),
		"sched_overruns", s.Stats.Overruns,
	)
}
