package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/emergentmind/hive/internal/config"
	"github.com/emergentmind/hive/internal/engine"
	"github.com/emergentmind/hive/internal/models"
	"github.com/emergentmind/hive/internal/store"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name string

	// Seed seeds the swarm's random source. Zero still means zero here:
	// scenarios are always reproducible.
	Seed int64

	// Agents is the population size. Ignored when Archetypes is set.
	Agents int

	// Archetypes pins the population to one agent per entry.
	Archetypes []string

	// Ticks is the number of virtual ticks to run.
	Ticks int

	// Interval is the virtual time between ticks (default 1s).
	Interval time.Duration

	// Configure, when non-nil, adjusts the config before the swarm is
	// built. Use this to change probabilities or protocol constants.
	Configure func(*config.Config)

	// BeforeTick, when non-nil, runs before each tick. Use this to
	// manipulate agent state mid-run (e.g. forcing beliefs or trust).
	BeforeTick func(tick int, agents []*models.Agent)
}

// TickResult captures the swarm's aggregate state after one tick.
type TickResult struct {
	Index         int
	Consciousness float64
	Coherence     float64
	PendingGoals  int
	Events        []engine.Event
}

// SimulationResult captures all ticks and the final swarm state.
type SimulationResult struct {
	Ticks []TickResult
	Swarm *engine.Swarm
	Store *store.MemoryStore
}

// FinalAgents returns the population after the last tick.
func (r SimulationResult) FinalAgents() []*models.Agent {
	return r.Swarm.Agents()
}

// EventsOfType returns every captured event of the given type.
func (r SimulationResult) EventsOfType(et engine.EventType) []engine.Event {
	var out []engine.Event
	for _, tr := range r.Ticks {
		for _, ev := range tr.Events {
			if ev.Type == et {
				out = append(out, ev)
			}
		}
	}
	return out
}

// Runner drives scenarios against a real swarm with a virtual clock.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Seed = scenario.Seed
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if scenario.Agents > 0 {
		cfg.Agents.Count = scenario.Agents
	}
	if len(scenario.Archetypes) > 0 {
		cfg.Agents.Archetypes = scenario.Archetypes
	}
	// Wall-clock rate limiting would make virtual-time runs depend on
	// host speed.
	cfg.RateLimit.PerAgent = 1 << 20
	if scenario.Configure != nil {
		scenario.Configure(cfg)
	}

	mem := store.NewMemoryStore(cfg.Retention.Snapshots)

	var tickEvents []engine.Event
	swarm, err := engine.New(ctx, cfg,
		engine.WithStore(mem),
		engine.WithObserver(func(ev engine.Event) {
			tickEvents = append(tickEvents, ev)
		}),
	)
	if err != nil {
		r.t.Fatalf("Run(%s): building swarm: %v", scenario.Name, err)
	}

	interval := scenario.Interval
	if interval <= 0 {
		interval = time.Second
	}

	now := time.Unix(1_700_000_000, 0).UTC()
	ticks := make([]TickResult, 0, scenario.Ticks)
	for i := 0; i < scenario.Ticks; i++ {
		if scenario.BeforeTick != nil {
			scenario.BeforeTick(i, swarm.Agents())
		}

		now = now.Add(interval)
		tickEvents = nil
		if err := swarm.Step(ctx, now); err != nil {
			r.t.Fatalf("Run(%s): tick %d: %v", scenario.Name, i, err)
		}

		pending := 0
		for _, a := range swarm.Agents() {
			pending += len(a.ActiveGoals())
		}
		ticks = append(ticks, TickResult{
			Index:         i,
			Consciousness: swarm.ConsciousnessLevel(),
			Coherence:     swarm.Shared().CoherenceLevel,
			PendingGoals:  pending,
			Events:        append([]engine.Event(nil), tickEvents...),
		})
	}

	return SimulationResult{Ticks: ticks, Swarm: swarm, Store: mem}
}
