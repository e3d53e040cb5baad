// Package engine runs the swarm: a fixed-interval tick scheduler that
// drives every agent's cognitive cycle, routes the message bus, simulates
// goal outcomes, aggregates shared reality, and detects emergent
// behavior. All state lives on the Swarm struct; two swarms in one
// process never share anything.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/emergentmind/hive/internal/archetype"
	"github.com/emergentmind/hive/internal/config"
	"github.com/emergentmind/hive/internal/emergence"
	"github.com/emergentmind/hive/internal/gen"
	"github.com/emergentmind/hive/internal/logging"
	"github.com/emergentmind/hive/internal/models"
	"github.com/emergentmind/hive/internal/protocol"
	"github.com/emergentmind/hive/internal/ratelimit"
	"github.com/emergentmind/hive/internal/store"
)

// Swarm owns the full simulation state and its tick scheduler.
type Swarm struct {
	mu sync.Mutex

	cfg    *config.Config
	params protocol.Params

	agents        []*models.Agent
	bus           *protocol.Bus
	behaviors     []models.EmergentBehavior
	shared        models.SharedReality
	consciousness float64
	tick          uint64
	lastFrames    []models.RealityFrame

	rng      *rand.Rand
	client   gen.Client
	template gen.Client
	limiter  *ratelimit.Limiter
	detector *emergence.Detector
	snaps    store.SnapshotStore

	logger    *slog.Logger
	trace     *logging.TraceLogger
	observers []Observer

	interval time.Duration
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Option customizes a Swarm at construction time.
type Option func(*Swarm)

// WithStore sets the snapshot store. Without one, state is in-memory only.
func WithStore(s store.SnapshotStore) Option {
	return func(sw *Swarm) { sw.snaps = s }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(sw *Swarm) { sw.logger = l }
}

// WithTraceLogger sets the JSONL trace logger. Nil is fine.
func WithTraceLogger(tl *logging.TraceLogger) Option {
	return func(sw *Swarm) { sw.trace = tl }
}

// WithGenClient overrides the content-generation client built from config.
func WithGenClient(c gen.Client) Option {
	return func(sw *Swarm) { sw.client = c }
}

// WithObserver registers an observer for engine events.
func WithObserver(o Observer) Option {
	return func(sw *Swarm) { sw.observers = append(sw.observers, o) }
}

// WithRand overrides the random source built from the configured seed.
func WithRand(rng *rand.Rand) Option {
	return func(sw *Swarm) { sw.rng = rng }
}

// New builds a swarm from configuration. When a snapshot store is set and
// holds a snapshot, state is restored from it; otherwise a fresh
// population is initialized from the archetype table.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Swarm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Swarm{
		cfg:      cfg,
		params:   paramsFrom(cfg),
		bus:      protocol.NewBus(cfg.Retention.Messages),
		detector: emergence.NewDetector(0),
		interval: cfg.TickInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
	if s.client == nil {
		s.client = gen.WithFallback(gen.NewClient(cfg.Gen))
	}
	s.template = gen.NewTemplateClient()
	if s.limiter == nil {
		s.limiter = ratelimit.NewFromQuota(cfg.RateLimit.PerAgent, cfg.RateLimit.Window)
	}

	restored, err := s.restore(ctx)
	if err != nil {
		s.logger.Warn("snapshot restore failed, starting fresh", "error", err)
	}
	if !restored {
		s.initAgents(time.Now().UTC())
	}

	return s, nil
}

// restore loads the latest snapshot, if any.
func (s *Swarm) restore(ctx context.Context) (bool, error) {
	if s.snaps == nil {
		return false, nil
	}
	snap, err := s.snaps.Load(ctx)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}

	s.agents = snap.Agents
	s.behaviors = snap.Behaviors
	s.shared = snap.Shared
	s.consciousness = snap.Consciousness
	s.tick = snap.Tick
	s.bus.Restore(snap.Messages)
	s.logger.Info("restored swarm from snapshot", "tick", snap.Tick, "agents", len(snap.Agents))
	return true, nil
}

// seedTopics are the shared belief space every fresh agent starts with.
var seedTopics = []struct {
	key        string
	hypothesis string
}{
	{"swarm_cooperation", "the swarm accomplishes more when agents align"},
	{"environment_stability", "the environment changes slowly enough to learn from"},
	{"peer_reliability", "most peers report their state honestly"},
}

// initAgents creates the population from the configured archetype list,
// or Count agents with randomly picked archetypes.
func (s *Swarm) initAgents(now time.Time) {
	names := s.cfg.Agents.Archetypes
	if len(names) == 0 {
		names = make([]string, s.cfg.Agents.Count)
		for i := range names {
			names[i] = archetype.Pick(s.rng)
		}
	}

	for i, name := range names {
		prof := archetype.Lookup(name)
		agent := models.NewAgent(
			fmt.Sprintf("agent-%02d", i+1),
			fmt.Sprintf("%s-%d", prof.Name, i+1),
			prof.Name,
		)
		agent.LearningRate = prof.LearningRate.Sample(s.rng)
		agent.ReflectionThreshold = prof.ReflectionThreshold.Sample(s.rng)
		agent.MetaAwareness = prof.MetaAwareness.Sample(s.rng)
		agent.Emotional.Primary = prof.EmotionalTendency
		agent.Emotional.Intensity = 0.3
		agent.Emotional.Modifiers.DecisionStyle = prof.DecisionStyle

		for _, topic := range seedTopics {
			agent.SetBelief(topic.key, topic.hypothesis, 0.3+s.rng.Float64()*0.4, now)
		}

		agent.Self = models.SelfModel{
			Traits:     append([]string(nil), prof.Traits...),
			Boundaries: []string{"keeps its own ledger", "acts only through messages"},
			Agency:     "emerging",
			Narrative:  fmt.Sprintf("%s is a %s still mapping the swarm", agent.Name, prof.Name),
		}

		s.agents = append(s.agents, agent)
	}
}

// paramsFrom maps config onto message-processing parameters.
func paramsFrom(cfg *config.Config) protocol.Params {
	return protocol.Params{
		TrustEMAWeight:      cfg.Protocol.TrustEMAWeight,
		RejectionPenalty:    cfg.Protocol.RejectionPenalty,
		BeliefFloor:         cfg.Protocol.BeliefFloor,
		InsightSignificance: cfg.Protocol.InsightSignificance,
		LearningRateMin:     cfg.Bounds.LearningRateMin,
		LearningRateMax:     cfg.Bounds.LearningRateMax,
	}
}

// Start launches the tick loop. Starting a running swarm is a no-op.
func (s *Swarm) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	s.logger.Info("swarm started", "agents", len(s.agents), "interval", s.interval)
	go s.loop(ctx, stopCh, doneCh)
}

// loop drives ticks until stopped. The interval is re-read every
// iteration so SetTickInterval takes effect at the next boundary.
func (s *Swarm) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		s.mu.Lock()
		interval := s.interval
		s.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.shutdown(context.Background())
			return
		case <-stopCh:
			timer.Stop()
			s.shutdown(context.Background())
			return
		case now := <-timer.C:
			if err := s.Step(ctx, now.UTC()); err != nil {
				s.logger.Error("tick failed", "tick", s.TickCount(), "error", err)
			}
		}
	}
}

// shutdown writes a final best-effort snapshot and marks the loop done.
func (s *Swarm) shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.saveLocked(ctx, time.Now().UTC())
	s.logger.Info("swarm stopped", "tick", s.tick)
}

// Stop halts the tick loop and blocks until the final snapshot is
// written. Stopping a stopped swarm is a no-op; the swarm can be started
// again afterwards.
func (s *Swarm) Stop() {
	s.mu.Lock()
	if !s.running || s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh = nil
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// SetTickInterval changes the tick period, effective at the next tick
// boundary. Non-positive intervals are ignored.
func (s *Swarm) SetTickInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// Reconfigure swaps simulation parameters on a live swarm. Agent state,
// message history, and behavior records are untouched; population size
// changes require a fresh swarm.
func (s *Swarm) Reconfigure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	s.params = paramsFrom(cfg)
	s.interval = cfg.TickInterval
	s.client = gen.WithFallback(gen.NewClient(cfg.Gen))
	s.limiter = ratelimit.NewFromQuota(cfg.RateLimit.PerAgent, cfg.RateLimit.Window)
	s.logger.Info("swarm reconfigured", "interval", s.interval)
	return nil
}

// Subscribe registers an observer after construction.
func (s *Swarm) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// TickCount returns the number of completed ticks.
func (s *Swarm) TickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Agents returns the live agent list. Callers must treat it as read-only.
func (s *Swarm) Agents() []*models.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Agent(nil), s.agents...)
}

// Shared returns the latest aggregated shared reality.
func (s *Swarm) Shared() models.SharedReality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shared
}

// ConsciousnessLevel returns the latest swarm consciousness metric.
func (s *Swarm) ConsciousnessLevel() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consciousness
}

// Frames returns the reality frames contributed on the last tick.
func (s *Swarm) Frames() []models.RealityFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RealityFrame(nil), s.lastFrames...)
}

// Behaviors returns the recorded emergent behaviors, oldest first.
func (s *Swarm) Behaviors() []models.EmergentBehavior {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.EmergentBehavior(nil), s.behaviors...)
}

// History returns the delivered-message history, oldest first.
func (s *Swarm) History() []*models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.History()
}

// notify fans an event out to all observers, synchronously.
func (s *Swarm) notify(ev Event) {
	for _, o := range s.observers {
		o(ev)
	}
}
