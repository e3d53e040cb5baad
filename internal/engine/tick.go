package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/emergentmind/hive/internal/emotion"
	"github.com/emergentmind/hive/internal/gen"
	"github.com/emergentmind/hive/internal/models"
	"github.com/emergentmind/hive/internal/prediction"
	"github.com/emergentmind/hive/internal/protocol"
	"github.com/emergentmind/hive/internal/reality"
	"github.com/emergentmind/hive/internal/reflection"
	"github.com/emergentmind/hive/internal/store"
)

// Step runs one complete tick at the given simulated time. It is the
// unit the scheduler drives once per interval; tests and the run command
// call it directly with a virtual clock. Observers are notified after
// all state mutations complete.
func (s *Swarm) Step(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	s.tick++
	tick := s.tick

	var events []Event

	// Phase 1: per-agent cognitive cycle.
	frames := make([]models.RealityFrame, 0, len(s.agents))
	for _, agent := range s.agents {
		events = append(events, s.cycleAgent(ctx, agent, tick, now)...)
		frames = append(frames, s.frameFor(agent, now))
	}

	// Phase 2: message emission. One roll per tick; at most one randomly
	// chosen agent speaks, so traffic does not scale with population.
	if len(s.agents) > 0 && s.rng.Float64() < s.cfg.Probabilities.Message {
		agent := s.agents[s.rng.Intn(len(s.agents))]
		msgType := models.AllMessageTypes[s.rng.Intn(len(models.AllMessageTypes))]
		body := s.messageBody(ctx, agent, msgType)
		if msg := protocol.Emit(agent, s.peersOf(agent), msgType, body, s.rng, now); msg != nil {
			s.bus.Publish(msg)
			events = append(events, Event{
				Type: EventMessageEmitted, Tick: tick, Time: now,
				AgentID: agent.ID, Message: msg,
			})
		}
	}

	// Phase 3: delivery. Each drained message is consumed exactly once
	// per recipient, recipient-major.
	drained := s.bus.Drain()
	for _, msg := range drained {
		sender := s.agentByID(msg.SenderID)
		if sender == nil {
			continue
		}
		outcome := protocol.Process(msg, sender, s.recipientsOf(msg), s.params, s.rng, now)
		s.trace.Log(map[string]any{
			"event": "message_processed", "tick": tick, "type": string(msg.Type),
			"sender": msg.SenderID, "accepted": len(outcome.Accepted),
			"rejected": len(outcome.Rejected), "adopted": len(outcome.Adopted),
		})
	}

	// Phase 4: goal outcomes.
	events = append(events, s.resolveGoals(tick, now)...)

	// Phase 5: aggregate shared reality and consciousness.
	s.lastFrames = frames
	s.shared = reality.Aggregate(frames, now)

	for _, b := range s.detector.Detect(s.agents, s.shared, now) {
		s.behaviors = append(s.behaviors, b)
		behavior := b
		events = append(events, Event{
			Type: EventBehaviorDetected, Tick: tick, Time: now, Behavior: &behavior,
		})
	}
	if limit := s.cfg.Retention.Behaviors; len(s.behaviors) > limit {
		s.behaviors = append([]models.EmergentBehavior(nil), s.behaviors[len(s.behaviors)-limit:]...)
	}

	// Message volume is the traffic of this tick, not the (now empty)
	// queue after delivery.
	s.consciousness = reality.Consciousness(s.agents, len(drained), len(s.behaviors))

	// Phase 6: best-effort persistence.
	s.saveLocked(ctx, now)

	events = append(events, Event{
		Type: EventStateUpdate, Tick: tick, Time: now, Consciousness: s.consciousness,
	})
	s.mu.Unlock()

	for _, ev := range events {
		s.notify(ev)
	}
	return nil
}

// cycleAgent runs one agent's cognitive cycle: emotion, predictions,
// reflection, and self-model drift.
func (s *Swarm) cycleAgent(ctx context.Context, agent *models.Agent, tick uint64, now time.Time) []Event {
	var events []Event

	emotion.Update(agent, s.rng)

	if s.rng.Float64() < s.cfg.Probabilities.Prediction {
		kind := models.AllPredictionKinds[s.rng.Intn(len(models.AllPredictionKinds))]
		target := ""
		if kind.NeedsTarget() {
			if peer := s.randomPeer(agent); peer != nil {
				target = peer.ID
			}
		}
		prediction.Record(agent, kind, target, s.rng, now)
	}

	for _, p := range agent.Ledger.Outstanding() {
		if s.rng.Float64() >= s.cfg.Probabilities.Resolution {
			continue
		}
		prediction.Resolve(p, s.rng, now)
		agent.Memory.Focus(string(p.Kind))
		agent.Memory.AddEpisode(
			fmt.Sprintf("predicted %s %q, observed %q", p.Kind, p.Predicted, p.Actual),
			p.ErrorLevel, now,
		)
	}
	prediction.Prune(&agent.Ledger, s.cfg.Retention.Predictions, now)

	errorLevel := prediction.CurrentErrorLevel(&agent.Ledger)
	if reflection.ShouldReflect(agent, errorLevel) {
		// Past the generation quota the local template takes over, so an
		// over-threshold error level never passes without a cycle.
		client := s.client
		if s.limiter.Check(agent.ID) != nil {
			client = s.template
		}
		result, err := reflection.Run(ctx, client, agent, errorLevel,
			s.cfg.Bounds.LearningRateMin, s.cfg.Bounds.LearningRateMax, now)
		if err != nil {
			events = append(events, Event{
				Type: EventReflectionError, Tick: tick, Time: now,
				AgentID: agent.ID, Err: err,
			})
			s.trace.Log(map[string]any{
				"event": "reflection_error", "tick": tick,
				"agent_id": agent.ID, "error": err.Error(),
			})
		} else {
			events = append(events, Event{
				Type: EventReflectionCompleted, Tick: tick, Time: now, AgentID: agent.ID,
			})
			s.trace.Log(map[string]any{
				"event": "reflection", "tick": tick, "agent_id": agent.ID,
				"error_level": errorLevel, "adjustments": len(result.Adjustments),
				"importance": result.Importance,
			})
		}
	}

	if s.rng.Float64() < s.cfg.Probabilities.SelfModel {
		s.driftSelfModel(ctx, agent, now)
	}

	return events
}

// messageBody produces free text for the message types that carry one.
// The generation quota guards remote calls; past it, the local template
// serves the body. An empty body lets the protocol fall back to its own
// derived text.
func (s *Swarm) messageBody(ctx context.Context, agent *models.Agent, msgType models.MessageType) string {
	switch msgType {
	case models.MessageRealityShare, models.MessageConsensusRequest, models.MessageGoalProposal:
	default:
		return ""
	}

	client := s.client
	if s.limiter.Check(agent.ID) != nil {
		client = s.template
	}
	text, err := client.Generate(ctx, gen.Prompt{
		Kind:      gen.KindMessageBody,
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Archetype: agent.Archetype,
		Mood:      agent.Emotional.Mood,
	})
	if err != nil {
		return ""
	}
	return text
}

// driftSelfModel regenerates the agent's narrative from its current
// state. Failures are ignored; the old narrative stands.
func (s *Swarm) driftSelfModel(ctx context.Context, agent *models.Agent, now time.Time) {
	text, err := s.client.Generate(ctx, gen.Prompt{
		Kind:      gen.KindNarrative,
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Archetype: agent.Archetype,
		Mood:      agent.Emotional.Mood,
		Context:   fmt.Sprintf("%d beliefs, %d active goals", len(agent.Beliefs), len(agent.ActiveGoals())),
	})
	if err != nil || text == "" {
		return
	}
	agent.Self.Narrative = text
	agent.Memory.AddReconstruction(text, now)
}

// resolveGoals stochastically resolves active goals. Success probability
// equals the goal's commitment; completion pulls the motivating belief
// toward full confidence, abandonment decays it toward the floor.
// Resolved goals leave the agent's active list the same tick.
func (s *Swarm) resolveGoals(tick uint64, now time.Time) []Event {
	var events []Event
	for _, agent := range s.agents {
		kept := agent.Goals[:0]
		for _, goal := range agent.Goals {
			if goal.Status != models.GoalAccepted && goal.Status != models.GoalActive {
				continue
			}
			if s.rng.Float64() >= s.cfg.Goals.ResolveProbability {
				kept = append(kept, goal)
				continue
			}

			goal.ResolvedAt = now
			if s.rng.Float64() < goal.Commitment {
				goal.Status = models.GoalCompleted
				s.adjustMotivatingBelief(agent, goal, true, now)
			} else {
				goal.Status = models.GoalAbandoned
				s.adjustMotivatingBelief(agent, goal, false, now)
			}
			events = append(events, Event{
				Type: EventGoalResolved, Tick: tick, Time: now,
				AgentID: agent.ID, Goal: goal,
			})
		}
		agent.Goals = kept
	}
	return events
}

// adjustMotivatingBelief feeds a goal outcome back into the belief that
// motivated it, when the goal named one and the agent holds it.
func (s *Swarm) adjustMotivatingBelief(agent *models.Agent, goal *models.Goal, success bool, now time.Time) {
	if goal.MotivatingBeliefKey == "" {
		return
	}
	belief := agent.Belief(goal.MotivatingBeliefKey)
	if belief == nil {
		return
	}
	if success {
		belief.Confidence += s.params.TrustEMAWeight * (1.0 - belief.Confidence)
	} else {
		belief.Confidence *= s.cfg.Goals.AbandonDecay
		if belief.Confidence < s.params.BeliefFloor {
			belief.Confidence = s.params.BeliefFloor
		}
	}
	belief.UpdatedAt = now
}

// frameFor builds the agent's contribution to this tick's shared reality.
func (s *Swarm) frameFor(agent *models.Agent, now time.Time) models.RealityFrame {
	return models.RealityFrame{
		AgentID:     agent.ID,
		Description: fmt.Sprintf("%s holds %d beliefs in a %s mood", agent.Name, len(agent.Beliefs), agent.Emotional.Mood),
		Mood:        agent.Emotional.Mood,
		Confidence:  meanBeliefConfidence(agent),
		Timestamp:   now,
	}
}

// saveLocked persists a snapshot. Callers hold s.mu. Save failures are
// logged and never interrupt the simulation.
func (s *Swarm) saveLocked(ctx context.Context, now time.Time) {
	if s.snaps == nil {
		return
	}
	snap := store.Snapshot{
		Tick:          s.tick,
		TakenAt:       now,
		Consciousness: s.consciousness,
		Agents:        s.agents,
		Messages:      s.bus.History(),
		Behaviors:     s.behaviors,
		Shared:        s.shared,
	}
	if err := s.snaps.Save(ctx, snap); err != nil {
		s.logger.Warn("snapshot save failed", "tick", s.tick, "error", err)
	}
}

// agentByID returns the agent with the given id, or nil.
func (s *Swarm) agentByID(id string) *models.Agent {
	for _, a := range s.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// peersOf returns every agent except the given one, in population order.
func (s *Swarm) peersOf(agent *models.Agent) []*models.Agent {
	peers := make([]*models.Agent, 0, len(s.agents)-1)
	for _, a := range s.agents {
		if a.ID != agent.ID {
			peers = append(peers, a)
		}
	}
	return peers
}

// recipientsOf resolves a message's recipient list to live agents.
func (s *Swarm) recipientsOf(msg *models.Message) []*models.Agent {
	recipients := make([]*models.Agent, 0, len(msg.Recipients))
	for _, id := range msg.Recipients {
		if a := s.agentByID(id); a != nil {
			recipients = append(recipients, a)
		}
	}
	return recipients
}

// randomPeer picks a uniformly random peer, or nil when alone.
func (s *Swarm) randomPeer(agent *models.Agent) *models.Agent {
	peers := s.peersOf(agent)
	if len(peers) == 0 {
		return nil
	}
	return peers[s.rng.Intn(len(peers))]
}

func meanBeliefConfidence(agent *models.Agent) float64 {
	if len(agent.Beliefs) == 0 {
		return 0.5
	}
	var sum float64
	for _, b := range agent.Beliefs {
		sum += b.Confidence
	}
	return sum / float64(len(agent.Beliefs))
}
