package protocol

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/emergentmind/hive/internal/models"
)

// Emit builds a message of the given type from the sender's current state,
// addressed to all peers. The returned message is immutable once created.
func Emit(sender *models.Agent, peers []*models.Agent, msgType models.MessageType, body string, rng *rand.Rand, now time.Time) *models.Message {
	recipients := make([]string, 0, len(peers))
	for _, p := range peers {
		recipients = append(recipients, p.ID)
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		Recipients: recipients,
		Type:       msgType,
		Confidence: senderConfidence(sender),
		Timestamp:  now,
	}

	switch msgType {
	case models.MessageRealityShare:
		msg.Payload = &models.RealityShare{Frame: models.RealityFrame{
			AgentID:     sender.ID,
			Description: body,
			Mood:        sender.Emotional.Mood,
			Confidence:  msg.Confidence,
			Timestamp:   now,
		}}
	case models.MessageMemoryQuery:
		msg.Payload = &models.MemoryQuery{Topic: queryTopic(sender)}
	case models.MessageConsensusRequest:
		msg.Payload = &models.ConsensusRequest{Statement: body}
	case models.MessageSelfModelUpdate:
		msg.Payload = &models.SelfModelUpdate{
			Narrative: sender.Self.Narrative,
			Traits:    sender.Self.Traits,
		}
	case models.MessageGoalProposal:
		key, conf := strongestBelief(sender)
		msg.Payload = &models.GoalProposal{
			Description:         proposalDescription(sender, body),
			MotivatingBeliefKey: key,
			ProposerConfidence:  conf,
		}
	case models.MessageLearningInsight:
		key, conf := sampledBelief(sender, rng)
		if key == "" {
			// Nothing worth sharing yet.
			return nil
		}
		msg.Payload = &models.LearningInsight{
			BeliefKey:  key,
			Hypothesis: sender.Beliefs[key].Hypothesis,
			Confidence: conf,
		}
	default:
		return nil
	}

	return msg
}

// senderConfidence derives message confidence from the sender's mean
// belief confidence, defaulting to 0.5 for agents with no beliefs.
func senderConfidence(sender *models.Agent) float64 {
	if len(sender.Beliefs) == 0 {
		return 0.5
	}
	var sum float64
	for _, b := range sender.Beliefs {
		sum += b.Confidence
	}
	return models.Clamp01(sum / float64(len(sender.Beliefs)))
}

// strongestBelief returns the sender's highest-confidence belief key, for
// use as a goal proposal's motivating belief. Empty when no beliefs exist.
func strongestBelief(sender *models.Agent) (string, float64) {
	var bestKey string
	var bestConf float64
	for key, b := range sender.Beliefs {
		if b.Confidence > bestConf || (b.Confidence == bestConf && (bestKey == "" || key < bestKey)) {
			bestKey, bestConf = key, b.Confidence
		}
	}
	if bestKey == "" {
		return "", 0.5
	}
	return bestKey, bestConf
}

// sampledBelief picks a random belief to share as an insight.
func sampledBelief(sender *models.Agent, rng *rand.Rand) (string, float64) {
	keys := sender.BeliefKeys()
	if len(keys) == 0 {
		return "", 0
	}
	sort.Strings(keys) // stable order so seeded runs replay identically
	key := keys[rng.Intn(len(keys))]
	return key, sender.Beliefs[key].Confidence
}

func proposalDescription(sender *models.Agent, body string) string {
	if body != "" {
		return body
	}
	return fmt.Sprintf("coordinate the swarm around %s's current focus", sender.Name)
}

func queryTopic(sender *models.Agent) string {
	if len(sender.Memory.WorkingFocus) > 0 {
		return sender.Memory.WorkingFocus[0]
	}
	return "recent swarm events"
}
