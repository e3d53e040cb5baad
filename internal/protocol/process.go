package protocol

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/emergentmind/hive/internal/agentmem"
	"github.com/emergentmind/hive/internal/emotion"
	"github.com/emergentmind/hive/internal/models"
)

// Params holds the tunable protocol constants.
type Params struct {
	// TrustEMAWeight is the exponential-moving-average weight for trust
	// and goal-success-rate updates.
	TrustEMAWeight float64 `json:"trust_ema_weight" yaml:"trust_ema_weight"`

	// RejectionPenalty multiplies a motivating belief's confidence when a
	// goal proposal is rejected.
	RejectionPenalty float64 `json:"rejection_penalty" yaml:"rejection_penalty"`

	// BeliefFloor is the lowest confidence penalties can push a belief to.
	BeliefFloor float64 `json:"belief_floor" yaml:"belief_floor"`

	// InsightSignificance is the adopted-confidence threshold above which
	// an insight transfer earns a long-term knowledge item.
	InsightSignificance float64 `json:"insight_significance" yaml:"insight_significance"`

	// LearningRateMin and LearningRateMax bound the effective learning
	// rate when scaling shared insight confidence.
	LearningRateMin float64 `json:"learning_rate_min" yaml:"learning_rate_min"`
	LearningRateMax float64 `json:"learning_rate_max" yaml:"learning_rate_max"`
}

// DefaultParams returns the reference constants.
func DefaultParams() Params {
	return Params{
		TrustEMAWeight:      0.05,
		RejectionPenalty:    0.95,
		BeliefFloor:         0.1,
		InsightSignificance: 0.3,
		LearningRateMin:     0.01,
		LearningRateMax:     1.0,
	}
}

// Outcome summarizes the effects of processing one message across its
// recipients.
type Outcome struct {
	Accepted []string // recipients that accepted a goal proposal
	Rejected []string // recipients that rejected a goal proposal
	Adopted  []string // recipients that adopted a shared insight
}

// Process applies one message to its recipients. Recipients are visited
// in the given order (recipient-major); each consumes the message exactly
// once. Reality shares, memory queries, consensus requests, and self-model
// updates are aggregation/logging inputs only and mutate no belief or
// trust state.
func Process(msg *models.Message, sender *models.Agent, recipients []*models.Agent, p Params, rng *rand.Rand, now time.Time) Outcome {
	var outcome Outcome
	if msg == nil || sender == nil {
		return outcome
	}

	switch payload := msg.Payload.(type) {
	case *models.GoalProposal:
		for _, recipient := range recipients {
			if evaluateProposal(recipient, sender, msg.ID, payload, p, rng, now) {
				outcome.Accepted = append(outcome.Accepted, recipient.ID)
			} else {
				outcome.Rejected = append(outcome.Rejected, recipient.ID)
			}
		}
	case *models.LearningInsight:
		for _, recipient := range recipients {
			if adoptInsight(recipient, sender, payload, p, now) {
				outcome.Adopted = append(outcome.Adopted, recipient.ID)
			}
		}
	}

	return outcome
}

// evaluateProposal decides acceptance of a collaborative-goal proposal
// using the recipient's own belief state and trust in the proposer. On
// accept the recipient instantiates a Goal and the proposer's success rate
// moves toward 1.0; on reject it moves toward 0.0 and any cited motivating
// belief takes a confidence penalty.
func evaluateProposal(recipient, proposer *models.Agent, proposalID string, proposal *models.GoalProposal, p Params, rng *rand.Rand, now time.Time) bool {
	trust := recipient.Profile.TrustIn(proposer.ID)

	ownConfidence := 0.5
	if proposal.MotivatingBeliefKey != "" {
		if b := recipient.Belief(proposal.MotivatingBeliefKey); b != nil {
			ownConfidence = b.Confidence
		}
	}

	score := 0.5*trust + 0.3*ownConfidence + 0.2*rng.Float64()
	if recipient.Emotional.Modifiers.DecisionStyle == models.DecisionCautious {
		score -= 0.05
	}

	if score <= 0.5 {
		proposer.Profile.GoalSuccessRate = models.Clamp01(proposer.Profile.GoalSuccessRate * (1 - p.TrustEMAWeight))
		if proposal.MotivatingBeliefKey != "" {
			if b := proposer.Belief(proposal.MotivatingBeliefKey); b != nil {
				b.Confidence = models.Clamp(b.Confidence*p.RejectionPenalty, p.BeliefFloor, 1)
				b.UpdatedAt = now
			}
		}
		return false
	}

	recipient.Goals = append(recipient.Goals, &models.Goal{
		ID:                  uuid.NewString(),
		Description:         proposal.Description,
		ProposerID:          proposer.ID,
		ProposalID:          proposalID,
		Status:              models.GoalAccepted,
		Commitment:          models.Clamp01(score),
		MotivatingBeliefKey: proposal.MotivatingBeliefKey,
		CreatedAt:           now,
	})
	proposer.Profile.GoalSuccessRate = models.Clamp01(proposer.Profile.GoalSuccessRate + p.TrustEMAWeight*(1-proposer.Profile.GoalSuccessRate))
	return true
}

// adoptInsight applies a shared-learning-insight message to one recipient.
// The shared confidence, scaled by the recipient's bias-adjusted learning
// rate, must beat the recipient's existing confidence for the key.
// Adoption raises trust in the sender and, above the significance
// threshold, records an insight-transfer knowledge item.
func adoptInsight(recipient, sender *models.Agent, insight *models.LearningInsight, p Params, now time.Time) bool {
	rate := emotion.EffectiveLearningRate(recipient, p.LearningRateMin, p.LearningRateMax)
	scaled := models.Clamp01(insight.Confidence * rate)

	if existing := recipient.Belief(insight.BeliefKey); existing != nil && scaled <= existing.Confidence {
		return false
	}

	recipient.SetBelief(insight.BeliefKey, insight.Hypothesis, scaled, now)
	recipient.Memory.Focus(insight.BeliefKey)

	trust := recipient.Profile.TrustIn(sender.ID)
	recipient.Profile.SetTrust(sender.ID, trust+p.TrustEMAWeight*(1-trust))

	if scaled > p.InsightSignificance {
		recipient.Memory.AddKnowledge(agentmem.KnowledgeItem{
			Kind:       agentmem.KnowledgeInsightTransfer,
			Content:    fmt.Sprintf("adopted %q from %s", insight.BeliefKey, sender.Name),
			Importance: scaled,
			CreatedAt:  now,
		})
	}
	return true
}
