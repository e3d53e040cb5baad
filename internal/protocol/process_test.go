package protocol

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/emergentmind/hive/internal/agentmem"
	"github.com/emergentmind/hive/internal/models"
)

func newAgent(id string) *models.Agent {
	return &models.Agent{
		ID:           id,
		Name:         id,
		LearningRate: 0.2,
		Profile:      models.InteractionProfile{GoalSuccessRate: 0.5},
	}
}

func proposalMessage(sender *models.Agent, recipients []*models.Agent, beliefKey string) *models.Message {
	ids := make([]string, len(recipients))
	for i, r := range recipients {
		ids[i] = r.ID
	}
	return &models.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		Recipients: ids,
		Type:       models.MessageGoalProposal,
		Payload: &models.GoalProposal{
			Description:         "align on exploration",
			MotivatingBeliefKey: beliefKey,
			ProposerConfidence:  0.8,
		},
		Confidence: 0.8,
		Timestamp:  time.Now(),
	}
}

func TestProcess_GoalAcceptanceCreatesExactlyKGoals(t *testing.T) {
	now := time.Now()
	proposer := newAgent("p")
	proposer.SetBelief("exploration", "exploring pays off", 0.9, now)

	// Trusting recipients accept, distrusting reject: trust 1.0 gives a
	// score floor of 0.5+0.15 > 0.5; trust 0 gives at most 0.35+0.2 < 0.56
	// but usually below. Pin the rng so the outcome is exact.
	var recipients []*models.Agent
	for i := 0; i < 4; i++ {
		r := newAgent(string(rune('a' + i)))
		if i < 3 {
			r.Profile.SetTrust("p", 1.0)
		} else {
			r.Profile.SetTrust("p", 0.0)
		}
		recipients = append(recipients, r)
	}

	msg := proposalMessage(proposer, recipients, "exploration")
	outcome := Process(msg, proposer, recipients, DefaultParams(), rand.New(rand.NewSource(1)), now)

	goals := 0
	for _, r := range recipients {
		goals += len(r.Goals)
	}
	if goals != len(outcome.Accepted) {
		t.Fatalf("goal records = %d, acceptances = %d; want equal", goals, len(outcome.Accepted))
	}
	if len(outcome.Accepted) < 3 {
		t.Fatalf("trusting recipients accepted = %d, want >= 3", len(outcome.Accepted))
	}
	for _, r := range recipients[:3] {
		if len(r.Goals) != 1 {
			t.Fatalf("trusting recipient %s has %d goals, want 1", r.ID, len(r.Goals))
		}
		g := r.Goals[0]
		if g.Status != models.GoalAccepted {
			t.Errorf("goal status = %s, want accepted", g.Status)
		}
		if g.MotivatingBeliefKey != "exploration" {
			t.Errorf("motivating belief = %q, want exploration", g.MotivatingBeliefKey)
		}
		if g.Commitment <= 0 || g.Commitment > 1 {
			t.Errorf("commitment = %v, want (0, 1]", g.Commitment)
		}
	}
}

func TestProcess_SuccessRateMovesWithAcceptanceRatio(t *testing.T) {
	now := time.Now()

	// All-accept case: success rate strictly rises.
	proposer := newAgent("p")
	proposer.SetBelief("exploration", "exploring pays off", 0.9, now)
	var accepting []*models.Agent
	for i := 0; i < 3; i++ {
		r := newAgent(string(rune('a' + i)))
		r.Profile.SetTrust("p", 1.0)
		accepting = append(accepting, r)
	}
	before := proposer.Profile.GoalSuccessRate
	Process(proposalMessage(proposer, accepting, "exploration"), proposer, accepting, DefaultParams(), rand.New(rand.NewSource(1)), now)
	if proposer.Profile.GoalSuccessRate <= before {
		t.Errorf("success rate %v -> %v, want strict increase on acceptance", before, proposer.Profile.GoalSuccessRate)
	}

	// All-reject case: success rate strictly falls.
	proposer2 := newAgent("q")
	proposer2.SetBelief("exploration", "exploring pays off", 0.9, now)
	var rejecting []*models.Agent
	for i := 0; i < 3; i++ {
		r := newAgent(string(rune('x' + i)))
		r.Profile.SetTrust("q", 0.0)
		r.SetBelief("exploration", "exploring is a waste", 0.0, now)
		rejecting = append(rejecting, r)
	}
	before = proposer2.Profile.GoalSuccessRate
	Process(proposalMessage(proposer2, rejecting, "exploration"), proposer2, rejecting, DefaultParams(), rand.New(rand.NewSource(2)), now)
	if proposer2.Profile.GoalSuccessRate >= before {
		t.Errorf("success rate %v -> %v, want strict decrease on rejection", before, proposer2.Profile.GoalSuccessRate)
	}
}

func TestProcess_RejectionPenalizesMotivatingBelief(t *testing.T) {
	now := time.Now()
	proposer := newAgent("p")
	proposer.SetBelief("exploration", "exploring pays off", 0.8, now)

	r := newAgent("a")
	r.Profile.SetTrust("p", 0.0)
	r.SetBelief("exploration", "no it does not", 0.0, now)

	// trust 0 and own confidence 0 cap the score at 0.2: always rejected.
	outcome := Process(proposalMessage(proposer, []*models.Agent{r}, "exploration"), proposer, []*models.Agent{r}, DefaultParams(), rand.New(rand.NewSource(3)), now)
	if len(outcome.Rejected) != 1 {
		t.Fatalf("proposal was not rejected; outcome = %+v", outcome)
	}

	got := proposer.Belief("exploration").Confidence
	want := 0.8 * 0.95
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("penalized confidence = %v, want %v", got, want)
	}
}

func TestProcess_RejectionPenaltyHasFloor(t *testing.T) {
	now := time.Now()
	proposer := newAgent("p")
	proposer.SetBelief("exploration", "exploring pays off", 0.101, now)

	for i := 0; i < 50; i++ {
		r := newAgent("a")
		r.Profile.SetTrust("p", 0.0)
		r.SetBelief("exploration", "no", 0.0, now)
		Process(proposalMessage(proposer, []*models.Agent{r}, "exploration"), proposer, []*models.Agent{r}, DefaultParams(), rand.New(rand.NewSource(3)), now)
	}

	if got := proposer.Belief("exploration").Confidence; got < 0.1 {
		t.Errorf("confidence = %v, pushed below the 0.1 floor", got)
	}
}

func TestProcess_InsightAdoptionScaling(t *testing.T) {
	now := time.Now()
	sender := newAgent("s")
	recipient := newAgent("r")
	recipient.LearningRate = 0.2

	msg := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   "s",
		Recipients: []string{"r"},
		Type:       models.MessageLearningInsight,
		Payload: &models.LearningInsight{
			BeliefKey:  "swarm_direction",
			Hypothesis: "the swarm is drifting east",
			Confidence: 0.9,
		},
		Timestamp: now,
	}

	// No existing belief: adopted at 0.9 * 0.2 = 0.18.
	outcome := Process(msg, sender, []*models.Agent{recipient}, DefaultParams(), rand.New(rand.NewSource(1)), now)
	if len(outcome.Adopted) != 1 {
		t.Fatal("insight was not adopted by a recipient with no prior belief")
	}
	got := recipient.Belief("swarm_direction").Confidence
	if got < 0.18-1e-9 || got > 0.18+1e-9 {
		t.Errorf("adopted confidence = %v, want 0.18", got)
	}
}

func TestProcess_InsightNotAdoptedAgainstStrongerBelief(t *testing.T) {
	now := time.Now()
	sender := newAgent("s")
	recipient := newAgent("r")
	recipient.LearningRate = 0.2
	recipient.SetBelief("swarm_direction", "the swarm is holding position", 0.5, now)

	msg := &models.Message{
		ID:       uuid.NewString(),
		SenderID: "s", Recipients: []string{"r"},
		Type: models.MessageLearningInsight,
		Payload: &models.LearningInsight{
			BeliefKey:  "swarm_direction",
			Hypothesis: "the swarm is drifting east",
			Confidence: 0.9,
		},
		Timestamp: now,
	}

	outcome := Process(msg, sender, []*models.Agent{recipient}, DefaultParams(), rand.New(rand.NewSource(1)), now)
	if len(outcome.Adopted) != 0 {
		t.Fatal("insight adopted despite 0.18 < 0.5 existing confidence")
	}
	b := recipient.Belief("swarm_direction")
	if b.Confidence != 0.5 || b.Hypothesis != "the swarm is holding position" {
		t.Error("rejected insight still mutated the existing belief")
	}
	if recipient.Profile.TrustIn("s") != 0.5 {
		t.Error("rejected insight still moved trust")
	}
}

func TestProcess_AdoptionRaisesTrustAndRecordsSignificantTransfers(t *testing.T) {
	now := time.Now()
	sender := newAgent("s")
	recipient := newAgent("r")
	recipient.LearningRate = 0.6 // scaled = 0.54 > significance 0.3

	msg := &models.Message{
		ID:       uuid.NewString(),
		SenderID: "s", Recipients: []string{"r"},
		Type: models.MessageLearningInsight,
		Payload: &models.LearningInsight{
			BeliefKey:  "k",
			Hypothesis: "h",
			Confidence: 0.9,
		},
		Timestamp: now,
	}

	Process(msg, sender, []*models.Agent{recipient}, DefaultParams(), rand.New(rand.NewSource(1)), now)

	if got := recipient.Profile.TrustIn("s"); got <= 0.5 {
		t.Errorf("trust after adoption = %v, want > 0.5", got)
	}
	if len(recipient.Memory.LongTerm) != 1 {
		t.Fatalf("knowledge items = %d, want 1", len(recipient.Memory.LongTerm))
	}
	if recipient.Memory.LongTerm[0].Kind != agentmem.KnowledgeInsightTransfer {
		t.Errorf("kind = %s, want insight_transfer", recipient.Memory.LongTerm[0].Kind)
	}
	if len(recipient.Memory.WorkingFocus) == 0 || recipient.Memory.WorkingFocus[0] != "k" {
		t.Errorf("working focus = %v, want adopted belief key %q in front", recipient.Memory.WorkingFocus, "k")
	}
}

func TestProcess_SideEffectOnlyTypesMutateNothing(t *testing.T) {
	now := time.Now()
	sender := newAgent("s")
	recipient := newAgent("r")
	recipient.SetBelief("k", "h", 0.4, now)

	for _, payload := range []models.Payload{
		&models.RealityShare{Frame: models.RealityFrame{AgentID: "s", Confidence: 0.9}},
		&models.MemoryQuery{Topic: "anything"},
		&models.ConsensusRequest{Statement: "agree with me"},
		&models.SelfModelUpdate{Narrative: "I changed"},
	} {
		msg := &models.Message{
			ID:       uuid.NewString(),
			SenderID: "s", Recipients: []string{"r"},
			Type:      payload.MessageType(),
			Payload:   payload,
			Timestamp: now,
		}
		Process(msg, sender, []*models.Agent{recipient}, DefaultParams(), rand.New(rand.NewSource(1)), now)
	}

	if recipient.Belief("k").Confidence != 0.4 {
		t.Error("side-effect-only message mutated beliefs")
	}
	if recipient.Profile.TrustIn("s") != 0.5 {
		t.Error("side-effect-only message mutated trust")
	}
	if len(recipient.Goals) != 0 {
		t.Error("side-effect-only message created goals")
	}
}
