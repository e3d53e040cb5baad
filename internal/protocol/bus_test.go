package protocol

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/emergentmind/hive/internal/models"
)

func TestBus_DrainDeliversOnce(t *testing.T) {
	bus := NewBus(10)
	bus.Publish(&models.Message{ID: "m1"})
	bus.Publish(&models.Message{ID: "m2"})

	if bus.PendingCount() != 2 {
		t.Fatalf("pending = %d, want 2", bus.PendingCount())
	}

	drained := bus.Drain()
	if len(drained) != 2 {
		t.Fatalf("drained = %d, want 2", len(drained))
	}
	if drained[0].ID != "m1" || drained[1].ID != "m2" {
		t.Error("drain did not preserve arrival order")
	}
	if len(bus.Drain()) != 0 {
		t.Error("second drain returned messages again")
	}
}

func TestBus_HistoryRingIsBounded(t *testing.T) {
	bus := NewBus(3)
	for i := 0; i < 10; i++ {
		bus.Publish(&models.Message{ID: fmt.Sprintf("m%d", i)})
		bus.Drain()
	}

	history := bus.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].ID != "m7" || history[2].ID != "m9" {
		t.Errorf("ring kept [%s..%s], want [m7..m9]", history[0].ID, history[2].ID)
	}
}

func TestBus_RestoreRespectsCap(t *testing.T) {
	bus := NewBus(2)
	bus.Restore([]*models.Message{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	history := bus.History()
	if len(history) != 2 {
		t.Fatalf("restored history length = %d, want 2", len(history))
	}
	if history[0].ID != "b" {
		t.Errorf("restore kept oldest entries instead of newest")
	}
}

func TestEmit_BroadcastAddressing(t *testing.T) {
	now := time.Now()
	sender := newAgent("s")
	sender.SetBelief("k", "h", 0.7, now)
	peers := []*models.Agent{newAgent("a"), newAgent("b")}

	msg := Emit(sender, peers, models.MessageRealityShare, "all quiet", rand.New(rand.NewSource(1)), now)
	if msg == nil {
		t.Fatal("Emit returned nil")
	}
	if len(msg.Recipients) != 2 {
		t.Fatalf("recipients = %d, want 2", len(msg.Recipients))
	}
	if msg.SenderID != "s" {
		t.Errorf("sender = %q", msg.SenderID)
	}
	share, ok := msg.Payload.(*models.RealityShare)
	if !ok {
		t.Fatalf("payload type = %T, want *RealityShare", msg.Payload)
	}
	if share.Frame.Description != "all quiet" {
		t.Errorf("frame description = %q", share.Frame.Description)
	}
}

func TestEmit_InsightRequiresBeliefs(t *testing.T) {
	sender := newAgent("s")
	peers := []*models.Agent{newAgent("a")}

	if msg := Emit(sender, peers, models.MessageLearningInsight, "", rand.New(rand.NewSource(1)), time.Now()); msg != nil {
		t.Error("insight emitted by an agent with no beliefs")
	}
}

func TestEmit_GoalProposalCitesStrongestBelief(t *testing.T) {
	now := time.Now()
	sender := newAgent("s")
	sender.SetBelief("weak", "w", 0.2, now)
	sender.SetBelief("strong", "s", 0.9, now)

	msg := Emit(sender, []*models.Agent{newAgent("a")}, models.MessageGoalProposal, "", rand.New(rand.NewSource(1)), now)
	proposal, ok := msg.Payload.(*models.GoalProposal)
	if !ok {
		t.Fatalf("payload type = %T", msg.Payload)
	}
	if proposal.MotivatingBeliefKey != "strong" {
		t.Errorf("motivating belief = %q, want strong", proposal.MotivatingBeliefKey)
	}
	if proposal.ProposerConfidence != 0.9 {
		t.Errorf("proposer confidence = %v, want 0.9", proposal.ProposerConfidence)
	}
}

func TestMessage_JSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sender := newAgent("s")
	sender.SetBelief("k", "h", 0.7, now)

	original := Emit(sender, []*models.Agent{newAgent("a")}, models.MessageLearningInsight, "", rand.New(rand.NewSource(1)), now)
	if original == nil {
		t.Fatal("Emit returned nil")
	}

	data, err := original.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded models.Message
	if err := decoded.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	insight, ok := decoded.Payload.(*models.LearningInsight)
	if !ok {
		t.Fatalf("decoded payload type = %T, want *LearningInsight", decoded.Payload)
	}
	if insight.BeliefKey != "k" || insight.Confidence != 0.7 {
		t.Errorf("decoded insight = %+v", insight)
	}
}
