package prediction

import (
	"math/rand"
	"testing"
	"time"

	"github.com/emergentmind/hive/internal/models"
)

func testAgent() *models.Agent {
	return &models.Agent{ID: "a1", Name: "one"}
}

func TestRecord_TargetRequired(t *testing.T) {
	agent := testAgent()
	rng := rand.New(rand.NewSource(1))
	now := time.Now()

	if p := Record(agent, models.PredictNextAction, "", rng, now); p != nil {
		t.Fatal("next_action without target must be a no-op")
	}
	if len(agent.Ledger.Predictions) != 0 {
		t.Fatal("no-op record still appended to ledger")
	}

	p := Record(agent, models.PredictNextAction, "a2", rng, now)
	if p == nil {
		t.Fatal("next_action with target returned nil")
	}
	if p.TargetID != "a2" {
		t.Errorf("target = %q, want a2", p.TargetID)
	}
}

func TestRecord_SelfKindsNeedNoTarget(t *testing.T) {
	agent := testAgent()
	rng := rand.New(rand.NewSource(1))

	p := Record(agent, models.PredictMoodShift, "", rng, time.Now())
	if p == nil {
		t.Fatal("mood_shift without target returned nil")
	}
	if p.Predicted == "" {
		t.Error("prediction has no predicted label")
	}
}

func TestResolve_ErrorBandsNeverAmbiguous(t *testing.T) {
	agent := testAgent()
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	for i := 0; i < 200; i++ {
		p := Record(agent, models.PredictConsensusLevel, "", rng, now)
		Resolve(p, rng, now)

		if !p.Resolved {
			t.Fatal("Resolve left prediction unresolved")
		}
		if p.Actual == p.Predicted && p.ErrorLevel >= 0.3 {
			t.Fatalf("correct prediction scored %v, want < 0.3", p.ErrorLevel)
		}
		if p.Actual != p.Predicted && p.ErrorLevel < 0.7 {
			t.Fatalf("incorrect prediction scored %v, want >= 0.7", p.ErrorLevel)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	agent := testAgent()
	rng := rand.New(rand.NewSource(1))
	now := time.Now()

	p := Record(agent, models.PredictMoodShift, "", rng, now)
	Resolve(p, rng, now)
	actual, errLevel := p.Actual, p.ErrorLevel

	Resolve(p, rng, now.Add(time.Minute))
	if p.Actual != actual || p.ErrorLevel != errLevel {
		t.Error("second Resolve mutated an already-resolved prediction")
	}
}

func TestPrune_RespectsRetentionWindow(t *testing.T) {
	agent := testAgent()
	rng := rand.New(rand.NewSource(1))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	old := Record(agent, models.PredictMoodShift, "", rng, base)
	Resolve(old, rng, base)
	fresh := Record(agent, models.PredictMoodShift, "", rng, base.Add(4*time.Minute))
	Resolve(fresh, rng, base.Add(4*time.Minute))
	outstanding := Record(agent, models.PredictMoodShift, "", rng, base)

	Prune(&agent.Ledger, 5*time.Minute, base.Add(6*time.Minute))

	if len(agent.Ledger.Predictions) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(agent.Ledger.Predictions))
	}
	for _, p := range agent.Ledger.Predictions {
		if p.ID == old.ID {
			t.Error("resolved prediction outside retention window survived pruning")
		}
	}
	found := false
	for _, p := range agent.Ledger.Predictions {
		if p.ID == outstanding.ID {
			found = true
		}
	}
	if !found {
		t.Error("outstanding prediction was pruned")
	}
}

func TestCurrentErrorLevel_DefaultsWithoutResolutions(t *testing.T) {
	agent := testAgent()
	if got := CurrentErrorLevel(&agent.Ledger); got != DefaultErrorLevel {
		t.Errorf("CurrentErrorLevel = %v, want %v", got, DefaultErrorLevel)
	}

	rng := rand.New(rand.NewSource(1))
	now := time.Now()
	p := Record(agent, models.PredictMoodShift, "", rng, now)
	Resolve(p, rng, now)

	if got := CurrentErrorLevel(&agent.Ledger); got != p.ErrorLevel {
		t.Errorf("CurrentErrorLevel = %v, want %v", got, p.ErrorLevel)
	}
}
