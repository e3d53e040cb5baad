package emergence

import (
	"fmt"
	"testing"
	"time"

	"github.com/emergentmind/hive/internal/models"
)

func moodyAgents(n int, mood models.Mood, intensity float64) []*models.Agent {
	agents := make([]*models.Agent, n)
	for i := range agents {
		agents[i] = &models.Agent{
			ID: fmt.Sprintf("a%d", i),
			Emotional: models.EmotionalState{
				Mood:          mood,
				MoodIntensity: intensity,
			},
		}
	}
	return agents
}

func TestSharedMoodRule_FiresAboveThreshold(t *testing.T) {
	d := NewDetector(0)
	now := time.Now()

	found := d.Detect(moodyAgents(4, models.MoodOptimistic, 0.9), models.SharedReality{}, now)

	var mood *models.EmergentBehavior
	for i := range found {
		if found[i].Type == "collective_mood" {
			mood = &found[i]
		}
	}
	if mood == nil {
		t.Fatal("collective_mood not detected with 100% high-intensity optimists")
	}
	if len(mood.Participants) != 4 {
		t.Errorf("participants = %d, want 4", len(mood.Participants))
	}
	if mood.EmergenceLevel != 1.0 {
		t.Errorf("emergence level = %v, want 1.0", mood.EmergenceLevel)
	}
}

func TestSharedMoodRule_QuietBelowThreshold(t *testing.T) {
	d := NewDetector(0)

	// 3 of 4 optimistic is exactly 75%: must not fire (> 0.75 required).
	agents := moodyAgents(4, models.MoodOptimistic, 0.9)
	agents[3].Emotional.Mood = models.MoodPessimistic

	for _, b := range d.Detect(agents, models.SharedReality{}, time.Now()) {
		if b.Type == "collective_mood" {
			t.Fatal("collective_mood fired at exactly 75%")
		}
	}
}

func TestDetect_DeduplicationWindow(t *testing.T) {
	d := NewDetector(30 * time.Second)
	agents := moodyAgents(4, models.MoodFocused, 0.9)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := d.Detect(agents, models.SharedReality{}, base)
	if len(first) == 0 {
		t.Fatal("no detection on first qualifying tick")
	}

	// Second qualifying tick 10s later: suppressed.
	second := d.Detect(agents, models.SharedReality{}, base.Add(10*time.Second))
	for _, b := range second {
		if b.Type == "collective_mood" {
			t.Fatal("duplicate detection within the 30s window")
		}
	}

	// After the window passes, the same pattern may fire again.
	third := d.Detect(agents, models.SharedReality{}, base.Add(31*time.Second))
	found := false
	for _, b := range third {
		if b.Type == "collective_mood" {
			found = true
		}
	}
	if !found {
		t.Fatal("detection stayed suppressed after the window elapsed")
	}
}

func TestBeliefConvergenceRule(t *testing.T) {
	d := NewDetector(0)
	now := time.Now()

	agents := moodyAgents(4, models.MoodNeutral, 0.1)
	for _, a := range agents[:3] {
		a.SetBelief("north_star", "we move together", 0.8, now)
	}

	found := d.Detect(agents, models.SharedReality{}, now)
	var hit bool
	for _, b := range found {
		if b.Type == "belief_convergence" {
			hit = true
			if len(b.Participants) != 3 {
				t.Errorf("participants = %d, want 3", len(b.Participants))
			}
		}
	}
	if !hit {
		t.Fatal("belief_convergence not detected at 75% share")
	}
}

func TestGoalAlignmentRule_NeedsThreeCommitments(t *testing.T) {
	d := NewDetector(0)
	now := time.Now()

	agents := moodyAgents(5, models.MoodNeutral, 0.1)
	for _, a := range agents[:2] {
		a.Goals = append(a.Goals, &models.Goal{ID: a.ID + "-g", ProposalID: "prop-1", Status: models.GoalAccepted})
	}
	for _, b := range d.Detect(agents, models.SharedReality{}, now) {
		if b.Type == "goal_alignment" {
			t.Fatal("goal_alignment fired with only 2 commitments")
		}
	}

	agents[2].Goals = append(agents[2].Goals, &models.Goal{ID: "g3", ProposalID: "prop-1", Status: models.GoalAccepted})
	var hit bool
	for _, b := range d.Detect(agents, models.SharedReality{}, now.Add(time.Minute)) {
		if b.Type == "goal_alignment" {
			hit = true
		}
	}
	if !hit {
		t.Fatal("goal_alignment not detected with 3 commitments")
	}
}

func TestRegister_OpenRuleSet(t *testing.T) {
	d := NewDetector(0)
	d.Register(func(agents []*models.Agent, _ models.SharedReality) *Detection {
		return &Detection{Type: "custom_pattern", Description: "always on", EmergenceLevel: 0.5, Stability: 0.5}
	})

	found := d.Detect(nil, models.SharedReality{}, time.Now())
	var hit bool
	for _, b := range found {
		if b.Type == "custom_pattern" {
			hit = true
		}
	}
	if !hit {
		t.Fatal("registered custom rule did not run")
	}
}
