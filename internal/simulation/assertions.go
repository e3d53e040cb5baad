package simulation

import (
	"testing"
)

// AssertCoherenceWithin asserts shared-reality coherence stays within
// [min, max] on every tick.
func AssertCoherenceWithin(t *testing.T, result SimulationResult, min, max float64) {
	t.Helper()
	for _, tr := range result.Ticks {
		if tr.Coherence < min || tr.Coherence > max {
			t.Errorf("AssertCoherenceWithin: tick %d: coherence %.4f not in [%.2f, %.2f]", tr.Index, tr.Coherence, min, max)
		}
	}
}

// AssertConsciousnessWithin asserts the consciousness metric stays within
// [min, max] on every tick.
func AssertConsciousnessWithin(t *testing.T, result SimulationResult, min, max float64) {
	t.Helper()
	for _, tr := range result.Ticks {
		if tr.Consciousness < min || tr.Consciousness > max {
			t.Errorf("AssertConsciousnessWithin: tick %d: consciousness %.4f not in [%.2f, %.2f]", tr.Index, tr.Consciousness, min, max)
		}
	}
}

// AssertStateBounded asserts every final belief confidence, trust score,
// and emotional intensity lies in [0, 1].
func AssertStateBounded(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, a := range result.FinalAgents() {
		for key, b := range a.Beliefs {
			if b.Confidence < 0 || b.Confidence > 1 {
				t.Errorf("AssertStateBounded: agent %s belief %q confidence %.4f out of [0, 1]", a.ID, key, b.Confidence)
			}
		}
		for peer, trust := range a.Profile.Trust {
			if trust < 0 || trust > 1 {
				t.Errorf("AssertStateBounded: agent %s trust in %s %.4f out of [0, 1]", a.ID, peer, trust)
			}
		}
		if a.Emotional.Intensity < 0 || a.Emotional.Intensity > 1 {
			t.Errorf("AssertStateBounded: agent %s emotion intensity %.4f out of [0, 1]", a.ID, a.Emotional.Intensity)
		}
		if bias := a.Emotional.Modifiers.LearningRateBias; bias < -0.2 || bias > 0.2 {
			t.Errorf("AssertStateBounded: agent %s learning-rate bias %.4f out of [-0.2, 0.2]", a.ID, bias)
		}
	}
}

// AssertRingCapsHold asserts the message history and behavior log never
// exceed their configured caps.
func AssertRingCapsHold(t *testing.T, result SimulationResult, messageCap, behaviorCap int) {
	t.Helper()
	if n := len(result.Swarm.History()); n > messageCap {
		t.Errorf("AssertRingCapsHold: message history %d exceeds cap %d", n, messageCap)
	}
	if n := len(result.Swarm.Behaviors()); n > behaviorCap {
		t.Errorf("AssertRingCapsHold: behavior log %d exceeds cap %d", n, behaviorCap)
	}
}

// AssertMemoryCapsHold asserts every agent's memory subsystems respect
// their capacity limits.
func AssertMemoryCapsHold(t *testing.T, result SimulationResult, focusCap, knowledgeCap, episodicCap, reconstructionCap int) {
	t.Helper()
	for _, a := range result.FinalAgents() {
		if n := len(a.Memory.WorkingFocus); n > focusCap {
			t.Errorf("AssertMemoryCapsHold: agent %s working focus %d exceeds cap %d", a.ID, n, focusCap)
		}
		if n := len(a.Memory.LongTerm); n > knowledgeCap {
			t.Errorf("AssertMemoryCapsHold: agent %s knowledge %d exceeds cap %d", a.ID, n, knowledgeCap)
		}
		if n := len(a.Memory.Episodic); n > episodicCap {
			t.Errorf("AssertMemoryCapsHold: agent %s episodic log %d exceeds cap %d", a.ID, n, episodicCap)
		}
		if n := len(a.Memory.Reconstructions); n > reconstructionCap {
			t.Errorf("AssertMemoryCapsHold: agent %s reconstructions %d exceeds cap %d", a.ID, n, reconstructionCap)
		}
	}
}

// AssertEventCountAtLeast asserts at least min events of the given type
// occurred across the whole run.
func AssertEventCountAtLeast(t *testing.T, result SimulationResult, eventType string, min int) {
	t.Helper()
	count := 0
	for _, tr := range result.Ticks {
		for _, ev := range tr.Events {
			if string(ev.Type) == eventType {
				count++
			}
		}
	}
	if count < min {
		t.Errorf("AssertEventCountAtLeast: %d %s events, need at least %d", count, eventType, min)
	}
}
