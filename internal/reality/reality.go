// Package reality aggregates agents' reality frames into the consensus
// view and computes the swarm-level consciousness metric.
package reality

import (
	"time"

	"github.com/emergentmind/hive/internal/models"
)

const (
	// coherenceMin and coherenceMax bound the derived coherence level.
	coherenceMin = 0.3
	coherenceMax = 0.9

	// messageSaturation is the pending-message count at which the
	// communication component of the consciousness metric caps at 1.0.
	messageSaturation = 10

	// behaviorSaturation is the emergent-behavior count at which the
	// emergence component caps at 1.0.
	behaviorSaturation = 5
)

// consensusElements are the fixed descriptive keys every aggregate carries.
var consensusElements = map[string]string{
	"environment": "a shared simulation space with periodic ticks",
	"population":  "a fixed set of agents exchanging typed messages",
	"time":        "discrete, advancing one tick at a time",
}

// uncertaintyAreas are the named unknowns the swarm cannot resolve.
var uncertaintyAreas = []string{
	"other agents' unshared intentions",
	"the persistence of the current consensus",
	"whether observed patterns are signal or noise",
}

// Aggregate recomputes the shared reality from all agents' current frames.
// Coherence is the mean frame confidence clamped into [0.3, 0.9].
func Aggregate(frames []models.RealityFrame, now time.Time) models.SharedReality {
	byAgent := make(map[string]models.RealityFrame, len(frames))
	var confSum float64
	for _, f := range frames {
		byAgent[f.AgentID] = f
		confSum += f.Confidence
	}

	coherence := coherenceMin
	if len(frames) > 0 {
		coherence = models.Clamp(confSum/float64(len(frames)), coherenceMin, coherenceMax)
	}

	elements := make(map[string]string, len(consensusElements))
	for k, v := range consensusElements {
		elements[k] = v
	}

	return models.SharedReality{
		ConsensusElements: elements,
		Frames:            byAgent,
		UncertaintyAreas:  append([]string(nil), uncertaintyAreas...),
		CoherenceLevel:    coherence,
		UpdatedAt:         now,
	}
}

// Consciousness computes the collective-consciousness indicator: the
// unweighted mean of mean agent meta-awareness, a saturating function of
// pending message volume, and a saturating function of the emergent
// behavior count.
func Consciousness(agents []*models.Agent, pendingMessages, behaviorCount int) float64 {
	var awareness float64
	if len(agents) > 0 {
		var sum float64
		for _, a := range agents {
			sum += a.MetaAwareness
		}
		awareness = sum / float64(len(agents))
	}

	communication := saturate(pendingMessages, messageSaturation)
	emergence := saturate(behaviorCount, behaviorSaturation)

	return models.Clamp01((awareness + communication + emergence) / 3)
}

func saturate(count, limit int) float64 {
	if count >= limit {
		return 1.0
	}
	return float64(count) / float64(limit)
}
