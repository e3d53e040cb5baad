// Package archetype defines the static parameter profiles agents are
// initialized from. Profiles are pure data: per-archetype parameter ranges
// and tendencies, with a sampling helper for agent construction.
package archetype

import (
	"math/rand"

	"github.com/emergentmind/hive/internal/models"
)

// Range is an inclusive [Min, Max] sampling range.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Profile is the static parameter profile for one archetype.
type Profile struct {
	Name                string               `json:"name" yaml:"name"`
	LearningRate        Range                `json:"learning_rate" yaml:"learning_rate"`
	ReflectionThreshold Range                `json:"reflection_threshold" yaml:"reflection_threshold"`
	MetaAwareness       Range                `json:"meta_awareness" yaml:"meta_awareness"`
	EmotionalTendency   models.Emotion       `json:"emotional_tendency" yaml:"emotional_tendency"`
	DecisionStyle       models.DecisionStyle `json:"decision_style" yaml:"decision_style"`
	Traits              []string             `json:"traits" yaml:"traits"`
}

// Names lists the built-in archetypes in registration order.
var Names = []string{"explorer", "skeptic", "harmonizer", "analyst", "maverick"}

// profiles is the built-in archetype table.
var profiles = map[string]Profile{
	"explorer": {
		Name:                "explorer",
		LearningRate:        Range{Min: 0.25, Max: 0.45},
		ReflectionThreshold: Range{Min: 0.45, Max: 0.65},
		MetaAwareness:       Range{Min: 0.4, Max: 0.7},
		EmotionalTendency:   models.EmotionCuriosity,
		DecisionStyle:       models.DecisionImpulsive,
		Traits:              []string{"curious", "restless", "open"},
	},
	"skeptic": {
		Name:                "skeptic",
		LearningRate:        Range{Min: 0.1, Max: 0.25},
		ReflectionThreshold: Range{Min: 0.55, Max: 0.8},
		MetaAwareness:       Range{Min: 0.5, Max: 0.8},
		EmotionalTendency:   models.EmotionAnxiety,
		DecisionStyle:       models.DecisionCautious,
		Traits:              []string{"doubting", "careful", "precise"},
	},
	"harmonizer": {
		Name:                "harmonizer",
		LearningRate:        Range{Min: 0.2, Max: 0.35},
		ReflectionThreshold: Range{Min: 0.5, Max: 0.7},
		MetaAwareness:       Range{Min: 0.45, Max: 0.75},
		EmotionalTendency:   models.EmotionSatisfaction,
		DecisionStyle:       models.DecisionDefault,
		Traits:              []string{"agreeable", "attentive", "steady"},
	},
	"analyst": {
		Name:                "analyst",
		LearningRate:        Range{Min: 0.15, Max: 0.3},
		ReflectionThreshold: Range{Min: 0.4, Max: 0.6},
		MetaAwareness:       Range{Min: 0.6, Max: 0.9},
		EmotionalTendency:   models.EmotionCalm,
		DecisionStyle:       models.DecisionAnalytical,
		Traits:              []string{"methodical", "detached", "thorough"},
	},
	"maverick": {
		Name:                "maverick",
		LearningRate:        Range{Min: 0.3, Max: 0.5},
		ReflectionThreshold: Range{Min: 0.6, Max: 0.85},
		MetaAwareness:       Range{Min: 0.3, Max: 0.6},
		EmotionalTendency:   models.EmotionFrustration,
		DecisionStyle:       models.DecisionImpulsive,
		Traits:              []string{"contrarian", "bold", "erratic"},
	},
}

// Lookup returns the profile for an archetype name. Unknown names fall
// back to the harmonizer profile so misconfigured agents stay runnable.
func Lookup(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles["harmonizer"]
}

// Pick returns a uniformly random archetype name.
func Pick(rng *rand.Rand) string {
	return Names[rng.Intn(len(Names))]
}
