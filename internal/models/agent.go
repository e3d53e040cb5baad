// Package models defines the core data types for the hive swarm:
// agents, beliefs, predictions, goals, messages, and the derived
// collective structures (shared reality, emergent behaviors).
package models

import (
	"time"

	"github.com/emergentmind/hive/internal/agentmem"
)

// Belief is a hypothesis an agent holds about the world or another agent,
// with an associated confidence.
type Belief struct {
	Hypothesis string    `json:"hypothesis" yaml:"hypothesis"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// Mood labels an agent's current affective trend.
type Mood string

const (
	MoodOptimistic  Mood = "optimistic"
	MoodPessimistic Mood = "pessimistic"
	MoodAnalytical  Mood = "analytical"
	MoodIrritable   Mood = "irritable"
	MoodFocused     Mood = "focused"
	MoodNeutral     Mood = "neutral"
)

// Emotion labels an agent's primary emotion.
type Emotion string

const (
	EmotionCalm         Emotion = "calm"
	EmotionCuriosity    Emotion = "curiosity"
	EmotionAnxiety      Emotion = "anxiety"
	EmotionFrustration  Emotion = "frustration"
	EmotionSatisfaction Emotion = "satisfaction"
)

// DecisionStyle hints how an agent weighs choices while a mood holds.
type DecisionStyle string

const (
	DecisionDefault    DecisionStyle = "default"
	DecisionCautious   DecisionStyle = "cautious"
	DecisionImpulsive  DecisionStyle = "impulsive"
	DecisionAnalytical DecisionStyle = "analytical"
)

// PerceptionFilter hints how a mood colors incoming information.
type PerceptionFilter string

const (
	PerceptionNeutral         PerceptionFilter = "neutral"
	PerceptionOptimisticBias  PerceptionFilter = "optimistic_bias"
	PerceptionPessimisticBias PerceptionFilter = "pessimistic_bias"
)

// CognitiveModifiers are the only channel through which emotion affects
// cognition. Both biases are additive and clamped to [-0.2, +0.2].
type CognitiveModifiers struct {
	LearningRateBias        float64          `json:"learning_rate_bias" yaml:"learning_rate_bias"`
	ReflectionThresholdBias float64          `json:"reflection_threshold_bias" yaml:"reflection_threshold_bias"`
	DecisionStyle           DecisionStyle    `json:"decision_style" yaml:"decision_style"`
	PerceptionFilter        PerceptionFilter `json:"perception_filter" yaml:"perception_filter"`
}

// EmotionalState captures an agent's primary emotion and mood, with the
// derived cognitive modifiers recomputed every tick.
type EmotionalState struct {
	Primary       Emotion            `json:"primary" yaml:"primary"`
	Intensity     float64            `json:"intensity" yaml:"intensity"`
	Mood          Mood               `json:"mood" yaml:"mood"`
	MoodIntensity float64            `json:"mood_intensity" yaml:"mood_intensity"`
	Modifiers     CognitiveModifiers `json:"modifiers" yaml:"modifiers"`
}

// SelfModel is an agent's descriptive model of itself. All fields are
// free text, mutated probabilistically over the simulation's lifetime.
type SelfModel struct {
	Traits     []string `json:"traits" yaml:"traits"`
	Boundaries []string `json:"boundaries" yaml:"boundaries"`
	Agency     string   `json:"agency" yaml:"agency"`
	Narrative  string   `json:"narrative" yaml:"narrative"`
}

// InteractionProfile tracks an agent's social standing with its peers.
// Trust values and the goal-proposal success rate stay within [0, 1].
type InteractionProfile struct {
	Trust           map[string]float64 `json:"trust" yaml:"trust"`
	GoalSuccessRate float64            `json:"goal_success_rate" yaml:"goal_success_rate"`
}

// TrustIn returns the trust score toward a peer, defaulting to 0.5 for
// peers with no interaction history.
func (p *InteractionProfile) TrustIn(peerID string) float64 {
	if t, ok := p.Trust[peerID]; ok {
		return t
	}
	return 0.5
}

// SetTrust records a trust score toward a peer, clamped to [0, 1].
func (p *InteractionProfile) SetTrust(peerID string, trust float64) {
	if p.Trust == nil {
		p.Trust = make(map[string]float64)
	}
	p.Trust[peerID] = Clamp01(trust)
}

// Agent is an autonomous simulated entity. Agents are created once at
// swarm initialization and persist for the simulation's lifetime.
type Agent struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Archetype string `json:"archetype" yaml:"archetype"`

	// Cognitive parameters, clamped to the configured bounds.
	LearningRate        float64 `json:"learning_rate" yaml:"learning_rate"`
	ReflectionThreshold float64 `json:"reflection_threshold" yaml:"reflection_threshold"`

	// MetaAwareness feeds the swarm-level consciousness metric.
	MetaAwareness float64 `json:"meta_awareness" yaml:"meta_awareness"`

	Beliefs   map[string]*Belief `json:"beliefs" yaml:"beliefs"`
	Emotional EmotionalState     `json:"emotional" yaml:"emotional"`
	Ledger    PredictionLedger   `json:"ledger" yaml:"ledger"`
	Memory    agentmem.Memory    `json:"memory" yaml:"memory"`
	Self      SelfModel          `json:"self" yaml:"self"`
	Profile   InteractionProfile `json:"profile" yaml:"profile"`
	Goals     []*Goal            `json:"goals" yaml:"goals"`
}

// NewAgent creates an agent with empty state and neutral defaults.
// Cognitive parameters are left for the caller to sample from the
// archetype profile.
func NewAgent(id, name, archetype string) *Agent {
	return &Agent{
		ID:        id,
		Name:      name,
		Archetype: archetype,
		Beliefs:   make(map[string]*Belief),
		Emotional: EmotionalState{
			Primary:   EmotionCalm,
			Intensity: 0.1,
			Mood:      MoodNeutral,
			Modifiers: CognitiveModifiers{
				DecisionStyle:    DecisionDefault,
				PerceptionFilter: PerceptionNeutral,
			},
		},
		Profile: InteractionProfile{
			Trust:           make(map[string]float64),
			GoalSuccessRate: 0.5,
		},
	}
}

// Belief returns the agent's belief for a key, or nil if none is held.
func (a *Agent) Belief(key string) *Belief {
	return a.Beliefs[key]
}

// SetBelief records a belief, clamping confidence to [0, 1].
func (a *Agent) SetBelief(key, hypothesis string, confidence float64, now time.Time) {
	if a.Beliefs == nil {
		a.Beliefs = make(map[string]*Belief)
	}
	a.Beliefs[key] = &Belief{
		Hypothesis: hypothesis,
		Confidence: Clamp01(confidence),
		UpdatedAt:  now,
	}
}

// BeliefKeys returns the agent's belief keys in no particular order.
func (a *Agent) BeliefKeys() []string {
	keys := make([]string, 0, len(a.Beliefs))
	for k := range a.Beliefs {
		keys = append(keys, k)
	}
	return keys
}

// ActiveGoals returns goals that are still accepted or in progress.
func (a *Agent) ActiveGoals() []*Goal {
	var active []*Goal
	for _, g := range a.Goals {
		if g.Status == GoalAccepted || g.Status == GoalActive {
			active = append(active, g)
		}
	}
	return active
}
