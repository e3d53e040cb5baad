package models

import "time"

// RealityFrame is an agent's descriptive snapshot of its perceived
// situation at the end of a tick, with an associated confidence.
type RealityFrame struct {
	AgentID     string    `json:"agent_id" yaml:"agent_id"`
	Description string    `json:"description" yaml:"description"`
	Mood        Mood      `json:"mood" yaml:"mood"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// SharedReality is the tick-level aggregate of all agents' reality frames.
// It is derived state, recomputed every tick.
type SharedReality struct {
	ConsensusElements map[string]string       `json:"consensus_elements" yaml:"consensus_elements"`
	Frames            map[string]RealityFrame `json:"frames" yaml:"frames"`
	UncertaintyAreas  []string                `json:"uncertainty_areas" yaml:"uncertainty_areas"`

	// CoherenceLevel derives from the mean frame confidence, clamped
	// into [0.3, 0.9].
	CoherenceLevel float64 `json:"coherence_level" yaml:"coherence_level"`

	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// EmergentBehavior records a detected collective pattern. Records are
// append-only and never mutated after creation.
type EmergentBehavior struct {
	ID             string    `json:"id" yaml:"id"`
	Type           string    `json:"type" yaml:"type"`
	Description    string    `json:"description" yaml:"description"`
	Participants   []string  `json:"participants" yaml:"participants"`
	EmergenceLevel float64   `json:"emergence_level" yaml:"emergence_level"`
	Stability      float64   `json:"stability" yaml:"stability"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}
