package models

import (
	"sort"
	"time"
)

// PredictionKind identifies what a prediction is about. The set is closed:
// the prediction subsystem only resolves kinds it knows the outcome space of.
type PredictionKind string

const (
	// PredictNextAction predicts a specific peer's next action type.
	// Requires a target agent.
	PredictNextAction PredictionKind = "next_action"

	// PredictTrustShift predicts how a peer's trust toward the predictor
	// will move. Requires a target agent.
	PredictTrustShift PredictionKind = "trust_shift"

	// PredictMoodShift predicts the agent's own next mood.
	PredictMoodShift PredictionKind = "mood_shift"

	// PredictConsensusLevel predicts the direction of swarm coherence.
	PredictConsensusLevel PredictionKind = "consensus_level"
)

// AllPredictionKinds lists every prediction kind.
var AllPredictionKinds = []PredictionKind{
	PredictNextAction,
	PredictTrustShift,
	PredictMoodShift,
	PredictConsensusLevel,
}

// NeedsTarget reports whether the kind predicts something about a peer.
func (k PredictionKind) NeedsTarget() bool {
	return k == PredictNextAction || k == PredictTrustShift
}

// Prediction is a single entry in an agent's prediction ledger.
type Prediction struct {
	ID         string         `json:"id" yaml:"id"`
	Kind       PredictionKind `json:"kind" yaml:"kind"`
	TargetID   string         `json:"target_id,omitempty" yaml:"target_id,omitempty"`
	Predicted  string         `json:"predicted" yaml:"predicted"`
	Actual     string         `json:"actual,omitempty" yaml:"actual,omitempty"`
	Resolved   bool           `json:"resolved" yaml:"resolved"`
	ErrorLevel float64        `json:"error_level" yaml:"error_level"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
	ResolvedAt time.Time      `json:"resolved_at,omitzero" yaml:"resolved_at,omitempty"`
}

// PredictionLedger holds an agent's outstanding and recently resolved
// predictions, bounded to a recency window by the prediction subsystem.
type PredictionLedger struct {
	Predictions []*Prediction `json:"predictions" yaml:"predictions"`
}

// Outstanding returns predictions that have not been resolved yet.
func (l *PredictionLedger) Outstanding() []*Prediction {
	var out []*Prediction
	for _, p := range l.Predictions {
		if !p.Resolved {
			out = append(out, p)
		}
	}
	return out
}

// LastResolved returns the most recently resolved prediction, or nil.
func (l *PredictionLedger) LastResolved() *Prediction {
	var last *Prediction
	for _, p := range l.Predictions {
		if p.Resolved && (last == nil || p.ResolvedAt.After(last.ResolvedAt)) {
			last = p
		}
	}
	return last
}

// RecentErrors returns the error levels of up to n most recently resolved
// predictions, newest first.
func (l *PredictionLedger) RecentErrors(n int) []float64 {
	var resolved []*Prediction
	for _, p := range l.Predictions {
		if p.Resolved {
			resolved = append(resolved, p)
		}
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].ResolvedAt.After(resolved[j].ResolvedAt)
	})
	if len(resolved) > n {
		resolved = resolved[:n]
	}
	errs := make([]float64, len(resolved))
	for i, p := range resolved {
		errs[i] = p.ErrorLevel
	}
	return errs
}
