// Package prediction generates, resolves, and prunes agent predictions.
// The error level of the most recently resolved prediction is the sole
// input driving the reflection cycle.
package prediction

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/emergentmind/hive/internal/models"
)

const (
	// DefaultErrorLevel is reported when no prediction has resolved yet.
	DefaultErrorLevel = 0.5

	// DefaultRetention is how long resolved predictions stay in the
	// ledger before pruning (simulation time).
	DefaultRetention = 5 * time.Minute
)

// outcomes maps each prediction kind to its closed outcome label space.
var outcomes = map[models.PredictionKind][]string{
	models.PredictNextAction:     {"share", "propose", "reflect", "observe"},
	models.PredictTrustShift:     {"up", "down", "steady"},
	models.PredictMoodShift:      {"optimistic", "pessimistic", "analytical", "irritable", "focused", "neutral"},
	models.PredictConsensusLevel: {"rising", "falling", "stable"},
}

// Kinds lists the predictable event kinds.
var Kinds = []models.PredictionKind{
	models.PredictNextAction,
	models.PredictTrustShift,
	models.PredictMoodShift,
	models.PredictConsensusLevel,
}

// Record creates a prediction for the agent and appends it to the ledger.
// Kinds that predict something about a peer require targetID; without one
// the call is a no-op and returns nil.
func Record(agent *models.Agent, kind models.PredictionKind, targetID string, rng *rand.Rand, now time.Time) *models.Prediction {
	if kind.NeedsTarget() && targetID == "" {
		return nil
	}

	labels, ok := outcomes[kind]
	if !ok {
		return nil
	}

	p := &models.Prediction{
		ID:        uuid.NewString(),
		Kind:      kind,
		TargetID:  targetID,
		Predicted: labels[rng.Intn(len(labels))],
		CreatedAt: now,
	}
	agent.Ledger.Predictions = append(agent.Ledger.Predictions, p)
	return p
}

// Resolve assigns an actual outcome to an outstanding prediction and
// scores it: a correct prediction lands in the low-error band (< 0.3), an
// incorrect one in the high-error band (>= 0.7). Already-resolved
// predictions are left untouched.
func Resolve(p *models.Prediction, rng *rand.Rand, now time.Time) {
	if p == nil || p.Resolved {
		return
	}

	labels := outcomes[p.Kind]
	if len(labels) == 0 {
		labels = []string{p.Predicted}
	}
	p.Actual = labels[rng.Intn(len(labels))]

	if p.Actual == p.Predicted {
		p.ErrorLevel = 0.05 + rng.Float64()*0.2 // [0.05, 0.25)
	} else {
		p.ErrorLevel = 0.7 + rng.Float64()*0.3 // [0.7, 1.0)
	}
	p.Resolved = true
	p.ResolvedAt = now
}

// Prune drops resolved predictions older than the retention window.
// Outstanding predictions are never pruned.
func Prune(ledger *models.PredictionLedger, retention time.Duration, now time.Time) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := now.Add(-retention)

	kept := ledger.Predictions[:0]
	for _, p := range ledger.Predictions {
		if p.Resolved && p.ResolvedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, p)
	}
	ledger.Predictions = kept
}

// CurrentErrorLevel returns the error level of the most recently resolved
// prediction, or DefaultErrorLevel if none has resolved.
func CurrentErrorLevel(ledger *models.PredictionLedger) float64 {
	if last := ledger.LastResolved(); last != nil {
		return last.ErrorLevel
	}
	return DefaultErrorLevel
}
