// Package store persists swarm snapshots. Saving is best-effort: a failed
// save is logged by the caller and never halts the simulation; a failed or
// empty load yields a fresh-initialized swarm.
package store

import (
	"context"
	"time"

	"github.com/emergentmind/hive/internal/models"
)

// Snapshot is the full serializable swarm state emitted at the end of
// each tick and on shutdown.
type Snapshot struct {
	Tick          uint64                    `json:"tick"`
	TakenAt       time.Time                 `json:"taken_at"`
	Consciousness float64                   `json:"consciousness"`
	Agents        []*models.Agent           `json:"agents"`
	Messages      []*models.Message         `json:"messages"`
	Behaviors     []models.EmergentBehavior `json:"behaviors"`
	Shared        models.SharedReality      `json:"shared"`
}

// SnapshotStore persists and restores swarm snapshots.
type SnapshotStore interface {
	// Save persists a snapshot.
	Save(ctx context.Context, snap Snapshot) error

	// Load returns the most recent snapshot, or (nil, nil) when none
	// has been saved.
	Load(ctx context.Context) (*Snapshot, error)

	Close() error
}
