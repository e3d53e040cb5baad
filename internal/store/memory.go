package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore implements SnapshotStore in memory, for tests and for
// running without persistence. Snapshots round-trip through JSON so the
// stored copy is detached from live engine state, matching the SQLite
// store's semantics.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots [][]byte
	retention int

	// FailSaves makes Save return an error, for degraded-mode tests.
	FailSaves bool
}

// NewMemoryStore creates a MemoryStore retaining up to retention
// snapshots (DefaultRetention when non-positive).
func NewMemoryStore(retention int) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryStore{retention: retention}
}

// Save appends a snapshot, pruning beyond the retention limit.
func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSaves {
		return fmt.Errorf("memory store: saves disabled")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	s.snapshots = append(s.snapshots, data)
	if len(s.snapshots) > s.retention {
		s.snapshots = s.snapshots[len(s.snapshots)-s.retention:]
	}
	return nil
}

// Load returns the most recent snapshot, or (nil, nil) when empty.
func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) == 0 {
		return nil, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(s.snapshots[len(s.snapshots)-1], &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Count returns the number of retained snapshots.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
