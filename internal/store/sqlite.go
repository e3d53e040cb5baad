package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultRetention is how many snapshots the SQLite store keeps before
// pruning the oldest rows.
const DefaultRetention = 20

// SQLiteStore implements SnapshotStore on a SQLite database under the
// project's .hive directory.
type SQLiteStore struct {
	mu        sync.Mutex
	db        *sql.DB
	retention int
}

// NewSQLiteStore opens (creating if needed) the snapshot database at
// <root>/.hive/hive.db. A non-positive retention uses DefaultRetention.
func NewSQLiteStore(root string, retention int) (*SQLiteStore, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}

	hiveDir := filepath.Join(root, ".hive")
	if err := os.MkdirAll(hiveDir, 0755); err != nil {
		return nil, fmt.Errorf("create .hive directory: %w", err)
	}

	dbPath := filepath.Join(hiveDir, "hive.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, retention: retention}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			tick     INTEGER NOT NULL,
			taken_at TEXT    NOT NULL,
			data     TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_tick ON snapshots(tick);
	`)
	return err
}

// Save inserts the snapshot and prunes rows beyond the retention limit.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (tick, taken_at, data) VALUES (?, ?, ?)`,
		snap.Tick, snap.TakenAt.UTC().Format(time.RFC3339Nano), string(data),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)`, s.retention,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// Load returns the most recent snapshot, or (nil, nil) when the store is
// empty.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Count returns the number of retained snapshots.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
