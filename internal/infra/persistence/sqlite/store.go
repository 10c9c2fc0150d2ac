// Package sqlite persists experiment records to a single SQLite table as JSON
// payloads. It reuses the in-memory store for all read paths and snapshots the
// full state after every successful mutation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"sdrfcore/internal/infra/persistence/memory"
	"sdrfcore/pkg/sdrf"
)

var _ sdrf.Store = (*Store)(nil)

// Store is a snapshotting SQLite-backed experiment store.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens or creates the database at path and hydrates the in-memory
// store from any existing rows.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "sdrfcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS experiments (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create experiments table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT id, payload FROM experiments`)
	if err != nil {
		return fmt.Errorf("select experiments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	state := make(map[string]memory.RecordSnapshot)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		var snap memory.RecordSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return fmt.Errorf("decode experiment %s: %w", id, err)
		}
		state[id] = snap
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate experiments: %w", err)
	}
	s.ImportState(state)
	return nil
}

func (s *Store) persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM experiments`); err != nil {
		retErr = fmt.Errorf("clear experiments: %w", err)
		return retErr
	}
	for id, snap := range state {
		payload, err := json.Marshal(snap)
		if err != nil {
			retErr = fmt.Errorf("encode experiment %s: %w", id, err)
			return retErr
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO experiments(id,payload) VALUES(?,?)`, id, payload); err != nil {
			retErr = fmt.Errorf("insert experiment %s: %w", id, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		retErr = fmt.Errorf("commit: %w", err)
	}
	return retErr
}

// PutExperiment stores the record and snapshots state to SQLite.
func (s *Store) PutExperiment(ctx context.Context, rec sdrf.Record) (sdrf.Record, error) {
	rec, err := s.Store.PutExperiment(ctx, rec)
	if err != nil {
		return sdrf.Record{}, err
	}
	if err := s.persist(ctx); err != nil {
		return sdrf.Record{}, err
	}
	return rec, nil
}

// DeleteExperiment removes the record and snapshots state to SQLite.
func (s *Store) DeleteExperiment(ctx context.Context, id string) error {
	if err := s.Store.DeleteExperiment(ctx, id); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
