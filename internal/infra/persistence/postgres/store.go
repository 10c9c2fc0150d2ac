// Package postgres provides a Postgres-backed experiment store that mirrors
// the in-memory semantics, persisting records as JSONB payloads.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"sdrfcore/internal/infra/persistence/memory"
	"sdrfcore/pkg/sdrf"
)

// Compile-time contract assertion ensuring the store satisfies the
// persistence interface.
var _ sdrf.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/sdrfcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists experiment records to Postgres while reusing the in-memory
// implementation for all read paths.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the experiments table exists, and hydrates the
// in-memory store from any existing rows.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureExperimentsTable(ctx, db); err != nil {
		return nil, err
	}
	state, err := loadState(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	mem.ImportState(state)
	return &Store{Store: mem, db: db}, nil
}

func ensureExperimentsTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS experiments (
		id TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure experiments table: %w", err)
	}
	return nil
}

func loadState(ctx context.Context, db *sql.DB) (map[string]memory.RecordSnapshot, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, payload FROM experiments`)
	if err != nil {
		return nil, fmt.Errorf("select experiments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	state := make(map[string]memory.RecordSnapshot)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan experiments: %w", err)
		}
		var snap memory.RecordSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("decode experiment %s: %w", id, err)
		}
		state[id] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experiments: %w", err)
	}
	return state, nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM experiments`); err != nil {
		return fmt.Errorf("clear experiments: %w", err)
	}
	for id, snap := range state {
		payload, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode experiment %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO experiments(id,payload) VALUES($1,$2)`, id, payload); err != nil {
			return fmt.Errorf("insert experiment %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// PutExperiment stores the record and snapshots state to Postgres.
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

// DeleteExperiment removes the record and snapshots state to Postgres.
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

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
