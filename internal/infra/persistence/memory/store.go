// Package memory provides the in-memory experiment store used for tests and
// ephemeral runs. The durable sqlite and postgres stores embed it and persist
// its exported state.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"sdrfcore/pkg/sdrf"
)

// Compile-time contract assertion ensuring memory.Store adheres to the
// persistence interface.
var _ sdrf.Store = (*Store)(nil)

var (
	errMissingID         = errors.New("record ID is required")
	errMissingExperiment = errors.New("record experiment is required")
)

// RecordSnapshot is the serializable form of one stored experiment record.
type RecordSnapshot struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	SourceKey string                `json:"source_key,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	Document  sdrf.DocumentSnapshot `json:"document"`
}

// Store keeps experiment records in process memory. Records are held in
// snapshot form, so every Get rebuilds an independent graph and callers can
// mutate their copy freely.
type Store struct {
	mu      sync.RWMutex
	records map[string]RecordSnapshot
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]RecordSnapshot)}
}

// PutExperiment stores or replaces a record. The record must carry an ID and
// a parsed experiment.
func (s *Store) PutExperiment(_ context.Context, rec sdrf.Record) (sdrf.Record, error) {
	if rec.ID == "" {
		return sdrf.Record{}, errMissingID
	}
	if rec.Experiment == nil {
		return sdrf.Record{}, errMissingExperiment
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = RecordSnapshot{
		ID:        rec.ID,
		Name:      rec.Name,
		SourceKey: rec.SourceKey,
		CreatedAt: rec.CreatedAt,
		Document:  rec.Experiment.Snapshot(),
	}
	return rec, nil
}

// GetExperiment rebuilds the stored record's experiment graph.
func (s *Store) GetExperiment(_ context.Context, id string) (sdrf.Record, error) {
	s.mu.RLock()
	snap, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return sdrf.Record{}, sdrf.ErrRecordNotFound{ID: id}
	}
	return snap.record()
}

// ListExperiments returns all records ordered by creation time, then ID.
func (s *Store) ListExperiments(_ context.Context) ([]sdrf.Record, error) {
	s.mu.RLock()
	snaps := make([]RecordSnapshot, 0, len(s.records))
	for _, snap := range s.records {
		snaps = append(snaps, snap)
	}
	s.mu.RUnlock()
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
	out := make([]sdrf.Record, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := snap.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteExperiment removes a record.
func (s *Store) DeleteExperiment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sdrf.ErrRecordNotFound{ID: id}
	}
	delete(s.records, id)
	return nil
}

// ExportState clones the stored snapshots for external persistence.
func (s *Store) ExportState() map[string]RecordSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]RecordSnapshot, len(s.records))
	for id, snap := range s.records {
		out[id] = snap
	}
	return out
}

// ImportState replaces the store contents with the provided snapshots.
func (s *Store) ImportState(state map[string]RecordSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]RecordSnapshot, len(state))
	for id, snap := range state {
		s.records[id] = snap
	}
}

func (snap RecordSnapshot) record() (sdrf.Record, error) {
	experiment, err := snap.Document.Experiment()
	if err != nil {
		return sdrf.Record{}, err
	}
	return sdrf.Record{
		ID:         snap.ID,
		Name:       snap.Name,
		SourceKey:  snap.SourceKey,
		CreatedAt:  snap.CreatedAt,
		Experiment: experiment,
	}, nil
}
