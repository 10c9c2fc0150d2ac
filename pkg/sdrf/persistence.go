package sdrf

import (
	"context"
	"fmt"
	"time"
)

// Record couples a reconciled experiment with catalog metadata for storage.
type Record struct {
	ID         string
	Name       string
	SourceKey  string // blob key of the archived source document, if archived
	CreatedAt  time.Time
	Experiment *Experiment
}

// Store is the persistence contract consumed by higher layers. Implementations
// must return independent experiment graphs from Get and List so callers can
// mutate term-source fields without affecting stored state.
type Store interface {
	PutExperiment(ctx context.Context, rec Record) (Record, error)
	GetExperiment(ctx context.Context, id string) (Record, error)
	ListExperiments(ctx context.Context) ([]Record, error)
	DeleteExperiment(ctx context.Context, id string) error
}

// ErrRecordNotFound is returned by stores when no experiment exists under the
// requested identifier.
type ErrRecordNotFound struct {
	ID string
}

func (e ErrRecordNotFound) Error() string {
	return fmt.Sprintf("experiment %s not found", e.ID)
}
