package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sdrfcore/pkg/sdrf"
)

func testRecord(id string) sdrf.Record {
	extract := &sdrf.Datum{Heading: "Extract Name", Value: "e1"}
	return sdrf.Record{
		ID:        id,
		Name:      "experiment-" + id,
		CreatedAt: time.Unix(10, 0).UTC(),
		Experiment: &sdrf.Experiment{Slots: [][]*sdrf.AppliedProtocol{
			{{
				Protocol: &sdrf.Protocol{Name: "grow"},
				Inputs:   []*sdrf.Datum{{Heading: "Source Name", Value: "s1"}},
				Outputs:  []*sdrf.Datum{extract},
			}},
			{{
				Protocol: &sdrf.Protocol{Name: "hybridize"},
				Inputs:   []*sdrf.Datum{extract},
			}},
		}},
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.PutExperiment(ctx, testRecord("a")); err != nil {
		t.Fatalf("PutExperiment: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	rec, err := reopened.GetExperiment(ctx, "a")
	if err != nil {
		t.Fatalf("GetExperiment after reopen: %v", err)
	}
	if rec.Name != "experiment-a" || len(rec.Experiment.Slots) != 2 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Experiment.Slots[0][0].Outputs[0] != rec.Experiment.Slots[1][0].Inputs[0] {
		t.Fatal("shared datum lost across reopen")
	}
}

func TestStoreDeletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.PutExperiment(ctx, testRecord("a")); err != nil {
		t.Fatalf("PutExperiment: %v", err)
	}
	if err := store.DeleteExperiment(ctx, "a"); err != nil {
		t.Fatalf("DeleteExperiment: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	var notFound sdrf.ErrRecordNotFound
	if _, err := reopened.GetExperiment(ctx, "a"); !errors.As(err, &notFound) {
		t.Fatalf("GetExperiment after delete = %v", err)
	}
}

func TestStoreListAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		rec := testRecord(id)
		if _, err := store.PutExperiment(ctx, rec); err != nil {
			t.Fatalf("PutExperiment %s: %v", id, err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	recs, err := reopened.ListExperiments(ctx)
	if err != nil {
		t.Fatalf("ListExperiments: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
}
