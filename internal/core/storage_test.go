package core

import (
	"path/filepath"
	"testing"

	"sdrfcore/internal/infra/persistence/memory"
	"sdrfcore/internal/infra/persistence/sqlite"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	t.Setenv("SDRFCORE_STORAGE_DRIVER", "memory")
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("OpenPersistentStore: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("store = %T, want *memory.Store", store)
	}
}

func TestOpenPersistentStoreSQLite(t *testing.T) {
	t.Setenv("SDRFCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("SDRFCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "experiments.db"))
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("OpenPersistentStore: %v", err)
	}
	s, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("store = %T, want *sqlite.Store", store)
	}
	_ = s.Close()
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	t.Setenv("SDRFCORE_STORAGE_DRIVER", "carrier-pigeon")
	if _, err := OpenPersistentStore(); err == nil {
		t.Fatal("unknown driver accepted")
	}
}
