package core

import (
	"fmt"
	"os"

	"sdrfcore/internal/infra/persistence/memory"
	"sdrfcore/internal/infra/persistence/postgres"
	"sdrfcore/internal/infra/persistence/sqlite"
	"sdrfcore/pkg/sdrf"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	SDRFCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	SDRFCORE_SQLITE_PATH: path to sqlite file (default ./sdrfcore.db)
//	SDRFCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore() (sdrf.Store, error) {
	driver := os.Getenv("SDRFCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("SDRFCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("SDRFCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
