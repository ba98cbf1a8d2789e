package core

import (
	"fmt"
	"os"

	"mortalitycore/internal/infra/persistence/memory"
	"mortalitycore/internal/infra/persistence/postgres"
	"mortalitycore/internal/infra/persistence/sqlite"
	"mortalitycore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a record store backend using environment
// variables. Defaults to sqlite when unset.
//
//	MORTALITYCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	MORTALITYCORE_SQLITE_PATH: path to sqlite file (default ./mortalitycore.db)
//	MORTALITYCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore() (domain.PersistentRecordStore, error) {
	driver := os.Getenv("MORTALITYCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("MORTALITYCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("MORTALITYCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
