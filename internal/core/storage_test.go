package core

import (
	"path/filepath"
	"testing"

	"mortalitycore/internal/infra/persistence/memory"
	"mortalitycore/internal/infra/persistence/sqlite"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	t.Setenv("MORTALITYCORE_STORAGE_DRIVER", "memory")
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("store type = %T, want memory", store)
	}
}

func TestOpenPersistentStoreDefaultsToSQLite(t *testing.T) {
	t.Setenv("MORTALITYCORE_STORAGE_DRIVER", "")
	t.Setenv("MORTALITYCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "trend.db"))
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*sqlite.Store); !ok {
		t.Fatalf("store type = %T, want sqlite", store)
	}
}

func TestOpenPersistentStoreRejectsUnknownDriver(t *testing.T) {
	t.Setenv("MORTALITYCORE_STORAGE_DRIVER", "etcd")
	if _, err := OpenPersistentStore(); err == nil {
		t.Fatal("unknown driver must be rejected")
	}
}
