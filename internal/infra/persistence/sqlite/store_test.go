package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mortalitycore/pkg/domain"
)

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	age := 57
	pop := 250_000.0
	records := []domain.Record{{
		CaseID:      "ME-1",
		DateOfDeath: time.Date(2020, 4, 7, 0, 0, 0, 0, time.UTC),
		Age:         &age,
		AgeGroup:    domain.AgeGroup50to59,
		Sex:         domain.SexMale,
		Race:        domain.RaceWhite,
		Morbidity:   "CANCER",
		Population:  &pop,
	}}
	if err := store.ImportRecords(context.Background(), records); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got := reopened.ListRecords()
	if len(got) != 1 {
		t.Fatalf("expected 1 hydrated record, got %d", len(got))
	}
	r := got[0]
	if r.CaseID != "ME-1" || r.Morbidity != "CANCER" || r.Age == nil || *r.Age != 57 || r.Population == nil || *r.Population != pop {
		t.Fatalf("hydrated record mismatch: %+v", r)
	}
	if !r.DateOfDeath.Equal(records[0].DateOfDeath) {
		t.Fatalf("date = %v, want %v", r.DateOfDeath, records[0].DateOfDeath)
	}
}

func TestEmptyDatabaseHydratesEmpty(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if store.CountRecords() != 0 {
		t.Fatalf("fresh database must hydrate empty, got %d", store.CountRecords())
	}
}

func TestImportValidationDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.ImportRecords(context.Background(), []domain.Record{{Morbidity: "CANCER"}}); err == nil {
		t.Fatal("blank case identifier must be rejected")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.CountRecords() != 0 {
		t.Fatal("rejected import must not be snapshotted")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if store.Path() != "mortalitycore.db" {
		t.Fatalf("default path = %q", store.Path())
	}
}
