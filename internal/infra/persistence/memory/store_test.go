package memory

import (
	"context"
	"testing"
	"time"

	"mortalitycore/pkg/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			CaseID:      "ME-1",
			DateOfDeath: time.Date(2020, 4, 7, 0, 0, 0, 0, time.UTC),
			AgeGroup:    domain.AgeGroup50to59,
			Sex:         domain.SexMale,
			Race:        domain.RaceWhite,
			Morbidity:   "CANCER",
		},
		{
			CaseID:      "ME-1",
			DateOfDeath: time.Date(2020, 4, 7, 0, 0, 0, 0, time.UTC),
			AgeGroup:    domain.AgeGroup50to59,
			Sex:         domain.SexMale,
			Race:        domain.RaceWhite,
			Morbidity:   "DIABETES",
		},
	}
}

func TestImportAndList(t *testing.T) {
	store := NewStore()
	if err := store.ImportRecords(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if store.CountRecords() != 2 {
		t.Fatalf("count = %d, want 2", store.CountRecords())
	}
	got := store.ListRecords()
	if len(got) != 2 || got[0].CaseID != "ME-1" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestImportRejectsBlankCaseID(t *testing.T) {
	store := NewStore()
	err := store.ImportRecords(context.Background(), []domain.Record{{Morbidity: "CANCER"}})
	if err == nil {
		t.Fatal("blank case identifier must be rejected")
	}
	if store.CountRecords() != 0 {
		t.Fatal("failed import must not replace the table")
	}
}

func TestImportRejectsDuplicateCaseMorbidity(t *testing.T) {
	store := NewStore()
	dup := sampleRecords()
	dup[1].Morbidity = dup[0].Morbidity
	if err := store.ImportRecords(context.Background(), dup); err == nil {
		t.Fatal("duplicate (case, morbidity) pair must be rejected")
	}
}

func TestListReturnsDefensiveCopy(t *testing.T) {
	store := NewStore()
	if err := store.ImportRecords(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}
	first := store.ListRecords()
	first[0].CaseID = "mutated"
	if store.ListRecords()[0].CaseID != "ME-1" {
		t.Fatal("mutating a returned slice must not affect the store")
	}
}

func TestImportReplacesWholesale(t *testing.T) {
	store := NewStore()
	if err := store.ImportRecords(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}
	replacement := []domain.Record{{CaseID: "ME-9", Morbidity: "ASTHMA"}}
	if err := store.ImportRecords(context.Background(), replacement); err != nil {
		t.Fatalf("second import: %v", err)
	}
	if store.CountRecords() != 1 || store.ListRecords()[0].CaseID != "ME-9" {
		t.Fatal("import must replace the table, not append")
	}
}
