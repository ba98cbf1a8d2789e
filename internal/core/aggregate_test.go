package core

import (
	"testing"

	"mortalitycore/pkg/domain"
)

func TestAggregateCountsDistinctCases(t *testing.T) {
	// One case tagged with two morbidities: counted once under All Deaths,
	// once within each morbidity group.
	records := []domain.Record{
		rec("ME-1", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
		rec("ME-1", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "DIABETES"),
		rec("ME-2", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
	}
	agg := Aggregate(records, true)

	total := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroupAll, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: domain.MorbidityAllDeaths,
	})
	if len(total) != 1 || total[0].DistinctCases != 2 {
		t.Fatalf("All Deaths must count 2 distinct cases, got %+v", total)
	}

	cancer := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroupAll, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: "CANCER",
	})
	if len(cancer) != 1 || cancer[0].DistinctCases != 2 {
		t.Fatalf("CANCER must count 2 distinct cases, got %+v", cancer)
	}

	diabetes := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroupAll, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: "DIABETES",
	})
	if len(diabetes) != 1 || diabetes[0].DistinctCases != 1 {
		t.Fatalf("DIABETES must count 1 distinct case, got %+v", diabetes)
	}
}

func TestSliceRowsAscendByDate(t *testing.T) {
	records := []domain.Record{
		rec("ME-3", dayOf(2020, 4, 9), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
		rec("ME-1", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
		rec("ME-2", dayOf(2020, 4, 8), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
	}
	agg := Aggregate(records, true)
	rows := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroupAll, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: domain.MorbidityAllDeaths,
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 dated rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Date.Before(rows[i].Date) {
			t.Fatalf("rows out of order at %d: %v >= %v", i, rows[i-1].Date, rows[i].Date)
		}
	}
}

func TestAggregateWithoutTimeAxisCollapsesDates(t *testing.T) {
	records := []domain.Record{
		rec("ME-1", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
		rec("ME-2", dayOf(2020, 4, 9), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
	}
	agg := Aggregate(records, false)
	rows := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroupAll, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: domain.MorbidityAllDeaths,
	})
	if len(rows) != 1 || rows[0].DistinctCases != 2 {
		t.Fatalf("expected one collapsed row of 2 cases, got %+v", rows)
	}
}

func TestSlicePopulationSumsDistinctCells(t *testing.T) {
	popWhite := 300_000.0
	popBlack := 200_000.0
	mk := func(caseID string, race domain.Race, pop *float64) domain.Record {
		r := rec(caseID, dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, race, "CANCER")
		r.Population = pop
		return r
	}
	records := []domain.Record{
		mk("ME-1", domain.RaceWhite, &popWhite),
		mk("ME-2", domain.RaceWhite, &popWhite),
		mk("ME-3", domain.RaceBlack, &popBlack),
	}
	agg := Aggregate(records, true)
	rows := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroup50to59, Sex: domain.SexMale, Race: domain.RaceAll, Morbidity: domain.MorbidityAllDeaths,
	})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if !rows[0].HasPopulation || rows[0].Population != popWhite+popBlack {
		t.Fatalf("population must sum distinct cells once each, got %+v", rows[0])
	}
}

func TestSlicePopulationFailsClosedOnMissingCell(t *testing.T) {
	popWhite := 300_000.0
	withPop := rec("ME-1", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER")
	withPop.Population = &popWhite
	without := rec("ME-2", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceBlack, "CANCER")
	agg := Aggregate([]domain.Record{withPop, without}, true)
	rows := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroupAll, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: domain.MorbidityAllDeaths,
	})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].HasPopulation {
		t.Fatal("a contributing cell without a denominator must leave the population undefined")
	}
}

func TestSliceUnmatchedCombination(t *testing.T) {
	records := []domain.Record{
		rec("ME-1", dayOf(2020, 4, 7), domain.AgeGroup50to59, domain.SexMale, domain.RaceWhite, "CANCER"),
	}
	agg := Aggregate(records, true)
	rows := agg.Slice(domain.Combination{
		AgeGroup: domain.AgeGroup19to29, Sex: domain.SexAll, Race: domain.RaceAll, Morbidity: domain.MorbidityAllDeaths,
	})
	if rows != nil {
		t.Fatalf("unmatched combination must yield no rows, got %+v", rows)
	}
}
