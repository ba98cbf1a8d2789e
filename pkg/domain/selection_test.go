package domain

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelectionEmpty(t *testing.T) {
	base := Selection{
		Start:       day(2020, 4, 1),
		End:         day(2020, 4, 30),
		AgeGroups:   []AgeGroup{AgeGroupAll},
		Sexes:       []Sex{SexAll},
		Races:       []Race{RaceAll},
		Morbidities: []Morbidity{MorbidityAllDeaths},
	}
	if base.Empty() {
		t.Fatal("populated selection must not be empty")
	}

	inverted := base
	inverted.Start, inverted.End = base.End, base.Start
	if !inverted.Empty() {
		t.Fatal("inverted date range must be empty")
	}

	noRaces := base
	noRaces.Races = nil
	if !noRaces.Empty() {
		t.Fatal("empty dimension must be empty")
	}
}

func TestCombinationsPreserveOrder(t *testing.T) {
	s := Selection{
		Start:       day(2020, 4, 1),
		End:         day(2020, 4, 30),
		AgeGroups:   []AgeGroup{AgeGroupAll},
		Sexes:       []Sex{SexMale, SexFemale},
		Races:       []Race{RaceBlack, RaceWhite},
		Morbidities: []Morbidity{MorbidityAllDeaths},
	}
	combos := s.Combinations()
	want := []Combination{
		{AgeGroupAll, SexMale, RaceBlack, MorbidityAllDeaths},
		{AgeGroupAll, SexMale, RaceWhite, MorbidityAllDeaths},
		{AgeGroupAll, SexFemale, RaceBlack, MorbidityAllDeaths},
		{AgeGroupAll, SexFemale, RaceWhite, MorbidityAllDeaths},
	}
	if len(combos) != len(want) {
		t.Fatalf("got %d combinations, want %d", len(combos), len(want))
	}
	for i := range want {
		if combos[i] != want[i] {
			t.Errorf("combination %d = %+v, want %+v", i, combos[i], want[i])
		}
	}
}

func TestCombinationMatches(t *testing.T) {
	r := Record{
		CaseID:    "ME-1",
		AgeGroup:  AgeGroup30to39,
		Sex:       SexMale,
		Race:      RaceBlack,
		Morbidity: "DIABETES",
	}
	all := Combination{AgeGroupAll, SexAll, RaceAll, MorbidityAllDeaths}
	if !all.Matches(r) {
		t.Fatal("all-sentinel combination must match any record")
	}
	exact := Combination{AgeGroup30to39, SexMale, RaceBlack, "DIABETES"}
	if !exact.Matches(r) {
		t.Fatal("exact combination must match")
	}
	other := exact
	other.Race = RaceWhite
	if other.Matches(r) {
		t.Fatal("mismatched dimension must not match")
	}
}

func TestWindowValid(t *testing.T) {
	for _, w := range []Window{WindowDaily, WindowWeekly, WindowMonthly} {
		if !w.Valid() {
			t.Errorf("window %d must be valid", w)
		}
	}
	for _, w := range []Window{0, 2, 14, -1} {
		if Window(w).Valid() {
			t.Errorf("window %d must be invalid", w)
		}
	}
}
