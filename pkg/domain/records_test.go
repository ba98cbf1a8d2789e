package domain

import (
	"testing"
	"time"
)

func TestNormalizeSex(t *testing.T) {
	cases := map[string]Sex{
		"Female":  SexFemale,
		"female":  SexFemale,
		" f ":     SexFemale,
		"Male":    SexMale,
		"M":       SexMale,
		"":        SexUnknown,
		"nonbin":  SexUnknown,
		"UNKNOWN": SexUnknown,
	}
	for raw, want := range cases {
		if got := NormalizeSex(raw); got != want {
			t.Errorf("NormalizeSex(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeRace(t *testing.T) {
	cases := map[string]Race{
		"White":           RaceWhite,
		"BLACK":           RaceBlack,
		"Asian":           RaceAsian,
		"Am. Indian":      RaceAmIndian,
		"american indian": RaceAmIndian,
		"Other":           RaceOther,
		"":                RaceUnknown,
		"martian":         RaceUnknown,
	}
	for raw, want := range cases {
		if got := NormalizeRace(raw); got != want {
			t.Errorf("NormalizeRace(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeAgeGroup(t *testing.T) {
	if got := NormalizeAgeGroup(" 30-39 Yrs "); got != AgeGroup30to39 {
		t.Fatalf("expected 30-39 bucket, got %q", got)
	}
	if got := NormalizeAgeGroup("30-39"); got != AgeGroupUnknown {
		t.Fatalf("non-canonical spelling must map to Unknown, got %q", got)
	}
	if got := NormalizeAgeGroup(""); got != AgeGroupUnknown {
		t.Fatalf("blank must map to Unknown, got %q", got)
	}
}

func TestNormalizeMorbidity(t *testing.T) {
	if got := NormalizeMorbidity("diabetes"); got != Morbidity("DIABETES") {
		t.Fatalf("categories must upper-case, got %q", got)
	}
	if got := NormalizeMorbidity("all deaths"); got != MorbidityAllDeaths {
		t.Fatalf("All Deaths must keep canonical spelling, got %q", got)
	}
	if got := NormalizeMorbidity("  "); got != MorbidityUnknown {
		t.Fatalf("blank must map to Unknown, got %q", got)
	}
}

func TestMorbidityIsAll(t *testing.T) {
	if !MorbidityAll.IsAll() || !MorbidityAllDeaths.IsAll() {
		t.Fatal("both sentinels must collapse the dimension")
	}
	if Morbidity("CANCER").IsAll() || MorbidityUnknown.IsAll() {
		t.Fatal("categories must not collapse the dimension")
	}
}

func TestMorbidityDisplay(t *testing.T) {
	cases := map[Morbidity]string{
		"DIABETES":           "Diabetes",
		"HEART DISEASE":      "Heart Disease",
		MorbidityAllDeaths:   "All Deaths",
		Morbidity("CANCER"): "Cancer",
	}
	for m, want := range cases {
		if got := m.Display(); got != want {
			t.Errorf("(%q).Display() = %q, want %q", m, got, want)
		}
	}
}

func TestRecordDay(t *testing.T) {
	loc := time.FixedZone("CDT", -5*3600)
	r := Record{DateOfDeath: time.Date(2020, 4, 7, 22, 30, 0, 0, loc)}
	want := time.Date(2020, 4, 8, 0, 0, 0, 0, time.UTC)
	if got := r.Day(); !got.Equal(want) {
		t.Fatalf("Day() = %v, want %v", got, want)
	}
	if !r.HasDate() {
		t.Fatal("record with a date must report HasDate")
	}
	if (Record{}).HasDate() {
		t.Fatal("zero date must not report HasDate")
	}
}
