// Package domain defines the core value types of the mortality trend service:
// death records, demographic dimensions, filter selections, and emitted series.
// The package imports only the standard library; an architecture guard test
// enforces that it stays that way.
package domain

import (
	"strings"
	"time"
)

// AgeGroup identifies one of the fixed decedent age buckets, or the All sentinel.
type AgeGroup string

// Canonical age buckets in ascending order, plus the unrestricted sentinel.
const (
	AgeGroupUnder18 AgeGroup = "<18 Yrs"
	AgeGroup19to29  AgeGroup = "19-29 Yrs"
	AgeGroup30to39  AgeGroup = "30-39 Yrs"
	AgeGroup40to49  AgeGroup = "40-49 Yrs"
	AgeGroup50to59  AgeGroup = "50-59 Yrs"
	AgeGroup60to69  AgeGroup = "60-69 Yrs"
	AgeGroup70to79  AgeGroup = "70-79 Yrs"
	AgeGroup80to89  AgeGroup = "80-89 Yrs"
	AgeGroup90to99  AgeGroup = "90-99 Yrs"
	AgeGroup100Plus AgeGroup = "100+ Yrs"
	AgeGroupUnknown AgeGroup = "Unknown"
	AgeGroupAll     AgeGroup = "All"
)

// AgeGroups returns the canonical bucket order used for display and stable sorting.
func AgeGroups() []AgeGroup {
	return []AgeGroup{
		AgeGroupUnder18, AgeGroup19to29, AgeGroup30to39, AgeGroup40to49,
		AgeGroup50to59, AgeGroup60to69, AgeGroup70to79, AgeGroup80to89,
		AgeGroup90to99, AgeGroup100Plus, AgeGroupUnknown,
	}
}

// IsAll reports whether the value is the unrestricted sentinel.
func (a AgeGroup) IsAll() bool { return a == AgeGroupAll }

// Sex identifies the recorded sex of a decedent, or the All sentinel.
type Sex string

// Recognised sex values. Missing or unrecognised source values normalize to Unknown.
const (
	SexFemale  Sex = "Female"
	SexMale    Sex = "Male"
	SexUnknown Sex = "Unknown"
	SexAll     Sex = "All"
)

// IsAll reports whether the value is the unrestricted sentinel.
func (s Sex) IsAll() bool { return s == SexAll }

// Race identifies the recorded race of a decedent, or the All sentinel.
type Race string

// Recognised race values. Missing or unrecognised source values normalize to Unknown.
const (
	RaceWhite    Race = "White"
	RaceBlack    Race = "Black"
	RaceAsian    Race = "Asian"
	RaceAmIndian Race = "Am. Indian"
	RaceOther    Race = "Other"
	RaceUnknown  Race = "Unknown"
	RaceAll      Race = "All"
)

// IsAll reports whether the value is the unrestricted sentinel.
func (r Race) IsAll() bool { return r == RaceAll }

// Morbidity identifies a cause-of-death category from the controlled vocabulary.
// Values are stored upper-cased as delivered by the source extract (e.g. CANCER,
// DIABETES). Two sentinels collapse the dimension: All, and the synthetic
// All Deaths aggregate, which carries the same "no restriction" meaning.
type Morbidity string

// Morbidity sentinels.
const (
	MorbidityAll       Morbidity = "All"
	MorbidityAllDeaths Morbidity = "All Deaths"
	MorbidityUnknown   Morbidity = "Unknown"
)

// IsAll reports whether the value collapses the morbidity dimension. Both the
// All sentinel and the synthetic All Deaths aggregate mean "no restriction".
func (m Morbidity) IsAll() bool { return m == MorbidityAll || m == MorbidityAllDeaths }

// Display renders a morbidity category for series labels: source categories are
// upper-cased codes, labels use title case (DIABETES becomes Diabetes).
func (m Morbidity) Display() string {
	words := strings.Fields(strings.ToLower(string(m)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// NormalizeSex maps a raw source value onto the Sex vocabulary. Blank and
// unrecognised values become SexUnknown rather than being dropped.
func NormalizeSex(raw string) Sex {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "female", "f":
		return SexFemale
	case "male", "m":
		return SexMale
	default:
		return SexUnknown
	}
}

// NormalizeRace maps a raw source value onto the Race vocabulary. Blank and
// unrecognised values become RaceUnknown rather than being dropped.
func NormalizeRace(raw string) Race {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "white":
		return RaceWhite
	case "black":
		return RaceBlack
	case "asian":
		return RaceAsian
	case "am. indian", "am indian", "american indian":
		return RaceAmIndian
	case "other":
		return RaceOther
	default:
		return RaceUnknown
	}
}

// NormalizeAgeGroup maps a raw source value onto the canonical bucket labels.
// Blank and unrecognised values become AgeGroupUnknown rather than being dropped.
func NormalizeAgeGroup(raw string) AgeGroup {
	candidate := AgeGroup(strings.TrimSpace(raw))
	for _, bucket := range AgeGroups() {
		if candidate == bucket {
			return bucket
		}
	}
	return AgeGroupUnknown
}

// NormalizeMorbidity maps a raw source value onto the morbidity vocabulary.
// Categories are kept upper-cased; blank values become MorbidityUnknown.
func NormalizeMorbidity(raw string) Morbidity {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return MorbidityUnknown
	}
	if strings.EqualFold(trimmed, string(MorbidityAllDeaths)) {
		return MorbidityAllDeaths
	}
	return Morbidity(strings.ToUpper(trimmed))
}

// Record is one immutable decedent case row. A case appears once per distinct
// morbidity it is tagged with, so row counts overcount deaths; all counting
// operations must count distinct CaseID values.
type Record struct {
	CaseID      string    `json:"case_id"`
	DateOfDeath time.Time `json:"date_of_death"`
	Age         *int      `json:"age,omitempty"`
	AgeGroup    AgeGroup  `json:"age_group"`
	Sex         Sex       `json:"sex"`
	Race        Race      `json:"race"`
	Morbidity   Morbidity `json:"morbidity"`
	// Population is the denominator of the demographic cell this record's
	// (age group, sex, race) tuple belongs to. Nil when the cell has no
	// population record; per-capita output fails closed for such cells.
	Population *float64 `json:"population,omitempty"`
}

// HasDate reports whether the record carries a usable date of death. Records
// without one are excluded from time-axis aggregation.
func (r Record) HasDate() bool { return !r.DateOfDeath.IsZero() }

// Day returns the calendar date of death truncated to UTC midnight.
func (r Record) Day() time.Time {
	y, m, d := r.DateOfDeath.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
