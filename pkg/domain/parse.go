package domain

import (
	"fmt"
	"strings"
)

// Strict parsers for the API boundary. Unlike the Normalize functions used at
// ingest time, these reject unrecognised values instead of coercing them to
// Unknown: a typo in a filter must surface as an error, not as a silent
// no-op filter.

// ParseAgeGroup parses a selection value for the age dimension.
func ParseAgeGroup(raw string) (AgeGroup, error) {
	value := AgeGroup(strings.TrimSpace(raw))
	if value == AgeGroupAll || value == AgeGroupUnknown {
		return value, nil
	}
	for _, bucket := range AgeGroups() {
		if value == bucket {
			return bucket, nil
		}
	}
	return "", fmt.Errorf("unknown age group %q", raw)
}

// ParseSex parses a selection value for the sex dimension.
func ParseSex(raw string) (Sex, error) {
	switch Sex(strings.TrimSpace(raw)) {
	case SexFemale:
		return SexFemale, nil
	case SexMale:
		return SexMale, nil
	case SexUnknown:
		return SexUnknown, nil
	case SexAll:
		return SexAll, nil
	}
	return "", fmt.Errorf("unknown sex %q", raw)
}

// ParseRace parses a selection value for the race dimension.
func ParseRace(raw string) (Race, error) {
	switch Race(strings.TrimSpace(raw)) {
	case RaceWhite, RaceBlack, RaceAsian, RaceAmIndian, RaceOther, RaceUnknown, RaceAll:
		return Race(strings.TrimSpace(raw)), nil
	}
	return "", fmt.Errorf("unknown race %q", raw)
}

// ParseMorbidity parses a selection value for the morbidity dimension. The
// vocabulary is open (categories come from the data), so any non-blank value
// is accepted and upper-cased; only the sentinels keep their spelling.
func ParseMorbidity(raw string) (Morbidity, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("blank morbidity")
	}
	switch {
	case strings.EqualFold(trimmed, string(MorbidityAll)):
		return MorbidityAll, nil
	case strings.EqualFold(trimmed, string(MorbidityAllDeaths)):
		return MorbidityAllDeaths, nil
	case strings.EqualFold(trimmed, string(MorbidityUnknown)):
		return MorbidityUnknown, nil
	}
	return Morbidity(strings.ToUpper(trimmed)), nil
}
