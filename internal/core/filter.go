// Package core implements the demographic trend pipeline: filtering the record
// table, grouping into distinct-case counts, per-capita normalization, rolling
// smoothing, series labeling, and emission. Every stage is a pure function of
// its inputs; the TrendService composes them per request.
package core

import (
	"time"

	"mortalitycore/pkg/domain"
)

// Filter narrows records to those satisfying the selection's date interval and
// dimension memberships. A dimension containing its All sentinel applies no
// restriction; an empty dimension matches nothing. Records without a usable
// date of death cannot satisfy the date predicate and are excluded. The input
// slice is never mutated.
func Filter(records []domain.Record, sel domain.Selection) []domain.Record {
	if sel.Empty() {
		return nil
	}
	ageSet, ageAll := ageGroupSet(sel.AgeGroups)
	sexSet, sexAll := sexSet(sel.Sexes)
	raceSet, raceAll := raceSet(sel.Races)
	morbiditySet, morbidityAll := morbiditySet(sel.Morbidities)

	start := day(sel.Start)
	end := day(sel.End)

	var out []domain.Record
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		d := r.Day()
		if d.Before(start) || d.After(end) {
			continue
		}
		if !ageAll {
			if _, ok := ageSet[r.AgeGroup]; !ok {
				continue
			}
		}
		if !sexAll {
			if _, ok := sexSet[r.Sex]; !ok {
				continue
			}
		}
		if !raceAll {
			if _, ok := raceSet[r.Race]; !ok {
				continue
			}
		}
		if !morbidityAll {
			if _, ok := morbiditySet[r.Morbidity]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ageGroupSet(values []domain.AgeGroup) (map[domain.AgeGroup]struct{}, bool) {
	set := make(map[domain.AgeGroup]struct{}, len(values))
	all := false
	for _, v := range values {
		if v.IsAll() {
			all = true
		}
		set[v] = struct{}{}
	}
	return set, all
}

func sexSet(values []domain.Sex) (map[domain.Sex]struct{}, bool) {
	set := make(map[domain.Sex]struct{}, len(values))
	all := false
	for _, v := range values {
		if v.IsAll() {
			all = true
		}
		set[v] = struct{}{}
	}
	return set, all
}

func raceSet(values []domain.Race) (map[domain.Race]struct{}, bool) {
	set := make(map[domain.Race]struct{}, len(values))
	all := false
	for _, v := range values {
		if v.IsAll() {
			all = true
		}
		set[v] = struct{}{}
	}
	return set, all
}

func morbiditySet(values []domain.Morbidity) (map[domain.Morbidity]struct{}, bool) {
	set := make(map[domain.Morbidity]struct{}, len(values))
	all := false
	for _, v := range values {
		if v.IsAll() {
			all = true
		}
		set[v] = struct{}{}
	}
	return set, all
}
