package core

import (
	"sort"
	"time"

	"mortalitycore/pkg/domain"
)

// tupleKey identifies one fully concrete demographic grouping.
type tupleKey struct {
	age       domain.AgeGroup
	sex       domain.Sex
	race      domain.Race
	morbidity domain.Morbidity
}

// cellKey identifies a population cell. Population is a property of the
// (age group, sex, race) tuple; morbidity does not partition the population.
type cellKey struct {
	age  domain.AgeGroup
	sex  domain.Sex
	race domain.Race
}

type tupleGroup struct {
	// cases maps date of death to the distinct case identifiers observed for
	// this tuple on that date. The zero time is used when no time axis is
	// requested.
	cases map[time.Time]map[string]struct{}
}

// Aggregation is the grouped view of a filtered subset. It is built once per
// request and then sliced per requested combination, so collapsing a dimension
// never rescans the record table.
type Aggregation struct {
	withTime bool
	groups   map[tupleKey]*tupleGroup
	// cellPopulations holds the denominator per population cell; nil marks a
	// cell observed in the data but lacking a population record.
	cellPopulations map[cellKey]*float64
}

// GroupRow is one aggregated observation: the distinct-case count for a
// demographic combination on a date, with the combination's population
// denominator when every contributing cell has one.
type GroupRow struct {
	Date          time.Time
	DistinctCases int
	Population    float64
	HasPopulation bool
}

// Aggregate groups the filtered subset by the full demographic tuple, keyed by
// date of death when withTime is set. Counts are of distinct case identifiers,
// never rows: a case tagged with two morbidities contributes to both morbidity
// groups but is still a single case within each.
func Aggregate(subset []domain.Record, withTime bool) *Aggregation {
	agg := &Aggregation{
		withTime:        withTime,
		groups:          make(map[tupleKey]*tupleGroup),
		cellPopulations: make(map[cellKey]*float64),
	}
	for _, r := range subset {
		key := tupleKey{age: r.AgeGroup, sex: r.Sex, race: r.Race, morbidity: r.Morbidity}
		group, ok := agg.groups[key]
		if !ok {
			group = &tupleGroup{cases: make(map[time.Time]map[string]struct{})}
			agg.groups[key] = group
		}
		date := time.Time{}
		if withTime {
			if !r.HasDate() {
				continue
			}
			date = r.Day()
		}
		ids, ok := group.cases[date]
		if !ok {
			ids = make(map[string]struct{})
			group.cases[date] = ids
		}
		ids[r.CaseID] = struct{}{}

		cell := cellKey{age: r.AgeGroup, sex: r.Sex, race: r.Race}
		if existing, seen := agg.cellPopulations[cell]; !seen || (existing == nil && r.Population != nil) {
			agg.cellPopulations[cell] = r.Population
		}
	}
	return agg
}

// Slice collapses the aggregation onto one requested combination: groups whose
// tuple the combination matches are merged, unioning case sets per date so a
// case spanning multiple matched morbidity groups is counted once. Rows come
// back in ascending date order. The combination's population is the sum of the
// distinct matched population cells; if any matched cell lacks a denominator
// the population is undefined and per-capita output must fail closed.
func (a *Aggregation) Slice(combo domain.Combination) []GroupRow {
	merged := make(map[time.Time]map[string]struct{})
	cells := make(map[cellKey]struct{})
	for key, group := range a.groups {
		if !matchesTuple(combo, key) {
			continue
		}
		cells[cellKey{age: key.age, sex: key.sex, race: key.race}] = struct{}{}
		for date, ids := range group.cases {
			union, ok := merged[date]
			if !ok {
				union = make(map[string]struct{}, len(ids))
				merged[date] = union
			}
			for id := range ids {
				union[id] = struct{}{}
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}

	population := 0.0
	hasPopulation := true
	for cell := range cells {
		p := a.cellPopulations[cell]
		if p == nil || *p <= 0 {
			hasPopulation = false
			break
		}
		population += *p
	}

	rows := make([]GroupRow, 0, len(merged))
	for date, ids := range merged {
		rows = append(rows, GroupRow{
			Date:          date,
			DistinctCases: len(ids),
			Population:    population,
			HasPopulation: hasPopulation,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	if !hasPopulation {
		for i := range rows {
			rows[i].Population = 0
		}
	}
	return rows
}

func matchesTuple(combo domain.Combination, key tupleKey) bool {
	if !combo.AgeGroup.IsAll() && key.age != combo.AgeGroup {
		return false
	}
	if !combo.Sex.IsAll() && key.sex != combo.Sex {
		return false
	}
	if !combo.Race.IsAll() && key.race != combo.Race {
		return false
	}
	if !combo.Morbidity.IsAll() && key.morbidity != combo.Morbidity {
		return false
	}
	return true
}
