package domain

import "time"

// Window is the trailing-mean span of the rolling smoother, measured in
// observations, not calendar days.
type Window int

// Supported rolling windows. WindowDaily applies no transform at all.
const (
	WindowDaily   Window = 1
	WindowWeekly  Window = 7
	WindowMonthly Window = 30
)

// Valid reports whether the window is one of the supported spans.
func (w Window) Valid() bool {
	return w == WindowDaily || w == WindowWeekly || w == WindowMonthly
}

// Selection captures one trend request: an inclusive date interval, the chosen
// values per demographic dimension, and the mode flags. Dimension slices are
// ordered; emitted series follow the caller's listing order, not data order.
// A dimension containing its All sentinel applies no restriction; an empty
// dimension selects nothing and yields an empty result.
type Selection struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	AgeGroups   []AgeGroup  `json:"age_groups"`
	Sexes       []Sex       `json:"sexes"`
	Races       []Race      `json:"races"`
	Morbidities []Morbidity `json:"morbidities"`

	Window    Window `json:"window"`
	PerCapita bool   `json:"per_capita"`
	// TimeAxis selects time-series output; when false each combination
	// collapses to a single aggregate value for bar-style rendering.
	TimeAxis bool `json:"time_axis"`
}

// Empty reports whether the selection can match no records at all: an inverted
// date range or an empty dimension. Both are "no data" conditions, not errors.
func (s Selection) Empty() bool {
	if s.Start.After(s.End) {
		return true
	}
	return len(s.AgeGroups) == 0 || len(s.Sexes) == 0 || len(s.Races) == 0 || len(s.Morbidities) == 0
}

// Combination is one point of the selection cross product: a specific
// demographic tuple over which counts, rates, and smoothing are computed
// independently.
type Combination struct {
	AgeGroup  AgeGroup  `json:"age_group"`
	Sex       Sex       `json:"sex"`
	Race      Race      `json:"race"`
	Morbidity Morbidity `json:"morbidity"`
}

// Combinations expands the selection into its cross product, preserving the
// caller's per-dimension ordering.
func (s Selection) Combinations() []Combination {
	out := make([]Combination, 0, len(s.AgeGroups)*len(s.Sexes)*len(s.Races)*len(s.Morbidities))
	for _, age := range s.AgeGroups {
		for _, sex := range s.Sexes {
			for _, race := range s.Races {
				for _, morbidity := range s.Morbidities {
					out = append(out, Combination{AgeGroup: age, Sex: sex, Race: race, Morbidity: morbidity})
				}
			}
		}
	}
	return out
}

// Matches reports whether a record belongs to the combination. All sentinels
// match any value on their dimension.
func (c Combination) Matches(r Record) bool {
	if !c.AgeGroup.IsAll() && r.AgeGroup != c.AgeGroup {
		return false
	}
	if !c.Sex.IsAll() && r.Sex != c.Sex {
		return false
	}
	if !c.Race.IsAll() && r.Race != c.Race {
		return false
	}
	if !c.Morbidity.IsAll() && r.Morbidity != c.Morbidity {
		return false
	}
	return true
}
