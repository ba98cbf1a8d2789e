package domain

import "time"

// Series is one labeled trace ready for charting: equal-length x and y
// sequences plus a display label. Dates is nil for bar-style aggregates.
// Series are produced fresh per request and never persisted.
type Series struct {
	Label  string      `json:"label"`
	Dates  []time.Time `json:"dates,omitempty"`
	Values []float64   `json:"values"`
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Values) }
