package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mortalitycore/pkg/domain"
)

// TrendService runs the full trend pipeline over a record store: filter,
// aggregate, normalize, smooth, label, emit. The store is read-only shared
// state; every request works on its own derived copies, so concurrent calls
// need no coordination.
type TrendService struct {
	store   domain.RecordStore
	metrics MetricsRecorder
	tracer  Tracer
	now     func() time.Time
}

// ServiceOption customises a TrendService.
type ServiceOption func(*TrendService)

// WithMetricsRecorder attaches a metrics recorder observing each operation.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *TrendService) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer attaches a tracer opening one span per operation.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *TrendService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the service clock (tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *TrendService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTrendService constructs a service over the supplied record store.
func NewTrendService(store domain.RecordStore, opts ...ServiceOption) *TrendService {
	s := &TrendService{
		store:   store,
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunTrend executes one trend request and returns the ordered series list.
// Selections that cannot match anything (inverted date range, an empty
// dimension) yield an empty list, not an error; only a malformed window is a
// caller fault.
func (s *TrendService) RunTrend(ctx context.Context, sel domain.Selection) (series []domain.Series, err error) {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, "run_trend")
	defer func() {
		span.End(err)
		s.metrics.Observe(ctx, "run_trend", err == nil, s.now().Sub(started))
	}()

	if !sel.Window.Valid() {
		return nil, fmt.Errorf("unsupported rolling window %d", sel.Window)
	}
	if sel.Empty() {
		return nil, nil
	}

	subset := Filter(s.store.ListRecords(), sel)
	agg := Aggregate(subset, sel.TimeAxis)

	for _, combo := range sel.Combinations() {
		rows := agg.Slice(combo)
		if len(rows) == 0 {
			continue
		}
		var values []float64
		if sel.PerCapita {
			rates, ok := PerCapita(rows)
			if !ok {
				continue
			}
			values = rates
		} else {
			values = Counts(rows)
		}
		values = Smooth(values, sel.Window)

		out := domain.Series{Label: SeriesLabel(combo), Values: values}
		if sel.TimeAxis {
			dates := make([]time.Time, len(rows))
			for i, row := range rows {
				dates[i] = row.Date
			}
			out.Dates = dates
		}
		series = append(series, out)
	}
	return series, nil
}

// MorbidityOption pairs a morbidity category with its row frequency in the
// loaded table.
type MorbidityOption struct {
	Value domain.Morbidity `json:"value"`
	Count int              `json:"count"`
}

// DimensionOptions enumerates the selectable values per dimension for the
// control layer: fixed vocabularies for age, sex, and race, and the observed
// morbidity categories ordered by frequency descending, ties broken
// lexicographically for determinism.
type DimensionOptions struct {
	AgeGroups   []domain.AgeGroup `json:"age_groups"`
	Sexes       []domain.Sex      `json:"sexes"`
	Races       []domain.Race     `json:"races"`
	Morbidities []MorbidityOption `json:"morbidities"`
}

// Options derives the dimension option lists from the loaded record table.
func (s *TrendService) Options(ctx context.Context) (opts DimensionOptions, err error) {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, "dimension_options")
	defer func() {
		span.End(err)
		s.metrics.Observe(ctx, "dimension_options", err == nil, s.now().Sub(started))
	}()

	counts := make(map[domain.Morbidity]int)
	for _, r := range s.store.ListRecords() {
		if r.Morbidity == domain.MorbidityUnknown || r.Morbidity.IsAll() {
			continue
		}
		counts[r.Morbidity]++
	}
	morbidities := make([]MorbidityOption, 0, len(counts))
	for value, count := range counts {
		morbidities = append(morbidities, MorbidityOption{Value: value, Count: count})
	}
	sort.Slice(morbidities, func(i, j int) bool {
		if morbidities[i].Count != morbidities[j].Count {
			return morbidities[i].Count > morbidities[j].Count
		}
		return morbidities[i].Value < morbidities[j].Value
	})

	return DimensionOptions{
		AgeGroups:   domain.AgeGroups(),
		Sexes:       []domain.Sex{domain.SexFemale, domain.SexMale, domain.SexUnknown},
		Races:       []domain.Race{domain.RaceWhite, domain.RaceBlack, domain.RaceAsian, domain.RaceAmIndian, domain.RaceOther, domain.RaceUnknown},
		Morbidities: morbidities,
	}, nil
}
