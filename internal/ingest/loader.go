// Package ingest reads the mortality extract CSV and produces typed records
// for the record store. The extract mirrors the upstream medical examiner
// feed: one row per (case, morbidity) pair with demographic attributes and an
// optional population denominator.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"mortalitycore/pkg/domain"
)

// Expected header columns. Column order is not significant; lookups are by name.
const (
	columnDate       = "DATE_OF_DEATH"
	columnCase       = "CASE_NUMBER"
	columnAge        = "AGE"
	columnAgeGroup   = "AGE_GROUP"
	columnSex        = "SEX"
	columnRace       = "RACE"
	columnMorbidity  = "MORBIDITY"
	columnPopulation = "POPULATION"
)

var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// LoadReport summarizes one ingest pass. Rows with unparsable dates are
// skipped and counted rather than failing the load; numeric coercion failures
// degrade to explicit missing markers.
type LoadReport struct {
	RowsRead      int    `json:"rows_read"`
	RecordsLoaded int    `json:"records_loaded"`
	RowsSkipped   int    `json:"rows_skipped"`
	FirstSkip     string `json:"first_skip,omitempty"`
}

// ReadRecords parses the extract from r.
func ReadRecords(r io.Reader) ([]domain.Record, LoadReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnDate, columnCase} {
		if _, ok := cols[required]; !ok {
			return nil, LoadReport{}, fmt.Errorf("missing column %s", required)
		}
	}

	var (
		records []domain.Record
		report  LoadReport
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("read row: %w", err)
		}
		report.RowsRead++

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		caseID := field(columnCase)
		if caseID == "" {
			report.RowsSkipped++
			if report.FirstSkip == "" {
				report.FirstSkip = fmt.Sprintf("row %d: blank case number", report.RowsRead)
			}
			continue
		}
		date, ok := parseDate(field(columnDate))
		if !ok {
			report.RowsSkipped++
			if report.FirstSkip == "" {
				report.FirstSkip = fmt.Sprintf("row %d: unparsable date %q", report.RowsRead, field(columnDate))
			}
			continue
		}

		record := domain.Record{
			CaseID:      caseID,
			DateOfDeath: date,
			Age:         parseAge(field(columnAge)),
			AgeGroup:    domain.NormalizeAgeGroup(field(columnAgeGroup)),
			Sex:         domain.NormalizeSex(field(columnSex)),
			Race:        domain.NormalizeRace(field(columnRace)),
			Morbidity:   domain.NormalizeMorbidity(field(columnMorbidity)),
			Population:  parsePopulation(field(columnPopulation)),
		}
		records = append(records, record)
		report.RecordsLoaded++
	}
	return records, report, nil
}

// LoadFile reads the extract from path.
func LoadFile(path string) ([]domain.Record, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open extract: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadRecords(f)
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseAge(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func parsePopulation(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
