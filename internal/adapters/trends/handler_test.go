package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mortalitycore/internal/core"
	"mortalitycore/internal/infra/persistence/memory"
	"mortalitycore/pkg/domain"
)

func seededService(t *testing.T) *core.TrendService {
	t.Helper()
	store := memory.NewStore()
	pop := 250_000.0
	records := []domain.Record{
		{
			CaseID:      "ME-1",
			DateOfDeath: time.Date(2020, 4, 7, 0, 0, 0, 0, time.UTC),
			AgeGroup:    domain.AgeGroup50to59,
			Sex:         domain.SexMale,
			Race:        domain.RaceWhite,
			Morbidity:   "CANCER",
			Population:  &pop,
		},
		{
			CaseID:      "ME-2",
			DateOfDeath: time.Date(2020, 4, 8, 0, 0, 0, 0, time.UTC),
			AgeGroup:    domain.AgeGroup50to59,
			Sex:         domain.SexMale,
			Race:        domain.RaceWhite,
			Morbidity:   "CANCER",
			Population:  &pop,
		},
	}
	if err := store.ImportRecords(context.Background(), records); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return core.NewTrendService(store)
}

func seriesBody() string {
	return `{
		"start": "2020-04-01",
		"end": "2020-04-30",
		"age_groups": ["All"],
		"sexes": ["All"],
		"races": ["All"],
		"morbidities": ["All Deaths"],
		"window": 1
	}`
}

func TestHandlerOptions(t *testing.T) {
	h := NewHandler(seededService(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends/options", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	var payload struct {
		Options core.DimensionOptions `json:"options"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Options.AgeGroups) != 11 {
		t.Fatalf("age groups = %d, want 11", len(payload.Options.AgeGroups))
	}
	if len(payload.Options.Morbidities) != 1 || payload.Options.Morbidities[0].Value != "CANCER" {
		t.Fatalf("morbidities = %+v", payload.Options.Morbidities)
	}
}

func TestHandlerSeries(t *testing.T) {
	h := NewHandler(seededService(t))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/series", strings.NewReader(seriesBody()))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	var payload seriesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 1 || len(payload.Series) != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	s := payload.Series[0]
	if s.Label != "Total Pop." || len(s.Values) != 2 {
		t.Fatalf("series = %+v", s)
	}
}

func TestHandlerSeriesRejectsBadRequests(t *testing.T) {
	h := NewHandler(seededService(t))
	cases := map[string]string{
		"malformed json":  `{"start":`,
		"bad start date":  strings.Replace(seriesBody(), "2020-04-01", "April 1st", 1),
		"unknown race":    strings.Replace(seriesBody(), `"races": ["All"]`, `"races": ["Martian"]`, 1),
		"invalid window":  strings.Replace(seriesBody(), `"window": 1`, `"window": 14`, 1),
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/series", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rr.Code)
		}
	}
}

func TestHandlerWindowDefaultsToWeekly(t *testing.T) {
	req := SelectionRequest{
		Start: "2020-04-01", End: "2020-04-30",
		AgeGroups: []string{"All"}, Sexes: []string{"All"},
		Races: []string{"All"}, Morbidities: []string{"All Deaths"},
	}
	sel, err := req.Selection()
	if err != nil {
		t.Fatalf("Selection: %v", err)
	}
	if sel.Window != domain.WindowWeekly {
		t.Fatalf("window = %d, want weekly", sel.Window)
	}
	if !sel.TimeAxis {
		t.Fatal("time axis must default on")
	}
}

func TestHandlerUnknownRoute(t *testing.T) {
	h := NewHandler(seededService(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends/nope", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestHandlerExportsUnconfigured(t *testing.T) {
	h := NewHandler(seededService(t))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/exports", strings.NewReader("{}"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when exports are not wired", rr.Code)
	}
}
