// Package trends exposes the trend pipeline over HTTP and runs asynchronous
// series exports.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mortalitycore/internal/core"
	"mortalitycore/pkg/domain"
)

// TrendRunner is the service surface consumed by the HTTP layer and the
// export worker.
type TrendRunner interface {
	RunTrend(ctx context.Context, sel domain.Selection) ([]domain.Series, error)
	Options(ctx context.Context) (core.DimensionOptions, error)
}

// Handler provides HTTP access to trend queries and exports.
type Handler struct {
	Runner  TrendRunner
	Exports ExportScheduler
}

// NewHandler constructs a trends HTTP handler.
func NewHandler(runner TrendRunner) *Handler {
	return &Handler{Runner: runner}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Runner == nil {
		writeError(w, http.StatusInternalServerError, "trend runner not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && path == "/api/v1/trends/options":
		h.handleOptions(w, r)
	case r.Method == http.MethodPost && path == "/api/v1/trends/series":
		h.handleSeries(w, r)
	case strings.HasPrefix(path, "/api/v1/trends/exports"):
		if h.Exports == nil {
			http.NotFound(w, r)
			return
		}
		h.handleExports(w, r, path)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Runner.Options(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": opts})
}

// SelectionRequest is the wire form of a trend selection. Dates use the
// 2006-01-02 layout; Window defaults to the weekly rolling view when omitted,
// matching the dashboard's default dropdown value.
type SelectionRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	AgeGroups   []string `json:"age_groups"`
	Sexes       []string `json:"sexes"`
	Races       []string `json:"races"`
	Morbidities []string `json:"morbidities"`
	Window      int      `json:"window"`
	PerCapita   bool     `json:"per_capita"`
	TimeAxis    *bool    `json:"time_axis"`
}

const dateLayout = "2006-01-02"

// Selection validates the request and converts it to the domain value object.
func (r SelectionRequest) Selection() (domain.Selection, error) {
	var sel domain.Selection

	start, err := time.Parse(dateLayout, r.Start)
	if err != nil {
		return sel, fmt.Errorf("invalid start date %q", r.Start)
	}
	end, err := time.Parse(dateLayout, r.End)
	if err != nil {
		return sel, fmt.Errorf("invalid end date %q", r.End)
	}
	sel.Start, sel.End = start, end

	for _, raw := range r.AgeGroups {
		v, err := domain.ParseAgeGroup(raw)
		if err != nil {
			return sel, err
		}
		sel.AgeGroups = append(sel.AgeGroups, v)
	}
	for _, raw := range r.Sexes {
		v, err := domain.ParseSex(raw)
		if err != nil {
			return sel, err
		}
		sel.Sexes = append(sel.Sexes, v)
	}
	for _, raw := range r.Races {
		v, err := domain.ParseRace(raw)
		if err != nil {
			return sel, err
		}
		sel.Races = append(sel.Races, v)
	}
	for _, raw := range r.Morbidities {
		v, err := domain.ParseMorbidity(raw)
		if err != nil {
			return sel, err
		}
		sel.Morbidities = append(sel.Morbidities, v)
	}

	window := r.Window
	if window == 0 {
		window = int(domain.WindowWeekly)
	}
	sel.Window = domain.Window(window)
	if !sel.Window.Valid() {
		return sel, fmt.Errorf("unsupported rolling window %d", window)
	}
	sel.PerCapita = r.PerCapita
	sel.TimeAxis = r.TimeAxis == nil || *r.TimeAxis
	return sel, nil
}

type seriesResponse struct {
	Series []domain.Series `json:"series"`
	Count  int             `json:"count"`
}

func (h *Handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sel, err := req.Selection()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	series, err := h.Runner.RunTrend(r.Context(), sel)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if series == nil {
		series = []domain.Series{}
	}
	writeJSON(w, http.StatusOK, seriesResponse{Series: series, Count: len(series)})
}

type exportRequest struct {
	Selection   SelectionRequest `json:"selection"`
	Formats     []string         `json:"formats"`
	RequestedBy string           `json:"requested_by"`
	Reason      string           `json:"reason,omitempty"`
}

func (h *Handler) handleExports(w http.ResponseWriter, r *http.Request, path string) {
	if path == "/api/v1/trends/exports" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleExportCreate(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(path, "/api/v1/trends/exports/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	record, ok := h.Exports.GetExport(id)
	if !ok {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"export": record})
}

func (h *Handler) handleExportCreate(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sel, err := req.Selection.Selection()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	formats := make([]Format, 0, len(req.Formats))
	for _, f := range req.Formats {
		formats = append(formats, Format(strings.ToLower(f)))
	}
	record, err := h.Exports.EnqueueExport(r.Context(), ExportInput{
		Selection:   sel,
		Formats:     formats,
		RequestedBy: req.RequestedBy,
		Reason:      req.Reason,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"export": record})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
