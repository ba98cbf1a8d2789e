package trends

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"mortalitycore/internal/blob"
	"mortalitycore/pkg/domain"
)

// Format identifies an export artifact encoding.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPNG  Format = "png"
)

func (f Format) contentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// ExportStatus describes the lifecycle stage of an export request.
type ExportStatus string

const (
	ExportStatusQueued    ExportStatus = "queued"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusSucceeded ExportStatus = "succeeded"
	ExportStatusFailed    ExportStatus = "failed"
)

// ExportArtifact captures a stored export artifact.
type ExportArtifact struct {
	ID          string            `json:"id"`
	Format      Format            `json:"format"`
	ContentType string            `json:"content_type"`
	SizeBytes   int64             `json:"size_bytes"`
	URL         string            `json:"url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ExportRecord tracks an export request and resulting artifacts.
type ExportRecord struct {
	ID          string           `json:"id"`
	Selection   domain.Selection `json:"selection"`
	Formats     []Format         `json:"formats"`
	Status      ExportStatus     `json:"status"`
	Error       string           `json:"error,omitempty"`
	Artifacts   []ExportArtifact `json:"artifacts,omitempty"`
	RequestedBy string           `json:"requested_by"`
	Reason      string           `json:"reason,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

func (r ExportRecord) copy() ExportRecord {
	out := r
	out.Formats = append([]Format(nil), r.Formats...)
	out.Artifacts = append([]ExportArtifact(nil), r.Artifacts...)
	return out
}

// ExportInput represents an enqueue request for the worker.
type ExportInput struct {
	Selection   domain.Selection
	Formats     []Format
	RequestedBy string
	Reason      string
}

// ExportScheduler queues export requests and exposes status.
type ExportScheduler interface {
	EnqueueExport(ctx context.Context, input ExportInput) (ExportRecord, error)
	GetExport(id string) (ExportRecord, bool)
}

// AuditLogger records export audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures audit trail metadata for exports.
type AuditEntry struct {
	ID         string            `json:"id"`
	Action     string            `json:"action"`
	Actor      string            `json:"actor"`
	Status     ExportStatus      `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Worker executes series exports asynchronously: it runs the trend pipeline,
// materializes each requested format, and stores the artifacts in the blob
// store.
type Worker struct {
	runner TrendRunner
	store  blob.Store
	audit  AuditLogger

	queue chan exportTask
	mu    sync.RWMutex
	jobs  map[string]*ExportRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type exportTask struct {
	id    string
	input ExportInput
}

var _ ExportScheduler = (*Worker)(nil)

// NewWorker constructs an export worker.
func NewWorker(runner TrendRunner, store blob.Store, audit AuditLogger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		runner: runner,
		store:  store,
		audit:  audit,
		queue:  make(chan exportTask, 32),
		jobs:   make(map[string]*ExportRecord),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.queue:
			w.process(task)
		}
	}
}

// EnqueueExport schedules an export job and returns the queued record.
func (w *Worker) EnqueueExport(ctx context.Context, input ExportInput) (ExportRecord, error) {
	if w.runner == nil {
		return ExportRecord{}, fmt.Errorf("export runner not configured")
	}

	formats := input.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON, FormatCSV}
	}
	uniq := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	for _, format := range formats {
		if _, duplicate := seen[format]; duplicate {
			continue
		}
		switch format {
		case FormatJSON, FormatCSV, FormatPNG:
		default:
			return ExportRecord{}, fmt.Errorf("unsupported export format %s", format)
		}
		uniq = append(uniq, format)
		seen[format] = struct{}{}
	}

	id := newID()
	now := time.Now().UTC()
	record := ExportRecord{
		ID:          id,
		Selection:   input.Selection,
		Formats:     uniq,
		Status:      ExportStatusQueued,
		RequestedBy: input.RequestedBy,
		Reason:      input.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[id] = &record
	queuedSnapshot := record.copy()
	w.mu.Unlock()

	if w.audit != nil {
		w.audit.Record(ctx, AuditEntry{
			ID:         newID(),
			Action:     "trend_export",
			Actor:      input.RequestedBy,
			Status:     ExportStatusQueued,
			Reason:     input.Reason,
			OccurredAt: now,
		})
	}

	select {
	case w.queue <- exportTask{id: id, input: input}:
	default:
		return ExportRecord{}, fmt.Errorf("export queue full")
	}

	return queuedSnapshot, nil
}

// GetExport returns a snapshot of the export record.
func (w *Worker) GetExport(id string) (ExportRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return ExportRecord{}, false
	}
	return record.copy(), true
}

func (w *Worker) process(task exportTask) {
	w.mu.RLock()
	record, ok := w.jobs[task.id]
	w.mu.RUnlock()
	if !ok {
		return
	}
	formats := append([]Format(nil), record.Formats...)

	w.updateStatus(task.id, ExportStatusRunning, "")

	series, err := w.runner.RunTrend(w.ctx, task.input.Selection)
	if err != nil {
		w.fail(task.id, fmt.Sprintf("trend run failed: %v", err))
		return
	}

	artifacts := make([]ExportArtifact, 0, len(formats))
	for _, format := range formats {
		artifact, payload, err := materialize(format, task.input.Selection, series)
		if err != nil {
			w.fail(task.id, err.Error())
			return
		}
		if w.store != nil {
			info, err := w.store.Put(w.ctx, artifact.ID, bytes.NewReader(payload), blob.PutOptions{
				ContentType: artifact.ContentType,
				Metadata:    artifact.Metadata,
			})
			if err != nil {
				w.fail(task.id, fmt.Sprintf("store artifact failed: %v", err))
				return
			}
			artifact.SizeBytes = info.Size
			artifact.URL = info.URL
			if url, err := w.store.PresignURL(w.ctx, artifact.ID, blob.SignedURLOptions{}); err == nil {
				artifact.URL = url
			}
		}
		artifacts = append(artifacts, artifact)
	}

	w.complete(task.id, artifacts)
}

func (w *Worker) updateStatus(id string, status ExportStatus, message string) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.Error = message
		record.UpdatedAt = now
		actor = record.RequestedBy
	}
	w.mu.Unlock()
	if w.audit != nil {
		entry := AuditEntry{ID: newID(), Action: "trend_export", Actor: actor, Status: status, OccurredAt: now}
		if message != "" {
			entry.Metadata = map[string]string{"note": message}
		}
		w.audit.Record(w.ctx, entry)
	}
}

func (w *Worker) complete(id string, artifacts []ExportArtifact) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	if record, ok := w.jobs[id]; ok {
		record.Status = ExportStatusSucceeded
		record.Error = ""
		record.Artifacts = artifacts
		record.UpdatedAt = now
		record.CompletedAt = &now
		actor = record.RequestedBy
	}
	w.mu.Unlock()
	if w.audit != nil {
		w.audit.Record(w.ctx, AuditEntry{ID: newID(), Action: "trend_export", Actor: actor, Status: ExportStatusSucceeded, OccurredAt: now})
	}
}

func (w *Worker) fail(id, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	if record, ok := w.jobs[id]; ok {
		record.Status = ExportStatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
		actor = record.RequestedBy
	}
	w.mu.Unlock()
	if w.audit != nil {
		w.audit.Record(w.ctx, AuditEntry{
			ID: newID(), Action: "trend_export", Actor: actor, Status: ExportStatusFailed,
			Metadata: map[string]string{"error": reason}, OccurredAt: now,
		})
	}
}

func materialize(format Format, sel domain.Selection, series []domain.Series) (ExportArtifact, []byte, error) {
	artifact := ExportArtifact{
		ID:          newID() + "." + string(format),
		Format:      format,
		ContentType: format.contentType(),
		Metadata:    map[string]string{"series": strconv.Itoa(len(series))},
		CreatedAt:   time.Now().UTC(),
	}
	var payload []byte
	switch format {
	case FormatJSON:
		encoded, err := json.Marshal(map[string]any{"selection": sel, "series": series})
		if err != nil {
			return ExportArtifact{}, nil, fmt.Errorf("marshal json: %w", err)
		}
		payload = encoded
	case FormatCSV:
		buf := &bytes.Buffer{}
		writer := csv.NewWriter(buf)
		if err := writer.Write([]string{"label", "date", "value"}); err != nil {
			return ExportArtifact{}, nil, err
		}
		for _, s := range series {
			for i, v := range s.Values {
				date := ""
				if i < len(s.Dates) {
					date = s.Dates[i].Format(dateLayout)
				}
				if err := writer.Write([]string{s.Label, date, strconv.FormatFloat(v, 'f', -1, 64)}); err != nil {
					return ExportArtifact{}, nil, err
				}
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return ExportArtifact{}, nil, err
		}
		payload = buf.Bytes()
	case FormatPNG:
		rendered, err := renderChartPNG(series)
		if err != nil {
			return ExportArtifact{}, nil, err
		}
		payload = rendered
	default:
		return ExportArtifact{}, nil, fmt.Errorf("unsupported export format %s", format)
	}
	artifact.SizeBytes = int64(len(payload))
	return artifact, payload, nil
}

func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("export-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
