// Command trend-server serves the mortality trend API: dimension options,
// series queries, and asynchronous exports, plus Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mortalitycore/internal/adapters/trends"
	"mortalitycore/internal/blob"
	"mortalitycore/internal/core"
	"mortalitycore/internal/ingest"
)

type config struct {
	Addr            string        `env:"MORTALITYCORE_ADDR" envDefault:":8080"`
	ExtractPath     string        `env:"MORTALITYCORE_EXTRACT_PATH"`
	ShutdownTimeout time.Duration `env:"MORTALITYCORE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	TraceSpans      bool          `env:"MORTALITYCORE_TRACE_SPANS"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("trend-server: %v", err)
	}
}

func run() error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := core.OpenPersistentStore()
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if cfg.ExtractPath != "" {
		records, report, err := ingest.LoadFile(cfg.ExtractPath)
		if err != nil {
			return fmt.Errorf("load extract: %w", err)
		}
		if err := store.ImportRecords(ctx, records); err != nil {
			return fmt.Errorf("import records: %w", err)
		}
		log.Printf("loaded %d records (%d rows skipped) from %s", report.RecordsLoaded, report.RowsSkipped, cfg.ExtractPath)
	} else if store.CountRecords() == 0 {
		log.Printf("record store is empty and no extract path configured")
	}

	registry := prometheus.NewRegistry()
	metrics, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	opts := []core.ServiceOption{core.WithMetricsRecorder(metrics)}
	if cfg.TraceSpans {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(os.Stderr)))
	}
	service := core.NewTrendService(store, opts...)

	artifacts, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	worker := trends.NewWorker(service, artifacts, trends.NewJSONAuditLog(os.Stdout))
	worker.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = worker.Stop(stopCtx)
	}()

	handler := trends.NewHandler(service)
	handler.Exports = worker

	mux := http.NewServeMux()
	mux.Handle("/api/v1/trends/", handler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (%d records)", cfg.Addr, store.CountRecords())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
