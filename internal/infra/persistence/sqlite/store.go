// Package sqlite provides a SQLite-backed record store that snapshots the
// in-memory table as JSON and hydrates it again on open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"mortalitycore/internal/infra/persistence/memory"
	"mortalitycore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentRecordStore = (*Store)(nil)

const recordsBucket = "records"

// Store persists the record table to a single SQLite table as a JSON blob.
// The in-memory store remains the read path; SQLite only survives restarts.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the SQLite file at path and hydrates the record
// table from any existing snapshot. An empty path defaults to mortalitycore.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "mortalitycore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM state WHERE bucket = ?`, recordsBucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	var records []domain.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return s.Store.ImportRecords(context.Background(), records)
}

// ImportRecords replaces the in-memory table and snapshots it to SQLite.
func (s *Store) ImportRecords(ctx context.Context, records []domain.Record) error {
	if err := s.Store.ImportRecords(ctx, records); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(s.ListRecords())
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state (bucket, payload) VALUES (?, ?)
		ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`, recordsBucket, payload); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return tx.Commit()
}

// Path returns the SQLite file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
