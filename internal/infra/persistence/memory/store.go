// Package memory provides the in-memory record store used for tests and
// ephemeral environments, and as the hydration target of the durable backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"mortalitycore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentRecordStore = (*Store)(nil)

// Store holds the record table in process memory. The table is replaced
// wholesale by ImportRecords and is otherwise immutable; readers always get
// copies.
type Store struct {
	mu      sync.RWMutex
	records []domain.Record
}

// NewStore returns an empty in-memory record store.
func NewStore() *Store {
	return &Store{}
}

// ListRecords returns a copy of the full record table.
func (s *Store) ListRecords() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

// CountRecords returns the number of loaded record rows.
func (s *Store) CountRecords() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ImportRecords replaces the record table with the supplied rows. A case may
// appear once per distinct morbidity tag; exact (case, morbidity) duplicates
// indicate a broken extract and are rejected.
func (s *Store) ImportRecords(_ context.Context, records []domain.Record) error {
	type rowKey struct {
		caseID    string
		morbidity domain.Morbidity
	}
	seen := make(map[rowKey]struct{}, len(records))
	for _, r := range records {
		if r.CaseID == "" {
			return fmt.Errorf("record without case identifier")
		}
		key := rowKey{caseID: r.CaseID, morbidity: r.Morbidity}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate record for case %s morbidity %s", r.CaseID, r.Morbidity)
		}
		seen[key] = struct{}{}
	}

	snapshot := make([]domain.Record, len(records))
	copy(snapshot, records)

	s.mu.Lock()
	s.records = snapshot
	s.mu.Unlock()
	return nil
}

// Close releases nothing for the in-memory store.
func (s *Store) Close() error { return nil }
