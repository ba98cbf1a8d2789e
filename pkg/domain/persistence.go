package domain

import "context"

// RecordStore provides read access to the loaded record table. Implementations
// must return copies; callers never observe shared mutable state.
type RecordStore interface {
	// ListRecords returns a copy of the full record table.
	ListRecords() []Record
	// CountRecords returns the number of loaded record rows (not distinct cases).
	CountRecords() int
}

// PersistentRecordStore is a RecordStore whose snapshot survives process
// restarts. ImportRecords replaces the snapshot wholesale: the record table is
// immutable between imports, so there is no row-level write path.
type PersistentRecordStore interface {
	RecordStore
	ImportRecords(ctx context.Context, records []Record) error
	Close() error
}
