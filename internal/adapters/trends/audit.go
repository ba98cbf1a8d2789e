package trends

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// JSONAuditLog writes audit entries as JSON lines and retains them for
// inspection in tests.
type JSONAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	enc     *json.Encoder
}

var _ AuditLogger = (*JSONAuditLog)(nil)

// NewJSONAuditLog constructs an audit log writing to w. A nil writer retains
// entries in memory only.
func NewJSONAuditLog(w io.Writer) *JSONAuditLog {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &JSONAuditLog{enc: enc}
}

// Record appends an audit entry.
func (l *JSONAuditLog) Record(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if l.enc != nil {
		_ = l.enc.Encode(entry)
	}
}

// Entries returns a copy of all recorded entries.
func (l *JSONAuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
