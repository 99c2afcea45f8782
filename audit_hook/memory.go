package audithook

import (
	"context"
	"sync"
	"time"

	"github.com/mobinsaeidi/tokenvest/id"
)

// Entry is a recorded audit event with its assigned identity.
type Entry struct {
	ID id.AuditID
	At time.Time
	*AuditEvent
}

// MemoryRecorder keeps recorded audit events in memory, oldest first.
// Useful for tests and single-process deployments.
type MemoryRecorder struct {
	mu      sync.RWMutex
	entries []*Entry
}

var _ Recorder = (*MemoryRecorder)(nil)

// NewMemoryRecorder creates an empty in-memory audit trail.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record implements Recorder.
func (r *MemoryRecorder) Record(_ context.Context, event *AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &Entry{
		ID:         id.NewAuditID(),
		At:         time.Now(),
		AuditEvent: event,
	})
	return nil
}

// Entries returns a snapshot of everything recorded so far.
func (r *MemoryRecorder) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Entry(nil), r.entries...)
}

// Len returns the number of recorded events.
func (r *MemoryRecorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
