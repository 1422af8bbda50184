package session

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend is an in-process Backend for tests and embedding. It is safe
// for concurrent use.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

// Put stores rec, replacing any existing record of the same name.
func (b *MemoryBackend) Put(_ context.Context, rec Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[rec.Name] = rec
	return nil
}

// PutPair stores both records under one lock acquisition.
func (b *MemoryBackend) PutPair(_ context.Context, a, rec Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[a.Name] = a
	b.records[rec.Name] = rec
	return nil
}

// Get returns the named record, or ErrNotFound when absent or expired.
// Expired records are dropped on read.
func (b *MemoryBackend) Get(_ context.Context, name string) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.records[name]
	if !ok {
		return Record{}, ErrNotFound
	}
	if rec.expired(b.now()) {
		delete(b.records, name)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes the named record. Deleting a missing record is a no-op.
func (b *MemoryBackend) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, name)
	return nil
}
