package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrFileUnavailable wraps filesystem failures from FileBackend.
var ErrFileUnavailable = errors.New("session file unavailable")

// FileBackend persists records as a single JSON document on disk. Every
// mutation rewrites the whole file and renames it into place, so the pair
// written by SetSession is never observable half-written by another process.
type FileBackend struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileBackend returns a backend persisting to path. The parent directory
// is created on first write; a missing file reads as an empty store.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, now: time.Now}
}

// Put stores rec, replacing any existing record of the same name.
func (b *FileBackend) Put(_ context.Context, rec Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load()
	if err != nil {
		return err
	}
	records[rec.Name] = rec
	return b.save(records)
}

// PutPair stores both records in one rewrite of the file.
func (b *FileBackend) PutPair(_ context.Context, a, rec Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load()
	if err != nil {
		return err
	}
	records[a.Name] = a
	records[rec.Name] = rec
	return b.save(records)
}

// Get returns the named record, or ErrNotFound when absent or expired.
func (b *FileBackend) Get(_ context.Context, name string) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load()
	if err != nil {
		return Record{}, err
	}
	rec, ok := records[name]
	if !ok || rec.expired(b.now()) {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes the named record. Deleting a missing record is a no-op and
// does not touch the file.
func (b *FileBackend) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load()
	if err != nil {
		return err
	}
	if _, ok := records[name]; !ok {
		return nil
	}
	delete(records, name)
	return b.save(records)
}

func (b *FileBackend) load() (map[string]Record, error) {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]Record), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}

	var records map[string]Record
	if err := json.Unmarshal(raw, &records); err != nil {
		// A corrupt store reads as empty rather than wedging every flow.
		return make(map[string]Record), nil
	}
	if records == nil {
		records = make(map[string]Record)
	}
	return records, nil
}

func (b *FileBackend) save(records map[string]Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	return nil
}
