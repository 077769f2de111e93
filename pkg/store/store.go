// Package store persists business records written by completed
// conversation flows. Each record kind lives in its own JSON collection
// file (leads.json, orders.json, ...): an ordered array of flat record
// objects.
//
// Writes are read-modify-write over the whole collection under a
// per-kind mutex, flushed with a temp-file-and-rename so a failed write
// never leaves a half-written file behind.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/log"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/lifecycle"
)

// Sentinel errors for the store package.
var (
	// ErrNotFound indicates no record matched.
	ErrNotFound = errors.New("store: record not found")

	// ErrUnavailable indicates the collection could not be written.
	ErrUnavailable = errors.New("store: persistence unavailable")
)

// Collection holds every record of one kind, backed by a JSON file.
type Collection struct {
	kind string
	path string

	mu      sync.Mutex
	records []*Record

	// thresholds, when set, make Status time-derived: it is recomputed
	// from CreatedAt on every read and never trusted from disk.
	thresholds []lifecycle.Threshold

	now func() time.Time
}

// Option configures a Collection.
type Option func(*Collection)

// WithThresholds makes the collection's status time-derived using the
// given table (ordered by ascending elapsed time).
func WithThresholds(table []lifecycle.Threshold) Option {
	return func(c *Collection) { c.thresholds = table }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) { c.now = now }
}

// Open loads the collection at path, creating parent directories as
// needed. A missing or unreadable file yields an empty collection
// rather than an error: the conversation must keep working, and the
// original file is left untouched until the next successful write.
func Open(kind, path string, opts ...Option) (*Collection, error) {
	c := &Collection{
		kind: kind,
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("store: failed to create directory for %s: %w", kind, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("record collection unreadable, starting empty", "kind", kind, "error", err)
		}
		return c, nil
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn("record collection corrupt, starting empty", "kind", kind, "error", err)
		return c, nil
	}

	c.records = records
	return c, nil
}

// Kind returns the collection's record kind.
func (c *Collection) Kind() string {
	return c.kind
}

// Create appends a new record with a generated id and createdAt=now,
// then flushes the collection. On flush failure the record is rolled
// back and the error wraps ErrUnavailable.
func (c *Collection) Create(fields map[string]any) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	rec := &Record{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    make(map[string]any, len(fields)),
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}
	if len(c.thresholds) > 0 {
		if status, ok := lifecycle.Derive(rec.CreatedAt, now, c.thresholds); ok {
			rec.Status = status
		}
	}

	c.records = append(c.records, rec)
	if err := c.flush(); err != nil {
		c.records = c.records[:len(c.records)-1]
		return nil, err
	}
	return c.withDerivedStatus(rec), nil
}

// FindBy returns the first record (in stored order) matching the
// predicate. Time-derived kinds get their status recomputed in the
// returned copy.
func (c *Collection) FindBy(pred func(*Record) bool) (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.records {
		view := c.withDerivedStatus(rec)
		if pred(view) {
			return view, true
		}
	}
	return nil, false
}

// Get returns the record with the given id.
func (c *Collection) Get(id string) (*Record, bool) {
	return c.FindBy(func(r *Record) bool { return r.ID == id })
}

// List returns copies of all records in stored order.
func (c *Collection) List() []*Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Record, len(c.records))
	for i, rec := range c.records {
		out[i] = c.withDerivedStatus(rec)
	}
	return out
}

// Count returns the number of records.
func (c *Collection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Update applies mutate to a copy of the record and flushes. If the
// mutator or the flush fails, the prior state stays intact; an update
// is never partially applied.
func (c *Collection) Update(id string, mutate func(*Record) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, rec := range c.records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.kind, id)
	}

	prior := c.records[idx]
	next := prior.Clone()
	if err := mutate(next); err != nil {
		return fmt.Errorf("store: update %s %s: %w", c.kind, id, err)
	}
	next.ID = prior.ID
	next.CreatedAt = prior.CreatedAt
	next.UpdatedAt = c.now()

	c.records[idx] = next
	if err := c.flush(); err != nil {
		c.records[idx] = prior
		return err
	}
	return nil
}

// withDerivedStatus returns a copy with status recomputed for
// time-derived kinds. Derivation failures keep the persisted status.
func (c *Collection) withDerivedStatus(rec *Record) *Record {
	out := rec.Clone()
	if len(c.thresholds) > 0 {
		if status, ok := lifecycle.Derive(rec.CreatedAt, c.now(), c.thresholds); ok {
			out.Status = status
		}
	}
	return out
}

// flush writes the collection to disk. Write to a temp file first, then
// rename, so the visible file is always a complete collection.
func (c *Collection) flush() error {
	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrUnavailable, c.kind, err)
	}
	if c.records == nil {
		data = []byte("[]")
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, c.kind, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, c.kind, err)
	}
	return nil
}
