package store

import (
	"fmt"
	"path/filepath"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/lifecycle"
)

// KindSpec declares one record kind a persona persists.
type KindSpec struct {
	// Kind is the record kind name ("lead", "order").
	Kind string

	// File is the collection file name inside the data directory.
	File string

	// Thresholds, when non-empty, makes the kind's status time-derived.
	Thresholds []lifecycle.Threshold
}

// Registry holds the open collections for one persona, keyed by kind.
type Registry struct {
	collections map[string]*Collection
}

// OpenAll opens a collection per kind spec under dir.
func OpenAll(dir string, specs []KindSpec, opts ...Option) (*Registry, error) {
	r := &Registry{collections: make(map[string]*Collection, len(specs))}
	for _, spec := range specs {
		kindOpts := opts
		if len(spec.Thresholds) > 0 {
			kindOpts = append([]Option{WithThresholds(spec.Thresholds)}, opts...)
		}
		c, err := Open(spec.Kind, filepath.Join(dir, spec.File), kindOpts...)
		if err != nil {
			return nil, err
		}
		r.collections[spec.Kind] = c
	}
	return r, nil
}

// NewRegistry builds a registry from already-open collections, for tests.
func NewRegistry(collections ...*Collection) *Registry {
	r := &Registry{collections: make(map[string]*Collection, len(collections))}
	for _, c := range collections {
		r.collections[c.kind] = c
	}
	return r
}

func (r *Registry) collection(kind string) (*Collection, error) {
	c, ok := r.collections[kind]
	if !ok {
		return nil, fmt.Errorf("store: unknown record kind %q", kind)
	}
	return c, nil
}

// Create appends a record of the given kind.
func (r *Registry) Create(kind string, fields map[string]any) (*Record, error) {
	c, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	return c.Create(fields)
}

// Find returns the first record of the kind matching the predicate.
func (r *Registry) Find(kind string, pred func(*Record) bool) (*Record, bool) {
	c, err := r.collection(kind)
	if err != nil {
		return nil, false
	}
	return c.FindBy(pred)
}

// Update mutates a record of the kind by id.
func (r *Registry) Update(kind, id string, mutate func(*Record) error) error {
	c, err := r.collection(kind)
	if err != nil {
		return err
	}
	return c.Update(id, mutate)
}

// Has reports whether the registry holds the kind.
func (r *Registry) Has(kind string) bool {
	_, ok := r.collections[kind]
	return ok
}

// List returns all records of the kind in stored order.
func (r *Registry) List(kind string) []*Record {
	c, err := r.collection(kind)
	if err != nil {
		return nil
	}
	return c.List()
}
