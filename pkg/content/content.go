// Package content provides read-only lookup tables for the dialogue
// engine: concepts, FAQ entries, menus, catalogs. A store is loaded once
// per process and shared immutably across sessions.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is one lookup item. On disk an entry is a flat JSON object:
// "id", "title" and "search_terms" are reserved, every other string
// field becomes part of the payload.
type Entry struct {
	// Key is the stable identifier ("variables", "latte").
	Key string

	// Name is the display name spoken back to the user.
	Name string

	// Terms are extra search terms beyond Key and Name.
	Terms []string

	// Payload holds the entry's domain fields (summary text, answer,
	// price, sample question).
	Payload map[string]string
}

// Field returns a payload field, or "" if absent.
func (e Entry) Field(name string) string {
	return e.Payload[name]
}

// MarshalJSON flattens the payload into the entry object.
func (e Entry) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(e.Payload)+3)
	for k, v := range e.Payload {
		flat[k] = v
	}
	flat["id"] = e.Key
	flat["title"] = e.Name
	if len(e.Terms) > 0 {
		flat["search_terms"] = e.Terms
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits reserved keys back out of the flat object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	if raw, ok := flat["id"]; ok {
		if err := json.Unmarshal(raw, &e.Key); err != nil {
			return fmt.Errorf("content: invalid id: %w", err)
		}
	}
	if raw, ok := flat["title"]; ok {
		if err := json.Unmarshal(raw, &e.Name); err != nil {
			return fmt.Errorf("content: invalid title: %w", err)
		}
	}
	if raw, ok := flat["search_terms"]; ok {
		if err := json.Unmarshal(raw, &e.Terms); err != nil {
			return fmt.Errorf("content: invalid search_terms: %w", err)
		}
	}

	e.Payload = make(map[string]string)
	for k, raw := range flat {
		switch k {
		case "id", "title", "search_terms":
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			// Non-string fields are kept as raw JSON text.
			s = string(raw)
		}
		e.Payload[k] = s
	}
	return nil
}

// Store is an immutable, ordered collection of entries.
type Store struct {
	entries []Entry
}

// New builds a store from entries, preserving their declared order.
func New(entries []Entry) *Store {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Store{entries: copied}
}

// Load reads a store from a JSON file (an array of flat entries).
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: failed to read %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("content: failed to parse %s: %w", path, err)
	}
	return New(entries), nil
}

// LoadOrSeed loads a store from path, writing the seed entries first if
// the file does not exist yet.
func LoadOrSeed(path string, seed []Entry) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := write(path, seed); err != nil {
			return nil, err
		}
	}
	return Load(path)
}

func write(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("content: failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("content: failed to marshal seed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("content: failed to write seed: %w", err)
	}
	return nil
}

// Entries returns the entries in declared order. The returned slice is a
// copy; the store itself is never mutated.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given key.
func (s *Store) Get(key string) (Entry, bool) {
	for _, e := range s.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}
