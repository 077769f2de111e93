package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is one durable business entity: a lead, fraud case, order,
// check-in or character. On disk a record is a flat JSON object:
// "id", "created_at", "updated_at" and "status" are reserved, every
// other field lives in Fields.
type Record struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    string
	Fields    map[string]any
}

// Field returns a field value, or nil if absent.
func (r *Record) Field(name string) any {
	return r.Fields[name]
}

// StringField returns a field as a string, or "" if absent or not a string.
func (r *Record) StringField(name string) string {
	s, _ := r.Fields[name].(string)
	return s
}

// SetField sets a field value, allocating the map if needed.
func (r *Record) SetField(name string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[name] = value
}

// Clone returns a deep-enough copy: the Fields map is copied, values
// are shared. Callers mutate records only through Collection.Update.
func (r *Record) Clone() *Record {
	out := *r
	out.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return &out
}

// MarshalJSON flattens Fields into the record object.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["id"] = r.ID
	flat["created_at"] = r.CreatedAt.Format(time.RFC3339)
	flat["updated_at"] = r.UpdatedAt.Format(time.RFC3339)
	if r.Status != "" {
		flat["status"] = r.Status
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits reserved keys back out of the flat object.
func (r *Record) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	if raw, ok := flat["id"]; ok {
		if err := json.Unmarshal(raw, &r.ID); err != nil {
			return fmt.Errorf("store: invalid id: %w", err)
		}
	}
	if raw, ok := flat["status"]; ok {
		if err := json.Unmarshal(raw, &r.Status); err != nil {
			return fmt.Errorf("store: invalid status: %w", err)
		}
	}
	if raw, ok := flat["created_at"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			// Unparseable timestamps leave CreatedAt zero; status
			// derivation falls back to the persisted status.
			r.CreatedAt, _ = time.Parse(time.RFC3339, s)
		}
	}
	if raw, ok := flat["updated_at"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			r.UpdatedAt, _ = time.Parse(time.RFC3339, s)
		}
	}

	r.Fields = make(map[string]any)
	for k, raw := range flat {
		switch k {
		case "id", "created_at", "updated_at", "status":
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("store: invalid field %s: %w", k, err)
		}
		r.Fields[k] = v
	}
	return nil
}
