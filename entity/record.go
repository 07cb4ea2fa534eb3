package entity

import (
	"encoding/json"
	"maps"
	"sync"
)

// Record is a dynamic entity backed by a guarded map. Reads are safe while
// another goroutine assigns, which lets batch mutations inspect siblings.
// A Record must not be copied after first use.
type Record struct {
	mu    sync.RWMutex
	attrs map[string]any
}

// NewRecord creates a Record holding a copy of initial.
func NewRecord(initial Attributes) *Record {
	attrs := make(map[string]any, len(initial))
	maps.Copy(attrs, initial)
	return &Record{attrs: attrs}
}

// Get returns the value of name and whether it is set.
func (r *Record) Get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.attrs[name]
	return v, ok
}

// Assign sets name to value.
func (r *Record) Assign(name string, value any) error {
	if name == "" {
		return ErrEmptyAttribute
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.attrs == nil {
		r.attrs = make(map[string]any)
	}
	r.attrs[name] = value
	return nil
}

// Attributes returns a snapshot of the record's attributes.
func (r *Record) Attributes() Attributes {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Attributes(maps.Clone(r.attrs))
}

// Len reports the number of attributes set.
func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.attrs)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	snapshot := r.Attributes()
	if snapshot == nil {
		snapshot = Attributes{}
	}
	return json.Marshal(map[string]any(snapshot))
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs = attrs
	return nil
}
