// Package state holds named entity states: mutations that compute a partial
// update for an entity being built.
//
// A Registry maps state names to mutations for one entity type. Registries are
// populated once by the code that owns the entity type and then only read, so
// a single Registry can back any number of builders and concurrent builds.
package state

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/fixture/entity"
)

// Mutation computes a partial update for entity e at position index of batch.
//
// Mutations may block on their own work; the builder waits for them before
// applying the next one. batch holds every entity of the current build call,
// including siblings whose own mutations are still running, so reading a
// sibling's mutated attributes observes a race. Returning nil or empty
// Attributes leaves the entity unchanged.
type Mutation[E any] func(ctx context.Context, e E, index int, batch []E) (entity.Attributes, error)

// Static returns a Mutation that always yields a copy of attrs.
func Static[E any](attrs entity.Attributes) Mutation[E] {
	return func(ctx context.Context, e E, index int, batch []E) (entity.Attributes, error) {
		update := make(entity.Attributes, len(attrs))
		for k, v := range attrs {
			update[k] = v
		}
		return update, nil
	}
}

// Registry maps state names to mutations. Lookups treat every name the same
// way; there are no reserved keys.
type Registry[E any] struct {
	entries map[string]Mutation[E]
	mu      sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{entries: make(map[string]Mutation[E])}
}

// Register adds a named state.
// Returns ErrAlreadyExists if the name is taken; use Replace to swap a
// state's mutation.
func (r *Registry[E]) Register(name string, m Mutation[E]) error {
	if name == "" {
		return ErrEmptyName
	}
	if m == nil {
		return fmt.Errorf("%w: %s", ErrNilMutation, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]Mutation[E])
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	r.entries[name] = m
	return nil
}

// MustRegister is Register for package-level registry setup; it panics on
// error.
func (r *Registry[E]) MustRegister(name string, m Mutation[E]) *Registry[E] {
	if err := r.Register(name, m); err != nil {
		panic(err)
	}
	return r
}

// Replace updates an existing state's mutation.
// Returns a *NotFoundError if the name is not registered.
func (r *Registry[E]) Replace(name string, m Mutation[E]) error {
	if name == "" {
		return ErrEmptyName
	}
	if m == nil {
		return fmt.Errorf("%w: %s", ErrNilMutation, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return &NotFoundError{Name: name}
	}

	r.entries[name] = m
	return nil
}

// Lookup returns the mutation registered under name. A nil Registry has no
// states.
func (r *Registry[E]) Lookup(name string) (Mutation[E], bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.entries[name]
	return m, exists
}

// Resolve is Lookup returning a *NotFoundError for unknown names.
func (r *Registry[E]) Resolve(name string) (Mutation[E], error) {
	m, ok := r.Lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return m, nil
}

// Names lists registered state names in sorted order.
func (r *Registry[E]) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len reports the number of registered states.
func (r *Registry[E]) Len() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
