// Package registry holds the in-memory catalog of admitted skills.
// A registry is populated once by a load pass and is read-only afterwards;
// reloading builds a fresh registry rather than mutating an existing one.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/klauern/openskills/internal/model"
)

// ErrDuplicateName is returned by Insert when the name is already taken.
// The validator rejects duplicates before insertion; this is defense in
// depth for direct library users.
type ErrDuplicateName struct {
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("skill %q already registered", e.Name)
}

// ErrNotFound is returned by Lookup for unknown names.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("skill %q not found", e.Name)
}

// Registry maps unique skill names to entries, preserving insertion order
// for reproducible listings.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]model.Entry
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]model.Entry),
	}
}

// Insert adds an entry under its manifest name.
// Fails with *ErrDuplicateName if the name is already registered; the
// existing entry is never replaced.
func (r *Registry) Insert(entry model.Entry) error {
	name := entry.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return &ErrDuplicateName{Name: name}
	}

	r.entries[name] = entry
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (model.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return model.Entry{}, &ErrNotFound{Name: name}
	}
	return entry, nil
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[name]
	return exists
}

// List returns all entries in insertion order.
func (r *Registry) List() []model.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]model.Entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, r.entries[name])
	}
	return entries
}

// Names returns all registered names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
