// Package store holds the per-dialog value store: committed field values,
// per-field validation errors, touched flags and the external setter registry.
//
// A Store is owned by exactly one dialog and is not safe for concurrent use;
// callers serialise access.
package store

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownField is returned when a field id was never seeded.
var ErrUnknownField = errors.New("store: unknown field")

// Setter pushes an externally assigned value into a live control.
type Setter func(value any)

// Store tracks values and errors keyed by field id.
type Store struct {
	values  map[string]any
	errors  map[string]string
	touched map[string]bool
	setters map[string]Setter
}

// New seeds the store with initial values. Only seeded ids are accepted by
// Set; the seed map is copied.
func New(initial map[string]any) *Store {
	return &Store{
		values:  cloneValues(initial),
		errors:  make(map[string]string),
		touched: make(map[string]bool),
		setters: make(map[string]Setter),
	}
}

// Has reports whether id was seeded.
func (s *Store) Has(id string) bool {
	_, ok := s.values[id]
	return ok
}

// Get returns the committed value for id.
func (s *Store) Get(id string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[id]
	return value, ok
}

// Set commits value for id and reports whether it differs from the previous
// value.
func (s *Store) Set(id string, value any) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("store: nil store")
	}
	prev, ok := s.values[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	s.values[id] = deepCopy(value)
	return !sameValue(prev, value), nil
}

// Snapshot returns a deep copy of every value.
func (s *Store) Snapshot() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return cloneValues(s.values)
}

// IDs returns the seeded field ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetError records a validation reason for id; an empty reason clears it.
func (s *Store) SetError(id, reason string) {
	if reason == "" {
		delete(s.errors, id)
		return
	}
	s.errors[id] = reason
}

// Error returns the recorded reason for id.
func (s *Store) Error(id string) string {
	return s.errors[id]
}

// Errors returns a copy of the error map.
func (s *Store) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Touch marks id as interacted with.
func (s *Store) Touch(id string) {
	s.touched[id] = true
}

// Touched reports whether the user interacted with id.
func (s *Store) Touched(id string) bool {
	return s.touched[id]
}

// Register stores the adapter's setter for id, replacing any previous one.
func (s *Store) Register(id string, setter Setter) {
	if setter == nil {
		delete(s.setters, id)
		return
	}
	s.setters[id] = setter
}

// Setter returns the registered setter for id.
func (s *Store) Setter(id string) (Setter, bool) {
	setter, ok := s.setters[id]
	return setter, ok
}

// Reset discards every table. The store is unusable afterwards.
func (s *Store) Reset() {
	s.values = map[string]any{}
	s.errors = map[string]string{}
	s.touched = map[string]bool{}
	s.setters = map[string]Setter{}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
