// Package store holds the client-side cache of one entity collection.
//
// A Store is a cache, not a source of truth: callers mutate it only after
// the remote API has confirmed the change. Order is the server's response
// order and every operation preserves the relative order of the elements
// it does not target.
package store

import (
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Store is an ordered collection of entities with unique ids.
// It is not safe for concurrent use; it is owned by a single event loop.
type Store[T domain.Entity] struct {
	items []T
}

// New returns an empty store.
func New[T domain.Entity]() *Store[T] {
	return &Store[T]{}
}

// Load replaces the whole collection. A list containing duplicate ids is
// rejected and the store is left unchanged.
func (s *Store[T]) Load(list []T) error {
	if err := CheckUnique(list); err != nil {
		return err
	}
	items := make([]T, len(list))
	copy(items, list)
	s.items = items
	return nil
}

// Append adds e at the end.
func (s *Store[T]) Append(e T) error {
	if s.index(e.EntityID()) >= 0 {
		return fmt.Errorf("append %q: %w", e.EntityID(), domain.ErrDuplicateID)
	}
	s.items = append(s.items, e)
	return nil
}

// Replace swaps the element with the given id for e, keeping its position.
// If e carries a different id that is already held, the call fails.
func (s *Store[T]) Replace(id string, e T) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("replace %q: %w", id, domain.ErrNotFound)
	}
	if newID := e.EntityID(); newID != id {
		if j := s.index(newID); j >= 0 {
			return fmt.Errorf("replace %q with %q: %w", id, newID, domain.ErrDuplicateID)
		}
	}
	s.items[i] = e
	return nil
}

// Remove deletes the element with the given id.
func (s *Store[T]) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, domain.ErrNotFound)
	}
	items := make([]T, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	s.items = items
	return nil
}

// Clear empties the store.
func (s *Store[T]) Clear() {
	s.items = nil
}

// Snapshot returns a copy of the current collection.
func (s *Store[T]) Snapshot() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Get(id string) (T, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Contains(id string) bool {
	return s.index(id) >= 0
}

func (s *Store[T]) Len() int {
	return len(s.items)
}

func (s *Store[T]) index(id string) int {
	for i, e := range s.items {
		if e.EntityID() == id {
			return i
		}
	}
	return -1
}

// CheckUnique reports the first id that appears twice in list.
func CheckUnique[T domain.Entity](list []T) error {
	seen := make(map[string]struct{}, len(list))
	for _, e := range list {
		id := e.EntityID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("load: id %q appears more than once: %w", id, domain.ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}
	return nil
}
