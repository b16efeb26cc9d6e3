// Package store provides a concurrency-safe in-memory keyed collection with
// monotonic integer identifier assignment. One Store instance backs each
// entity type; operations on a single Store are serializable relative to
// each other.
package store

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when the requested identifier has no entry.
var ErrNotFound = errors.New("store: entity not found")

// Hooks customises how a Store reads and writes entity metadata. Key extracts
// the identifier. OnCreate stamps the assigned identifier and creation time
// onto a copy of the entity. OnUpdate refreshes mutation timestamps; it may
// be nil for entities without an updatedAt field.
type Hooks[T any] struct {
	Key      func(T) int64
	OnCreate func(T, int64, time.Time) T
	OnUpdate func(T, time.Time) T
}

// Store holds entities of one type keyed by identifier. The zero value is not
// usable; construct with New.
type Store[T any] struct {
	mu     sync.RWMutex
	items  map[int64]T
	order  []int64
	nextID int64
	hooks  Hooks[T]
	now    func() time.Time
}

// New constructs an empty Store with identifiers starting at 1.
func New[T any](hooks Hooks[T]) *Store[T] {
	return &Store[T]{
		items: make(map[int64]T),
		hooks: hooks,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// All returns a snapshot of every entry in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Get returns the entry for id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Create assigns the next unused identifier, stamps creation metadata, stores
// the entity and returns the stored copy. Identifiers are never reused, even
// after deletes.
func (s *Store[T]) Create(item T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := s.hooks.OnCreate(item, s.nextID, s.now())
	s.items[s.nextID] = stored
	s.order = append(s.order, s.nextID)
	return stored
}

// Update replaces the stored value for the entity's identifier, refreshing
// its updatedAt where the entity carries one. ErrNotFound if absent.
func (s *Store[T]) Update(item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.hooks.Key(item)
	if _, ok := s.items[id]; !ok {
		var zero T
		return zero, ErrNotFound
	}
	if s.hooks.OnUpdate != nil {
		item = s.hooks.OnUpdate(item, s.now())
	}
	s.items[id] = item
	return item, nil
}

// Delete removes the entry for id, reporting whether one existed. There is
// no cascading delete.
func (s *Store[T]) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Exists reports whether an entry exists for id.
func (s *Store[T]) Exists(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Filter returns entries satisfying pred, in insertion order.
func (s *Store[T]) Filter(pred func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, id := range s.order {
		if item := s.items[id]; pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Count returns the number of entries satisfying pred.
func (s *Store[T]) Count(pred func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.items {
		if pred(item) {
			n++
		}
	}
	return n
}
