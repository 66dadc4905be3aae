// Package collection keeps in-memory keyed mirrors of document store
// subtrees: field cards, a player's inventory, guild members.
package collection

import (
	"sort"
	"sync"
)

// ChangeFunc is called after every mutation with the new contents
type ChangeFunc[T any] func(values map[string]T)

// Store is a mutex-guarded id -> value map with change observers.
// Observers run after the lock is released and see a copy.
type Store[T any] struct {
	mu        sync.RWMutex
	items     map[string]T
	observers map[int]ChangeFunc[T]
	nextObs   int
}

// NewStore creates an empty store
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		items:     make(map[string]T),
		observers: make(map[int]ChangeFunc[T]),
	}
}

// ReplaceAll swaps in a full snapshot. Readers see either the old map or
// the new one, never a mix.
func (s *Store[T]) ReplaceAll(snapshot map[string]T) {
	next := make(map[string]T, len(snapshot))
	for k, v := range snapshot {
		next[k] = v
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()

	s.notify()
}

// Upsert inserts or overwrites id
func (s *Store[T]) Upsert(id string, value T) {
	s.mu.Lock()
	s.items[id] = value
	s.mu.Unlock()

	s.notify()
}

// Remove deletes id; removing a missing id is a no-op
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if ok {
		s.notify()
	}
}

// Get returns the value for id
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// Len returns the number of entries
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns the ids in sorted order
func (s *Store[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.items)
}

// Values returns the values ordered by id
func (s *Store[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.items))
	for _, k := range sortedKeys(s.items) {
		out = append(out, s.items[k])
	}
	return out
}

// OnChange registers fn and returns a function that removes it
func (s *Store[T]) OnChange(fn ChangeFunc[T]) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store[T]) notify() {
	s.mu.RLock()
	if len(s.observers) == 0 {
		s.mu.RUnlock()
		return
	}
	values := make(map[string]T, len(s.items))
	for k, v := range s.items {
		values[k] = v
	}
	fns := make([]ChangeFunc[T], 0, len(s.observers))
	for _, id := range sortedIntKeys(s.observers) {
		fns = append(fns, s.observers[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(values)
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
