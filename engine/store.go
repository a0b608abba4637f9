package engine

import (
	"github.com/lixenwraith/planar/core"
)

// Store is a container for one component type T keyed by entity
// Sparse set: the map gives O(1) lookup, the dense slice gives stable iteration
// Not synchronized, the world is single-threaded
type Store[T any] struct {
	components map[core.Entity]T
	entities   []core.Entity // Insertion order, swap-remove on delete
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.Entity]T),
		entities:   make([]core.Entity, 0, 64),
	}
}

// Set inserts or updates the component of e
func (s *Store[T]) Set(e core.Entity, val T) {
	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

// Get retrieves the component of e
func (s *Store[T]) Get(e core.Entity) (T, bool) {
	val, ok := s.components[e]
	return val, ok
}

// Has checks if e has this component
func (s *Store[T]) Has(e core.Entity) bool {
	_, ok := s.components[e]
	return ok
}

// Remove deletes the component of e
func (s *Store[T]) Remove(e core.Entity) {
	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities[i] = s.entities[len(s.entities)-1]
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
}

// RemoveBatch deletes multiple entities in a single pass - O(n+m) vs O(n*m) for individual removes
func (s *Store[T]) RemoveBatch(entities []core.Entity) {
	if len(entities) == 0 || len(s.components) == 0 {
		return
	}

	toRemove := make(map[core.Entity]struct{}, len(entities))
	for _, e := range entities {
		if _, exists := s.components[e]; exists {
			toRemove[e] = struct{}{}
			delete(s.components, e)
		}
	}
	if len(toRemove) == 0 {
		return
	}

	// Compaction keeps the survivors in their relative order
	writeIdx := 0
	for _, e := range s.entities {
		if _, remove := toRemove[e]; !remove {
			s.entities[writeIdx] = e
			writeIdx++
		}
	}
	s.entities = s.entities[:writeIdx]
}

// Entities returns the live view of stored entities
// INTERNAL USE ONLY - callers must not mutate or hold it across Set/Remove
func (s *Store[T]) Entities() []core.Entity {
	return s.entities
}

// All returns a copy of the stored entities
func (s *Store[T]) All() []core.Entity {
	out := make([]core.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of stored components
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Clear removes every component
func (s *Store[T]) Clear() {
	s.components = make(map[core.Entity]T)
	s.entities = s.entities[:0]
}
