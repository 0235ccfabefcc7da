package ecs

import (
	"reflect"
	"sort"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Storage is the untyped face every component store presents to the world:
// bulk purge on despawn and membership for query planning. Only stores
// created through RegisterComponent satisfy it.
type Storage interface {
	purge(idx uint32)
	has(idx uint32) bool
	length() int
	indices() []uint32
}

// Store is a sparse-set component container for one component type. Values
// are held behind stable pointers; the dense index list exists for query
// planning and is not ordered. All operations are no-ops on entities that
// are not alive, so despawn races stay harmless.
type Store[T any] struct {
	world    *World
	index    map[uint32]int
	entities []uint32
	values   []*T
}

func newStore[T any](w *World) *Store[T] {
	return &Store[T]{
		world: w,
		index: make(map[uint32]int, 256),
	}
}

// Insert attaches a component value, returning the displaced previous value
// if the entity already had one.
func (s *Store[T]) Insert(id EntityID, v T) (prev T, displaced bool) {
	var zero T
	if !s.world.pool.Alive(id) {
		return zero, false
	}
	idx := id.Index()
	if pos, ok := s.index[idx]; ok {
		prev = *s.values[pos]
		*s.values[pos] = v
		return prev, true
	}
	s.index[idx] = len(s.entities)
	s.entities = append(s.entities, idx)
	c := v
	s.values = append(s.values, &c)
	return zero, false
}

// Remove detaches and returns the entity's component value.
func (s *Store[T]) Remove(id EntityID) (T, bool) {
	var zero T
	if !s.world.pool.Alive(id) {
		return zero, false
	}
	return s.take(id.Index())
}

// Get returns a pointer to the live entity's component for reading or
// in-place mutation.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	if !s.world.pool.Alive(id) {
		return nil, false
	}
	pos, ok := s.index[id.Index()]
	if !ok {
		return nil, false
	}
	return s.values[pos], true
}

func (s *Store[T]) Has(id EntityID) bool {
	if !s.world.pool.Alive(id) {
		return false
	}
	_, ok := s.index[id.Index()]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Each visits every entity holding T in ascending index order. Components
// removed by earlier steps of the same pass are skipped. A spawn or despawn
// during the pass ends it with ErrConcurrentMutation.
func (s *Store[T]) Each(fn func(EntityID, *T)) error {
	version := s.world.version
	sorted := append([]uint32(nil), s.entities...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, idx := range sorted {
		if s.world.version != version {
			return ErrConcurrentMutation
		}
		pos, ok := s.index[idx]
		if !ok {
			continue
		}
		fn(NewEntityID(idx, s.world.pool.generations[idx]), s.values[pos])
	}
	return nil
}

// take unlinks slot idx with a swap-remove. Liveness is the caller's
// concern: the despawn cascade purges while the entity is still valid.
func (s *Store[T]) take(idx uint32) (T, bool) {
	var zero T
	pos, ok := s.index[idx]
	if !ok {
		return zero, false
	}
	out := *s.values[pos]
	last := len(s.entities) - 1
	if pos != last {
		moved := s.entities[last]
		s.entities[pos] = moved
		s.values[pos] = s.values[last]
		s.index[moved] = pos
	}
	s.entities = s.entities[:last]
	s.values = s.values[:last]
	delete(s.index, idx)
	return out, true
}

func (s *Store[T]) purge(idx uint32) { s.take(idx) }

func (s *Store[T]) has(idx uint32) bool {
	_, ok := s.index[idx]
	return ok
}

func (s *Store[T]) length() int { return len(s.entities) }

func (s *Store[T]) indices() []uint32 { return s.entities }

func (s *Store[T]) storage() Storage { return s }
