package ecs

import "reflect"

// Registry tracks all component stores and supports bulk cleanup on entity
// despawn. Stores are keyed by component type so each type registers once.
type Registry struct {
	stores []Storage
	byType map[reflect.Type]any
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Storage, 0, 16),
		byType: make(map[reflect.Type]any, 16),
	}
}

func (r *Registry) add(t reflect.Type, typed any, store Storage) {
	r.stores = append(r.stores, store)
	r.byType[t] = typed
}

func (r *Registry) lookup(t reflect.Type) (any, bool) {
	typed, ok := r.byType[t]
	return typed, ok
}

// RemoveAll clears the given slot from every registered component store.
// Called by the despawn cascade while the slot is still occupied.
func (r *Registry) RemoveAll(id EntityID) {
	idx := id.Index()
	for _, s := range r.stores {
		s.purge(idx)
	}
}
