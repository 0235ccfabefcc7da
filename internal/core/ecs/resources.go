package ecs

import "fmt"

// Resources are singleton values keyed by concrete type: turn counter, RNG
// state, the current level. At most one instance per type; re-inserting
// replaces the old value.

// InsertResource stores v as the singleton for its type.
func InsertResource[R any](w *World, v R) {
	w.resources[typeOf[R]()] = &v
}

// Resource returns the singleton of type R for reading or in-place
// mutation. Missing types are a host wiring bug and fail fast.
func Resource[R any](w *World) (*R, error) {
	t := typeOf[R]()
	v, ok := w.resources[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingResource, t)
	}
	return v.(*R), nil
}

// HasResource reports whether a singleton of type R was inserted.
func HasResource[R any](w *World) bool {
	_, ok := w.resources[typeOf[R]()]
	return ok
}

// RemoveResource drops the singleton of type R, if present.
func RemoveResource[R any](w *World) {
	delete(w.resources, typeOf[R]())
}
