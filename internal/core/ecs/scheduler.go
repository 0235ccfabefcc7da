package ecs

import (
	"fmt"
	"reflect"
)

// System is the interface every system implements. Update receives a handle
// scoped to the system's declared access set and runs exactly once per tick.
// Returning an error aborts the remainder of the tick.
type System interface {
	Name() string
	Access() Access
	Update(ctx *Context) error
}

// Access declares what a system touches: component types read or written,
// resource types read or written, event types emitted or drained. Validated
// at registration, enforced by the Context while the system runs.
type Access struct {
	reads     map[reflect.Type]bool
	writes    map[reflect.Type]bool
	resReads  map[reflect.Type]bool
	resWrites map[reflect.Type]bool
	emits     map[reflect.Type]bool
	drains    map[reflect.Type]bool
}

// Grant is one entry of an access declaration.
type Grant func(*Access)

// Reads grants shared access to component type T.
func Reads[T any]() Grant {
	return func(a *Access) { a.reads[typeOf[T]()] = true }
}

// Writes grants exclusive access to component type T. Write implies read;
// declaring both is a conflict.
func Writes[T any]() Grant {
	return func(a *Access) { a.writes[typeOf[T]()] = true }
}

// ReadsResource grants shared access to resource type R.
func ReadsResource[R any]() Grant {
	return func(a *Access) { a.resReads[typeOf[R]()] = true }
}

// WritesResource grants exclusive access to resource type R.
func WritesResource[R any]() Grant {
	return func(a *Access) { a.resWrites[typeOf[R]()] = true }
}

// Emits grants pushing events of type E.
func Emits[E any]() Grant {
	return func(a *Access) { a.emits[typeOf[E]()] = true }
}

// Drains grants draining events of type E.
func Drains[E any]() Grant {
	return func(a *Access) { a.drains[typeOf[E]()] = true }
}

func NewAccess(grants ...Grant) Access {
	a := Access{
		reads:     make(map[reflect.Type]bool),
		writes:    make(map[reflect.Type]bool),
		resReads:  make(map[reflect.Type]bool),
		resWrites: make(map[reflect.Type]bool),
		emits:     make(map[reflect.Type]bool),
		drains:    make(map[reflect.Type]bool),
	}
	for _, g := range grants {
		g(&a)
	}
	return a
}

// validate checks the declaration for internal conflicts. Execution is
// strictly sequential, so cross-system checks are unnecessary; the only
// hazard is a system aliasing its own access.
func (a *Access) validate() error {
	for t := range a.writes {
		if a.reads[t] {
			return fmt.Errorf("%w: component %s declared both read and write", ErrAccessConflict, t)
		}
	}
	for t := range a.resWrites {
		if a.resReads[t] {
			return fmt.Errorf("%w: resource %s declared both read and write", ErrAccessConflict, t)
		}
	}
	return nil
}

// Scheduler holds the fixed run list. Systems execute strictly in
// registration order, every tick, with no reordering and no priorities.
type Scheduler struct {
	systems []registered
}

type registered struct {
	sys    System
	access Access
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		systems: make([]registered, 0, 16),
	}
}

// Register appends a system to the run list after validating its declared
// access set. A rejected system is not registered.
func (s *Scheduler) Register(sys System) error {
	access := sys.Access()
	if err := access.validate(); err != nil {
		return fmt.Errorf("register %s: %w", sys.Name(), err)
	}
	s.systems = append(s.systems, registered{sys: sys, access: access})
	return nil
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int { return len(s.systems) }

// tick runs every system once in registration order. The first failure
// stops the list; earlier systems' mutations stay applied.
func (s *Scheduler) tick(w *World) error {
	for i := range s.systems {
		r := &s.systems[i]
		ctx := &Context{world: w, access: &r.access, system: r.sys.Name()}
		err := r.sys.Update(ctx)
		ctx.expired = true
		if err != nil {
			return &SystemError{System: r.sys.Name(), Err: err}
		}
	}
	return nil
}
