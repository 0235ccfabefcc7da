package ecs

import (
	"fmt"
	"reflect"

	"github.com/cindermoor/cindermoor/internal/core/event"
)

// Context is the handle a running system works through. It enforces the
// system's declared access set for the duration of one Update call and is
// dead afterward; systems must not retain it across ticks.
type Context struct {
	world   *World
	access  *Access
	system  string
	expired bool
}

func (c *Context) check() {
	if c.expired {
		panic("ecs: system handle used outside its tick")
	}
}

func (c *Context) denied(verb string, t reflect.Type) error {
	return fmt.Errorf("%w: system %s may not %s %s", ErrUndeclaredAccess, c.system, verb, t)
}

// Spawn allocates a fresh entity. Structural; open query passes will fail.
func (c *Context) Spawn() EntityID {
	c.check()
	return c.world.Spawn()
}

// Despawn removes an entity immediately, cascading into every store. Do not
// call during an open query pass; use Defer there.
func (c *Context) Despawn(id EntityID) error {
	c.check()
	return c.world.Despawn(id)
}

// Defer queues a despawn for the end-of-tick flush, the sanctioned way to
// remove entities found during an open query pass.
func (c *Context) Defer(id EntityID) {
	c.check()
	c.world.Defer(id)
}

func (c *Context) Alive(id EntityID) bool {
	c.check()
	return c.world.Alive(id)
}

// Query starts a query scoped to this tick. Predicates come from views and
// stores the system already acquired, so grants are checked at acquisition.
func (c *Context) Query() *Query {
	c.check()
	return &Query{world: c.world}
}

// View is read-only access to one component type. Get hands out copies, so
// the underlying store cannot be mutated through it.
type View[T any] struct {
	s *Store[T]
}

func (v View[T]) Get(id EntityID) (T, bool) {
	var zero T
	p, ok := v.s.Get(id)
	if !ok {
		return zero, false
	}
	return *p, true
}

func (v View[T]) Has(id EntityID) bool { return v.s.Has(id) }
func (v View[T]) Len() int             { return v.s.Len() }

func (v View[T]) Each(fn func(EntityID, T)) error {
	return v.s.Each(func(id EntityID, p *T) { fn(id, *p) })
}

func (v View[T]) storage() Storage { return v.s }

// Mut is read-write access to one component type.
type Mut[T any] struct {
	s *Store[T]
}

func (m Mut[T]) Get(id EntityID) (*T, bool)        { return m.s.Get(id) }
func (m Mut[T]) Insert(id EntityID, v T) (T, bool) { return m.s.Insert(id, v) }
func (m Mut[T]) Remove(id EntityID) (T, bool)      { return m.s.Remove(id) }
func (m Mut[T]) Has(id EntityID) bool              { return m.s.Has(id) }
func (m Mut[T]) Len() int                          { return m.s.Len() }
func (m Mut[T]) Each(fn func(EntityID, *T)) error  { return m.s.Each(fn) }

func (m Mut[T]) storage() Storage { return m.s }

// ViewOf acquires read access to component type T. The system must have
// declared T read or write.
func ViewOf[T any](c *Context) (View[T], error) {
	c.check()
	t := typeOf[T]()
	if !c.access.reads[t] && !c.access.writes[t] {
		return View[T]{}, c.denied("read component", t)
	}
	return View[T]{s: storeFor[T](c.world)}, nil
}

// MutOf acquires write access to component type T. The system must have
// declared T write.
func MutOf[T any](c *Context) (Mut[T], error) {
	c.check()
	t := typeOf[T]()
	if !c.access.writes[t] {
		return Mut[T]{}, c.denied("write component", t)
	}
	return Mut[T]{s: storeFor[T](c.world)}, nil
}

// ResOf reads the resource of type R by value. The system must have
// declared R read or write.
func ResOf[R any](c *Context) (R, error) {
	c.check()
	var zero R
	t := typeOf[R]()
	if !c.access.resReads[t] && !c.access.resWrites[t] {
		return zero, c.denied("read resource", t)
	}
	p, err := Resource[R](c.world)
	if err != nil {
		return zero, err
	}
	return *p, nil
}

// ResMutOf returns the resource of type R for in-place mutation. The system
// must have declared R write.
func ResMutOf[R any](c *Context) (*R, error) {
	c.check()
	t := typeOf[R]()
	if !c.access.resWrites[t] {
		return nil, c.denied("write resource", t)
	}
	return Resource[R](c.world)
}

// PushEvent queues an event for next-phase consumers. The system must have
// declared E emitted.
func PushEvent[E any](c *Context, ev E) error {
	c.check()
	t := typeOf[E]()
	if !c.access.emits[t] {
		return c.denied("emit event", t)
	}
	event.Push(c.world.events, ev)
	return nil
}

// DrainEvents consumes every visible event of type E in push order. The
// system must have declared E drained.
func DrainEvents[E any](c *Context) ([]E, error) {
	c.check()
	t := typeOf[E]()
	if !c.access.drains[t] {
		return nil, c.denied("drain event", t)
	}
	return event.Drain[E](c.world.events), nil
}
