package ecs

import (
	"reflect"

	"github.com/cindermoor/cindermoor/internal/core/event"
)

// World is the single root of ownership: it owns the entity pool, every
// component store, all resources, the event queue, and the scheduler.
// Nothing in the engine is reachable except through it. Single-threaded by
// contract; no locks anywhere.
type World struct {
	pool      *EntityPool
	registry  *Registry
	resources map[reflect.Type]any
	events    *event.Queue
	sched     *Scheduler
	deferred  []EntityID

	// version counts structural changes (spawn/despawn). Open query passes
	// capture it and fail with ErrConcurrentMutation when it moves.
	version uint64
}

func NewWorld() *World {
	return &World{
		pool:      NewEntityPool(),
		registry:  NewRegistry(),
		resources: make(map[reflect.Type]any, 16),
		events:    event.NewQueue(),
		sched:     NewScheduler(),
		deferred:  make([]EntityID, 0, 64),
	}
}

// RegisterComponent declares component type T and returns its store.
// Idempotent: a second call for the same type returns the existing store.
// Declaring a type after entities exist is allowed; they simply lack T
// until inserted.
func RegisterComponent[T any](w *World) *Store[T] {
	return storeFor[T](w)
}

func storeFor[T any](w *World) *Store[T] {
	t := typeOf[T]()
	if typed, ok := w.registry.lookup(t); ok {
		return typed.(*Store[T])
	}
	s := newStore[T](w)
	w.registry.add(t, s, s)
	return s
}

// Spawn allocates a fresh entity, reusing the lowest-index free slot.
func (w *World) Spawn() EntityID {
	w.version++
	return w.pool.Create()
}

// Despawn removes an entity immediately: every registered store purges its
// data, then the slot's generation is bumped. Stale identifiers fail with
// ErrInvalidEntity and have no side effect.
func (w *World) Despawn(id EntityID) error {
	if !w.pool.Alive(id) {
		return ErrInvalidEntity
	}
	w.registry.RemoveAll(id)
	w.version++
	return w.pool.Destroy(id)
}

// Defer queues a despawn for the end-of-tick flush. Safe to call during an
// open query pass, and harmless to call twice for the same entity.
func (w *World) Defer(id EntityID) {
	w.deferred = append(w.deferred, id)
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.pool.Live()
}

// Events exposes the queue for host-side stimulus injection and teardown.
// Systems push and drain through their Context instead.
func (w *World) Events() *event.Queue {
	return w.events
}

// Register appends a system to the run list. Order of registration is order
// of execution, every tick.
func (w *World) Register(sys System) error {
	return w.sched.Register(sys)
}

// RunTick advances the simulation one turn: every system runs once in
// registration order, deferred despawns flush, and the event queue swaps
// phase. A failing system stops the run list but the flush and swap still
// happen, so the world stays structurally valid and event timing stays
// fixed; the failure comes back as a *SystemError with nothing rolled back.
func (w *World) RunTick() error {
	err := w.sched.tick(w)
	w.flushDeferred()
	w.events.SwapPhase()
	return err
}

func (w *World) flushDeferred() {
	for _, id := range w.deferred {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		w.version++
	}
	w.deferred = w.deferred[:0]
}
