package event

import "reflect"

// Queue is a double-buffered typed event queue. Events pushed during phase N
// become drainable in phase N+1; whatever consumers leave undrained is
// discarded one phase later when its buffer is reused as the new back. The
// queue guarantees ordering, not delivery: producers must not assume a
// consumer exists. Single-threaded by contract, like everything above it.
type Queue struct {
	front map[reflect.Type][]any
	back  map[reflect.Type][]any
}

func NewQueue() *Queue {
	return &Queue{
		front: make(map[reflect.Type][]any),
		back:  make(map[reflect.Type][]any),
	}
}

// Push queues an event into the back buffer, drainable next phase.
func Push[E any](q *Queue, ev E) {
	t := reflect.TypeOf((*E)(nil)).Elem()
	q.back[t] = append(q.back[t], ev)
}

// Drain consumes and returns every visible event of type E in push order.
// A second drain of the same type within one phase gets nothing.
func Drain[E any](q *Queue) []E {
	t := reflect.TypeOf((*E)(nil)).Elem()
	pending := q.front[t]
	if len(pending) == 0 {
		return nil
	}
	out := make([]E, len(pending))
	for i, ev := range pending {
		out[i] = ev.(E)
	}
	q.front[t] = pending[:0]
	return out
}

// Pending reports how many events of type E are visible this phase without
// consuming them.
func Pending[E any](q *Queue) int {
	t := reflect.TypeOf((*E)(nil)).Elem()
	return len(q.front[t])
}

// SwapPhase rotates back→front and clears the new back buffer. Called once
// per tick by the world, after all systems have run.
func (q *Queue) SwapPhase() {
	q.front, q.back = q.back, q.front
	for t := range q.back {
		q.back[t] = q.back[t][:0]
	}
}

// Clear drops every buffered event in both phases.
func (q *Queue) Clear() {
	for t := range q.front {
		q.front[t] = q.front[t][:0]
	}
	for t := range q.back {
		q.back[t] = q.back[t][:0]
	}
}
