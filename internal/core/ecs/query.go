package ecs

import "sort"

// Queryable is anything that can contribute a component predicate to a
// query: a *Store, a View, or a Mut.
type Queryable interface {
	storage() Storage
}

// Query matches every live entity holding all included component types and
// none of the excluded ones. Matching walks the smallest included store and
// checks the rest, then sorts ascending by entity index so results are
// reproducible across runs with identical state. At least one With is
// required; a query without predicates matches nothing.
type Query struct {
	world   *World
	include []Storage
	exclude []Storage
}

func (w *World) Query() *Query {
	return &Query{world: w}
}

func (q *Query) With(s Queryable) *Query {
	q.include = append(q.include, s.storage())
	return q
}

func (q *Query) Without(s Queryable) *Query {
	q.exclude = append(q.exclude, s.storage())
	return q
}

// Entities computes the matching set as identifiers, ascending by index.
func (q *Query) Entities() []EntityID {
	idxs := q.matchIndices()
	out := make([]EntityID, len(idxs))
	for i, idx := range idxs {
		out[i] = NewEntityID(idx, q.world.pool.generations[idx])
	}
	return out
}

// Iter starts a lazy pass over the matching set. The pass holds no copy of
// component data: each step re-checks membership, and a spawn or despawn
// while the pass is open fails it with ErrConcurrentMutation. Calling Iter
// again restarts from current state.
func (q *Query) Iter() *Iter {
	return &Iter{
		q:       q,
		ids:     q.matchIndices(),
		version: q.world.version,
		pos:     -1,
	}
}

func (q *Query) matchIndices() []uint32 {
	if len(q.include) == 0 {
		return nil
	}
	smallest := q.include[0]
	for _, s := range q.include[1:] {
		if s.length() < smallest.length() {
			smallest = s
		}
	}
	out := make([]uint32, 0, smallest.length())
	for _, idx := range smallest.indices() {
		keep := true
		for _, s := range q.include {
			if s == smallest {
				continue
			}
			if !s.has(idx) {
				keep = false
				break
			}
		}
		for _, s := range q.exclude {
			if !keep {
				break
			}
			if s.has(idx) {
				keep = false
			}
		}
		if keep {
			out = append(out, idx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Iter is a single-pass iterator over a query's matches.
type Iter struct {
	q       *Query
	ids     []uint32
	version uint64
	pos     int
	cur     EntityID
	err     error
}

// Next advances to the next match. It returns false when the pass is
// exhausted or failed; check Err afterward.
func (it *Iter) Next() bool {
	if it.err != nil {
		return false
	}
	w := it.q.world
	for {
		it.pos++
		if it.pos >= len(it.ids) {
			return false
		}
		if w.version != it.version {
			it.err = ErrConcurrentMutation
			return false
		}
		idx := it.ids[it.pos]
		member := true
		for _, s := range it.q.include {
			if !s.has(idx) {
				member = false
				break
			}
		}
		if !member {
			continue
		}
		it.cur = NewEntityID(idx, w.pool.generations[idx])
		return true
	}
}

func (it *Iter) Entity() EntityID { return it.cur }

func (it *Iter) Err() error { return it.err }

// Each2 visits entities that have both component A and B, ascending by
// index. It walks the smaller store and checks the larger one. Structural
// changes during the pass fail it with ErrConcurrentMutation; queue
// despawns through World.Defer instead.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) error {
	version := sa.world.version
	for _, idx := range sortedSmaller(sa.storage(), sb.storage()) {
		if sa.world.version != version {
			return ErrConcurrentMutation
		}
		pa, ok := sa.index[idx]
		if !ok {
			continue
		}
		pb, ok := sb.index[idx]
		if !ok {
			continue
		}
		fn(NewEntityID(idx, sa.world.pool.generations[idx]), sa.values[pa], sb.values[pb])
	}
	return nil
}

// Each3 visits entities that have components A, B, and C, ascending by index.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, *A, *B, *C)) error {
	version := sa.world.version
	for _, idx := range sortedSmaller(sa.storage(), sb.storage(), sc.storage()) {
		if sa.world.version != version {
			return ErrConcurrentMutation
		}
		pa, ok := sa.index[idx]
		if !ok {
			continue
		}
		pb, ok := sb.index[idx]
		if !ok {
			continue
		}
		pc, ok := sc.index[idx]
		if !ok {
			continue
		}
		fn(NewEntityID(idx, sa.world.pool.generations[idx]), sa.values[pa], sb.values[pb], sc.values[pc])
	}
	return nil
}

// sortedSmaller returns the smallest store's indices filtered by membership
// in the rest, sorted ascending.
func sortedSmaller(stores ...Storage) []uint32 {
	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.length() < smallest.length() {
			smallest = s
		}
	}
	out := make([]uint32, 0, smallest.length())
	for _, idx := range smallest.indices() {
		keep := true
		for _, s := range stores {
			if s == smallest {
				continue
			}
			if !s.has(idx) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, idx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
