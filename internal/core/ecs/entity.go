package ecs

import "container/heap"

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// freeHeap is a min-heap of freed slot indices. Create pops the lowest index
// first so allocation order is reproducible run to run regardless of the
// order entities were destroyed in.
type freeHeap []uint32

func (h freeHeap) Len() int           { return len(h) }
func (h freeHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h freeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *freeHeap) Push(x any) { *h = append(*h, x.(uint32)) }

func (h *freeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// EntityPool manages entity allocation with generational indices and a free
// list ordered lowest-index-first.
type EntityPool struct {
	generations []uint32
	free        freeHeap
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		free:        make(freeHeap, 0, 256),
	}
}

func (p *EntityPool) Create() EntityID {
	if len(p.free) > 0 {
		idx := heap.Pop(&p.free).(uint32)
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Destroy frees the slot and bumps its generation so stale references can
// never alias a future entity. Stale or out-of-range identifiers are
// reported, not ignored.
func (p *EntityPool) Destroy(id EntityID) error {
	idx := id.Index()
	if idx >= p.nextIndex || p.generations[idx] != id.Generation() {
		return ErrInvalidEntity
	}
	p.generations[idx]++
	heap.Push(&p.free, idx)
	return nil
}

// Live returns the number of currently allocated entities.
func (p *EntityPool) Live() int {
	return int(p.nextIndex) - len(p.free)
}
