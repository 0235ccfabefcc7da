package ecs

import "testing"

// Test components.
type health struct {
	HP, Max int
}

type position struct {
	X, Y int
}

type tag struct{}

func TestInsertGetRemove(t *testing.T) {
	w := NewWorld()
	hp := RegisterComponent[health](w)
	e := w.Spawn()

	if _, displaced := hp.Insert(e, health{HP: 10, Max: 10}); displaced {
		t.Errorf("Expected first insert to displace nothing")
	}
	got, ok := hp.Get(e)
	if !ok || got.HP != 10 {
		t.Fatalf("Expected HP 10, got %+v ok=%v", got, ok)
	}

	// In-place mutation through the pointer.
	got.HP = 4
	if again, _ := hp.Get(e); again.HP != 4 {
		t.Errorf("Expected mutation to stick, got %d", again.HP)
	}

	removed, ok := hp.Remove(e)
	if !ok || removed.HP != 4 {
		t.Errorf("Expected removed value HP 4, got %+v ok=%v", removed, ok)
	}
	if _, ok := hp.Get(e); ok {
		t.Errorf("Expected absence after remove")
	}
	if _, ok := hp.Remove(e); ok {
		t.Errorf("Expected second remove to find nothing")
	}
}

// Insert on an occupied slot returns the displaced previous value.
func TestInsertReturnsDisplaced(t *testing.T) {
	w := NewWorld()
	hp := RegisterComponent[health](w)
	e := w.Spawn()

	hp.Insert(e, health{HP: 5, Max: 5})
	prev, displaced := hp.Insert(e, health{HP: 9, Max: 9})
	if !displaced {
		t.Fatalf("Expected overwrite to report the displaced value")
	}
	if prev.HP != 5 {
		t.Errorf("Expected displaced HP 5, got %d", prev.HP)
	}
	if got, _ := hp.Get(e); got.HP != 9 {
		t.Errorf("Expected current HP 9, got %d", got.HP)
	}
	if hp.Len() != 1 {
		t.Errorf("Expected store size 1 after overwrite, got %d", hp.Len())
	}
}

// Operations on dead or stale identifiers are harmless no-ops.
func TestDeadEntityOpsAreNoOps(t *testing.T) {
	w := NewWorld()
	hp := RegisterComponent[health](w)
	stale := w.Spawn()
	if err := w.Despawn(stale); err != nil {
		t.Fatalf("Despawn failed: %v", err)
	}

	// The slot is reborn under a new generation with its own component.
	reborn := w.Spawn()
	if reborn.Index() != stale.Index() {
		t.Fatalf("Expected slot reuse, got %d and %d", reborn.Index(), stale.Index())
	}
	hp.Insert(reborn, health{HP: 8, Max: 8})

	if _, displaced := hp.Insert(stale, health{HP: 1}); displaced {
		t.Errorf("Expected stale insert to displace nothing")
	}
	if _, ok := hp.Get(stale); ok {
		t.Errorf("Expected stale get to miss")
	}
	if _, ok := hp.Remove(stale); ok {
		t.Errorf("Expected stale remove to find nothing")
	}
	if hp.Has(stale) {
		t.Errorf("Expected stale has to be false")
	}

	// The live entity's data survived every stale operation.
	if got, ok := hp.Get(reborn); !ok || got.HP != 8 {
		t.Errorf("Expected live entity untouched, got %+v ok=%v", got, ok)
	}
}

// Each visits ascending entity index regardless of insertion order.
func TestEachAscendingOrder(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[position](w)
	entities := make([]EntityID, 4)
	for i := range entities {
		entities[i] = w.Spawn()
	}
	// Insert out of order.
	for _, i := range []int{2, 0, 3, 1} {
		pos.Insert(entities[i], position{X: i})
	}

	var seen []uint32
	err := pos.Each(func(id EntityID, p *position) {
		seen = append(seen, id.Index())
	})
	if err != nil {
		t.Fatalf("Each failed: %v", err)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i-1] >= seen[i] {
			t.Fatalf("Expected ascending order, got %v", seen)
		}
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 visits, got %d", len(seen))
	}
}

// A component removed mid-pass is skipped; a despawn mid-pass fails the pass.
func TestEachMutationRules(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[position](w)
	a := w.Spawn()
	b := w.Spawn()
	c := w.Spawn()
	for i, e := range []EntityID{a, b, c} {
		pos.Insert(e, position{X: i})
	}

	visits := 0
	err := pos.Each(func(id EntityID, p *position) {
		visits++
		if id == a {
			pos.Remove(c)
		}
	})
	if err != nil {
		t.Fatalf("Each failed: %v", err)
	}
	if visits != 2 {
		t.Errorf("Expected the removed entity to be skipped, got %d visits", visits)
	}

	err = pos.Each(func(id EntityID, p *position) {
		w.Defer(id) // queue instead of despawning mid-pass
	})
	if err != nil {
		t.Errorf("Expected deferred despawns to be safe, got %v", err)
	}

	pos.Insert(c, position{X: 2})
	err = pos.Each(func(id EntityID, p *position) {
		if id == a {
			_ = w.Despawn(b)
		}
	})
	if err != ErrConcurrentMutation {
		t.Errorf("Expected ErrConcurrentMutation for mid-pass despawn, got %v", err)
	}
}

// One store per component type, shared by repeat registrations.
func TestRegisterComponentIdempotent(t *testing.T) {
	w := NewWorld()
	first := RegisterComponent[health](w)
	e := w.Spawn()
	first.Insert(e, health{HP: 3})

	second := RegisterComponent[health](w)
	if first != second {
		t.Fatalf("Expected the same store for repeat registration")
	}
	if got, ok := second.Get(e); !ok || got.HP != 3 {
		t.Errorf("Expected data visible through second handle, got %+v ok=%v", got, ok)
	}
}
