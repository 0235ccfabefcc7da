package ecs

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cindermoor/cindermoor/internal/core/event"
)

type turnCounter struct {
	Turn int
}

type damageDealt struct {
	Target EntityID
	Amount int
}

type melee struct {
	Damage int
}

func TestResourceLifecycle(t *testing.T) {
	w := NewWorld()

	if _, err := Resource[turnCounter](w); !errors.Is(err, ErrMissingResource) {
		t.Fatalf("Expected ErrMissingResource before insert, got %v", err)
	}

	InsertResource(w, turnCounter{Turn: 3})
	tc, err := Resource[turnCounter](w)
	if err != nil {
		t.Fatalf("Resource failed: %v", err)
	}
	if tc.Turn != 3 {
		t.Errorf("Expected turn 3, got %d", tc.Turn)
	}

	// Mutation in place is visible to the next lookup.
	tc.Turn = 9
	again, _ := Resource[turnCounter](w)
	if again.Turn != 9 {
		t.Errorf("Expected turn 9 after mutation, got %d", again.Turn)
	}

	// Re-insert replaces.
	InsertResource(w, turnCounter{Turn: 0})
	replaced, _ := Resource[turnCounter](w)
	if replaced.Turn != 0 {
		t.Errorf("Expected replacement, got %d", replaced.Turn)
	}

	if !HasResource[turnCounter](w) {
		t.Errorf("Expected HasResource true")
	}
	RemoveResource[turnCounter](w)
	if HasResource[turnCounter](w) {
		t.Errorf("Expected HasResource false after remove")
	}
}

// Despawn purges the entity from every registered storage; a second despawn
// of the stale identifier fails and touches nothing.
func TestDespawnCascade(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[position](w)
	hp := RegisterComponent[health](w)
	tags := RegisterComponent[tag](w)

	victim := w.Spawn()
	bystander := w.Spawn()
	for _, e := range []EntityID{victim, bystander} {
		pos.Insert(e, position{X: 1})
		hp.Insert(e, health{HP: 5})
		tags.Insert(e, tag{})
	}

	if err := w.Despawn(victim); err != nil {
		t.Fatalf("Despawn failed: %v", err)
	}
	if pos.Has(victim) || hp.Has(victim) || tags.Has(victim) {
		t.Errorf("Expected every storage purged")
	}
	for _, st := range []int{pos.Len(), hp.Len(), tags.Len()} {
		if st != 1 {
			t.Errorf("Expected each store to keep the bystander, got %d", st)
		}
	}

	if err := w.Despawn(victim); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("Expected ErrInvalidEntity on stale despawn, got %v", err)
	}
	if !w.Alive(bystander) || w.EntityCount() != 1 {
		t.Errorf("Expected the bystander unharmed by the stale despawn")
	}
	if got, ok := hp.Get(bystander); !ok || got.HP != 5 {
		t.Errorf("Expected bystander data intact, got %+v ok=%v", got, ok)
	}
}

// buildDuelWorld wires a seeded test tandem: a mover that walks entities by
// rolled offsets and a striker that hits every healthy target.
func buildDuelWorld(seed int64) *World {
	w := NewWorld()
	pos := RegisterComponent[position](w)
	hp := RegisterComponent[health](w)
	InsertResource(w, rand.New(rand.NewSource(seed)))

	for i := 0; i < 8; i++ {
		e := w.Spawn()
		pos.Insert(e, position{X: i, Y: -i})
		hp.Insert(e, health{HP: 10 + i, Max: 20})
	}

	mover := &funcSystem{
		name:   "mover",
		access: NewAccess(Writes[position](), WritesResource[*rand.Rand]()),
		body: func(ctx *Context) error {
			rng, err := ResMutOf[*rand.Rand](ctx)
			if err != nil {
				return err
			}
			ps, err := MutOf[position](ctx)
			if err != nil {
				return err
			}
			return ps.Each(func(id EntityID, p *position) {
				p.X += (*rng).Intn(3) - 1
				p.Y += (*rng).Intn(3) - 1
			})
		},
	}
	striker := &funcSystem{
		name:   "striker",
		access: NewAccess(Writes[health](), Emits[damageDealt]()),
		body: func(ctx *Context) error {
			hs, err := MutOf[health](ctx)
			if err != nil {
				return err
			}
			var pushErr error
			err = hs.Each(func(id EntityID, h *health) {
				h.HP -= 2
				if pushErr == nil {
					pushErr = PushEvent(ctx, damageDealt{Target: id, Amount: 2})
				}
			})
			if err != nil {
				return err
			}
			return pushErr
		},
	}
	_ = w.Register(mover)
	_ = w.Register(striker)
	return w
}

// Two copy-isolated worlds with identical setup produce identical component
// state and identical event sequences.
func TestRunTickDeterminism(t *testing.T) {
	a := buildDuelWorld(99)
	b := buildDuelWorld(99)

	for tick := 0; tick < 5; tick++ {
		if err := a.RunTick(); err != nil {
			t.Fatalf("World a tick %d failed: %v", tick, err)
		}
		if err := b.RunTick(); err != nil {
			t.Fatalf("World b tick %d failed: %v", tick, err)
		}
	}

	posA := RegisterComponent[position](a)
	posB := RegisterComponent[position](b)
	hpA := RegisterComponent[health](a)
	hpB := RegisterComponent[health](b)

	entsA := a.Query().With(posA).With(hpA).Entities()
	entsB := b.Query().With(posB).With(hpB).Entities()
	if len(entsA) != len(entsB) {
		t.Fatalf("Expected equal populations, got %d and %d", len(entsA), len(entsB))
	}
	for i := range entsA {
		if entsA[i] != entsB[i] {
			t.Fatalf("Entity sequences diverged at %d", i)
		}
		pa, _ := posA.Get(entsA[i])
		pb, _ := posB.Get(entsB[i])
		if *pa != *pb {
			t.Errorf("Position diverged for %v: %+v vs %+v", entsA[i], *pa, *pb)
		}
		ha, _ := hpA.Get(entsA[i])
		hb, _ := hpB.Get(entsB[i])
		if *ha != *hb {
			t.Errorf("Health diverged for %v: %+v vs %+v", entsA[i], *ha, *hb)
		}
	}
}

// Health updates are direct mutations visible to the next system in the
// same tick, while the events describing them are not.
func TestCombatThenDeathCheckScenario(t *testing.T) {
	w := NewWorld()
	hp := RegisterComponent[health](w)
	dmg := RegisterComponent[melee](w)

	player := w.Spawn()
	hp.Insert(player, health{HP: 10, Max: 10})
	dmg.Insert(player, melee{Damage: 3})
	enemy := w.Spawn()
	hp.Insert(enemy, health{HP: 5, Max: 5})
	dmg.Insert(enemy, melee{Damage: 3})

	combat := &funcSystem{
		name:   "combat",
		access: NewAccess(Writes[health](), Reads[melee](), Emits[damageDealt]()),
		body: func(ctx *Context) error {
			hs, err := MutOf[health](ctx)
			if err != nil {
				return err
			}
			ms, err := ViewOf[melee](ctx)
			if err != nil {
				return err
			}
			// Each strikes the other.
			pairs := [][2]EntityID{{enemy, player}, {player, enemy}}
			for _, pair := range pairs {
				attacker, target := pair[0], pair[1]
				m, _ := ms.Get(attacker)
				h, ok := hs.Get(target)
				if !ok {
					continue
				}
				h.HP -= m.Damage
				if err := PushEvent(ctx, damageDealt{Target: target, Amount: m.Damage}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	var sawEvents []damageDealt
	var sawEnemyHP, sawPlayerHP int
	deathCheck := &funcSystem{
		name:   "deathcheck",
		access: NewAccess(Reads[health](), Drains[damageDealt]()),
		body: func(ctx *Context) error {
			evs, err := DrainEvents[damageDealt](ctx)
			if err != nil {
				return err
			}
			sawEvents = append(sawEvents, evs...)
			hs, err := ViewOf[health](ctx)
			if err != nil {
				return err
			}
			he, _ := hs.Get(enemy)
			hpv, _ := hs.Get(player)
			sawEnemyHP, sawPlayerHP = he.HP, hpv.HP
			return nil
		},
	}

	if err := w.Register(combat); err != nil {
		t.Fatalf("Register combat failed: %v", err)
	}
	if err := w.Register(deathCheck); err != nil {
		t.Fatalf("Register deathcheck failed: %v", err)
	}

	if err := w.RunTick(); err != nil {
		t.Fatalf("RunTick failed: %v", err)
	}

	// Direct mutation was visible within the tick.
	if sawEnemyHP != 2 || sawPlayerHP != 7 {
		t.Errorf("Expected deathcheck to see enemy 2 player 7, saw %d and %d", sawEnemyHP, sawPlayerHP)
	}
	// The same tick's events were not.
	if len(sawEvents) != 0 {
		t.Errorf("Expected no events visible in the emitting tick, saw %d", len(sawEvents))
	}

	// Next tick the events arrive exactly once (combat hits again first).
	if err := w.RunTick(); err != nil {
		t.Fatalf("Second RunTick failed: %v", err)
	}
	if len(sawEvents) != 2 {
		t.Fatalf("Expected 2 events one tick later, saw %d", len(sawEvents))
	}
	if sawEvents[0].Target != player || sawEvents[0].Amount != 3 {
		t.Errorf("Expected first event for the player, got %+v", sawEvents[0])
	}
	if sawEvents[1].Target != enemy || sawEvents[1].Amount != 3 {
		t.Errorf("Expected second event for the enemy, got %+v", sawEvents[1])
	}
}

// A failed tick leaves earlier mutations applied, still flushes deferred
// despawns, and still advances the event phase.
func TestFailedTickSemantics(t *testing.T) {
	w := NewWorld()
	hp := RegisterComponent[health](w)
	victim := w.Spawn()
	other := w.Spawn()
	hp.Insert(victim, health{HP: 1})
	hp.Insert(other, health{HP: 5})

	boom := errors.New("invariant broken")
	first := &funcSystem{
		name:   "mutator",
		access: NewAccess(Writes[health](), Emits[damageDealt]()),
		body: func(ctx *Context) error {
			hs, _ := MutOf[health](ctx)
			h, _ := hs.Get(other)
			h.HP = 99
			ctx.Defer(victim)
			return PushEvent(ctx, damageDealt{Target: other, Amount: 1})
		},
	}
	failing := &funcSystem{
		name:   "failing",
		access: NewAccess(),
		body:   func(ctx *Context) error { return boom },
	}
	skipped := &funcSystem{
		name:   "skipped",
		access: NewAccess(Writes[health]()),
		body: func(ctx *Context) error {
			t.Errorf("Expected the third system to be skipped")
			return nil
		},
	}
	w.Register(first)
	w.Register(failing)
	w.Register(skipped)

	err := w.RunTick()
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the failure surfaced, got %v", err)
	}
	if h, _ := hp.Get(other); h.HP != 99 {
		t.Errorf("Expected earlier mutation kept, got %d", h.HP)
	}
	if w.Alive(victim) {
		t.Errorf("Expected the deferred despawn flushed despite the failure")
	}
	if got := len(event.Drain[damageDealt](w.Events())); got != 1 {
		t.Errorf("Expected the event visible after the failed tick, got %d", got)
	}
}

// Requesting a declared but never-inserted resource fails the tick with
// ErrMissingResource.
func TestMissingResourceFailsTick(t *testing.T) {
	w := NewWorld()
	sys := &funcSystem{
		name:   "needy",
		access: NewAccess(WritesResource[turnCounter]()),
		body: func(ctx *Context) error {
			_, err := ResMutOf[turnCounter](ctx)
			return err
		},
	}
	if err := w.Register(sys); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := w.RunTick()
	if !errors.Is(err, ErrMissingResource) {
		t.Fatalf("Expected ErrMissingResource, got %v", err)
	}
	var sysErr *SystemError
	if !errors.As(err, &sysErr) || sysErr.System != "needy" {
		t.Errorf("Expected the failure attributed to needy, got %v", err)
	}
}
