package system

import (
	"testing"

	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/core/event"
	"github.com/cindermoor/cindermoor/internal/events"
	"github.com/cindermoor/cindermoor/internal/world"
)

func setHP(f *fixture, id ecs.EntityID, hp, max int) {
	h, ok := ecs.RegisterComponent[component.Health](f.w).Get(id)
	if !ok {
		f.t.Fatalf("Entity %v has no health", id)
	}
	h.HP, h.Max = hp, max
}

func TestBumpAttackKillsCreature(t *testing.T) {
	f := newFixture(t, 7)
	setHP(f, f.player, 200, 200)
	goblin := f.spawnCreature("Goblin", 6, 5, component.ProfileAggressive, 5, 1)

	for i := 0; i < 30 && f.w.Alive(goblin); i++ {
		f.play(moveCmd(1, 0))
	}
	if f.w.Alive(goblin) {
		t.Fatal("Expected the goblin dead after 30 swings")
	}
	if !f.sawMessage("The Goblin dies.") {
		t.Error("Expected a death message")
	}

	f.play(waitCmd()) // the kill is tallied on the following turn
	rs := f.run()
	if rs.Kills != 1 {
		t.Errorf("Expected 1 kill, got %d", rs.Kills)
	}
	if rs.Score < killBase+killDepthBonus {
		t.Errorf("Expected at least the kill bounty, got score %d", rs.Score)
	}
}

func TestDefendingHalvesIncomingDamage(t *testing.T) {
	// Same seed, same orc, identical roll streams. One run guards every
	// turn, the other stands idle, so each hit must land at half strength.
	guard := newFixture(t, 42)
	idle := newFixture(t, 42)
	setHP(guard, guard.player, 500, 500)
	setHP(idle, idle.player, 500, 500)
	guard.spawnCreature("Orc", 6, 5, component.ProfileAggressive, 999, 4)
	idle.spawnCreature("Orc", 6, 5, component.ProfileAggressive, 999, 4)

	hits := 0
	for i := 0; i < 8; i++ {
		guard.play(world.Command{Kind: world.CmdDefend})
		idle.play(waitCmd())
		halved := event.Drain[events.DamageDealt](guard.w.Events())
		full := event.Drain[events.DamageDealt](idle.w.Events())
		if len(halved) != len(full) {
			t.Fatalf("Turn %d: expected matching hit counts, got %d vs %d", i, len(halved), len(full))
		}
		for j := range full {
			want := full[j].Amount / 2
			if want < 1 {
				want = 1
			}
			if halved[j].Amount != want {
				t.Errorf("Turn %d: expected %d damage while guarding, got %d (unguarded %d)",
					i, want, halved[j].Amount, full[j].Amount)
			}
			hits++
		}
	}
	if hits == 0 {
		t.Error("Expected the orc to land at least one hit in 8 turns")
	}
}

func TestDefendingGuardExpires(t *testing.T) {
	f := newFixture(t, 1)
	f.play(world.Command{Kind: world.CmdDefend})

	if !f.sawMessage("raise your guard") {
		t.Error("Expected a guard message")
	}
	if n := ecs.RegisterComponent[component.Defending](f.w).Len(); n != 0 {
		t.Errorf("Expected the guard dropped after the turn, got %d still defending", n)
	}
}

func TestScoreCountsKillOnFollowingTurn(t *testing.T) {
	f := newFixture(t, 1)
	rat := f.spawnCreature("Ash Rat", 15, 8, component.ProfileSkittish, 5, 1)
	setHP(f, rat, 0, 5)

	f.play(waitCmd())
	if rs := f.run(); rs.Kills != 0 {
		t.Fatalf("Expected the kill uncounted on the turn it happens, got %d", rs.Kills)
	}
	if f.w.Alive(rat) {
		t.Fatal("Expected the rat swept away")
	}

	f.play(waitCmd())
	rs := f.run()
	if rs.Kills != 1 {
		t.Errorf("Expected 1 kill, got %d", rs.Kills)
	}
	if want := killBase + killDepthBonus*1; rs.Score != want {
		t.Errorf("Expected score %d, got %d", want, rs.Score)
	}
}

func TestPlayerDeathEndsRun(t *testing.T) {
	f := newFixture(t, 9)
	setHP(f, f.player, 1, 30)
	f.spawnCreature("Orc", 6, 5, component.ProfileAggressive, 999, 9)

	for i := 0; i < 20 && f.run().Status == world.StatusPlaying; i++ {
		f.play(waitCmd())
	}
	rs := f.run()
	if rs.Status != world.StatusDead {
		t.Fatalf("Expected the player dead within 20 turns, got status %v", rs.Status)
	}
	if rs.DiedTo != "Orc" {
		t.Errorf("Expected DiedTo Orc, got %q", rs.DiedTo)
	}
	if !f.sawMessage("You fall.") {
		t.Error("Expected the death message")
	}
	if f.w.Alive(f.player) {
		t.Error("Expected the player despawned at end of turn")
	}

	// The player's own death must not feed the kill tally.
	f.play(waitCmd())
	if rs := f.run(); rs.Kills != 0 {
		t.Errorf("Expected no kills from the player's death, got %d", rs.Kills)
	}
}

func TestWinOutranksDeathOnSameTurn(t *testing.T) {
	f := newFixture(t, 1)
	rs, err := ecs.Resource[world.RunState](f.w)
	if err != nil {
		t.Fatalf("RunState missing: %v", err)
	}
	rs.Status = world.StatusWon
	setHP(f, f.player, 0, 30)

	f.play(waitCmd())
	if got := f.run().Status; got != world.StatusWon {
		t.Errorf("Expected a same-turn win to stand, got status %v", got)
	}
}
