package dungeon

import (
	"math/rand"

	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/data"
)

// Creatures never spawn closer than this to the player entry, so a fresh
// floor always grants a breath before first contact.
const spawnClearance = 4

// SpawnPlayer creates the player entity at the level entry.
func SpawnPlayer(w *ecs.World, lvl *Level, name string, hp, damage int) ecs.EntityID {
	id := w.Spawn()
	insert(w, id, component.Player{})
	insert(w, id, component.Blocker{})
	insert(w, id, component.Name{Value: name})
	insert(w, id, component.Position{X: lvl.EntryX, Y: lvl.EntryY})
	insert(w, id, component.Glyph{Rune: '@', Color: "white", Layer: component.LayerPlayer})
	insert(w, id, component.Health{HP: hp, Max: hp})
	insert(w, id, component.Melee{Damage: damage})
	return id
}

// PlacePlayer moves an existing player entity to the level entry, used
// when descending onto a fresh floor.
func PlacePlayer(w *ecs.World, lvl *Level, player ecs.EntityID) {
	insert(w, player, component.Position{X: lvl.EntryX, Y: lvl.EntryY})
}

// Populate fills a generated level with creatures, potions, and the
// descent (the Ember instead on the final floor). Every draw comes from
// rng in a fixed order, so one seed always yields one population. The
// player entity is the caller's concern.
func Populate(w *ecs.World, lvl *Level, tables *data.Tables, rng *rand.Rand, finalDepth bool) {
	free := make([][2]int, 0, len(lvl.Floors()))
	for _, tile := range lvl.Floors() {
		if tile[0] == lvl.EntryX && tile[1] == lvl.EntryY {
			continue
		}
		if tile[0] == lvl.StairsX && tile[1] == lvl.StairsY {
			continue
		}
		free = append(free, tile)
	}

	rule := tables.Spawns.ForDepth(lvl.Depth)

	creatures := rule.MinCreatures + rng.Intn(rule.MaxCreatures-rule.MinCreatures+1)
	for i := 0; i < creatures; i++ {
		tpl := tables.Creatures.PickForDepth(rng, lvl.Depth)
		if tpl == nil {
			break
		}
		tile, ok := drawTile(rng, &free, func(t [2]int) bool {
			return boardDist(t[0], t[1], lvl.EntryX, lvl.EntryY) >= spawnClearance
		})
		if !ok {
			break
		}
		spawnCreature(w, tpl, tile[0], tile[1])
	}

	potions := rule.MinPotions + rng.Intn(rule.MaxPotions-rule.MinPotions+1)
	for i := 0; i < potions; i++ {
		tile, ok := drawTile(rng, &free, nil)
		if !ok {
			break
		}
		id := w.Spawn()
		insert(w, id, component.Potion{Heal: rule.PotionHeal})
		insert(w, id, component.Position{X: tile[0], Y: tile[1]})
		insert(w, id, component.Glyph{Rune: '!', Color: "yellow", Layer: component.LayerItem})
	}

	goal := w.Spawn()
	insert(w, goal, component.Position{X: lvl.StairsX, Y: lvl.StairsY})
	if finalDepth {
		insert(w, goal, component.Ember{})
		insert(w, goal, component.Name{Value: "Cinder Ember"})
		insert(w, goal, component.Glyph{Rune: '*', Color: "orange", Layer: component.LayerItem})
	} else {
		insert(w, goal, component.Stairs{})
		insert(w, goal, component.Glyph{Rune: '>', Color: "white", Layer: component.LayerItem})
	}
}

// ClearFloor despawns every positioned entity except keep, emptying the
// old floor before the next one is populated.
func ClearFloor(w *ecs.World, keep ecs.EntityID) error {
	positions := ecs.RegisterComponent[component.Position](w)
	var doomed []ecs.EntityID
	err := positions.Each(func(id ecs.EntityID, _ *component.Position) {
		if id != keep {
			doomed = append(doomed, id)
		}
	})
	if err != nil {
		return err
	}
	for _, id := range doomed {
		if err := w.Despawn(id); err != nil {
			return err
		}
	}
	return nil
}

func spawnCreature(w *ecs.World, tpl *data.CreatureTemplate, x, y int) ecs.EntityID {
	id := w.Spawn()
	insert(w, id, component.Blocker{})
	insert(w, id, component.Name{Value: tpl.Name})
	insert(w, id, component.Position{X: x, Y: y})
	insert(w, id, component.Glyph{Rune: tpl.Rune(), Color: tpl.Color, Layer: component.LayerCreature})
	insert(w, id, component.Health{HP: tpl.HP, Max: tpl.HP})
	insert(w, id, component.Melee{Damage: tpl.Damage})
	insert(w, id, component.Brain{Profile: tpl.Profile, HomeX: x, HomeY: y})
	return id
}

// drawTile removes and returns one random tile from free, honoring an
// optional placement filter. Exactly one rng draw per successful
// placement keeps the roll stream aligned across runs.
func drawTile(rng *rand.Rand, free *[][2]int, ok func([2]int) bool) ([2]int, bool) {
	candidates := *free
	valid := make([]int, 0, len(candidates))
	for i, t := range candidates {
		if ok == nil || ok(t) {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return [2]int{}, false
	}
	i := valid[rng.Intn(len(valid))]
	tile := candidates[i]
	candidates[i] = candidates[len(candidates)-1]
	*free = candidates[:len(candidates)-1]
	return tile, true
}

func insert[T any](w *ecs.World, id ecs.EntityID, v T) {
	ecs.RegisterComponent[T](w).Insert(id, v)
}

func boardDist(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
