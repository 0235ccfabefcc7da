package system

import (
	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/dungeon"
	"github.com/cindermoor/cindermoor/internal/world"
)

type tileKey struct{ x, y int }

// MovementSystem resolves every MoveIntent against the floor tiles and the
// occupancy of other entities, in ascending entity order. Walking into a
// creature across the player/creature line becomes an AttackIntent for the
// combat pass; walking onto a potion drinks it, onto the Ember wins the run.
// All MoveIntents are consumed.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem { return &MovementSystem{} }

func (s *MovementSystem) Name() string { return "movement" }

func (s *MovementSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Writes[component.MoveIntent](),
		ecs.Writes[component.AttackIntent](),
		ecs.Writes[component.Position](),
		ecs.Writes[component.Health](),
		ecs.Reads[component.Blocker](),
		ecs.Reads[component.Player](),
		ecs.Reads[component.Potion](),
		ecs.Reads[component.Ember](),
		ecs.Reads[component.Stairs](),
		ecs.ReadsResource[dungeon.Level](),
		ecs.ReadsResource[world.PlayerRef](),
		ecs.WritesResource[world.RunState](),
		ecs.WritesResource[world.MessageLog](),
	)
}

func (s *MovementSystem) Update(ctx *ecs.Context) error {
	lvl, err := ecs.ResOf[dungeon.Level](ctx)
	if err != nil {
		return err
	}
	rs, err := ecs.ResMutOf[world.RunState](ctx)
	if err != nil {
		return err
	}
	log, err := ecs.ResMutOf[world.MessageLog](ctx)
	if err != nil {
		return err
	}
	moves, err := ecs.MutOf[component.MoveIntent](ctx)
	if err != nil {
		return err
	}
	attacks, err := ecs.MutOf[component.AttackIntent](ctx)
	if err != nil {
		return err
	}
	positions, err := ecs.MutOf[component.Position](ctx)
	if err != nil {
		return err
	}
	healths, err := ecs.MutOf[component.Health](ctx)
	if err != nil {
		return err
	}
	blockers, err := ecs.ViewOf[component.Blocker](ctx)
	if err != nil {
		return err
	}
	players, err := ecs.ViewOf[component.Player](ctx)
	if err != nil {
		return err
	}

	occupied := make(map[tileKey]ecs.EntityID, blockers.Len())
	err = blockers.Each(func(id ecs.EntityID, _ component.Blocker) {
		if pos, ok := positions.Get(id); ok {
			occupied[tileKey{pos.X, pos.Y}] = id
		}
	})
	if err != nil {
		return err
	}

	potionAt, err := tileIndex[component.Potion](ctx, positions)
	if err != nil {
		return err
	}
	emberAt, err := tileIndex[component.Ember](ctx, positions)
	if err != nil {
		return err
	}
	stairsAt, err := tileIndex[component.Stairs](ctx, positions)
	if err != nil {
		return err
	}

	type pendingMove struct {
		id     ecs.EntityID
		dx, dy int
	}
	pending := make([]pendingMove, 0, moves.Len())
	err = moves.Each(func(id ecs.EntityID, m *component.MoveIntent) {
		pending = append(pending, pendingMove{id: id, dx: m.DX, dy: m.DY})
	})
	if err != nil {
		return err
	}

	for _, mv := range pending {
		moves.Remove(mv.id)
		pos, ok := positions.Get(mv.id)
		if !ok {
			continue
		}
		isPlayer := players.Has(mv.id)
		tx, ty := pos.X+mv.dx, pos.Y+mv.dy

		if !lvl.Walkable(tx, ty) {
			if isPlayer {
				log.Add("You bump into cold stone.")
			}
			continue
		}

		if occupant, taken := occupied[tileKey{tx, ty}]; taken && occupant != mv.id {
			// Bumping across the player/creature line is an attack;
			// creatures never turn on each other.
			if isPlayer != players.Has(occupant) && healths.Has(occupant) {
				attacks.Insert(mv.id, component.AttackIntent{Target: occupant})
			}
			continue
		}

		if occupied[tileKey{pos.X, pos.Y}] == mv.id {
			delete(occupied, tileKey{pos.X, pos.Y})
		}
		pos.X, pos.Y = tx, ty
		if blockers.Has(mv.id) {
			occupied[tileKey{tx, ty}] = mv.id
		}

		if !isPlayer {
			continue
		}

		if pid, found := potionAt[tileKey{tx, ty}]; found {
			s.drinkPotion(ctx, mv.id, pid, positions, healths, log)
			delete(potionAt, tileKey{tx, ty})
		}
		if _, found := emberAt[tileKey{tx, ty}]; found {
			rs.Status = world.StatusWon
			rs.Score += emberBonus
			log.Add("You seize the Cinder Ember. Its warmth floods the halls!")
		}
		if _, found := stairsAt[tileKey{tx, ty}]; found {
			log.Add("Stone stairs descend into the dark.")
		}
	}
	return nil
}

func (s *MovementSystem) drinkPotion(
	ctx *ecs.Context,
	player, potion ecs.EntityID,
	positions ecs.Mut[component.Position],
	healths ecs.Mut[component.Health],
	log *world.MessageLog,
) {
	potions, err := ecs.ViewOf[component.Potion](ctx)
	if err != nil {
		return
	}
	pot, ok := potions.Get(potion)
	if !ok {
		return
	}
	if hp, ok := healths.Get(player); ok {
		hp.HP += pot.Heal
		if hp.HP > hp.Max {
			hp.HP = hp.Max
		}
		log.Addf("You drink a healing draught. (+%d)", pot.Heal)
	}
	ctx.Defer(potion)
}

// tileIndex maps the position of every entity holding component M.
func tileIndex[M any](ctx *ecs.Context, positions ecs.Mut[component.Position]) (map[tileKey]ecs.EntityID, error) {
	view, err := ecs.ViewOf[M](ctx)
	if err != nil {
		return nil, err
	}
	at := make(map[tileKey]ecs.EntityID, view.Len())
	err = view.Each(func(id ecs.EntityID, _ M) {
		if pos, ok := positions.Get(id); ok {
			at[tileKey{pos.X, pos.Y}] = id
		}
	})
	return at, err
}
