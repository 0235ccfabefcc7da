package system

import (
	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/scripting"
	"github.com/cindermoor/cindermoor/internal/world"
)

// Territorial creatures wake when the player steps this close to their home
// tile and settle down once the player is far enough away again.
const (
	territoryRadius = 4
	calmDistance    = 10
)

// AISystem asks the decide script for every creature's action and attaches
// the resulting intent. Creatures are visited in ascending entity order and
// both rolls are drawn for every creature whether or not its script branch
// uses them, so the roll stream stays aligned across script overrides.
type AISystem struct {
	lua *scripting.Engine
}

func NewAISystem(lua *scripting.Engine) *AISystem {
	return &AISystem{lua: lua}
}

func (s *AISystem) Name() string { return "ai" }

func (s *AISystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Writes[component.Brain](),
		ecs.Reads[component.Position](),
		ecs.Reads[component.Health](),
		ecs.Writes[component.MoveIntent](),
		ecs.Writes[component.AttackIntent](),
		ecs.ReadsResource[world.PlayerRef](),
		ecs.WritesResource[world.Rng](),
	)
}

func (s *AISystem) Update(ctx *ecs.Context) error {
	ref, err := ecs.ResOf[world.PlayerRef](ctx)
	if err != nil {
		return err
	}
	rng, err := ecs.ResOf[world.Rng](ctx)
	if err != nil {
		return err
	}
	brains, err := ecs.MutOf[component.Brain](ctx)
	if err != nil {
		return err
	}
	positions, err := ecs.ViewOf[component.Position](ctx)
	if err != nil {
		return err
	}
	healths, err := ecs.ViewOf[component.Health](ctx)
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

	ppos, playerAlive := positions.Get(ref.Entity)
	if !playerAlive {
		return nil
	}

	return brains.Each(func(id ecs.EntityID, b *component.Brain) {
		pos, ok := positions.Get(id)
		if !ok {
			return
		}
		hp, ok := healths.Get(id)
		if !ok {
			return
		}

		dist := chebyshev(pos.X, pos.Y, ppos.X, ppos.Y)

		if b.Profile == component.ProfileTerritorial {
			intrusion := chebyshev(ppos.X, ppos.Y, b.HomeX, b.HomeY)
			if intrusion <= territoryRadius {
				b.Alert = true
			} else if dist > calmDistance {
				b.Alert = false
			}
		}

		d := s.lua.Decide(scripting.DecideContext{
			Profile:    b.Profile,
			HP:         hp.HP,
			MaxHP:      hp.Max,
			X:          pos.X,
			Y:          pos.Y,
			PlayerX:    ppos.X,
			PlayerY:    ppos.Y,
			PlayerDist: dist,
			HomeX:      b.HomeX,
			HomeY:      b.HomeY,
			HomeDist:   chebyshev(pos.X, pos.Y, b.HomeX, b.HomeY),
			Alert:      b.Alert,
			WanderRoll: rng.R.Intn(8),
			Roll:       rng.R.Intn(100),
		})

		switch d.Action {
		case "attack":
			attacks.Insert(id, component.AttackIntent{Target: ref.Entity})
		case "move":
			if d.DX != 0 || d.DY != 0 {
				moves.Insert(id, component.MoveIntent{DX: d.DX, DY: d.DY})
			}
		}
	})
}

// chebyshev is the board distance where diagonals cost 1.
func chebyshev(ax, ay, bx, by int) int {
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
