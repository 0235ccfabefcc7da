// Package system contains the game systems, registered in the order they
// run each turn: input, ai, movement, combat, death, score, turn, render.
package system

import (
	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/world"
)

// InputSystem turns the decoded player command into intents on the player
// entity. Runs first, so everything downstream sees at most one player
// action per turn.
type InputSystem struct{}

func NewInputSystem() *InputSystem { return &InputSystem{} }

func (s *InputSystem) Name() string { return "input" }

func (s *InputSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Reads[component.Position](),
		ecs.Reads[component.Stairs](),
		ecs.Writes[component.MoveIntent](),
		ecs.Writes[component.Defending](),
		ecs.ReadsResource[world.Command](),
		ecs.ReadsResource[world.PlayerRef](),
		ecs.WritesResource[world.RunState](),
		ecs.WritesResource[world.MessageLog](),
	)
}

func (s *InputSystem) Update(ctx *ecs.Context) error {
	cmd, err := ecs.ResOf[world.Command](ctx)
	if err != nil {
		return err
	}
	ref, err := ecs.ResOf[world.PlayerRef](ctx)
	if err != nil {
		return err
	}
	rs, err := ecs.ResMutOf[world.RunState](ctx)
	if err != nil {
		return err
	}
	if !ctx.Alive(ref.Entity) {
		return nil
	}

	switch cmd.Kind {
	case world.CmdMove:
		moves, err := ecs.MutOf[component.MoveIntent](ctx)
		if err != nil {
			return err
		}
		moves.Insert(ref.Entity, component.MoveIntent{DX: cmd.DX, DY: cmd.DY})

	case world.CmdDefend:
		defending, err := ecs.MutOf[component.Defending](ctx)
		if err != nil {
			return err
		}
		defending.Insert(ref.Entity, component.Defending{Turns: 1})
		log, err := ecs.ResMutOf[world.MessageLog](ctx)
		if err != nil {
			return err
		}
		log.Add("You raise your guard.")

	case world.CmdDescend:
		onStairs, err := s.standingOnStairs(ctx, ref.Entity)
		if err != nil {
			return err
		}
		if onStairs {
			rs.Status = world.StatusDescending
			break
		}
		log, err := ecs.ResMutOf[world.MessageLog](ctx)
		if err != nil {
			return err
		}
		log.Add("There are no stairs here.")

	case world.CmdQuit:
		rs.Status = world.StatusQuit
	}
	return nil
}

func (s *InputSystem) standingOnStairs(ctx *ecs.Context, player ecs.EntityID) (bool, error) {
	positions, err := ecs.ViewOf[component.Position](ctx)
	if err != nil {
		return false, err
	}
	stairs, err := ecs.ViewOf[component.Stairs](ctx)
	if err != nil {
		return false, err
	}
	ppos, ok := positions.Get(player)
	if !ok {
		return false, nil
	}
	found := false
	err = stairs.Each(func(id ecs.EntityID, _ component.Stairs) {
		if pos, ok := positions.Get(id); ok && pos == ppos {
			found = true
		}
	})
	return found, err
}
