package system

import (
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/events"
	"github.com/cindermoor/cindermoor/internal/world"
)

// TurnSystem advances the turn counter and announces the turn's end.
type TurnSystem struct{}

func NewTurnSystem() *TurnSystem { return &TurnSystem{} }

func (s *TurnSystem) Name() string { return "turn" }

func (s *TurnSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.WritesResource[world.TurnCounter](),
		ecs.Emits[events.TurnEnded](),
	)
}

func (s *TurnSystem) Update(ctx *ecs.Context) error {
	tc, err := ecs.ResMutOf[world.TurnCounter](ctx)
	if err != nil {
		return err
	}
	tc.Turn++
	return ecs.PushEvent(ctx, events.TurnEnded{Turn: tc.Turn})
}
