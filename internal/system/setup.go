package system

import (
	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/scripting"
	"github.com/cindermoor/cindermoor/internal/term"
)

// Register declares every component type and wires the game systems into
// the world in turn order. A nil screen skips the render system, which
// keeps headless runs off the terminal.
func Register(w *ecs.World, lua *scripting.Engine, screen *term.Screen) error {
	RegisterComponents(w)

	list := []ecs.System{
		NewInputSystem(),
		NewAISystem(lua),
		NewMovementSystem(),
		NewCombatSystem(lua),
		NewDeathSystem(),
		NewScoreSystem(),
		NewTurnSystem(),
	}
	if screen != nil {
		list = append(list, NewRenderSystem(screen))
	}
	for _, sys := range list {
		if err := w.Register(sys); err != nil {
			return err
		}
	}
	return nil
}

// RegisterComponents declares every game component type up front so the
// despawn cascade covers them all from the first turn.
func RegisterComponents(w *ecs.World) {
	ecs.RegisterComponent[component.Position](w)
	ecs.RegisterComponent[component.Glyph](w)
	ecs.RegisterComponent[component.Name](w)
	ecs.RegisterComponent[component.Player](w)
	ecs.RegisterComponent[component.Blocker](w)
	ecs.RegisterComponent[component.Brain](w)
	ecs.RegisterComponent[component.Health](w)
	ecs.RegisterComponent[component.Melee](w)
	ecs.RegisterComponent[component.Defending](w)
	ecs.RegisterComponent[component.MoveIntent](w)
	ecs.RegisterComponent[component.AttackIntent](w)
	ecs.RegisterComponent[component.Potion](w)
	ecs.RegisterComponent[component.Ember](w)
	ecs.RegisterComponent[component.Stairs](w)
}
