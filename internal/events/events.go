package events

import "github.com/cindermoor/cindermoor/internal/core/ecs"

// Game event payloads. Producers push them during a tick; consumers drain
// them one tick later, so nothing here reacts to its own emission.

// DamageDealt records one resolved melee hit.
type DamageDealt struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
	Amount   int
}

// EntityDied records a creature or the player reaching zero health.
type EntityDied struct {
	Entity ecs.EntityID
	Name   string
	Depth  int
}

// TurnEnded marks the completion of one full turn.
type TurnEnded struct {
	Turn int
}
