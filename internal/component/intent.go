package component

import "github.com/cindermoor/cindermoor/internal/core/ecs"

// One-turn intents. Input and AI attach them; movement and combat consume
// and remove them in the same tick. None survives a turn.

// MoveIntent is a single-step move request.
type MoveIntent struct {
	DX int
	DY int
}

// AttackIntent is a melee strike request against an adjacent target.
type AttackIntent struct {
	Target ecs.EntityID
}
