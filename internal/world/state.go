// Package world holds the run-level state the game systems share as
// resources: turn counter, seeded RNG, the pending player command, the
// message log, and the run outcome.
package world

import (
	"math/rand"

	"github.com/cindermoor/cindermoor/internal/core/ecs"
)

// TurnCounter counts completed turns.
type TurnCounter struct {
	Turn int
}

// Rng is the run's only randomness source, seeded once at startup. Every
// roll in the game draws from it, which is what makes a seed replay the
// same run. Accessed only from the game loop goroutine; no locks needed.
type Rng struct {
	R *rand.Rand
}

// PlayerRef points at the player entity.
type PlayerRef struct {
	Entity ecs.EntityID
}

// CommandKind enumerates the actions a key press can request.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdMove
	CmdDefend
	CmdWait
	CmdDescend
	CmdQuit
)

// Command is the decoded player action for the current turn, set by the
// host loop before it advances the world.
type Command struct {
	Kind   CommandKind
	DX, DY int
}

// Status is the lifecycle state of a run.
type Status int

const (
	StatusPlaying Status = iota
	StatusDescending
	StatusDead
	StatusWon
	StatusQuit
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusDescending:
		return "descending"
	case StatusDead:
		return "dead"
	case StatusWon:
		return "won"
	case StatusQuit:
		return "quit"
	}
	return "unknown"
}

// RunState tracks one run from the first turn to its outcome.
type RunState struct {
	Status Status
	Seed   int64
	Depth  int
	Kills  int
	Score  int
	DiedTo string // name of whatever landed the last hit on the player
}
