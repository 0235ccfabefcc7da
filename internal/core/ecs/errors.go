package ecs

import (
	"errors"
	"fmt"
)

// The engine surfaces errors as values at every boundary and never logs;
// presentation belongs to the host.
var (
	// ErrInvalidEntity marks an operation that referenced a despawned or
	// never-allocated identifier. Recoverable: storage lookups treat it as
	// absence, Despawn reports it.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrMissingResource marks a lookup of a resource type that was never
	// inserted. A wiring bug in the host, surfaced fail-fast rather than
	// silently defaulted.
	ErrMissingResource = errors.New("missing resource")

	// ErrConcurrentMutation marks a structural change (spawn or despawn)
	// observed while a query iteration was in flight. Callers must not
	// ignore it; despawns during iteration go through World.Defer instead.
	ErrConcurrentMutation = errors.New("concurrent structural mutation")

	// ErrAccessConflict marks a system whose declared access set conflicts
	// with itself, e.g. the same component type declared both read and
	// write. Registration is refused.
	ErrAccessConflict = errors.New("conflicting access declaration")

	// ErrUndeclaredAccess marks an acquisition the running system never
	// declared. Returned through the system's own error path, so it ends
	// the tick as that system's failure.
	ErrUndeclaredAccess = errors.New("access not declared")
)

// SystemError wraps the failure of one registered system. The tick that
// produced it stopped at that system; mutations applied by earlier systems
// in the same tick remain applied.
type SystemError struct {
	System string
	Err    error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system %s: %v", e.System, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }
