package ecs

import (
	"errors"
	"testing"
)

// recorderSystem appends its name to a shared log on every run.
type recorderSystem struct {
	name string
	log  *[]string
	fail error
}

func (s *recorderSystem) Name() string   { return s.name }
func (s *recorderSystem) Access() Access { return NewAccess() }

func (s *recorderSystem) Update(ctx *Context) error {
	*s.log = append(*s.log, s.name)
	return s.fail
}

// funcSystem runs an arbitrary body under a declared access set.
type funcSystem struct {
	name   string
	access Access
	body   func(ctx *Context) error
}

func (s *funcSystem) Name() string   { return s.name }
func (s *funcSystem) Access() Access { return s.access }

func (s *funcSystem) Update(ctx *Context) error { return s.body(ctx) }

// Systems run in registration order, not name order, not priority.
func TestRegistrationOrderExecution(t *testing.T) {
	w := NewWorld()
	var log []string
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := w.Register(&recorderSystem{name: name, log: &log}); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}

	for tick := 0; tick < 3; tick++ {
		if err := w.RunTick(); err != nil {
			t.Fatalf("RunTick failed: %v", err)
		}
	}

	want := []string{"zeta", "alpha", "mid", "zeta", "alpha", "mid", "zeta", "alpha", "mid"}
	if len(log) != len(want) {
		t.Fatalf("Expected %d runs, got %d", len(want), len(log))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, log)
		}
	}
}

// A failing system stops the rest of the tick's list; the next tick runs
// the full list again.
func TestFailureAbortsRemainder(t *testing.T) {
	w := NewWorld()
	var log []string
	boom := errors.New("boom")
	w.Register(&recorderSystem{name: "first", log: &log})
	w.Register(&recorderSystem{name: "second", log: &log, fail: boom})
	w.Register(&recorderSystem{name: "third", log: &log})

	err := w.RunTick()
	if err == nil {
		t.Fatalf("Expected a tick failure")
	}
	var sysErr *SystemError
	if !errors.As(err, &sysErr) {
		t.Fatalf("Expected *SystemError, got %T %v", err, err)
	}
	if sysErr.System != "second" {
		t.Errorf("Expected failure attributed to second, got %s", sysErr.System)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected the cause to unwrap, got %v", err)
	}
	if len(log) != 2 || log[0] != "first" || log[1] != "second" {
		t.Errorf("Expected third to be skipped, got %v", log)
	}

	log = log[:0]
	if err := w.RunTick(); !errors.As(err, &sysErr) {
		t.Fatalf("Expected the same failure next tick, got %v", err)
	}
	if len(log) != 2 {
		t.Errorf("Expected the full list retried next tick, got %v", log)
	}
}

// A self-conflicting access declaration is rejected at registration.
func TestAccessConflictRejected(t *testing.T) {
	w := NewWorld()
	sys := &funcSystem{
		name:   "conflicted",
		access: NewAccess(Reads[health](), Writes[health]()),
		body:   func(ctx *Context) error { return nil },
	}
	err := w.Register(sys)
	if !errors.Is(err, ErrAccessConflict) {
		t.Fatalf("Expected ErrAccessConflict, got %v", err)
	}
	if w.sched.Len() != 0 {
		t.Errorf("Expected rejected system to stay unregistered")
	}

	resSys := &funcSystem{
		name:   "resconflict",
		access: NewAccess(ReadsResource[int](), WritesResource[int]()),
		body:   func(ctx *Context) error { return nil },
	}
	if err := w.Register(resSys); !errors.Is(err, ErrAccessConflict) {
		t.Errorf("Expected resource conflict rejection, got %v", err)
	}
}

// Acquiring anything the system never declared fails that system's tick.
func TestUndeclaredAccessFailsSystem(t *testing.T) {
	w := NewWorld()
	RegisterComponent[health](w)
	sys := &funcSystem{
		name:   "sneaky",
		access: NewAccess(Reads[position]()),
		body: func(ctx *Context) error {
			_, err := MutOf[health](ctx)
			return err
		},
	}
	if err := w.Register(sys); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := w.RunTick()
	if !errors.Is(err, ErrUndeclaredAccess) {
		t.Fatalf("Expected ErrUndeclaredAccess, got %v", err)
	}
	var sysErr *SystemError
	if !errors.As(err, &sysErr) || sysErr.System != "sneaky" {
		t.Errorf("Expected the failure attributed to sneaky, got %v", err)
	}
}

// A write grant covers reads; a read grant does not cover writes.
func TestGrantCoverage(t *testing.T) {
	w := NewWorld()
	RegisterComponent[health](w)
	InsertResource(w, 42)

	sys := &funcSystem{
		name: "covered",
		access: NewAccess(
			Writes[health](),
			ReadsResource[int](),
			Emits[position](), // any type works as an event payload
		),
		body: func(ctx *Context) error {
			if _, err := ViewOf[health](ctx); err != nil {
				return err
			}
			if _, err := MutOf[health](ctx); err != nil {
				return err
			}
			if _, err := ResOf[int](ctx); err != nil {
				return err
			}
			if _, err := ResMutOf[int](ctx); err == nil {
				return errors.New("expected resource write to be denied")
			}
			if err := PushEvent(ctx, position{X: 1}); err != nil {
				return err
			}
			if _, err := DrainEvents[position](ctx); err == nil {
				return errors.New("expected drain to be denied")
			}
			return nil
		},
	}
	if err := w.Register(sys); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := w.RunTick(); err != nil {
		t.Errorf("Expected declared accesses to pass, got %v", err)
	}
}

// The handle dies with its tick; retaining it across ticks panics.
func TestRetainedContextPanics(t *testing.T) {
	w := NewWorld()
	var leaked *Context
	sys := &funcSystem{
		name:   "leaker",
		access: NewAccess(),
		body: func(ctx *Context) error {
			leaked = ctx
			return nil
		},
	}
	if err := w.Register(sys); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := w.RunTick(); err != nil {
		t.Fatalf("RunTick failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Expected a panic from the retained handle")
		}
	}()
	leaked.Spawn()
}
