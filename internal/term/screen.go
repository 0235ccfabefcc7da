// Package term wraps tcell for the game: screen lifecycle, an input queue
// decoded into game commands, and the draw primitives the render system
// uses.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/cindermoor/cindermoor/internal/world"
)

// Screen wraps the tcell terminal. A reader goroutine pumps tcell events
// into a buffered queue so the game loop can block on NextCommand without
// polling tcell from two goroutines.
type Screen struct {
	tc     tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	fini   sync.Once
}

// NewScreen takes over the real terminal.
func NewScreen() (*Screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return wrap(tc)
}

// NewSimulationScreen backs the wrapper with tcell's in-memory screen,
// for tests.
func NewSimulationScreen() (*Screen, tcell.SimulationScreen, error) {
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := wrap(sim)
	if err != nil {
		return nil, nil, err
	}
	return s, sim, nil
}

func wrap(tc tcell.Screen) (*Screen, error) {
	if err := tc.Init(); err != nil {
		return nil, err
	}
	tc.HideCursor()
	tc.Clear()
	s := &Screen{
		tc:     tc,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

// pump owns PollEvent. PollEvent returns nil once Fini runs, which ends
// the pump and closes the queue.
func (s *Screen) pump() {
	for {
		ev := s.tc.PollEvent()
		if ev == nil {
			close(s.events)
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// NextCommand blocks until a key decodes to a game command.
func (s *Screen) NextCommand() world.Command {
	for {
		ev, ok := <-s.events
		if !ok {
			return world.Command{Kind: world.CmdQuit}
		}
		switch tev := ev.(type) {
		case *tcell.EventResize:
			s.tc.Sync()
			return world.Command{Kind: world.CmdNone}
		case *tcell.EventKey:
			if cmd, ok := decodeKey(tev); ok {
				return cmd
			}
		}
	}
}

// decodeKey maps one key event to a command. Unbound keys decode to
// nothing and the caller keeps waiting.
func decodeKey(ev *tcell.EventKey) (world.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return move(0, -1), true
	case tcell.KeyDown:
		return move(0, 1), true
	case tcell.KeyLeft:
		return move(-1, 0), true
	case tcell.KeyRight:
		return move(1, 0), true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return world.Command{Kind: world.CmdQuit}, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			return move(0, -1), true
		case 'j':
			return move(0, 1), true
		case 'h':
			return move(-1, 0), true
		case 'l':
			return move(1, 0), true
		case 'd':
			return world.Command{Kind: world.CmdDefend}, true
		case 'g':
			return world.Command{Kind: world.CmdWait}, true
		case '>':
			return world.Command{Kind: world.CmdDescend}, true
		case 'q':
			return world.Command{Kind: world.CmdQuit}, true
		}
	}
	return world.Command{}, false
}

func move(dx, dy int) world.Command {
	return world.Command{Kind: world.CmdMove, DX: dx, DY: dy}
}

func (s *Screen) Clear() { s.tc.Clear() }

func (s *Screen) Show() { s.tc.Show() }

func (s *Screen) Size() (int, int) { return s.tc.Size() }

// SetCell places one rune.
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	s.tc.SetContent(x, y, r, nil, style)
}

// Print writes a string left to right from (x, y).
func (s *Screen) Print(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.tc.SetContent(x+i, y, r, nil, style)
	}
}

// Fini restores the terminal and stops the pump. Safe to call twice: the
// game loop calls it before printing the run summary, and the shell keeps
// a deferred call for error paths.
func (s *Screen) Fini() {
	s.fini.Do(func() {
		close(s.quit)
		s.tc.Fini()
	})
}
