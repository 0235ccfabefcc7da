// Package scripting wraps a gopher-lua VM for the moddable game rules:
// melee resolution and creature decision making. Scripts are pure
// functions of their context table; every random roll is made in Go and
// passed in, so a fixed seed always replays the same run.
package scripting

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed scripts/*.lua
var defaultScripts embed.FS

// Engine wraps a single gopher-lua VM for game rule execution.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine, loads the built-in scripts, then loads
// any .lua files from dir on top so they can redefine the defaults.
// An empty dir runs pure built-ins.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadEmbedded(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load built-in scripts: %w", err)
	}
	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts from %s: %w", dir, err)
	}

	return e, nil
}

func (e *Engine) loadEmbedded() error {
	entries, err := fs.ReadDir(defaultScripts, "scripts")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		src, err := defaultScripts.ReadFile("scripts/" + entry.Name())
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		e.log.Debug("loaded built-in lua script", zap.String("file", entry.Name()))
	}
	return nil
}

// loadDir loads all .lua files in a directory, sorted by name.
func (e *Engine) loadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// MeleeContext holds pre-packed data for one melee swing. HitRoll and
// DamageRoll are rolled by the caller before the script runs.
type MeleeContext struct {
	AttackerDamage  int
	TargetDefending bool
	HitRoll         int // 1..20
	DamageRoll      int // 0..2 variance
}

// MeleeResult is returned by the Lua melee function.
type MeleeResult struct {
	Hit    bool
	Damage int
	Crit   bool
}

// Melee calls the Lua melee function.
func (e *Engine) Melee(ctx MeleeContext) MeleeResult {
	fn := e.vm.GetGlobal("melee")
	if fn == lua.LNil {
		e.log.Error("lua function melee not found")
		return MeleeResult{Hit: true, Damage: 1}
	}

	t := e.vm.NewTable()
	t.RawSetString("attacker_damage", lua.LNumber(ctx.AttackerDamage))
	t.RawSetString("target_defending", lua.LBool(ctx.TargetDefending))
	t.RawSetString("hit_roll", lua.LNumber(ctx.HitRoll))
	t.RawSetString("damage_roll", lua.LNumber(ctx.DamageRoll))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua melee error", zap.Error(err))
		return MeleeResult{Hit: true, Damage: 1}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua melee returned non-table")
		return MeleeResult{Hit: true, Damage: 1}
	}

	return MeleeResult{
		Hit:    rt.RawGetString("hit") == lua.LTrue,
		Damage: lInt(rt, "damage"),
		Crit:   rt.RawGetString("crit") == lua.LTrue,
	}
}

// DecideContext holds pre-packed data for one creature's turn decision.
// Distances are Chebyshev. WanderRoll and Roll are rolled by the caller.
type DecideContext struct {
	Profile    string
	HP, MaxHP  int
	X, Y       int
	PlayerX    int
	PlayerY    int
	PlayerDist int
	HomeX      int
	HomeY      int
	HomeDist   int
	Alert      bool
	WanderRoll int // 0..7 heading pick
	Roll       int // 0..99 general purpose
}

// Decision is a single action returned by the Lua decide function.
type Decision struct {
	Action string // "attack", "move", "wait"
	DX, DY int
}

// Decide calls the Lua decide function.
func (e *Engine) Decide(ctx DecideContext) Decision {
	fn := e.vm.GetGlobal("decide")
	if fn == lua.LNil {
		e.log.Error("lua function decide not found")
		return Decision{Action: "wait"}
	}

	t := e.vm.NewTable()
	t.RawSetString("profile", lua.LString(ctx.Profile))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("player_x", lua.LNumber(ctx.PlayerX))
	t.RawSetString("player_y", lua.LNumber(ctx.PlayerY))
	t.RawSetString("player_dist", lua.LNumber(ctx.PlayerDist))
	t.RawSetString("home_x", lua.LNumber(ctx.HomeX))
	t.RawSetString("home_y", lua.LNumber(ctx.HomeY))
	t.RawSetString("home_dist", lua.LNumber(ctx.HomeDist))
	t.RawSetString("alert", lua.LBool(ctx.Alert))
	t.RawSetString("wander_roll", lua.LNumber(ctx.WanderRoll))
	t.RawSetString("roll", lua.LNumber(ctx.Roll))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua decide error", zap.Error(err))
		return Decision{Action: "wait"}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua decide returned non-table")
		return Decision{Action: "wait"}
	}

	return Decision{
		Action: lStr(rt, "action"),
		DX:     lInt(rt, "dx"),
		DY:     lInt(rt, "dy"),
	}
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
