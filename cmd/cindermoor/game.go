package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/cindermoor/cindermoor/internal/config"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/data"
	"github.com/cindermoor/cindermoor/internal/dungeon"
	"github.com/cindermoor/cindermoor/internal/persist"
	"github.com/cindermoor/cindermoor/internal/scripting"
	"github.com/cindermoor/cindermoor/internal/system"
	"github.com/cindermoor/cindermoor/internal/term"
	"github.com/cindermoor/cindermoor/internal/world"
)

// game owns one run: the ECS world, the floor the player stands on, and
// the terminal session.
type game struct {
	cfg     *config.Config
	log     *zap.Logger
	tables  *data.Tables
	lua     *scripting.Engine
	screen  *term.Screen
	w       *ecs.World
	rng     *rand.Rand
	player  ecs.EntityID
	runs    *persist.RunRepo
	started time.Time

	// Singleton resources, fetched once. InsertResource boxes the value,
	// so these stay valid for the life of the world.
	rs    *world.RunState
	turns *world.TurnCounter
	msgs  *world.MessageLog
}

func play(cfg *config.Config, log *zap.Logger) error {
	printBanner()
	printSection("World")

	tables, err := data.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	printStat("Creature kinds", tables.Creatures.Count())
	printStat("Spawn rules", tables.Spawns.Count())

	lua, err := scripting.NewEngine(cfg.Scripts.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer lua.Close()
	printOK("Lua scripts loaded")

	var runs *persist.RunRepo
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		runs = persist.NewRunRepo(db)
		printOK("Leaderboard connected")
	}

	printSection("Descent")
	printReady(fmt.Sprintf("Seed %d, the Ember waits on depth %d", cfg.Game.Seed, cfg.Game.DepthGoal))
	printReady("hjkl/arrows move · d defend · > descend · q quit")
	fmt.Println()

	g, err := newGame(cfg, log, tables, lua, runs)
	if err != nil {
		return err
	}
	defer g.screen.Fini()

	if err := g.loop(); err != nil {
		return err
	}
	g.screen.Fini()
	return g.finish()
}

func newGame(cfg *config.Config, log *zap.Logger, tables *data.Tables, lua *scripting.Engine, runs *persist.RunRepo) (*game, error) {
	w := ecs.NewWorld()
	screen, err := term.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := system.Register(w, lua, screen); err != nil {
		screen.Fini()
		return nil, err
	}

	g := &game{
		cfg:     cfg,
		log:     log,
		tables:  tables,
		lua:     lua,
		screen:  screen,
		w:       w,
		rng:     rand.New(rand.NewSource(cfg.Game.Seed)),
		runs:    runs,
		started: time.Now(),
	}

	lvl := dungeon.Generate(g.genConfig(), cfg.Game.Seed, 1)
	ecs.InsertResource(w, *lvl)
	ecs.InsertResource(w, world.TurnCounter{})
	ecs.InsertResource(w, world.Rng{R: g.rng})
	ecs.InsertResource(w, world.RunState{Status: world.StatusPlaying, Seed: cfg.Game.Seed, Depth: 1})
	ecs.InsertResource(w, world.MessageLog{})
	ecs.InsertResource(w, world.Command{})

	g.rs = mustResource[world.RunState](w)
	g.turns = mustResource[world.TurnCounter](w)
	g.msgs = mustResource[world.MessageLog](w)

	g.player = dungeon.SpawnPlayer(w, lvl, cfg.Game.PlayerName, cfg.Game.PlayerHP, cfg.Game.PlayerDamage)
	ecs.InsertResource(w, world.PlayerRef{Entity: g.player})
	dungeon.Populate(w, lvl, tables, g.rng, cfg.Game.DepthGoal <= 1)

	g.msgs.Add("The moor swallows the last light. Find the Cinder Ember.")
	g.log.Info("run started",
		zap.Int64("seed", cfg.Game.Seed),
		zap.Int("depth_goal", cfg.Game.DepthGoal))
	return g, nil
}

func mustResource[R any](w *ecs.World) *R {
	r, err := ecs.Resource[R](w)
	if err != nil {
		panic(err)
	}
	return r
}

func (g *game) genConfig() dungeon.GenConfig {
	d := g.cfg.Dungeon
	return dungeon.GenConfig{
		Width:       d.Width,
		Height:      d.Height,
		MinRooms:    d.MinRooms,
		MaxRooms:    d.MaxRooms,
		MinRoomSize: d.MinRoomSize,
		MaxRoomSize: d.MaxRoomSize,
	}
}

// loop blocks on the keyboard and advances the world one turn per command
// until the run ends.
func (g *game) loop() error {
	for {
		cmd := g.screen.NextCommand()
		if cmd.Kind == world.CmdNone {
			continue // resize repaint, handled inside the screen
		}
		ecs.InsertResource(g.w, cmd)
		if err := g.w.RunTick(); err != nil {
			return fmt.Errorf("turn %d: %w", g.turns.Turn, err)
		}

		switch g.rs.Status {
		case world.StatusDescending:
			if err := g.descend(); err != nil {
				return err
			}
		case world.StatusDead, world.StatusWon, world.StatusQuit:
			g.log.Info("run over",
				zap.String("outcome", outcomeOf(g.rs.Status)),
				zap.Int("depth", g.rs.Depth),
				zap.Int("turns", g.turns.Turn),
				zap.Int("score", g.rs.Score))
			return nil
		}
	}
}

// descend swaps the floor under the player: clear everything else, carve
// the next level from the run seed, repopulate.
func (g *game) descend() error {
	depth := g.rs.Depth + 1
	if err := dungeon.ClearFloor(g.w, g.player); err != nil {
		return fmt.Errorf("clear floor: %w", err)
	}

	lvl := dungeon.Generate(g.genConfig(), g.cfg.Game.Seed, depth)
	ecs.InsertResource(g.w, *lvl)
	dungeon.PlacePlayer(g.w, lvl, g.player)
	dungeon.Populate(g.w, lvl, g.tables, g.rng, depth >= g.cfg.Game.DepthGoal)

	g.rs.Depth = depth
	g.rs.Score += system.DescendBonus
	g.rs.Status = world.StatusPlaying
	g.msgs.Addf("You descend. Depth %d.", depth)
	g.log.Debug("descended", zap.Int("depth", depth))
	return nil
}

// finish prints the run summary and, when a database is configured, files
// the run and shows the leaderboard. The screen is already closed here.
// A database hiccup never fails a finished run.
func (g *game) finish() error {
	rs := *g.rs

	printSection("Run over")
	fmt.Printf("  %s\n\n", epitaph(rs))
	printStat("Depth reached", rs.Depth)
	printStat("Turns", g.turns.Turn)
	printStat("Kills", rs.Kills)
	printStat("Score", rs.Score)
	fmt.Println()

	if g.runs == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	row := &persist.RunRow{
		Seed:       rs.Seed,
		Outcome:    outcomeOf(rs.Status),
		Depth:      int32(rs.Depth),
		Turns:      int32(g.turns.Turn),
		Kills:      int32(rs.Kills),
		Score:      int32(rs.Score),
		DiedTo:     rs.DiedTo,
		StartedAt:  g.started,
		FinishedAt: time.Now(),
	}
	if err := g.runs.Save(ctx, row); err != nil {
		g.log.Error("save run", zap.Error(err))
		fmt.Printf("  \033[31m✗\033[0m run not saved: %v\n\n", err)
		return nil
	}

	top, err := g.runs.Top(ctx, 10)
	if err != nil {
		g.log.Error("leaderboard", zap.Error(err))
		fmt.Printf("  \033[31m✗\033[0m leaderboard unavailable: %v\n\n", err)
		return nil
	}
	printSection("Best descents")
	for i, r := range top {
		marker := "  "
		if r.ID == row.ID {
			marker = "\033[36m▶\033[0m "
		}
		fmt.Printf("  %s%2d. %6d pts  depth %-2d  %s\n", marker, i+1, r.Score, r.Depth, describe(r))
	}
	fmt.Println()
	return nil
}

func epitaph(rs world.RunState) string {
	switch rs.Status {
	case world.StatusWon:
		return "\033[32;1mYou carry the Cinder Ember back into daylight.\033[0m"
	case world.StatusDead:
		if rs.DiedTo != "" {
			return fmt.Sprintf("\033[31;1mSlain by the %s on depth %d.\033[0m", rs.DiedTo, rs.Depth)
		}
		return fmt.Sprintf("\033[31;1mDead on depth %d.\033[0m", rs.Depth)
	default:
		return "You climb back out. The moor keeps its secret."
	}
}

func outcomeOf(st world.Status) string {
	switch st {
	case world.StatusWon:
		return persist.OutcomeWon
	case world.StatusDead:
		return persist.OutcomeDead
	default:
		return persist.OutcomeQuit
	}
}

func describe(r persist.RunRow) string {
	switch r.Outcome {
	case persist.OutcomeWon:
		return "won the ember"
	case persist.OutcomeDead:
		if r.DiedTo != "" {
			return "slain by " + r.DiedTo
		}
		return "died"
	default:
		return "walked away"
	}
}
