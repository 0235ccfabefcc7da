package system

import (
	"fmt"
	"sort"

	"github.com/cindermoor/cindermoor/internal/component"
	"github.com/cindermoor/cindermoor/internal/core/ecs"
	"github.com/cindermoor/cindermoor/internal/dungeon"
	"github.com/cindermoor/cindermoor/internal/term"
	"github.com/cindermoor/cindermoor/internal/world"
)

// Row 0 is the HUD; the map starts below it and the message tail renders
// under the map.
const (
	mapTop       = 1
	messageLines = 3
)

// RenderSystem draws the floor, every glyph-bearing entity by layer, the
// HUD line, and the message tail. It runs last and mutates nothing.
type RenderSystem struct {
	screen *term.Screen
}

func NewRenderSystem(screen *term.Screen) *RenderSystem {
	return &RenderSystem{screen: screen}
}

func (s *RenderSystem) Name() string { return "render" }

func (s *RenderSystem) Access() ecs.Access {
	return ecs.NewAccess(
		ecs.Reads[component.Position](),
		ecs.Reads[component.Glyph](),
		ecs.Reads[component.Health](),
		ecs.ReadsResource[dungeon.Level](),
		ecs.ReadsResource[world.TurnCounter](),
		ecs.ReadsResource[world.RunState](),
		ecs.ReadsResource[world.MessageLog](),
		ecs.ReadsResource[world.PlayerRef](),
	)
}

func (s *RenderSystem) Update(ctx *ecs.Context) error {
	lvl, err := ecs.ResOf[dungeon.Level](ctx)
	if err != nil {
		return err
	}
	tc, err := ecs.ResOf[world.TurnCounter](ctx)
	if err != nil {
		return err
	}
	rs, err := ecs.ResOf[world.RunState](ctx)
	if err != nil {
		return err
	}
	log, err := ecs.ResOf[world.MessageLog](ctx)
	if err != nil {
		return err
	}
	ref, err := ecs.ResOf[world.PlayerRef](ctx)
	if err != nil {
		return err
	}
	positions, err := ecs.ViewOf[component.Position](ctx)
	if err != nil {
		return err
	}
	glyphs, err := ecs.ViewOf[component.Glyph](ctx)
	if err != nil {
		return err
	}
	healths, err := ecs.ViewOf[component.Health](ctx)
	if err != nil {
		return err
	}

	s.screen.Clear()

	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			if lvl.At(x, y) == dungeon.TileWall {
				s.screen.SetCell(x, y+mapTop, '#', term.WallStyle)
			} else {
				s.screen.SetCell(x, y+mapTop, '.', term.FloorStyle)
			}
		}
	}

	type drawable struct {
		pos component.Position
		g   component.Glyph
	}
	ds := make([]drawable, 0, glyphs.Len())
	err = glyphs.Each(func(id ecs.EntityID, g component.Glyph) {
		if pos, ok := positions.Get(id); ok {
			ds = append(ds, drawable{pos: pos, g: g})
		}
	})
	if err != nil {
		return err
	}
	// Each visits in entity order; the stable sort keeps that order within
	// a layer so overlaps resolve the same way every frame.
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].g.Layer < ds[j].g.Layer })
	for _, d := range ds {
		s.screen.SetCell(d.pos.X, d.pos.Y+mapTop, d.g.Rune, term.StyleFor(d.g.Color))
	}

	hud := fmt.Sprintf("Depth %d  Turn %d  Score %d  Kills %d", rs.Depth, tc.Turn, rs.Score, rs.Kills)
	if hp, ok := healths.Get(ref.Entity); ok {
		hud = fmt.Sprintf("HP %d/%d  %s", hp.HP, hp.Max, hud)
	}
	s.screen.Print(0, 0, hud, term.HUDStyle)

	for i, line := range log.Tail(messageLines) {
		s.screen.Print(0, mapTop+lvl.Height+i, line, term.MessageStyle)
	}

	s.screen.Show()
	return nil
}
