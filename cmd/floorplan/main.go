// floorplan renders generated floors as ASCII, for tuning the dungeon
// generator without launching the game.
//
// Usage:
//
//	go run ./cmd/floorplan -seed 2026 -depth 3
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/cindermoor/cindermoor/internal/dungeon"
)

func main() {
	var (
		seed   = flag.Int64("seed", 1, "run seed")
		depth  = flag.Int("depth", 1, "floor depth to carve")
		width  = flag.Int("w", 0, "floor width (0 = default)")
		height = flag.Int("h", 0, "floor height (0 = default)")
	)
	flag.Parse()

	lvl := dungeon.Generate(dungeon.GenConfig{Width: *width, Height: *height}, *seed, *depth)
	fmt.Printf("seed %d depth %d: %dx%d, %d rooms, entry (%d,%d), stairs (%d,%d)\n",
		*seed, *depth, lvl.Width, lvl.Height, len(lvl.Rooms),
		lvl.EntryX, lvl.EntryY, lvl.StairsX, lvl.StairsY)

	var sb strings.Builder
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			switch {
			case x == lvl.EntryX && y == lvl.EntryY:
				sb.WriteByte('@')
			case x == lvl.StairsX && y == lvl.StairsY:
				sb.WriteByte('>')
			case lvl.At(x, y) == dungeon.TileFloor:
				sb.WriteByte('.')
			default:
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}
