package dungeon

// Tile is one cell of the level grid.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
)

// Room is a carved rectangle, kept after generation for placement.
type Room struct {
	X, Y, W, H int
}

func (r Room) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Level is the current floor: a tile grid plus the points of interest the
// game layer populates with entities. Held as a world resource and replaced
// wholesale on descent.
type Level struct {
	Depth  int
	Width  int
	Height int
	Tiles  []Tile
	Rooms  []Room

	// EntryX/EntryY is the player start; StairsX/StairsY is where the
	// descent (or the Ember, on the final floor) is placed.
	EntryX, EntryY   int
	StairsX, StairsY int
}

func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

func (l *Level) At(x, y int) Tile {
	if !l.InBounds(x, y) {
		return TileWall
	}
	return l.Tiles[y*l.Width+x]
}

func (l *Level) set(x, y int, t Tile) {
	if l.InBounds(x, y) {
		l.Tiles[y*l.Width+x] = t
	}
}

// Walkable reports whether the tile itself admits movement; occupancy by a
// blocking entity is the movement system's concern.
func (l *Level) Walkable(x, y int) bool {
	return l.At(x, y) == TileFloor
}

// Floors returns every floor coordinate in scan order (y, then x), so any
// placement walk over it is reproducible.
func (l *Level) Floors() [][2]int {
	out := make([][2]int, 0, l.Width*l.Height/2)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if l.Tiles[y*l.Width+x] == TileFloor {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}
