package dungeon

import "math/rand"

// GenConfig bounds the generator. Zero values fall back to sane defaults so
// a hand-rolled config in tests stays short.
type GenConfig struct {
	Width       int
	Height      int
	MinRooms    int
	MaxRooms    int
	MinRoomSize int
	MaxRoomSize int
}

func (c GenConfig) withDefaults() GenConfig {
	if c.Width == 0 {
		c.Width = 64
	}
	if c.Height == 0 {
		c.Height = 20
	}
	if c.MinRooms == 0 {
		c.MinRooms = 5
	}
	if c.MaxRooms == 0 {
		c.MaxRooms = 9
	}
	if c.MinRoomSize == 0 {
		c.MinRoomSize = 4
	}
	if c.MaxRoomSize == 0 {
		c.MaxRoomSize = 9
	}
	return c
}

// floorSeed derives an independent stream per floor from the run seed, so
// descending regenerates reproducibly without replaying earlier floors.
func floorSeed(seed int64, depth int) int64 {
	return seed ^ int64(uint64(depth)*0x9E3779B97F4A7C15)
}

// Generate carves a floor: rooms first, then L-corridors chaining each room
// to the one before it, which keeps every carved tile reachable. The result
// is a pure function of (cfg, seed, depth).
func Generate(cfg GenConfig, seed int64, depth int) *Level {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(floorSeed(seed, depth)))

	l := &Level{
		Depth:  depth,
		Width:  cfg.Width,
		Height: cfg.Height,
		Tiles:  make([]Tile, cfg.Width*cfg.Height),
	}

	numRooms := cfg.MinRooms + rng.Intn(cfg.MaxRooms-cfg.MinRooms+1)
	for i := 0; i < numRooms; i++ {
		w := cfg.MinRoomSize + rng.Intn(cfg.MaxRoomSize-cfg.MinRoomSize+1)
		h := cfg.MinRoomSize + rng.Intn(cfg.MaxRoomSize-cfg.MinRoomSize+1)
		if w > cfg.Width-2 {
			w = cfg.Width - 2
		}
		if h > cfg.Height-2 {
			h = cfg.Height - 2
		}
		x := rng.Intn(cfg.Width-w-1) + 1
		y := rng.Intn(cfg.Height-h-1) + 1

		room := Room{X: x, Y: y, W: w, H: h}
		if overlapsAny(l.Rooms, room) {
			// Rejected attempts still consumed their rolls, so the same
			// seed always yields the same floor.
			continue
		}
		l.Rooms = append(l.Rooms, room)
		carveRoom(l, room)

		if n := len(l.Rooms); n > 1 {
			cx, cy := room.Center()
			px, py := l.Rooms[n-2].Center()
			carveCorridor(l, rng, px, py, cx, cy)
		}
	}

	l.EntryX, l.EntryY = l.Rooms[0].Center()
	l.StairsX, l.StairsY = l.Rooms[len(l.Rooms)-1].Center()
	if l.StairsX == l.EntryX && l.StairsY == l.EntryY && len(l.Rooms) > 1 {
		l.StairsX, l.StairsY = l.Rooms[len(l.Rooms)-2].Center()
	}
	return l
}

// overlapsAny reports whether r, padded by one tile of wall, touches any
// already placed room. Keeping a wall between rooms makes corridors the
// only connections.
func overlapsAny(rooms []Room, r Room) bool {
	for _, o := range rooms {
		if r.X-1 < o.X+o.W && r.X+r.W+1 > o.X && r.Y-1 < o.Y+o.H && r.Y+r.H+1 > o.Y {
			return true
		}
	}
	return false
}

func carveRoom(l *Level, r Room) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			l.set(x, y, TileFloor)
		}
	}
}

// carveCorridor digs an L between two points, corner order by coin flip.
func carveCorridor(l *Level, rng *rand.Rand, x1, y1, x2, y2 int) {
	if rng.Intn(2) == 0 {
		carveH(l, x1, x2, y1)
		carveV(l, y1, y2, x2)
	} else {
		carveV(l, y1, y2, x1)
		carveH(l, x1, x2, y2)
	}
}

func carveH(l *Level, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		l.set(x, y, TileFloor)
	}
}

func carveV(l *Level, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		l.set(x, y, TileFloor)
	}
}
