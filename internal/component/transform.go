package component

// Position is a tile coordinate on the current level grid.
type Position struct {
	X int
	Y int
}

// Glyph is how an entity renders: a rune, a named color resolved by the
// terminal layer, and a draw layer (higher draws on top).
type Glyph struct {
	Rune  rune
	Color string
	Layer int
}

// Draw layers, low to high.
const (
	LayerItem = iota
	LayerCreature
	LayerPlayer
)
