package component

// Potion restores Heal HP when the player steps onto its tile.
type Potion struct {
	Heal int
}

// Ember is the win object waiting at the deepest floor.
type Ember struct{}

// Stairs marks the tile entity that descends to the next floor.
type Stairs struct{}
