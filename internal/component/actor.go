package component

// Actor components. Pure data, zero methods; all mutations happen in
// System functions.

// Name is the display name shown in messages and the HUD.
type Name struct {
	Value string
}

// Player tags the one player-controlled entity.
type Player struct{}

// Blocker marks an entity that occupies its tile: nothing may move onto it.
type Blocker struct{}

// AI decision profiles, matched by name in the ai script.
const (
	ProfileAggressive  = "aggressive"
	ProfileSkittish    = "skittish"
	ProfileTerritorial = "territorial"
)

// Brain holds a creature's AI state. Profile selects the decision profile in
// the ai script; Alert flips once the creature has noticed the player and
// keeps it hunting. HomeX/HomeY anchor territorial creatures to their spawn.
type Brain struct {
	Profile string
	Alert   bool
	HomeX   int
	HomeY   int
}
