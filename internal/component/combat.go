package component

// Health is current and maximum hit points. Anything reaching zero HP is
// collected by the death system the same tick.
type Health struct {
	HP  int
	Max int
}

// Melee is flat attack damage before the combat script's rolls.
type Melee struct {
	Damage int
}

// Defending halves incoming melee damage while Turns > 0. The death system
// decrements the counter at the end of each turn.
type Defending struct {
	Turns int
}
