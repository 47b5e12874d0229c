package game

// Player identifies one of the two sides at the table
type Player int

const (
	Human Player = iota
	Opponent
)

// String returns the string representation of the player
func (p Player) String() string {
	switch p {
	case Human:
		return "human"
	case Opponent:
		return "opponent"
	default:
		return "unknown"
	}
}

// Other returns the opposing side
func (p Player) Other() Player {
	if p == Human {
		return Opponent
	}
	return Human
}
