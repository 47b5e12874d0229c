package game

// Decider chooses the opponent's action. Implementations receive a Belief
// rather than the State, so they cannot see the human's dice, and must always
// return a concrete action.
type Decider interface {
	Decide(Belief) Action
}

// DeciderFunc adapts a plain function to the Decider interface
type DeciderFunc func(Belief) Action

// Decide calls f
func (f DeciderFunc) Decide(b Belief) Action {
	return f(b)
}

// Roller produces a hand of n dice
type Roller interface {
	Roll(n int) []int
}
