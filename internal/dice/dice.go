// Package dice rolls hands of six-sided dice.
package dice

import (
	rand "math/rand/v2"
)

// Faces is the number of faces on a die. Face values run 1..Faces.
const Faces = 6

// ValidFace reports whether face is a value a die can show.
func ValidFace(face int) bool {
	return face >= 1 && face <= Faces
}

// Count returns how many dice in hand show face.
func Count(hand []int, face int) int {
	n := 0
	for _, d := range hand {
		if d == face {
			n++
		}
	}
	return n
}

// AllDistinct reports whether no face value appears twice in hand.
func AllDistinct(hand []int) bool {
	var seen [Faces + 1]bool
	for _, d := range hand {
		if d < 1 || d > Faces {
			continue
		}
		if seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// Roller produces hands of uniformly distributed face values.
type Roller struct {
	rng            *rand.Rand
	maxDice        int
	rerollDistinct bool
}

// Option configures a Roller
type Option func(*Roller)

// WithDistinctReroll toggles the rule that rerolls a full-size hand in which
// every face is different. Enabled by default.
func WithDistinctReroll(enabled bool) Option {
	return func(r *Roller) { r.rerollDistinct = enabled }
}

// NewRoller creates a roller drawing from rng. maxDice is the per-player hand
// size that the distinct-hand rule applies to.
func NewRoller(rng *rand.Rand, maxDice int, opts ...Option) *Roller {
	r := &Roller{
		rng:            rng,
		maxDice:        maxDice,
		rerollDistinct: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Roll returns n freshly rolled dice. When n is the full hand size and the
// distinct-hand rule is on, a hand with no repeated face is thrown away and
// the whole hand rolled again.
func (r *Roller) Roll(n int) []int {
	for {
		hand := r.rollOnce(n)
		if !r.mustReroll(hand) {
			return hand
		}
	}
}

// mustReroll is only true for hands that can contain a repeat at all; a
// single die or more dice than faces always terminates.
func (r *Roller) mustReroll(hand []int) bool {
	if !r.rerollDistinct || len(hand) != r.maxDice {
		return false
	}
	if len(hand) < 2 || len(hand) > Faces {
		return false
	}
	return AllDistinct(hand)
}

func (r *Roller) rollOnce(n int) []int {
	if n < 0 {
		n = 0
	}
	hand := make([]int, n)
	for i := range hand {
		hand[i] = r.rng.IntN(Faces) + 1
	}
	return hand
}
