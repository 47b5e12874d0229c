package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

// queueRoller hands out the given hands in order, then repeats the last one
type queueRoller struct {
	hands [][]int
	calls int
}

func (r *queueRoller) Roll(n int) []int {
	hand := r.hands[len(r.hands)-1]
	if r.calls < len(r.hands) {
		hand = r.hands[r.calls]
	}
	r.calls++
	out := make([]int, n)
	copy(out, hand)
	return out
}

func alwaysChallenge() Decider {
	return DeciderFunc(func(Belief) Action { return Challenge() })
}

func alwaysBid(count, face int) Decider {
	return DeciderFunc(func(Belief) Action { return BidOf(count, face) })
}

// newTestEngine returns an engine whose first match uses the given hands
func newTestEngine(t *testing.T, human, opponent []int, policy Decider) *Engine {
	t.Helper()
	roller := &queueRoller{hands: [][]int{human, opponent}}
	return NewEngine(roller, policy, log.New(io.Discard))
}

func newTestLogger() *log.Logger {
	return log.New(io.Discard)
}
