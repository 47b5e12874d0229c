package opponent

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func belief(own []int, unseen int, current *game.Bid) game.Belief {
	return game.Belief{
		OwnDice:         own,
		OwnDiceCount:    len(own),
		UnseenDiceCount: unseen,
		CurrentBid:      current,
	}
}

func newTestPolicy() *Policy {
	return NewPolicy(log.New(io.Discard))
}

func TestOpeningBid(t *testing.T) {
	tests := []struct {
		name string
		hand []int
		want game.Bid
	}{
		{"clear favourite", []int{2, 2, 2, 5, 6}, game.Bid{Count: 3, Face: 2}},
		{"tie prefers lowest face", []int{6, 6, 3, 3, 1}, game.Bid{Count: 2, Face: 3}},
		{"all distinct", []int{1, 2, 3, 4, 5}, game.Bid{Count: 1, Face: 1}},
		{"empty hand", nil, game.Bid{Count: 0, Face: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpeningBid(tt.hand))
		})
	}
}

func TestDecideOpensWithoutStandingBid(t *testing.T) {
	action := newTestPolicy().Decide(belief([]int{2, 2, 2, 5, 6}, 5, nil))
	assert.Equal(t, game.BidOf(3, 2), action)
}

func TestDecideChallengesUnlikelyBid(t *testing.T) {
	current := game.Bid{Count: 8, Face: 3}
	action := newTestPolicy().Decide(belief([]int{1, 2, 4, 5, 6}, 5, &current))
	assert.True(t, action.IsChallenge())
}

func TestDecideChallengesWhenNoRaiseQualifies(t *testing.T) {
	// 2×6 is plausible (one six in hand, one more among five unseen dice)
	// but every raise needs two unseen matches.
	current := game.Bid{Count: 2, Face: 6}
	b := belief([]int{1, 2, 3, 4, 6}, 5, &current)

	require.GreaterOrEqual(t, Probability(b, current), ChallengeThreshold)
	_, ok := FindRaise(b, current)
	require.False(t, ok)

	assert.True(t, newTestPolicy().Decide(b).IsChallenge())
}

func TestDecideRaisesOnOwnFace(t *testing.T) {
	current := game.Bid{Count: 2, Face: 2}
	action := newTestPolicy().Decide(belief([]int{2, 2, 2, 5, 6}, 5, &current))
	assert.Equal(t, game.BidOf(3, 2), action)
}

func TestDecideResultIsLegalRaise(t *testing.T) {
	hands := [][]int{
		{1, 1, 2, 3, 4},
		{6, 6, 6, 6, 1},
		{2, 3, 3, 5, 5},
		{4, 4, 1, 1, 2},
	}
	p := newTestPolicy()
	for _, hand := range hands {
		for count := 1; count <= 10; count++ {
			for face := 1; face <= 6; face++ {
				current := game.Bid{Count: count, Face: face}
				action := p.Decide(belief(hand, 5, &current))
				if !action.IsChallenge() {
					assert.True(t, current.IsValidRaise(action.Bid), "%v over %v with %v", action.Bid, current, hand)
				}
			}
		}
	}
}

func TestFindRaiseFirstSeenWinsTies(t *testing.T) {
	// With no dice in hand every face scores the same, so the lowest face at
	// the lowest count is chosen.
	current := game.Bid{Count: 0, Face: 1}
	raise, ok := FindRaise(belief(nil, 5, nil), current)
	require.True(t, ok)
	assert.Equal(t, game.Bid{Count: 1, Face: 1}, raise)
}

func TestFindRaiseIgnoresCandidatesBeyondTableSize(t *testing.T) {
	current := game.Bid{Count: 10, Face: 6}
	_, ok := FindRaise(belief([]int{6, 6, 6, 6, 6}, 5, &current), current)
	assert.False(t, ok)
}

func TestProbabilityCertain(t *testing.T) {
	b := belief([]int{3, 3, 3, 3, 3}, 5, nil)
	for count := 1; count <= 5; count++ {
		assert.Equal(t, 1.0, Probability(b, game.Bid{Count: count, Face: 3}))
	}
}

func TestProbabilityImpossible(t *testing.T) {
	b := belief([]int{1, 2, 4, 5, 6}, 3, nil)
	assert.Equal(t, 0.0, Probability(b, game.Bid{Count: 4, Face: 3}))
	assert.Equal(t, 0.0, Probability(b, game.Bid{Count: 5, Face: 1}))
}

func TestProbabilityBinomialTail(t *testing.T) {
	b := belief([]int{1, 2, 4, 5, 6}, 5, nil)

	// at least one three among five unseen dice
	want := 1 - math.Pow(5.0/6.0, 5)
	assert.InDelta(t, want, Probability(b, game.Bid{Count: 1, Face: 3}), 1e-12)

	// own die covers one, need two more
	assert.InDelta(t, AtLeast(5, 2, 1.0/6.0), Probability(b, game.Bid{Count: 3, Face: 1}), 1e-12)
}

func TestProbabilityDecreasesWithCount(t *testing.T) {
	b := belief([]int{2, 2, 3, 4, 5}, 5, nil)
	prev := 1.0
	for count := 1; count <= 10; count++ {
		p := Probability(b, game.Bid{Count: count, Face: 2})
		assert.LessOrEqual(t, p, prev)
		prev = p
	}
}

func TestProbabilityDoesNotMutateBelief(t *testing.T) {
	own := []int{2, 2, 3, 4, 5}
	current := game.Bid{Count: 3, Face: 2}
	b := belief(own, 5, &current)

	newTestPolicy().Decide(b)

	assert.Equal(t, []int{2, 2, 3, 4, 5}, own)
	assert.Equal(t, game.Bid{Count: 3, Face: 2}, current)
}
