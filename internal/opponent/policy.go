// Package opponent implements the computer player's decision policy.
//
// The policy models every die it cannot see as an independent fair die and
// estimates how likely a bid is with a Binomial(n, 1/6) tail. It challenges
// bids that look unlikely and otherwise looks for the most plausible raise,
// preferring faces it holds itself.
package opponent

import (
	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/internal/dice"
	"github.com/lox/liarsdice/internal/game"
)

const (
	// ChallengeThreshold is the probability below which the standing bid is
	// challenged outright
	ChallengeThreshold = 0.35

	// RaiseThreshold is the minimum probability a raise must have to be considered
	RaiseThreshold = 0.45

	// OwnFaceBonus is added to a raise's score per matching die in hand
	OwnFaceBonus = 0.1

	// faceProbability is the chance an unseen die shows a given face
	faceProbability = 1.0 / dice.Faces
)

// Policy is the opponent's decision function. It holds no match state; the
// same Policy can decide for any number of matches.
type Policy struct {
	logger *log.Logger
}

// NewPolicy creates a new decision policy
func NewPolicy(logger *log.Logger) *Policy {
	return &Policy{
		logger: logger.WithPrefix("opponent"),
	}
}

// Decide returns the opponent's action for the given belief. It always
// produces an action: when no raise qualifies it challenges.
func (p *Policy) Decide(b game.Belief) game.Action {
	if b.CurrentBid == nil {
		bid := OpeningBid(b.OwnDice)
		p.logger.Debug("Opening bid", "bid", bid.String())
		return game.Action{Kind: game.BidAction, Bid: bid}
	}

	current := *b.CurrentBid
	prob := Probability(b, current)
	if prob < ChallengeThreshold {
		p.logger.Debug("Challenging unlikely bid", "bid", current.String(), "probability", prob)
		return game.Challenge()
	}

	raise, ok := FindRaise(b, current)
	if !ok {
		p.logger.Debug("No plausible raise, challenging", "bid", current.String(), "probability", prob)
		return game.Challenge()
	}

	p.logger.Debug("Raising", "from", current.String(), "to", raise.String(), "probability", prob)
	return game.Action{Kind: game.BidAction, Bid: raise}
}

// OpeningBid bids the face the hand holds most of, at exactly that count.
// Ties go to the lowest face. An empty hand yields a zero-count bid on face 1.
func OpeningBid(hand []int) game.Bid {
	best := game.Bid{Count: 0, Face: 1}
	for face := 1; face <= dice.Faces; face++ {
		if n := dice.Count(hand, face); n > best.Count {
			best = game.Bid{Count: n, Face: face}
		}
	}
	return best
}

// FindRaise searches every legal raise over current, face by face then count
// by count, and returns the one scoring highest. A candidate scores its
// probability plus OwnFaceBonus per die of that face in hand; candidates under
// RaiseThreshold are skipped and the first candidate seen wins a tie.
func FindRaise(b game.Belief, current game.Bid) (game.Bid, bool) {
	var (
		best      game.Bid
		bestScore float64
		found     bool
	)

	total := b.OwnDiceCount + b.UnseenDiceCount
	for face := 1; face <= dice.Faces; face++ {
		own := dice.Count(b.OwnDice, face)
		bonus := 0.0
		if own > 0 {
			bonus = float64(own) * OwnFaceBonus
		}

		for count := 1; count <= total; count++ {
			candidate := game.Bid{Count: count, Face: face}
			if !current.IsValidRaise(candidate) {
				continue
			}

			prob := Probability(b, candidate)
			if prob < RaiseThreshold {
				continue
			}

			if score := prob + bonus; !found || score > bestScore {
				best, bestScore, found = candidate, score, true
			}
		}
	}

	return best, found
}

// Probability estimates the chance that bid is true given only the
// opponent's own dice and the number of dice it cannot see.
func Probability(b game.Belief, bid game.Bid) float64 {
	own := dice.Count(b.OwnDice, bid.Face)
	if bid.Count <= own {
		return 1.0
	}

	needed := bid.Count - own
	n := b.UnseenDiceCount
	if needed > n {
		return 0.0
	}

	return AtLeast(n, needed, faceProbability)
}
