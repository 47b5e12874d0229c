package game

import (
	"fmt"

	"github.com/lox/liarsdice/internal/dice"
)

// Bid claims that at least Count dice across both hands show Face
type Bid struct {
	Count int
	Face  int
}

// String returns the string representation of the bid
func (b Bid) String() string {
	return fmt.Sprintf("%d×%d", b.Count, b.Face)
}

// Valid reports whether the bid satisfies the basic range constraints
func (b Bid) Valid() bool {
	return dice.ValidFace(b.Face) && b.Count >= 1
}

// IsValidRaise reports whether candidate may follow b. Bids are ordered by
// count, then face; an out of range candidate is never a raise.
func (b Bid) IsValidRaise(candidate Bid) bool {
	if !candidate.Valid() {
		return false
	}
	return candidate.Count > b.Count || (candidate.Count == b.Count && candidate.Face > b.Face)
}

// ActionKind distinguishes the two moves available on a turn
type ActionKind int

const (
	BidAction ActionKind = iota
	ChallengeAction
)

// String returns the string representation of the action kind
func (k ActionKind) String() string {
	switch k {
	case BidAction:
		return "bid"
	case ChallengeAction:
		return "challenge"
	default:
		return "unknown"
	}
}

// Action is a single turn: either a bid or a challenge of the standing bid.
// Bid is only meaningful when Kind is BidAction.
type Action struct {
	Kind ActionKind
	Bid  Bid
}

// BidOf returns a bid action
func BidOf(count, face int) Action {
	return Action{Kind: BidAction, Bid: Bid{Count: count, Face: face}}
}

// Challenge returns a challenge action
func Challenge() Action {
	return Action{Kind: ChallengeAction}
}

// IsChallenge reports whether the action challenges the standing bid
func (a Action) IsChallenge() bool {
	return a.Kind == ChallengeAction
}

// String returns the string representation of the action
func (a Action) String() string {
	if a.IsChallenge() {
		return "challenge"
	}
	return "bid " + a.Bid.String()
}

// HistoryEntry records who took which action, in turn order
type HistoryEntry struct {
	Player Player
	Action Action
}
