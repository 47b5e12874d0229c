package game

import "github.com/lox/liarsdice/internal/dice"

const (
	// MaxDicePerPlayer is the hand size each side rolls every round
	MaxDicePerPlayer = 5

	// MaxRounds is the number of rounds in a match
	MaxRounds = 5
)

// State is the authoritative record of a match. Only the Engine mutates it.
type State struct {
	HumanDice         []int
	OpponentDice      []int
	HumanDiceCount    int
	OpponentDiceCount int
	Phase             Phase
	History           []HistoryEntry
	CurrentBid        *Bid
	CurrentTurn       Player
	Round             int
	MaxRounds         int
	HumanWins         int
	OpponentWins      int
	LastResult        *RoundResult
}

// NewState returns a fresh match state with both hands rolled by roll
func NewState(roll func(n int) []int) *State {
	s := &State{
		HumanDiceCount:    MaxDicePerPlayer,
		OpponentDiceCount: MaxDicePerPlayer,
		Phase:             PlayerTurn{},
		CurrentTurn:       Human,
		Round:             1,
		MaxRounds:         MaxRounds,
	}
	s.rollAll(roll)
	return s
}

// rollAll rerolls both hands and clears everything scoped to a round
func (s *State) rollAll(roll func(n int) []int) {
	s.HumanDice = roll(s.HumanDiceCount)
	s.OpponentDice = roll(s.OpponentDiceCount)
	s.History = nil
	s.CurrentBid = nil
	s.LastResult = nil
}

// CountFace returns how many dice across both hands show face
func (s *State) CountFace(face int) int {
	return dice.Count(s.HumanDice, face) + dice.Count(s.OpponentDice, face)
}

// Wins returns the cumulative round wins of p
func (s *State) Wins(p Player) int {
	if p == Human {
		return s.HumanWins
	}
	return s.OpponentWins
}

// View is what the human side is allowed to see: the opponent's hand is
// reduced to its size. Hands only appear in full inside a RoundResult.
type View struct {
	Phase             Phase
	HumanDice         []int
	HumanDiceCount    int
	OpponentDiceCount int
	History           []HistoryEntry
	CurrentBid        *Bid
	Round             int
	MaxRounds         int
	HumanWins         int
	OpponentWins      int
	LastResult        *RoundResult
}

// View returns an independent snapshot safe to hand outside the engine
func (s *State) View() View {
	v := View{
		Phase:             clonePhase(s.Phase),
		HumanDice:         cloneDice(s.HumanDice),
		HumanDiceCount:    s.HumanDiceCount,
		OpponentDiceCount: s.OpponentDiceCount,
		Round:             s.Round,
		MaxRounds:         s.MaxRounds,
		HumanWins:         s.HumanWins,
		OpponentWins:      s.OpponentWins,
	}
	if len(s.History) > 0 {
		v.History = make([]HistoryEntry, len(s.History))
		copy(v.History, s.History)
	}
	if s.CurrentBid != nil {
		bid := *s.CurrentBid
		v.CurrentBid = &bid
	}
	if s.LastResult != nil {
		result := s.LastResult.clone()
		v.LastResult = &result
	}
	return v
}

// Belief is everything the opponent may know when deciding: its own dice and
// the number of dice the human holds, never their values.
type Belief struct {
	OwnDice         []int
	OwnDiceCount    int
	UnseenDiceCount int
	CurrentBid      *Bid
}

// Belief builds the opponent's decision input from the current state
func (s *State) Belief() Belief {
	b := Belief{
		OwnDice:         cloneDice(s.OpponentDice),
		OwnDiceCount:    s.OpponentDiceCount,
		UnseenDiceCount: s.HumanDiceCount,
	}
	if s.CurrentBid != nil {
		bid := *s.CurrentBid
		b.CurrentBid = &bid
	}
	return b
}
