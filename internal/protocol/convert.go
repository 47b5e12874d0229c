package protocol

import (
	"errors"

	"github.com/lox/liarsdice/internal/game"
)

// FromView converts an engine view to its wire form
func FromView(matchID string, v game.View) GameState {
	gs := GameState{
		MatchID:           matchID,
		Phase:             FromPhase(v.Phase),
		HumanDice:         v.HumanDice,
		HumanDiceCount:    v.HumanDiceCount,
		OpponentDiceCount: v.OpponentDiceCount,
		BidHistory:        make([]HistoryEntry, 0, len(v.History)),
		CurrentRound:      v.Round,
		MaxRounds:         v.MaxRounds,
		HumanWins:         v.HumanWins,
		OpponentWins:      v.OpponentWins,
	}
	for _, entry := range v.History {
		gs.BidHistory = append(gs.BidHistory, HistoryEntry{
			Player: entry.Player.String(),
			Action: FromAction(entry.Action),
		})
	}
	if v.CurrentBid != nil {
		gs.CurrentBid = FromBid(v.CurrentBid)
	}
	if v.LastResult != nil {
		result := FromResult(*v.LastResult)
		gs.LastRoundResult = &result
	}
	return gs
}

// FromPhase converts a phase, exhaustively
func FromPhase(p game.Phase) Phase {
	switch p := p.(type) {
	case game.PlayerTurn:
		return Phase{Kind: PhasePlayerTurn}
	case game.OpponentTurn:
		return Phase{Kind: PhaseOpponentTurn}
	case game.RoundOver:
		result := FromResult(p.Result)
		return Phase{Kind: PhaseRoundOver, Result: &result}
	case game.GameOver:
		return Phase{Kind: PhaseGameOver, Winner: p.Winner.String()}
	default:
		panic("protocol: unhandled phase")
	}
}

// FromAction converts a turn action
func FromAction(a game.Action) Action {
	if a.IsChallenge() {
		return Action{Kind: game.ChallengeAction.String()}
	}
	return Action{Kind: game.BidAction.String(), Bid: FromBid(&a.Bid)}
}

// FromBid converts a bid
func FromBid(b *game.Bid) *Bid {
	return &Bid{Count: b.Count, Face: b.Face}
}

// FromResult converts a round result
func FromResult(r game.RoundResult) RoundResult {
	return RoundResult{
		Round:        r.Round,
		Winner:       r.Winner.String(),
		Loser:        r.Loser.String(),
		HumanDice:    r.HumanDice,
		OpponentDice: r.OpponentDice,
		Bid:          Bid{Count: r.Bid.Count, Face: r.Bid.Face},
		ActualCount:  r.ActualCount,
	}
}

// ErrorFor maps an engine error to a wire error with a stable code
func ErrorFor(err error) Error {
	code := CodeInternal
	switch {
	case errors.Is(err, game.ErrWrongPhase):
		code = CodeWrongPhase
	case errors.Is(err, game.ErrInvalidBid):
		code = CodeInvalidBid
	case errors.Is(err, game.ErrIllegalRaise):
		code = CodeIllegalRaise
	case errors.Is(err, game.ErrNoBid):
		code = CodeNoBid
	case errors.Is(err, game.ErrGameOver):
		code = CodeGameOver
	}
	return Error{Code: code, Message: err.Error()}
}

// Error implements the error interface so wire errors can travel as Go errors
// on the client side
func (e Error) Error() string {
	return e.Message
}
