package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/internal/dice"
)

// Engine drives a match: it validates and applies human actions, answers
// each human bid with the opponent's action in the same call, resolves
// challenges and advances rounds. An Engine is not safe for concurrent use;
// callers serialize access.
type Engine struct {
	state  *State
	roller Roller
	policy Decider
	logger *log.Logger
}

// NewEngine creates an engine with a match already started
func NewEngine(roller Roller, policy Decider, logger *log.Logger) *Engine {
	e := &Engine{
		roller: roller,
		policy: policy,
		logger: logger.WithPrefix("engine"),
	}
	e.state = NewState(e.roller.Roll)
	return e
}

// View returns the current redacted view without changing anything
func (e *Engine) View() View {
	return e.state.View()
}

// StartGame discards the current match and starts a fresh one
func (e *Engine) StartGame() View {
	e.state = NewState(e.roller.Roll)
	e.logger.Debug("Match started", "maxRounds", e.state.MaxRounds, "dice", e.state.HumanDiceCount)
	return e.state.View()
}

// PlayerBid places a human bid and lets the opponent answer it
func (e *Engine) PlayerBid(count, face int) (View, error) {
	if _, ok := e.state.Phase.(PlayerTurn); !ok {
		return View{}, fmt.Errorf("%w: not player's turn", ErrWrongPhase)
	}
	if !dice.ValidFace(face) {
		return View{}, fmt.Errorf("%w: face must be between 1 and %d", ErrInvalidBid, dice.Faces)
	}
	if count < 1 {
		return View{}, fmt.Errorf("%w: count must be at least 1", ErrInvalidBid)
	}

	bid := Bid{Count: count, Face: face}
	if current := e.state.CurrentBid; current != nil && !current.IsValidRaise(bid) {
		return View{}, fmt.Errorf("%w: %s does not raise %s", ErrIllegalRaise, bid, *current)
	}

	e.placeBid(Human, bid)
	e.state.CurrentTurn = Opponent
	e.state.Phase = OpponentTurn{}

	e.opponentTurn()
	return e.state.View(), nil
}

// PlayerChallenge disputes the standing bid on the human's behalf
func (e *Engine) PlayerChallenge() (View, error) {
	if _, ok := e.state.Phase.(PlayerTurn); !ok {
		return View{}, fmt.Errorf("%w: not player's turn", ErrWrongPhase)
	}
	if e.state.CurrentBid == nil {
		return View{}, fmt.Errorf("%w: the round has no standing bid", ErrNoBid)
	}

	e.challenge(Human)
	return e.state.View(), nil
}

// NextRound rerolls both hands and hands the turn back to the human
func (e *Engine) NextRound() (View, error) {
	switch e.state.Phase.(type) {
	case RoundOver:
	case GameOver:
		return View{}, ErrGameOver
	default:
		return View{}, fmt.Errorf("%w: can only move to next round after round over", ErrWrongPhase)
	}

	e.state.Round++
	e.state.rollAll(e.roller.Roll)
	e.state.Phase = PlayerTurn{}
	e.state.CurrentTurn = Human
	e.logger.Debug("Round started", "round", e.state.Round)
	return e.state.View(), nil
}

func (e *Engine) opponentTurn() {
	action := e.policy.Decide(e.state.Belief())
	if !action.IsChallenge() && !e.state.CurrentBid.IsValidRaise(action.Bid) {
		e.logger.Error("Opponent bid does not raise, challenging instead",
			"bid", action.Bid.String(),
			"current", e.state.CurrentBid.String())
		action = Challenge()
	}
	if action.IsChallenge() {
		e.challenge(Opponent)
		return
	}

	e.placeBid(Opponent, action.Bid)
	e.state.CurrentTurn = Human
	e.state.Phase = PlayerTurn{}
}

func (e *Engine) placeBid(p Player, bid Bid) {
	e.state.CurrentBid = &bid
	e.state.History = append(e.state.History, HistoryEntry{Player: p, Action: Action{Kind: BidAction, Bid: bid}})
	e.logger.Debug("Bid placed", "player", p, "count", bid.Count, "face", bid.Face)
}

func (e *Engine) challenge(challenger Player) {
	e.state.History = append(e.state.History, HistoryEntry{Player: challenger, Action: Challenge()})
	result := e.resolveChallenge(challenger)
	e.applyRoundResult(result)
}

// resolveChallenge decides the round. A bid that is met or exceeded holds
// and the bidder wins; otherwise the challenger wins.
func (e *Engine) resolveChallenge(challenger Player) RoundResult {
	bid := e.state.CurrentBid
	if bid == nil {
		panic("game: challenge resolved without a standing bid")
	}

	actual := e.state.CountFace(bid.Face)
	bidder := challenger.Other()

	winner, loser := challenger, bidder
	if actual >= bid.Count {
		winner, loser = bidder, challenger
	}

	e.logger.Debug("Challenge resolved",
		"challenger", challenger,
		"bid", bid.String(),
		"actual", actual,
		"winner", winner)

	return RoundResult{
		Round:        e.state.Round,
		Winner:       winner,
		Loser:        loser,
		HumanDice:    cloneDice(e.state.HumanDice),
		OpponentDice: cloneDice(e.state.OpponentDice),
		Bid:          *bid,
		ActualCount:  actual,
	}
}

// applyRoundResult tallies the win and either closes the round or, after the
// last round, the match. A tied match goes to the human.
func (e *Engine) applyRoundResult(result RoundResult) {
	stored := result.clone()
	e.state.LastResult = &stored

	if result.Winner == Human {
		e.state.HumanWins++
	} else {
		e.state.OpponentWins++
	}

	if e.state.Round >= e.state.MaxRounds {
		winner := Human
		if e.state.OpponentWins > e.state.HumanWins {
			winner = Opponent
		}
		e.state.Phase = GameOver{Winner: winner}
		e.logger.Debug("Match over", "winner", winner, "human", e.state.HumanWins, "opponent", e.state.OpponentWins)
		return
	}

	e.state.Phase = RoundOver{Result: result}
}
