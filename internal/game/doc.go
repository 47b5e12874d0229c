// Package game implements the rules of a two-player Liar's Dice match.
//
// The main type is Engine, which owns the authoritative State of a match:
// both hidden hands, the bid history, the current phase and the running
// score. A match is a fixed number of rounds; each round is a sequence of
// bids ended by a challenge.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	e := game.NewEngine(dice.NewRoller(rng, game.MaxDicePerPlayer), opponent.NewPolicy(logger), logger)
//	view, err := e.PlayerBid(2, 3) // the opponent answers before this returns
//	if errors.Is(err, game.ErrIllegalRaise) {
//	    // ...
//	}
//
// # Phases
//
// Phase is a closed set of types. The human acts in PlayerTurn. OpponentTurn
// only exists inside PlayerBid. A challenge moves the match to RoundOver,
// or to GameOver after the final round.
//
// # Hidden Information
//
// Callers only ever receive a View, which carries the size of the opponent's
// hand but not its dice. The opponent's Decider receives a Belief, which
// carries its own dice and the size of the human's hand.
package game
