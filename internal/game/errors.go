package game

import "errors"

// Errors returned by Engine operations. They are wrapped with a readable
// message, so match them with errors.Is.
var (
	ErrWrongPhase   = errors.New("wrong phase")
	ErrInvalidBid   = errors.New("invalid bid")
	ErrIllegalRaise = errors.New("illegal raise")
	ErrNoBid        = errors.New("no bid to challenge")
	ErrGameOver     = errors.New("game is over")
)
