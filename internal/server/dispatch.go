package server

import (
	"github.com/lox/liarsdice/internal/protocol"
	"github.com/lox/liarsdice/internal/session"
)

// dispatch applies one request to the session. decode fills a request body
// and is only called for request types that carry one.
func (s *Server) dispatch(t protocol.MessageType, decode func(any) error) (session.Snapshot, error) {
	switch t {
	case protocol.TypeStartGame:
		return s.session.StartGame(), nil
	case protocol.TypeGetState:
		return s.session.GameState(), nil
	case protocol.TypeBid:
		var req protocol.BidRequest
		if err := decode(&req); err != nil {
			return session.Snapshot{}, protocol.Error{Code: protocol.CodeBadRequest, Message: err.Error()}
		}
		return s.session.PlayerBid(req.Count, req.Face)
	case protocol.TypeChallenge:
		return s.session.PlayerChallenge()
	case protocol.TypeNextRound:
		return s.session.NextRound()
	default:
		return session.Snapshot{}, protocol.Error{
			Code:    protocol.CodeBadRequest,
			Message: "unknown message type: " + string(t),
		}
	}
}

// wireError converts any dispatch error to its wire form
func wireError(err error) protocol.Error {
	if perr, ok := err.(protocol.Error); ok {
		return perr
	}
	return protocol.ErrorFor(err)
}
