package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/lox/liarsdice/internal/protocol"
	"github.com/lox/liarsdice/internal/session"
)

const maxBodySize = 4096

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, protocol.TypeGetState)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, protocol.TypeStartGame)
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, protocol.TypeBid)
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, protocol.TypeChallenge)
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, protocol.TypeNextRound)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, t protocol.MessageType) {
	decode := func(v any) error {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("invalid JSON body: %w", err)
		}
		return nil
	}

	snap, err := s.dispatch(t, decode)
	if err != nil {
		s.writeError(w, wireError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, protocol.FromView(snap.MatchID, snap.View))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, protocol.Error{Code: protocol.CodeBadRequest, Message: "since must be a non-negative integer"})
			return
		}
		since = n
	}

	list := protocol.EventList{
		MatchID: s.session.MatchID(),
		Events:  []protocol.Event{},
	}
	for _, ev := range s.session.Events(since) {
		list.Events = append(list.Events, eventToWire(ev))
	}
	s.writeJSON(w, http.StatusOK, list)
}

func eventToWire(ev session.Event) protocol.Event {
	out := protocol.Event{
		Seq:   ev.Seq,
		At:    ev.At,
		Kind:  string(ev.Kind),
		Round: ev.Round,
	}
	switch {
	case ev.Kind == session.EventBid, ev.Kind == session.EventChallenge, ev.Result != nil:
		out.Player = ev.Player.String()
	}
	if ev.Bid != nil {
		out.Bid = protocol.FromBid(ev.Bid)
	}
	if ev.Result != nil {
		result := protocol.FromResult(*ev.Result)
		out.Result = &result
	}
	if ev.Winner != nil {
		out.Winner = ev.Winner.String()
	}
	return out
}

// statusFor maps wire error codes to HTTP statuses
func statusFor(code string) int {
	switch code {
	case protocol.CodeInvalidBid, protocol.CodeIllegalRaise, protocol.CodeBadRequest:
		return http.StatusBadRequest
	case protocol.CodeWrongPhase, protocol.CodeNoBid, protocol.CodeGameOver:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, perr protocol.Error) {
	s.logger.Debug("Request rejected", "code", perr.Code, "message", perr.Message)
	s.writeJSON(w, statusFor(perr.Code), perr)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		s.logger.Error("Failed to write response", "error", err)
	}
}
