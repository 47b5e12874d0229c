// Package session holds the single match a process serves. A Session is
// created once at startup and guards its engine with a mutex, so every
// operation, including the opponent's reply to a bid, is applied atomically.
package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/liarsdice/internal/game"
	"github.com/lox/liarsdice/internal/gameid"
)

// EventKind names something that happened in a match
type EventKind string

const (
	EventMatchStarted EventKind = "match_started"
	EventBid          EventKind = "bid"
	EventChallenge    EventKind = "challenge"
	EventRoundOver    EventKind = "round_over"
	EventGameOver     EventKind = "game_over"
	EventRoundStarted EventKind = "round_started"
)

// Event is one entry in the match log
type Event struct {
	Seq    int
	At     time.Time
	Kind   EventKind
	Round  int
	Player game.Player
	Bid    *game.Bid
	Result *game.RoundResult
	Winner *game.Player
}

// Snapshot is a view of the match together with its identifier
type Snapshot struct {
	MatchID string
	View    game.View
}

// subscriberBuffer is how many updates a subscriber may fall behind before
// further updates are dropped for it
const subscriberBuffer = 16

// Session serializes access to one game engine
type Session struct {
	mu      sync.Mutex
	engine  *game.Engine
	ids     *gameid.Generator
	clock   quartz.Clock
	logger  *log.Logger
	matchID string
	events  []Event
	nextSeq int

	subMu       sync.Mutex
	subscribers map[chan Snapshot]struct{}
}

// New creates a session around engine and starts a match
func New(engine *game.Engine, clock quartz.Clock, logger *log.Logger) *Session {
	s := &Session{
		engine:      engine,
		ids:         gameid.NewGenerator(clock, nil),
		clock:       clock,
		logger:      logger.WithPrefix("session"),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	s.mu.Lock()
	s.resetLocked(engine.View())
	s.mu.Unlock()
	return s
}

// StartGame replaces the current match with a new one
func (s *Session) StartGame() Snapshot {
	s.mu.Lock()
	view := s.engine.StartGame()
	s.resetLocked(view)
	snap := s.snapshotLocked(view)
	s.publish(snap)
	s.mu.Unlock()
	return snap
}

// PlayerBid places the human's bid; the opponent's reply is included
func (s *Session) PlayerBid(count, face int) (Snapshot, error) {
	return s.apply("bid", func() (game.View, error) {
		return s.engine.PlayerBid(count, face)
	})
}

// PlayerChallenge challenges the standing bid
func (s *Session) PlayerChallenge() (Snapshot, error) {
	return s.apply("challenge", s.engine.PlayerChallenge)
}

// NextRound starts the next round after a resolved challenge
func (s *Session) NextRound() (Snapshot, error) {
	return s.apply("next_round", s.engine.NextRound)
}

// GameState returns the current view without changing anything
func (s *Session) GameState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.engine.View())
}

// MatchID returns the identifier of the current match
func (s *Session) MatchID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchID
}

// Events returns the log entries with a sequence number greater than since
func (s *Session) Events(since int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, ev := range s.events {
		if ev.Seq > since {
			out = append(out, ev)
		}
	}
	return out
}

// Subscribe returns a channel that receives a snapshot after every change.
// A subscriber that falls behind misses updates rather than blocking play.
func (s *Session) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe stops updates to ch and closes it
func (s *Session) Unsubscribe(ch <-chan Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for sub := range s.subscribers {
		if sub == ch {
			delete(s.subscribers, sub)
			close(sub)
			return
		}
	}
}

func (s *Session) apply(op string, fn func() (game.View, error)) (Snapshot, error) {
	s.mu.Lock()
	before := s.engine.View()
	view, err := fn()
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("Rejected", "op", op, "error", err)
		return Snapshot{}, err
	}
	s.recordLocked(before, view)
	snap := s.snapshotLocked(view)
	// Published under mu so subscribers see snapshots in the order applied
	s.publish(snap)
	s.mu.Unlock()
	return snap, nil
}

func (s *Session) publish(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			s.logger.Warn("Subscriber behind, dropping update", "match", snap.MatchID)
		}
	}
}

func (s *Session) snapshotLocked(view game.View) Snapshot {
	return Snapshot{MatchID: s.matchID, View: view}
}

func (s *Session) resetLocked(view game.View) {
	s.matchID = s.ids.Generate()
	s.events = nil
	s.appendLocked(Event{Kind: EventMatchStarted, Round: view.Round})
	s.logger.Info("Match started", "match", s.matchID, "rounds", view.MaxRounds)
}

// recordLocked derives log entries from the difference between two views
// taken around a single operation.
func (s *Session) recordLocked(before, after game.View) {
	if after.Round != before.Round {
		s.appendLocked(Event{Kind: EventRoundStarted, Round: after.Round})
		s.logger.Info("Round started", "match", s.matchID, "round", after.Round)
		return
	}

	for _, entry := range after.History[len(before.History):] {
		ev := Event{Round: after.Round, Player: entry.Player, Kind: EventChallenge}
		if !entry.Action.IsChallenge() {
			bid := entry.Action.Bid
			ev.Kind = EventBid
			ev.Bid = &bid
		}
		s.appendLocked(ev)
	}

	switch phase := after.Phase.(type) {
	case game.RoundOver:
		result := phase.Result
		s.appendLocked(Event{Kind: EventRoundOver, Round: after.Round, Player: result.Winner, Result: &result})
		s.logger.Info("Round over", "match", s.matchID, "round", result.Round, "winner", result.Winner, "actual", result.ActualCount)
	case game.GameOver:
		winner := phase.Winner
		ev := Event{Kind: EventGameOver, Round: after.Round, Winner: &winner}
		if after.LastResult != nil {
			result := *after.LastResult
			ev.Result = &result
			ev.Player = result.Winner
		}
		s.appendLocked(ev)
		s.logger.Info("Match over", "match", s.matchID, "winner", winner, "human", after.HumanWins, "opponent", after.OpponentWins)
	}
}

func (s *Session) appendLocked(ev Event) {
	s.nextSeq++
	ev.Seq = s.nextSeq
	ev.At = s.clock.Now("session", "event")
	s.events = append(s.events, ev)
}
