package tui

import (
	"context"

	"github.com/lox/liarsdice/internal/protocol"
	"github.com/lox/liarsdice/internal/session"
)

// Backend is whatever the terminal front end plays against: a session in the
// same process or a remote server through client.Client.
type Backend interface {
	GameState(ctx context.Context) (protocol.GameState, error)
	StartGame(ctx context.Context) (protocol.GameState, error)
	Bid(ctx context.Context, count, face int) (protocol.GameState, error)
	Challenge(ctx context.Context) (protocol.GameState, error)
	NextRound(ctx context.Context) (protocol.GameState, error)
}

// Notifier is implemented by backends that push state changes made
// elsewhere, such as another client of the same server.
type Notifier interface {
	Updates() <-chan protocol.GameState
}

// LocalBackend plays against a session in the same process
type LocalBackend struct {
	session *session.Session
}

// NewLocalBackend wraps sess
func NewLocalBackend(sess *session.Session) *LocalBackend {
	return &LocalBackend{session: sess}
}

func (b *LocalBackend) GameState(context.Context) (protocol.GameState, error) {
	return toWire(b.session.GameState(), nil)
}

func (b *LocalBackend) StartGame(context.Context) (protocol.GameState, error) {
	return toWire(b.session.StartGame(), nil)
}

func (b *LocalBackend) Bid(_ context.Context, count, face int) (protocol.GameState, error) {
	return toWire(b.session.PlayerBid(count, face))
}

func (b *LocalBackend) Challenge(context.Context) (protocol.GameState, error) {
	return toWire(b.session.PlayerChallenge())
}

func (b *LocalBackend) NextRound(context.Context) (protocol.GameState, error) {
	return toWire(b.session.NextRound())
}

func toWire(snap session.Snapshot, err error) (protocol.GameState, error) {
	if err != nil {
		return protocol.GameState{}, protocol.ErrorFor(err)
	}
	return protocol.FromView(snap.MatchID, snap.View), nil
}
