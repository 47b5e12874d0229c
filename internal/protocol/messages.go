// Package protocol defines the JSON wire format shared by the server, the
// websocket client and the terminal front end.
package protocol

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeStartGame MessageType = "start_game"
	TypeBid       MessageType = "bid"
	TypeChallenge MessageType = "challenge"
	TypeNextRound MessageType = "next_round"
	TypeGetState  MessageType = "get_state"

	// Server -> Client
	TypeGameState MessageType = "game_state"
	TypeError     MessageType = "error"
)

// Phase kinds
const (
	PhasePlayerTurn   = "player_turn"
	PhaseOpponentTurn = "opponent_turn"
	PhaseRoundOver    = "round_over"
	PhaseGameOver     = "game_over"
)

// Message is the websocket envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// Client -> Server

// BidRequest places a bid
type BidRequest struct {
	Count int `json:"count"`
	Face  int `json:"face"`
}

// Server -> Client

// Bid is a claim of at least Count dice showing Face
type Bid struct {
	Count int `json:"count"`
	Face  int `json:"face"`
}

// Action is a bid or a challenge
type Action struct {
	Kind string `json:"kind"` // bid, challenge
	Bid  *Bid   `json:"bid,omitempty"`
}

// HistoryEntry is one turn of the current round
type HistoryEntry struct {
	Player string `json:"player"`
	Action Action `json:"action"`
}

// RoundResult reveals both hands after a challenge
type RoundResult struct {
	Round        int    `json:"round"`
	Winner       string `json:"winner"`
	Loser        string `json:"loser"`
	HumanDice    []int  `json:"humanDice"`
	OpponentDice []int  `json:"opponentDice"`
	Bid          Bid    `json:"lastBid"`
	ActualCount  int    `json:"actualCount"`
}

// Phase carries a result when the round is over and a winner when the game is
type Phase struct {
	Kind   string       `json:"kind"`
	Result *RoundResult `json:"result,omitempty"`
	Winner string       `json:"winner,omitempty"`
}

// GameState is the human's view of the match
type GameState struct {
	MatchID           string         `json:"matchId"`
	Phase             Phase          `json:"phase"`
	HumanDice         []int          `json:"humanDice"`
	HumanDiceCount    int            `json:"humanDiceCount"`
	OpponentDiceCount int            `json:"opponentDiceCount"`
	BidHistory        []HistoryEntry `json:"bidHistory"`
	CurrentBid        *Bid           `json:"currentBid,omitempty"`
	CurrentRound      int            `json:"currentRound"`
	MaxRounds         int            `json:"maxRounds"`
	HumanWins         int            `json:"humanWins"`
	OpponentWins      int            `json:"opponentWins"`
	LastRoundResult   *RoundResult   `json:"lastRoundResult,omitempty"`
}

// Event is one entry of the match log
type Event struct {
	Seq    int          `json:"seq"`
	At     time.Time    `json:"at"`
	Kind   string       `json:"kind"`
	Round  int          `json:"round"`
	Player string       `json:"player,omitempty"`
	Bid    *Bid         `json:"bid,omitempty"`
	Result *RoundResult `json:"result,omitempty"`
	Winner string       `json:"winner,omitempty"`
}

// EventList is the response of the event log endpoint
type EventList struct {
	MatchID string  `json:"matchId"`
	Events  []Event `json:"events"`
}

// Error reports a rejected request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeWrongPhase   = "wrong_phase"
	CodeInvalidBid   = "invalid_bid"
	CodeIllegalRaise = "illegal_raise"
	CodeNoBid        = "no_bid"
	CodeGameOver     = "game_over"
	CodeBadRequest   = "bad_request"
	CodeInternal     = "internal"
)
