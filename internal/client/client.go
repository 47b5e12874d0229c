// Package client talks to a liarsdice server over its websocket endpoint.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdice/internal/protocol"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 54 * time.Second
	updateBuffer = 16
)

// ErrClosed is returned for requests on a closed client
var ErrClosed = errors.New("client closed")

// Client represents a WebSocket client for a liarsdice server
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	updates   chan protocol.GameState
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	nextID    atomic.Uint64

	mu        sync.Mutex
	connected bool
	pending   map[string]chan *protocol.Message
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *protocol.Message, 64),
		updates:   make(chan protocol.GameState, updateBuffer),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]chan *protocol.Message),
	}
}

// WebSocketURL converts a server base URL to its websocket endpoint
func WebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	wsURL, err := WebSocketURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Close closes the WebSocket connection and fails outstanding requests
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
		}
		c.connected = false
		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Updates delivers every game state the server pushes. Updates are dropped
// while the channel is full.
func (c *Client) Updates() <-chan protocol.GameState {
	return c.updates
}

// StartGame begins a new match
func (c *Client) StartGame(ctx context.Context) (protocol.GameState, error) {
	return c.request(ctx, protocol.TypeStartGame, nil)
}

// GameState fetches the current state
func (c *Client) GameState(ctx context.Context) (protocol.GameState, error) {
	return c.request(ctx, protocol.TypeGetState, nil)
}

// Bid places the human's bid
func (c *Client) Bid(ctx context.Context, count, face int) (protocol.GameState, error) {
	return c.request(ctx, protocol.TypeBid, protocol.BidRequest{Count: count, Face: face})
}

// Challenge challenges the standing bid
func (c *Client) Challenge(ctx context.Context) (protocol.GameState, error) {
	return c.request(ctx, protocol.TypeChallenge, nil)
}

// NextRound moves on after a resolved round
func (c *Client) NextRound(ctx context.Context) (protocol.GameState, error) {
	return c.request(ctx, protocol.TypeNextRound, nil)
}

// request sends a message and waits for the reply carrying its id. Rejections
// are returned as protocol.Error.
func (c *Client) request(ctx context.Context, t protocol.MessageType, data any) (protocol.GameState, error) {
	if err := ctx.Err(); err != nil {
		return protocol.GameState{}, err
	}

	id := strconv.FormatUint(c.nextID.Add(1), 10)
	msg, err := protocol.NewMessage(t, data, id)
	if err != nil {
		return protocol.GameState{}, err
	}

	reply := make(chan *protocol.Message, 1)
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return protocol.GameState{}, ErrClosed
	}
	c.pending[id] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	select {
	case c.send <- msg:
	case <-ctx.Done():
		return protocol.GameState{}, ctx.Err()
	case <-c.ctx.Done():
		return protocol.GameState{}, ErrClosed
	}

	select {
	case resp := <-reply:
		return decodeReply(resp)
	case <-ctx.Done():
		return protocol.GameState{}, ctx.Err()
	case <-c.ctx.Done():
		return protocol.GameState{}, ErrClosed
	}
}

func decodeReply(msg *protocol.Message) (protocol.GameState, error) {
	switch msg.Type {
	case protocol.TypeGameState:
		var gs protocol.GameState
		if err := msg.Decode(&gs); err != nil {
			return protocol.GameState{}, err
		}
		return gs, nil
	case protocol.TypeError:
		var perr protocol.Error
		if err := msg.Decode(&perr); err != nil {
			return protocol.GameState{}, err
		}
		return protocol.GameState{}, perr
	default:
		return protocol.GameState{}, fmt.Errorf("%w: %s", protocol.ErrUnknownMessageType, msg.Type)
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.cancel()
	}()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)
		c.handleMessage(&msg)
	}
}

// handleMessage routes replies to their waiting request and pushes states
// without one to Updates
func (c *Client) handleMessage(msg *protocol.Message) {
	if msg.RequestID != "" {
		c.mu.Lock()
		reply, ok := c.pending[msg.RequestID]
		c.mu.Unlock()
		if ok {
			reply <- msg
			return
		}
	}

	if msg.Type != protocol.TypeGameState {
		c.logger.Debug("Ignoring unsolicited message", "type", msg.Type)
		return
	}

	var gs protocol.GameState
	if err := msg.Decode(&gs); err != nil {
		c.logger.Error("Failed to decode pushed state", "error", err)
		return
	}
	select {
	case c.updates <- gs:
	default:
		c.logger.Debug("Update channel full, dropping state")
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
