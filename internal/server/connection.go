package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdice/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 64
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection represents a WebSocket connection to a client
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *protocol.Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *protocol.Message, sendBuffer),
		server: server,
		logger: logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection's unique identifier
func (c *Connection) ID() string {
	return c.id
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A client that stops reading
// is disconnected once its buffer fills.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
		return nil
	default:
	}
	c.mu.Unlock()

	c.logger.Warn("Connection send buffer full, closing connection")
	go func() { _ = c.Close() }() // Close takes c.mu; never call it while broadcasting
	return ErrConnectionClosed
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage applies a request and replies with the resulting state, or an
// error, carrying the request's id
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	if !msg.Type.IsRequest() {
		c.sendError(msg.RequestID, protocol.Error{
			Code:    protocol.CodeBadRequest,
			Message: "unknown message type: " + string(msg.Type),
		})
		return
	}

	snap, err := c.server.dispatch(msg.Type, msg.Decode)
	if err != nil {
		c.sendError(msg.RequestID, wireError(err))
		return
	}

	reply, err := protocol.NewMessage(protocol.TypeGameState, protocol.FromView(snap.MatchID, snap.View), msg.RequestID)
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	_ = c.SendMessage(reply) // Ignore send errors; the read loop notices closed connections
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID string, perr protocol.Error) {
	errorMsg, err := protocol.NewMessage(protocol.TypeError, perr, requestID)
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}
