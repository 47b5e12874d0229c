// Package server exposes a liarsdice session over HTTP and websockets. Every
// request is forwarded to the session, which serializes access to the match;
// state changes are pushed to all websocket connections.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdice/internal/protocol"
	"github.com/lox/liarsdice/internal/session"
	"github.com/rs/cors"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

// Server represents the HTTP and WebSocket server
type Server struct {
	session     *session.Session
	logger      *log.Logger
	upgrader    websocket.Upgrader
	handler     http.Handler
	httpServer  *http.Server
	connections map[*Connection]struct{}
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	updates     <-chan session.Snapshot
	done        chan struct{}

	allowedOrigins []string
	accessLog      io.Writer
}

// Option configures a Server
type Option func(*Server)

// WithAllowedOrigins restricts cross-origin HTTP and websocket requests. "*"
// allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithAccessLog writes a combined-format access log line per request to w
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

// NewServer creates a server for sess and starts pushing its updates
func NewServer(sess *session.Session, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		session:        sess,
		logger:         logger.WithPrefix("server"),
		connections:    make(map[*Connection]struct{}),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	s.handler = s.buildHandler()
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	s.updates = sess.Subscribe()

	go s.run()
	return s
}

// Handler returns the complete HTTP handler, including CORS and access logging
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(s.handleHealth)
	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.handleWebSocket)

	r.Methods(http.MethodGet).Path("/game").HandlerFunc(s.handleGetState)

	g := r.PathPrefix("/game").Subrouter()
	g.Methods(http.MethodGet).Path("/events").HandlerFunc(s.handleEvents)
	g.Methods(http.MethodPost).Path("/start").HandlerFunc(s.handleStart)
	g.Methods(http.MethodPost).Path("/bid").HandlerFunc(s.handleBid)
	g.Methods(http.MethodPost).Path("/challenge").HandlerFunc(s.handleChallenge)
	g.Methods(http.MethodPost).Path("/next-round").HandlerFunc(s.handleNextRound)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	var h http.Handler = c.Handler(r)
	if s.accessLog != nil {
		h = handlers.CombinedLoggingHandler(s.accessLog, h)
	}
	return h
}

// Start listens on addr and serves until Shutdown
func (s *Server) Start(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(l)
}

// Serve serves on an existing listener until Shutdown. After Shutdown it
// closes l and returns immediately.
func (s *Server) Serve(l net.Listener) error {
	if s.ctx.Err() != nil {
		_ = l.Close()
		return nil
	}

	s.logger.Info("Starting server", "addr", l.Addr().String())
	err := s.httpServer.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, closes websocket connections and stops
// the update pump
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.session.Unsubscribe(s.updates)
	<-s.done

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// run forwards session updates to every websocket connection
func (s *Server) run() {
	defer close(s.done)
	for {
		select {
		case snap, ok := <-s.updates:
			if !ok {
				return
			}
			msg, err := protocol.NewMessage(protocol.TypeGameState, protocol.FromView(snap.MatchID, snap.View), "")
			if err != nil {
				s.logger.Error("Failed to build state message", "error", err)
				continue
			}
			s.broadcast(msg)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) broadcast(msg *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err, "conn", conn.ID())
		} else {
			count++
		}
	}
	s.logger.Debug("Broadcasted state", "recipients", count)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "conn", conn.ID(), "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)
}

// ConnectionCount returns the number of open websocket connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s, s.logger)
	s.register(conn)
	conn.Start()

	go func() {
		<-conn.Done()
		s.unregister(conn)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
