package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/chipswap/internal/game"
)

// Server owns the WebSocket endpoint and the set of live connections. It is
// the broadcaster: the coordinator hands it finished messages addressed by
// connection id and it delivers them, fire-and-forget.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[game.ConnectionID]*Connection
	coordinator *Coordinator
	clock       quartz.Clock
	logger      *log.Logger
	httpServer  *http.Server
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer(addr string, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[game.ConnectionID]*Connection),
		clock:       clock,
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetCoordinator sets the connection coordinator for the server
func (s *Server) SetCoordinator(coordinator *Coordinator) {
	s.coordinator = coordinator
}

// Start starts the WebSocket server and blocks until it is stopped
func (s *Server) Start() error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.routes()}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// routes builds the HTTP surface: the WebSocket upgrade endpoint plus the
// health and room-listing endpoints.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/rooms", s.handleRooms)
	return r
}

// Stop stops the WebSocket server and closes all connections
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for _, conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// registerConnection adds a connection to the live set. Registration happens
// before the read pump starts so the first action's broadcasts can reach the
// sender.
func (s *Server) registerConnection(conn *Connection) {
	s.mu.Lock()
	s.connections[conn.ID()] = conn
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "id", conn.ID(), "total", total)
}

// unregisterConnection removes a connection and unseats its player.
func (s *Server) unregisterConnection(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn.ID()]
	if ok {
		delete(s.connections, conn.ID())
	}
	total := len(s.connections)
	s.mu.Unlock()

	if !ok {
		return
	}

	if s.coordinator != nil {
		s.coordinator.LeaveOrDisconnect(conn.ID())
	}
	_ = conn.Close()
	s.logger.Info("Client disconnected", "id", conn.ID(), "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	id := game.ConnectionID(uuid.NewString())
	conn := NewConnection(id, wsConn, s.coordinator, s.clock, s.logger)
	s.registerConnection(conn)
	conn.Start()

	go func() {
		select {
		case <-conn.ctx.Done():
		case <-s.ctx.Done():
		}
		s.unregisterConnection(conn)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleRooms serves the lobby discovery listing. It never exposes card
// state, only room names and occupancy.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if s.coordinator == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.coordinator.ListRooms()); err != nil {
		s.logger.Error("Failed to encode room listing", "error", err)
	}
}

// SendTo delivers a message to one connection. Unknown recipients and full
// send buffers are dropped silently; delivery is fire-and-forget.
func (s *Server) SendTo(id game.ConnectionID, msg *Message) {
	s.mu.RLock()
	conn := s.connections[id]
	s.mu.RUnlock()

	if conn == nil {
		s.logger.Debug("Dropping message for unknown connection", "id", id, "type", msg.Type)
		return
	}

	if err := conn.SendMessage(msg); err != nil {
		s.logger.Error("Failed to send message to client", "error", err, "id", id, "type", msg.Type)
	}
}
