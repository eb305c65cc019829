// Package server hosts remote seats over WebSocket. Each remote player
// claims a named seat; the seat then acts as the player's game.Decider.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/flip7/internal/game"
)

// Server represents the WebSocket server
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	names    []string
	seats    map[string]*Seat

	mu          sync.RWMutex
	connections map[*Connection]bool
	changed     chan struct{}
}

var _ game.Announcer = (*Server)(nil)

// NewServer creates a server with one seat per name
func NewServer(addr string, names []string, timeout time.Duration, clock quartz.Clock, logger *log.Logger) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		names:       slices.Clone(names),
		seats:       make(map[string]*Seat, len(names)),
		connections: make(map[*Connection]bool),
		changed:     make(chan struct{}, 1),
	}
	for _, name := range names {
		s.seats[name] = NewSeat(name, timeout, clock, logger)
	}
	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		s.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Starting WebSocket server", "addr", ln.Addr().String(), "seats", s.names)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every connection
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

// Names returns the seat names in order
func (s *Server) Names() []string {
	return slices.Clone(s.names)
}

// Seat returns the named seat
func (s *Server) Seat(name string) (*Seat, bool) {
	seat, ok := s.seats[name]
	return seat, ok
}

// Deciders returns every seat as a game.Decider keyed by name
func (s *Server) Deciders() map[string]game.Decider {
	out := make(map[string]game.Decider, len(s.seats))
	for name, seat := range s.seats {
		out[name] = seat
	}
	return out
}

// WaitForSeats blocks until every seat is occupied
func (s *Server) WaitForSeats(ctx context.Context) error {
	for {
		waiting := 0
		for _, seat := range s.seats {
			if !seat.Occupied() {
				waiting++
			}
		}
		if waiting == 0 {
			return nil
		}
		s.logger.Info("Waiting for players", "empty", waiting)

		select {
		case <-s.changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Announce broadcasts game narration to every connection
func (s *Server) Announce(text string) {
	msg, err := NewMessage(MessageTypeLog, LogData{Text: text})
	if err != nil {
		s.logger.Error("Failed to create log message", "error", err)
		return
	}
	s.broadcast(msg)
}

// Finish broadcasts the final standings
func (s *Server) Finish(res *game.Result) {
	msg, err := NewMessage(MessageTypeGameOver, GameOverData{Winners: res.Winners, Standings: res.Standings})
	if err != nil {
		s.logger.Error("Failed to create game over message", "error", err)
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		_ = conn.SendMessage(msg)
	}
}

// claimSeat gives the named seat to conn
func (s *Server) claimSeat(name string, conn *Connection) (*Seat, int, error) {
	seat, ok := s.seats[name]
	if !ok {
		return nil, 0, fmt.Errorf("no seat named %q (seats: %v)", name, s.names)
	}
	if err := seat.attach(conn); err != nil {
		return nil, 0, err
	}
	s.notify()
	return seat, slices.Index(s.names, name), nil
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	if seat := conn.Seat(); seat != nil {
		seat.detach(conn)
		s.notify()
		s.logger.Info("Player left seat", "player", seat.Name())
	}
	s.logger.Info("Client disconnected", "total", total)
}

func (s *Server) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register(client)
	client.Start()
}

// handleHealth reports seat occupancy
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	occupied := 0
	for _, seat := range s.seats {
		if seat.Occupied() {
			occupied++
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK %d/%d seats\n", occupied, len(s.seats))
}
