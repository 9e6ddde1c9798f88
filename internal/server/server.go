// Package server exposes a blackjack session over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/game"
)

const shutdownTimeout = 5 * time.Second

// Server serves one game session to any number of clients
type Server struct {
	session     *Session
	upgrader    websocket.Upgrader
	router      chi.Router
	logger      *log.Logger
	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewServer creates a server around session and subscribes to its changes
func NewServer(session *Session, logger *log.Logger) *Server {
	s := &Server{
		session: session,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Same policy as the CORS middleware: any origin may watch
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
	s.router = s.routes()
	session.OnChange(s.Broadcast)
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	r.Post("/actions", s.handleAction)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting blackjack server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	s.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Stop closes every websocket connection and cancels pending dealer steps
func (s *Server) Stop() {
	s.session.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
		delete(s.connections, conn)
	}
}

// ConnectionCount returns the number of open websocket clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// Broadcast pushes a snapshot to every connected client
func (s *Server) Broadcast(snap game.Snapshot) {
	msg, err := NewMessage(MessageTypeSnapshot, NewTableView(snap))
	if err != nil {
		s.logger.Error("Failed to encode snapshot", "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err == nil {
			count++
		}
	}
	s.logger.Debug("Broadcast snapshot", "state", snap.State, "recipients", count)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.session, s.logger)

	// Holding the session lock orders the initial snapshot before any broadcast
	var total int
	s.session.WithSnapshot(func(snap game.Snapshot) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.connections[client] = true
		total = len(s.connections)
		if msg, err := NewMessage(MessageTypeSnapshot, NewTableView(snap)); err == nil {
			_ = client.SendMessage(msg)
		}
	})

	s.logger.Info("Client connected", "remote", r.RemoteAddr, "total", total)
	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "remote", r.RemoteAddr, "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewTableView(s.session.Snapshot()))
}

// ActionResponse is returned from POST /actions
type ActionResponse struct {
	Error string    `json:"error,omitempty"`
	State TableView `json:"state"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorData{Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorData{Action: req.Type, Message: err.Error()})
		return
	}

	snap, err := s.session.Apply(req)
	resp := ActionResponse{State: NewTableView(snap)}
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
