// Package api provides the GM companion's HTTP API: the surface the
// (out-of-process) UI drives session mutations through.
package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/arenagm/companion/internal/roll"
	"github.com/arenagm/companion/internal/session"
)

// Server represents the companion HTTP API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux

	store *session.Store
	rng   *rand.Rand

	// Auth configuration
	authEnabled  bool
	authUsername string
	authPassword string

	limiter *RateLimiter

	version string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBasicAuth enables HTTP Basic Auth.
func WithBasicAuth(username, password string) ServerOption {
	return func(s *Server) {
		if username != "" && password != "" {
			s.authEnabled = true
			s.authUsername = username
			s.authPassword = password
		}
	}
}

// WithRateLimiter enables IP-based rate limiting.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = rl }
}

// WithVersion sets the version string reported by the health endpoint.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// WithRollRand sets the random source for the dice endpoint (for testing).
func WithRollRand(rng *rand.Rand) ServerOption {
	return func(s *Server) { s.rng = rng }
}

// NewServer creates a new API server over the given session store.
func NewServer(addr string, store *session.Store, opts ...ServerOption) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:     mux,
		store:   store,
		rng:     roll.NewRand(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// wrap applies auth and rate limiting middleware to a handler.
func (s *Server) wrap(h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	if s.authEnabled {
		handler = basicAuthMiddleware(s.authUsername, s.authPassword)(handler)
	}
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}
	return handler
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health endpoint (no auth required)
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	// Session lifecycle
	s.mux.Handle("GET /api/v1/session", s.wrap(s.handleGetSession))
	s.mux.Handle("POST /api/v1/session", s.wrap(s.handleCreateSession))
	s.mux.Handle("DELETE /api/v1/session", s.wrap(s.handleClearSession))
	s.mux.Handle("GET /api/v1/session/export", s.wrap(s.handleExport))
	s.mux.Handle("POST /api/v1/session/import", s.wrap(s.handleImport))

	// Players and commoners
	s.mux.Handle("PATCH /api/v1/players/{playerID}", s.wrap(s.handleUpdatePlayer))
	s.mux.Handle("PATCH /api/v1/players/{playerID}/commoners/{commonerID}", s.wrap(s.handleUpdateCommoner))
	s.mux.Handle("POST /api/v1/players/{playerID}/commoners/{commonerID}/hp", s.wrap(s.handleSetHP))
	s.mux.Handle("POST /api/v1/players/{playerID}/commoners/{commonerID}/conditions", s.wrap(s.handleAddCondition))
	s.mux.Handle("DELETE /api/v1/players/{playerID}/commoners/{commonerID}/conditions/{condition}", s.wrap(s.handleRemoveCondition))
	s.mux.Handle("POST /api/v1/players/{playerID}/commoners/{commonerID}/inventory", s.wrap(s.handleAssignCard))

	// Event lifecycle
	s.mux.Handle("POST /api/v1/events", s.wrap(s.handleStartEvent))
	s.mux.Handle("POST /api/v1/events/current/phase", s.wrap(s.handleSetPhase))
	s.mux.Handle("POST /api/v1/events/current/advance", s.wrap(s.handleAdvancePhase))
	s.mux.Handle("POST /api/v1/events/current/notes", s.wrap(s.handleEventNotes))
	s.mux.Handle("POST /api/v1/events/current/round/increment", s.wrap(s.handleIncrementRound))
	s.mux.Handle("POST /api/v1/events/current/round/decrement", s.wrap(s.handleDecrementRound))
	s.mux.Handle("POST /api/v1/events/current/end", s.wrap(s.handleEndEvent))
	s.mux.Handle("POST /api/v1/events/current/abandon", s.wrap(s.handleAbandonEvent))
	s.mux.Handle("GET /api/v1/templates", s.wrap(s.handleTemplates))

	// Loot decks
	s.mux.Handle("POST /api/v1/decks/{deck}/cards", s.wrap(s.handleAddCard))
	s.mux.Handle("DELETE /api/v1/decks/{deck}/cards/{cardID}", s.wrap(s.handleRemoveCard))
	s.mux.Handle("POST /api/v1/decks/{deck}/draw", s.wrap(s.handleDraw))
	s.mux.Handle("POST /api/v1/decks/{deck}/discard", s.wrap(s.handleDiscard))
	s.mux.Handle("POST /api/v1/decks/{deck}/shuffle", s.wrap(s.handleShuffle))

	// Dice, log, standings
	s.mux.Handle("POST /api/v1/roll", s.wrap(s.handleRoll))
	s.mux.Handle("POST /api/v1/log", s.wrap(s.handleAddLog))
	s.mux.Handle("GET /api/v1/stats", s.wrap(s.handleStats))
	s.mux.Handle("GET /api/v1/rules", s.wrap(s.handleRules))
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// Handler returns the route handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
