package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Server is the relay HTTP server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	store      *Store
}

// NewServer creates a relay server over the given store.
func NewServer(addr string, store *Store) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:   mux,
		store: store,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/session", s.handleGetSession)
	s.mux.HandleFunc("POST /api/session", s.handlePostSession)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
}

// Handler returns the route handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.mux
}

// sessionEnvelope is the wire shape for both directions: the pushed body
// and the pulled response.
type sessionEnvelope struct {
	Session json.RawMessage `json:"session"`
}

// handleGetSession returns the most recently updated session document.
// Absence is not an error: the response is {"session": null} with 200.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.GetLatest(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch session", err)
		return
	}
	if data == nil {
		data = json.RawMessage("null")
	}
	writeJSON(w, http.StatusOK, sessionEnvelope{Session: data})
}

// handlePostSession upserts the pushed session document, keyed by its id.
func (s *Server) handlePostSession(w http.ResponseWriter, r *http.Request) {
	var body sessionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	id, err := sessionID(body.Session)
	if err != nil || id == "" {
		writeError(w, http.StatusBadRequest, "session data with id is required", nil)
		return
	}

	if err := s.store.Upsert(r.Context(), id, body.Session); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionID extracts the id field from a raw session document without
// decoding the whole thing.
func sessionID(raw json.RawMessage) (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return probe.ID, nil
}

// writeJSON encodes v as JSON and writes it to the response. The encoding
// is buffered so errors are caught before headers go out.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("json encode failed: %v", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

// writeError writes a JSON error response. 5xx causes are logged; clients
// only see the public message.
func writeError(w http.ResponseWriter, status int, public string, err error) {
	if status >= 500 && err != nil {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": public})
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
