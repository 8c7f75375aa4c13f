package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/arenagm/companion/internal/game"
	"github.com/arenagm/companion/internal/session"
)

// sessionResponse is returned by every session-touching route so the UI
// can re-render from the fresh snapshot. Ready distinguishes "no session"
// from "not yet hydrated".
type sessionResponse struct {
	Session *game.Session `json:"session"`
	Ready   bool          `json:"ready"`
}

func (s *Server) snapshot() sessionResponse {
	return sessionResponse{
		Session: s.store.Snapshot(),
		Ready:   s.store.Ready(),
	}
}

// handleGetSession handles GET /api/v1/session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleCreateSession handles POST /api/v1/session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var cfg session.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if _, err := s.store.CreateNew(cfg); err != nil {
		if errors.Is(err, session.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create session", err)
		return
	}

	writeJSON(w, http.StatusCreated, s.snapshot())
}

// handleClearSession handles DELETE /api/v1/session
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleExport handles GET /api/v1/session/export
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.store.Export()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeError(w, http.StatusNotFound, "no session loaded", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImport handles POST /api/v1/session/import. The body is the
// exported session document itself, no envelope.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body", nil)
		return
	}

	if err := s.store.Import(data); err != nil {
		if errors.Is(err, session.ErrInvalidImport) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "import failed", err)
		return
	}

	writeJSON(w, http.StatusOK, s.snapshot())
}
