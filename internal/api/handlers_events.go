package api

import (
	"net/http"

	"github.com/arenagm/companion/internal/game"
	"github.com/arenagm/companion/internal/session"
)

// handleStartEvent handles POST /api/v1/events
func (s *Server) handleStartEvent(w http.ResponseWriter, r *http.Request) {
	var draft session.EventDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if draft.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", nil)
		return
	}

	s.store.StartEvent(draft)
	writeJSON(w, http.StatusCreated, s.snapshot())
}

// handleSetPhase handles POST /api/v1/events/current/phase
func (s *Server) handleSetPhase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phase game.EventPhase `json:"phase"`
	}
	if err := decodeBody(r, &body); err != nil || !body.Phase.Valid() {
		writeError(w, http.StatusBadRequest, "a valid phase is required", nil)
		return
	}

	s.store.SetEventPhase(body.Phase)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleAdvancePhase handles POST /api/v1/events/current/advance
func (s *Server) handleAdvancePhase(w http.ResponseWriter, r *http.Request) {
	s.store.AdvancePhase()
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleEventNotes handles POST /api/v1/events/current/notes
func (s *Server) handleEventNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	s.store.SetEventNotes(body.Notes)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleIncrementRound handles POST /api/v1/events/current/round/increment
func (s *Server) handleIncrementRound(w http.ResponseWriter, r *http.Request) {
	s.store.IncrementRound()
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleDecrementRound handles POST /api/v1/events/current/round/decrement
func (s *Server) handleDecrementRound(w http.ResponseWriter, r *http.Request) {
	s.store.DecrementRound()
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleEndEvent handles POST /api/v1/events/current/end. The body either
// carries explicit results, or a points map from which results are built
// with a survivor/casualty snapshot taken now.
func (s *Server) handleEndEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Results []game.EventResult `json:"results"`
		Points  map[string]int     `json:"points"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	results := body.Results
	if results == nil && body.Points != nil {
		results = s.store.BuildResults(body.Points)
	}
	if results == nil {
		writeError(w, http.StatusBadRequest, "results or points are required", nil)
		return
	}

	s.store.EndEvent(results)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleAbandonEvent handles POST /api/v1/events/current/abandon
func (s *Server) handleAbandonEvent(w http.ResponseWriter, r *http.Request) {
	s.store.AbandonEvent()
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleTemplates handles GET /api/v1/templates
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]game.EventTemplate{
		"templates": game.SeedTemplates,
	})
}
