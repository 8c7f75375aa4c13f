package api

import (
	"net/http"
	"sync"

	"github.com/arenagm/companion/internal/game"
	"github.com/arenagm/companion/internal/roll"
)

// rollMu serializes access to the server's random source; rand.Rand is
// not safe for concurrent use.
var rollMu sync.Mutex

// rollRequest selects a die, modifier, and optional advantage mode.
type rollRequest struct {
	Die      roll.Die       `json:"die"`
	Modifier int            `json:"modifier"`
	Trait    game.TraitName `json:"trait,omitempty"`
	// Mode is "", "advantage", or "disadvantage".
	Mode string `json:"mode,omitempty"`
	// DC, when set, adds a success verdict to the response.
	DC *int `json:"dc,omitempty"`
}

// handleRoll handles POST /api/v1/roll. Rolls are cosmetic: the result is
// returned and logged, nothing in the model depends on it.
func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if _, ok := req.Die.Sides(); !ok {
		writeError(w, http.StatusBadRequest, "unknown die", nil)
		return
	}

	rollMu.Lock()
	var result roll.Result
	switch req.Mode {
	case "advantage":
		result = roll.RollAdvantage(s.rng, req.Die, req.Modifier, req.Trait)
	case "disadvantage":
		result = roll.RollDisadvantage(s.rng, req.Die, req.Modifier, req.Trait)
	case "":
		result = roll.Roll(s.rng, req.Die, req.Modifier, req.Trait)
	default:
		rollMu.Unlock()
		writeError(w, http.StatusBadRequest, "unknown roll mode", nil)
		return
	}
	rollMu.Unlock()

	s.store.AddLogEntry(game.LogRoll, result.String(), result)

	if req.DC != nil {
		writeJSON(w, http.StatusOK, struct {
			roll.Result
			Success bool `json:"success"`
		}{result, result.Success(*req.DC)})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAddLog handles POST /api/v1/log
func (s *Server) handleAddLog(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type    game.LogEntryType `json:"type"`
		Text    string            `json:"text"`
		Payload any               `json:"payload"`
	}
	if err := decodeBody(r, &body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "log text is required", nil)
		return
	}
	if body.Type == "" {
		body.Type = game.LogNote
	}

	s.store.AddLogEntry(body.Type, body.Text, body.Payload)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleRules handles GET /api/v1/rules. Serves the active ruleset (or
// the defaults when no session is loaded) together with the fixed lists
// the UI builds its pickers from.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	ruleset := game.DefaultRuleset()
	if sess := s.store.Snapshot(); sess != nil {
		ruleset = sess.Ruleset
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ruleset":      ruleset,
		"conditions":   game.StandardConditions,
		"traitLabels":  game.TraitLabels,
		"statusLabels": game.StatusLabels,
	})
}

// playerStanding is one row of the standings table: the live score plus
// the recomputed per-event total as a cross-check.
type playerStanding struct {
	PlayerID        string `json:"playerId"`
	Name            string `json:"name"`
	ScoreTotal      int    `json:"scoreTotal"`
	ScoreFromEvents int    `json:"scoreFromEvents"`
}

// handleStats handles GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Snapshot()
	if sess == nil {
		writeError(w, http.StatusNotFound, "no session loaded", nil)
		return
	}

	standings := make([]playerStanding, 0, len(sess.Players))
	for i := range sess.Players {
		p := &sess.Players[i]
		standings = append(standings, playerStanding{
			PlayerID:        p.ID,
			Name:            p.Name,
			ScoreTotal:      p.ScoreTotal,
			ScoreFromEvents: sess.PlayerScoreFromEvents(p.ID),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"commoners": sess.SessionStats(),
		"standings": standings,
		"eventsRun": len(sess.EventsRun),
	})
}
