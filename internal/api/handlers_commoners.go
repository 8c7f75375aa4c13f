package api

import (
	"net/http"

	"github.com/arenagm/companion/internal/game"
)

// playerPatch carries optional player field updates.
type playerPatch struct {
	Name  *string `json:"name"`
	Score *int    `json:"score"`
}

// handleUpdatePlayer handles PATCH /api/v1/players/{playerID}
func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("playerID")

	var patch playerPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if patch.Name != nil {
		s.store.RenamePlayer(playerID, *patch.Name)
	}
	if patch.Score != nil {
		s.store.SetPlayerScore(playerID, *patch.Score)
	}

	writeJSON(w, http.StatusOK, s.snapshot())
}

// commonerPatch carries optional commoner field updates. HP is excluded:
// it has its own route because of the status side effects.
type commonerPatch struct {
	Name   *string              `json:"name"`
	AC     *int                 `json:"ac"`
	Notes  *string              `json:"notes"`
	Status *game.CommonerStatus `json:"status"`
	Traits *game.Traits         `json:"traits"`
}

// handleUpdateCommoner handles PATCH /api/v1/players/{playerID}/commoners/{commonerID}
func (s *Server) handleUpdateCommoner(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("playerID")
	commonerID := r.PathValue("commonerID")

	var patch commonerPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if patch.Name != nil {
		s.store.RenameCommoner(playerID, commonerID, *patch.Name)
	}
	if patch.AC != nil {
		s.store.SetCommonerAC(playerID, commonerID, *patch.AC)
	}
	if patch.Notes != nil {
		s.store.SetCommonerNotes(playerID, commonerID, *patch.Notes)
	}
	if patch.Status != nil {
		s.store.SetCommonerStatus(playerID, commonerID, *patch.Status)
	}
	if patch.Traits != nil {
		s.store.SetCommonerTraits(playerID, commonerID, *patch.Traits)
	}

	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleSetHP handles POST /api/v1/players/{playerID}/commoners/{commonerID}/hp
func (s *Server) handleSetHP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HP int `json:"hp"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	s.store.SetCommonerHP(r.PathValue("playerID"), r.PathValue("commonerID"), body.HP)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleAddCondition handles POST .../conditions
func (s *Server) handleAddCondition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Condition string `json:"condition"`
	}
	if err := decodeBody(r, &body); err != nil || body.Condition == "" {
		writeError(w, http.StatusBadRequest, "condition is required", nil)
		return
	}

	s.store.AddCommonerCondition(r.PathValue("playerID"), r.PathValue("commonerID"), body.Condition)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleRemoveCondition handles DELETE .../conditions/{condition}
func (s *Server) handleRemoveCondition(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveCommonerCondition(
		r.PathValue("playerID"),
		r.PathValue("commonerID"),
		r.PathValue("condition"),
	)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleAssignCard handles POST .../inventory
func (s *Server) handleAssignCard(w http.ResponseWriter, r *http.Request) {
	var ref game.LootCardRef
	if err := decodeBody(r, &ref); err != nil || !ref.Deck.Valid() || ref.CardID == "" {
		writeError(w, http.StatusBadRequest, "deck and cardId are required", nil)
		return
	}

	s.store.AssignCardToCommoner(r.PathValue("playerID"), r.PathValue("commonerID"), ref.Deck, ref.CardID)
	writeJSON(w, http.StatusOK, s.snapshot())
}
