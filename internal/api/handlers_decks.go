package api

import (
	"net/http"

	"github.com/arenagm/companion/internal/game"
)

func deckFromPath(r *http.Request) (game.DeckType, bool) {
	deck := game.DeckType(r.PathValue("deck"))
	return deck, deck.Valid()
}

// handleAddCard handles POST /api/v1/decks/{deck}/cards
func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	deck, ok := deckFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown deck", nil)
		return
	}

	var body struct {
		Name string   `json:"name"`
		Text string   `json:"text"`
		Tags []string `json:"tags"`
	}
	if err := decodeBody(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "card name is required", nil)
		return
	}

	id := s.store.AddDeckCard(deck, body.Name, body.Text, body.Tags)
	writeJSON(w, http.StatusCreated, map[string]any{
		"cardId":  id,
		"session": s.store.Snapshot(),
	})
}

// handleRemoveCard handles DELETE /api/v1/decks/{deck}/cards/{cardID}
func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	deck, ok := deckFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown deck", nil)
		return
	}

	s.store.RemoveDeckCard(deck, r.PathValue("cardID"))
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleDraw handles POST /api/v1/decks/{deck}/draw. Drawing from an
// empty deck is not an error; the card comes back null.
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	deck, ok := deckFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown deck", nil)
		return
	}

	card := s.store.DrawCard(deck)
	writeJSON(w, http.StatusOK, map[string]any{
		"card":    card,
		"session": s.store.Snapshot(),
	})
}

// handleDiscard handles POST /api/v1/decks/{deck}/discard
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	deck, ok := deckFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown deck", nil)
		return
	}

	var card game.DeckCard
	if err := decodeBody(r, &card); err != nil || card.ID == "" {
		writeError(w, http.StatusBadRequest, "card with id is required", nil)
		return
	}

	s.store.DiscardCard(deck, card)
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleShuffle handles POST /api/v1/decks/{deck}/shuffle
func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	deck, ok := deckFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown deck", nil)
		return
	}

	s.store.ShuffleDeck(deck)
	writeJSON(w, http.StatusOK, s.snapshot())
}
