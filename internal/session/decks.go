package session

import (
	"slices"

	"github.com/google/uuid"

	"github.com/arenagm/companion/internal/game"
)

// AddDeckCard inserts a new card at the bottom of the draw pile and
// returns its generated id ("" on no-op).
func (st *Store) AddDeckCard(deck game.DeckType, name, text string, tags []string) string {
	id := ""
	st.mutate(func(s *game.Session) bool {
		d := s.Decks.Deck(deck)
		if d == nil {
			return false
		}
		id = uuid.NewString()
		d.Cards = append(d.Cards, game.DeckCard{
			ID:   id,
			Name: name,
			Text: text,
			Tags: append([]string(nil), tags...),
		})
		return true
	})
	return id
}

// RemoveDeckCard deletes a card by id from both the draw pile and the
// discard pile. Inventory references to the card are NOT retracted; they
// go stale by design of the weak-reference model.
func (st *Store) RemoveDeckCard(deck game.DeckType, cardID string) {
	st.mutate(func(s *game.Session) bool {
		d := s.Decks.Deck(deck)
		if d == nil {
			return false
		}
		d.Cards = slices.DeleteFunc(d.Cards, func(c game.DeckCard) bool { return c.ID == cardID })
		d.Discard = slices.DeleteFunc(d.Discard, func(c game.DeckCard) bool { return c.ID == cardID })
		return true
	})
}

// DrawCard removes and returns the head of the draw pile. An empty pile
// returns nil; callers must check.
func (st *Store) DrawCard(deck game.DeckType) *game.DeckCard {
	var drawn *game.DeckCard
	st.mutate(func(s *game.Session) bool {
		d := s.Decks.Deck(deck)
		if d == nil || len(d.Cards) == 0 {
			return false
		}
		card := d.Cards[0].Clone()
		d.Cards = d.Cards[1:]
		drawn = &card
		return true
	})
	return drawn
}

// DiscardCard appends a card to the discard pile. It does not verify the
// card was ever drawn from this deck.
func (st *Store) DiscardCard(deck game.DeckType, card game.DeckCard) {
	st.mutate(func(s *game.Session) bool {
		d := s.Decks.Deck(deck)
		if d == nil {
			return false
		}
		d.Discard = append(d.Discard, card.Clone())
		return true
	})
}

// ShuffleDeck merges the draw and discard piles, Fisher-Yates shuffles
// the pool, and makes it the new draw pile. The discard pile ends empty.
func (st *Store) ShuffleDeck(deck game.DeckType) {
	st.mutate(func(s *game.Session) bool {
		d := s.Decks.Deck(deck)
		if d == nil {
			return false
		}
		pool := make([]game.DeckCard, 0, len(d.Cards)+len(d.Discard))
		pool = append(pool, d.Cards...)
		pool = append(pool, d.Discard...)

		st.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})

		d.Cards = pool
		d.Discard = []game.DeckCard{}
		return true
	})
}
