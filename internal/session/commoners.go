package session

import (
	"slices"

	"github.com/arenagm/companion/internal/game"
)

// RenamePlayer sets a player's display name.
func (st *Store) RenamePlayer(playerID, name string) {
	st.mutate(func(s *game.Session) bool {
		p := s.Player(playerID)
		if p == nil {
			return false
		}
		p.Name = name
		return true
	})
}

// SetPlayerScore overwrites a player's running score. Event completion
// adjusts scores additively; this is the direct-override path.
func (st *Store) SetPlayerScore(playerID string, score int) {
	st.mutate(func(s *game.Session) bool {
		p := s.Player(playerID)
		if p == nil {
			return false
		}
		p.ScoreTotal = score
		return true
	})
}

// SetCommonerHP sets a commoner's HP, clamped to [0, hpMax]. Hitting 0
// from alive applies the ruleset's zero-HP behaviour; rising above 0 from
// ko or dead revives to alive. Out is never entered or left by HP changes.
func (st *Store) SetCommonerHP(playerID, commonerID string, hp int) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}

		clamped := min(max(hp, 0), c.HPMax)

		status := c.Status
		if clamped == 0 && c.Status == game.StatusAlive {
			status = s.Ruleset.ZeroHPBehaviour
		} else if clamped > 0 && (c.Status == game.StatusKO || c.Status == game.StatusDead) {
			status = game.StatusAlive
		}

		c.HPCurrent = clamped
		c.Status = status
		return true
	})
}

// SetCommonerStatus sets a commoner's status directly. This is the only
// way in or out of the out status.
func (st *Store) SetCommonerStatus(playerID, commonerID string, status game.CommonerStatus) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		c.Status = status
		return true
	})
}

// RenameCommoner sets a commoner's name.
func (st *Store) RenameCommoner(playerID, commonerID, name string) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		c.Name = name
		return true
	})
}

// SetCommonerAC sets a commoner's armor class.
func (st *Store) SetCommonerAC(playerID, commonerID string, ac int) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		c.AC = ac
		return true
	})
}

// SetCommonerNotes replaces a commoner's free-text notes.
func (st *Store) SetCommonerNotes(playerID, commonerID, notes string) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		c.Notes = notes
		return true
	})
}

// SetCommonerTraits replaces a commoner's trait spread. Manual edits are
// not held to the one +2 / one -2 generation invariant.
func (st *Store) SetCommonerTraits(playerID, commonerID string, traits game.Traits) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		c.Traits = traits
		return true
	})
}

// AddCommonerCondition adds a condition tag with set semantics: adding a
// condition that is already present is a no-op.
func (st *Store) AddCommonerCondition(playerID, commonerID, condition string) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil || slices.Contains(c.Conditions, condition) {
			return false
		}
		c.Conditions = append(c.Conditions, condition)
		return true
	})
}

// RemoveCommonerCondition removes a condition tag if present.
func (st *Store) RemoveCommonerCondition(playerID, commonerID, condition string) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		i := slices.Index(c.Conditions, condition)
		if i < 0 {
			return false
		}
		c.Conditions = slices.Delete(c.Conditions, i, i+1)
		return true
	})
}

// AssignCardToCommoner appends a loot reference to a commoner's inventory.
// The reference is weak: the card is not checked for existence, now or
// later.
func (st *Store) AssignCardToCommoner(playerID, commonerID string, deck game.DeckType, cardID string) {
	st.mutate(func(s *game.Session) bool {
		c := s.Commoner(playerID, commonerID)
		if c == nil {
			return false
		}
		c.Inventory = append(c.Inventory, game.LootCardRef{Deck: deck, CardID: cardID})
		return true
	})
}
