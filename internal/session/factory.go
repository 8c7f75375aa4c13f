// Package session holds the mutable session aggregate: the factory that
// builds a fresh Session and the Store that owns the single in-memory
// snapshot and exposes every mutation as an atomic clone-and-swap.
package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/arenagm/companion/internal/game"
	"github.com/arenagm/companion/internal/roll"
)

// Config describes a new session: how many players and how many
// commoners each player fields.
type Config struct {
	Name               string `json:"name"`
	PlayerCount        int    `json:"playerCount"`
	CommonersPerPlayer int    `json:"commonersPerPlayer"`
}

// Validate checks the counts are positive.
func (c Config) Validate() error {
	if c.PlayerCount <= 0 {
		return fmt.Errorf("%w: playerCount must be positive, got %d", ErrInvalidConfig, c.PlayerCount)
	}
	if c.CommonersPerPlayer <= 0 {
		return fmt.Errorf("%w: commonersPerPlayer must be positive, got %d", ErrInvalidConfig, c.CommonersPerPlayer)
	}
	return nil
}

// New builds a fresh session from the config. Players get positional
// default names; each commoner gets a generated name and trait spread,
// with HP and AC from the default ruleset. Decks start empty.
func New(cfg Config, rng *rand.Rand) (*game.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	ruleset := game.DefaultRuleset()

	players := make([]game.Player, 0, cfg.PlayerCount)
	for i := 0; i < cfg.PlayerCount; i++ {
		names := roll.GenerateNames(rng, cfg.CommonersPerPlayer)

		commoners := make([]game.Commoner, 0, cfg.CommonersPerPlayer)
		for _, name := range names {
			commoners = append(commoners, game.Commoner{
				ID:         uuid.NewString(),
				Name:       name,
				HPCurrent:  ruleset.DefaultHP,
				HPMax:      ruleset.DefaultHP,
				AC:         ruleset.DefaultAC,
				Traits:     roll.GenerateTraits(rng),
				Status:     game.StatusAlive,
				Conditions: []string{},
				Inventory:  []game.LootCardRef{},
			})
		}

		players = append(players, game.Player{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Player %d", i+1),
			Commoners: commoners,
		})
	}

	return &game.Session{
		ID:        uuid.NewString(),
		Name:      cfg.Name,
		CreatedAt: now,
		UpdatedAt: now,
		Players:   players,
		EventsRun: []game.EventInstance{},
		Decks: game.Decks{
			Crap:   game.DeckState{Cards: []game.DeckCard{}, Discard: []game.DeckCard{}},
			Silver: game.DeckState{Cards: []game.DeckCard{}, Discard: []game.DeckCard{}},
		},
		Ruleset:       ruleset,
		Log:           []game.LogEntry{},
		SchemaVersion: game.CurrentSchemaVersion,
	}, nil
}
