// Package game defines the Arena GM domain model: the Session aggregate
// and everything nested inside it. The whole Session is the unit of
// persistence and replication; nothing below it is stored on its own.
package game

import "time"

// CurrentSchemaVersion is the current session schema version.
// Imported sessions are restamped to this value.
const CurrentSchemaVersion = 1

// TraitValue is a trait modifier. Valid values are -2, 0, and +2.
type TraitValue int

// CommonerStatus tracks whether a commoner can still act.
type CommonerStatus string

const (
	StatusAlive CommonerStatus = "alive"
	StatusKO    CommonerStatus = "ko"
	StatusDead  CommonerStatus = "dead"
	// StatusOut is manual-only: never assigned or cleared by HP changes.
	StatusOut CommonerStatus = "out"
)

// DeckType identifies one of the two loot decks.
type DeckType string

const (
	// DeckCrap is the joke/filler tier.
	DeckCrap DeckType = "crap"
	// DeckSilver is the reward tier.
	DeckSilver DeckType = "silver"
)

// DeckTypes lists all deck types in a fixed order.
var DeckTypes = []DeckType{DeckCrap, DeckSilver}

// Valid reports whether dt is one of the two known deck types.
func (dt DeckType) Valid() bool {
	return dt == DeckCrap || dt == DeckSilver
}

// LogEntryType categorizes session log entries.
type LogEntryType string

const (
	LogRoll   LogEntryType = "roll"
	LogDamage LogEntryType = "damage"
	LogStatus LogEntryType = "status"
	LogScore  LogEntryType = "score"
	LogLoot   LogEntryType = "loot"
	LogNote   LogEntryType = "note"
)

// Traits holds the five named trait modifiers. A freshly generated
// commoner has exactly one +2, exactly one -2, and three zeros.
type Traits struct {
	Strong   TraitValue `json:"strong"`
	Quick    TraitValue `json:"quick"`
	Tough    TraitValue `json:"tough"`
	Clever   TraitValue `json:"clever"`
	Charming TraitValue `json:"charming"`
}

// TraitName identifies one of the five trait slots.
type TraitName string

const (
	TraitStrong   TraitName = "strong"
	TraitQuick    TraitName = "quick"
	TraitTough    TraitName = "tough"
	TraitClever   TraitName = "clever"
	TraitCharming TraitName = "charming"
)

// TraitNames lists the trait slots in their canonical order.
var TraitNames = []TraitName{TraitStrong, TraitQuick, TraitTough, TraitClever, TraitCharming}

// Get returns the modifier for the named trait, or 0 for an unknown name.
func (t Traits) Get(name TraitName) TraitValue {
	switch name {
	case TraitStrong:
		return t.Strong
	case TraitQuick:
		return t.Quick
	case TraitTough:
		return t.Tough
	case TraitClever:
		return t.Clever
	case TraitCharming:
		return t.Charming
	default:
		return 0
	}
}

// Set assigns the modifier for the named trait. Unknown names are ignored.
func (t *Traits) Set(name TraitName, v TraitValue) {
	switch name {
	case TraitStrong:
		t.Strong = v
	case TraitQuick:
		t.Quick = v
	case TraitTough:
		t.Tough = v
	case TraitClever:
		t.Clever = v
	case TraitCharming:
		t.Charming = v
	}
}

// Positive returns the trait slot holding +2, or "" if none.
func (t Traits) Positive() TraitName {
	for _, name := range TraitNames {
		if t.Get(name) == 2 {
			return name
		}
	}
	return ""
}

// Negative returns the trait slot holding -2, or "" if none.
func (t Traits) Negative() TraitName {
	for _, name := range TraitNames {
		if t.Get(name) == -2 {
			return name
		}
	}
	return ""
}

// LootCardRef is a weak reference from a commoner's inventory into a deck.
// The referenced card may have moved piles or been deleted since; the ref
// is never validated for existence.
type LootCardRef struct {
	Deck   DeckType `json:"deck"`
	CardID string   `json:"cardId"`
}

// Commoner is a disposable player-controlled character.
type Commoner struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	HPCurrent  int            `json:"hpCurrent"`
	HPMax      int            `json:"hpMax"`
	AC         int            `json:"ac"`
	Traits     Traits         `json:"traits"`
	Status     CommonerStatus `json:"status"`
	Conditions []string       `json:"conditions"`
	Inventory  []LootCardRef  `json:"inventory"`
	Notes      string         `json:"notes"`
}

// Player owns a fixed roster of commoners and a running score.
type Player struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ScoreTotal int        `json:"scoreTotal"`
	Commoners  []Commoner `json:"commoners"`
}

// DeckCard is one loot card.
type DeckCard struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// DeckState is an ordered draw pile plus a discard pile.
// Draw always takes the head of Cards.
type DeckState struct {
	Cards   []DeckCard `json:"cards"`
	Discard []DeckCard `json:"discard"`
}

// Decks holds the two fixed decks.
type Decks struct {
	Crap   DeckState `json:"crap"`
	Silver DeckState `json:"silver"`
}

// Deck returns a pointer to the deck for dt, or nil for an unknown type.
func (d *Decks) Deck(dt DeckType) *DeckState {
	switch dt {
	case DeckCrap:
		return &d.Crap
	case DeckSilver:
		return &d.Silver
	default:
		return nil
	}
}

// EventResult records one player's outcome for a finished event.
// Survivors and casualties are a snapshot of commoner status at the moment
// scoring was finalized; they are not reconciled afterwards.
type EventResult struct {
	PlayerID      string   `json:"playerId"`
	PointsAwarded int      `json:"pointsAwarded"`
	Survivors     []string `json:"survivors"`
	Casualties    []string `json:"casualties"`
}

// EventInstance is one running or completed mini-game.
type EventInstance struct {
	ID          string        `json:"id"`
	TemplateID  *string       `json:"templateId"`
	Title       string        `json:"title"`
	StartedAt   time.Time     `json:"startedAt"`
	EndedAt     *time.Time    `json:"endedAt"`
	Phase       EventPhase    `json:"phase"`
	RoundNumber int           `json:"roundNumber"`
	Notes       string        `json:"notes"`
	Results     []EventResult `json:"results"`
}

// InProgress reports whether the event has not yet ended.
func (e *EventInstance) InProgress() bool {
	return e.EndedAt == nil
}

// LogEntry is one informational line in the session log. Nothing reads the
// log back to drive logic.
type LogEntry struct {
	Ts      time.Time    `json:"ts"`
	Type    LogEntryType `json:"type"`
	Text    string       `json:"text"`
	Payload any          `json:"payload,omitempty"`
}

// Session is the root aggregate: the entire mutable state of one
// tournament night.
type Session struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Players        []Player        `json:"players"`
	EventsRun      []EventInstance `json:"eventsRun"`
	CurrentEventID *string         `json:"currentEventId"`
	Decks          Decks           `json:"decks"`
	Ruleset        RulesetConfig   `json:"ruleset"`
	Log            []LogEntry      `json:"log"`
	SchemaVersion  int             `json:"schemaVersion"`
}

// Player returns the player with the given id, or nil.
func (s *Session) Player(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// Commoner returns the commoner with the given ids, or nil.
func (s *Session) Commoner(playerID, commonerID string) *Commoner {
	p := s.Player(playerID)
	if p == nil {
		return nil
	}
	for i := range p.Commoners {
		if p.Commoners[i].ID == commonerID {
			return &p.Commoners[i]
		}
	}
	return nil
}

// CurrentEvent returns the in-progress event referenced by CurrentEventID,
// or nil if no event is running.
func (s *Session) CurrentEvent() *EventInstance {
	if s.CurrentEventID == nil {
		return nil
	}
	return s.Event(*s.CurrentEventID)
}

// Event returns the event with the given id, or nil.
func (s *Session) Event(id string) *EventInstance {
	for i := range s.EventsRun {
		if s.EventsRun[i].ID == id {
			return &s.EventsRun[i]
		}
	}
	return nil
}
