package game

// Deep-copy helpers. The session store's atomic-replace contract requires
// that a mutation never writes through a snapshot already handed out, so
// each mutation works on a clone and swaps it in whole.

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Player, len(s.Players))
	for i := range s.Players {
		out.Players[i] = s.Players[i].Clone()
	}
	out.EventsRun = make([]EventInstance, len(s.EventsRun))
	for i := range s.EventsRun {
		out.EventsRun[i] = s.EventsRun[i].Clone()
	}
	if s.CurrentEventID != nil {
		id := *s.CurrentEventID
		out.CurrentEventID = &id
	}
	out.Decks = Decks{
		Crap:   s.Decks.Crap.Clone(),
		Silver: s.Decks.Silver.Clone(),
	}
	out.Log = append([]LogEntry(nil), s.Log...)
	return &out
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	out := p
	out.Commoners = make([]Commoner, len(p.Commoners))
	for i := range p.Commoners {
		out.Commoners[i] = p.Commoners[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the commoner.
func (c Commoner) Clone() Commoner {
	out := c
	out.Conditions = append([]string(nil), c.Conditions...)
	out.Inventory = append([]LootCardRef(nil), c.Inventory...)
	return out
}

// Clone returns a deep copy of the event instance.
func (e EventInstance) Clone() EventInstance {
	out := e
	if e.TemplateID != nil {
		id := *e.TemplateID
		out.TemplateID = &id
	}
	if e.EndedAt != nil {
		t := *e.EndedAt
		out.EndedAt = &t
	}
	out.Results = make([]EventResult, len(e.Results))
	for i := range e.Results {
		out.Results[i] = e.Results[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the event result.
func (r EventResult) Clone() EventResult {
	out := r
	out.Survivors = append([]string(nil), r.Survivors...)
	out.Casualties = append([]string(nil), r.Casualties...)
	return out
}

// Clone returns a deep copy of the deck state.
func (d DeckState) Clone() DeckState {
	out := DeckState{
		Cards:   make([]DeckCard, len(d.Cards)),
		Discard: make([]DeckCard, len(d.Discard)),
	}
	for i := range d.Cards {
		out.Cards[i] = d.Cards[i].Clone()
	}
	for i := range d.Discard {
		out.Discard[i] = d.Discard[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the card.
func (c DeckCard) Clone() DeckCard {
	out := c
	out.Tags = append([]string(nil), c.Tags...)
	return out
}
