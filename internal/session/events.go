package session

import (
	"github.com/google/uuid"

	"github.com/arenagm/companion/internal/game"
)

// EventDraft is the caller-supplied part of a new event. Everything else
// (id, timestamps, phase, round, results) is stamped by StartEvent.
type EventDraft struct {
	TemplateID *string `json:"templateId"`
	Title      string  `json:"title"`
	Notes      string  `json:"notes"`
}

// StartEvent appends a new in-progress event and points CurrentEventID at
// it. The new event starts in the briefing phase at round 1. Starting an
// event while another is active silently abandons the old link without
// closing the old event; that instance keeps endedAt == nil forever.
func (st *Store) StartEvent(draft EventDraft) {
	st.mutate(func(s *game.Session) bool {
		ev := game.EventInstance{
			ID:          uuid.NewString(),
			TemplateID:  draft.TemplateID,
			Title:       draft.Title,
			StartedAt:   st.now(),
			Phase:       game.PhaseBriefing,
			RoundNumber: 1,
			Notes:       draft.Notes,
			Results:     []game.EventResult{},
		}
		s.EventsRun = append(s.EventsRun, ev)
		s.CurrentEventID = &ev.ID
		return true
	})
}

// SetEventPhase sets the current event's phase. No-op without a current
// event or for an unknown phase value.
func (st *Store) SetEventPhase(phase game.EventPhase) {
	if !phase.Valid() {
		return
	}
	st.mutate(func(s *game.Session) bool {
		ev := s.CurrentEvent()
		if ev == nil {
			return false
		}
		ev.Phase = phase
		return true
	})
}

// AdvancePhase moves the current event to the next phase in the fixed
// order. At prizes there is nowhere further to go.
func (st *Store) AdvancePhase() {
	st.mutate(func(s *game.Session) bool {
		ev := s.CurrentEvent()
		if ev == nil {
			return false
		}
		next, ok := ev.Phase.Next()
		if !ok {
			return false
		}
		ev.Phase = next
		return true
	})
}

// SetEventNotes replaces the current event's notes.
func (st *Store) SetEventNotes(notes string) {
	st.mutate(func(s *game.Session) bool {
		ev := s.CurrentEvent()
		if ev == nil {
			return false
		}
		ev.Notes = notes
		return true
	})
}

// IncrementRound bumps the current event's round counter.
func (st *Store) IncrementRound() {
	st.mutate(func(s *game.Session) bool {
		ev := s.CurrentEvent()
		if ev == nil {
			return false
		}
		ev.RoundNumber++
		return true
	})
}

// DecrementRound lowers the round counter, refusing to go below round 1.
func (st *Store) DecrementRound() {
	st.mutate(func(s *game.Session) bool {
		ev := s.CurrentEvent()
		if ev == nil || ev.RoundNumber <= 1 {
			return false
		}
		ev.RoundNumber--
		return true
	})
}

// EndEvent finishes the current event: stamps endedAt, stores the results
// verbatim, adds each result's points to the named player's running score,
// and clears CurrentEventID. The event keeps whatever phase it was in;
// callers are expected to have advanced to prizes first, but nothing
// forces that. No-op without a current event.
func (st *Store) EndEvent(results []game.EventResult) {
	st.mutate(func(s *game.Session) bool {
		ev := s.CurrentEvent()
		if ev == nil {
			return false
		}

		ended := st.now()
		ev.EndedAt = &ended
		ev.Results = make([]game.EventResult, len(results))
		for i, r := range results {
			ev.Results[i] = r.Clone()
		}

		for _, r := range results {
			if p := s.Player(r.PlayerID); p != nil {
				p.ScoreTotal += r.PointsAwarded
			}
		}

		s.CurrentEventID = nil
		return true
	})
}

// AbandonEvent ends the current event early with a zero result for every
// player, discarding any partial scoring.
func (st *Store) AbandonEvent() {
	st.mu.Lock()
	s := st.session
	if s == nil {
		st.mu.Unlock()
		return
	}
	results := make([]game.EventResult, 0, len(s.Players))
	for i := range s.Players {
		results = append(results, game.EventResult{
			PlayerID:   s.Players[i].ID,
			Survivors:  []string{},
			Casualties: []string{},
		})
	}
	st.mu.Unlock()

	st.EndEvent(results)
}

// BuildResults assembles an EventResult per player from awarded points,
// snapshotting each player's commoners into survivors (alive) and
// casualties (anything else) as of this moment. The snapshot goes stale
// if statuses change afterwards; it is never reconciled.
func (st *Store) BuildResults(points map[string]int) []game.EventResult {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session == nil {
		return nil
	}

	results := make([]game.EventResult, 0, len(st.session.Players))
	for i := range st.session.Players {
		p := &st.session.Players[i]
		r := game.EventResult{
			PlayerID:      p.ID,
			PointsAwarded: points[p.ID],
			Survivors:     []string{},
			Casualties:    []string{},
		}
		for j := range p.Commoners {
			c := &p.Commoners[j]
			if c.Status == game.StatusAlive {
				r.Survivors = append(r.Survivors, c.ID)
			} else {
				r.Casualties = append(r.Casualties, c.ID)
			}
		}
		results = append(results, r)
	}
	return results
}
