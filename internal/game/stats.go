package game

// CommonerRef pairs a commoner with its owning player, for flattened views.
type CommonerRef struct {
	Commoner
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// AllCommoners returns every commoner across all players with owner info.
func (s *Session) AllCommoners() []CommonerRef {
	var out []CommonerRef
	for i := range s.Players {
		p := &s.Players[i]
		for j := range p.Commoners {
			out = append(out, CommonerRef{
				Commoner:   p.Commoners[j],
				PlayerID:   p.ID,
				PlayerName: p.Name,
			})
		}
	}
	return out
}

// LivingCommoners returns only commoners with status alive.
func (s *Session) LivingCommoners() []CommonerRef {
	var out []CommonerRef
	for _, c := range s.AllCommoners() {
		if c.Status == StatusAlive {
			out = append(out, c)
		}
	}
	return out
}

// Stats summarizes commoner statuses across the session.
type Stats struct {
	Total int `json:"total"`
	Alive int `json:"alive"`
	KO    int `json:"ko"`
	Dead  int `json:"dead"`
	Out   int `json:"out"`
}

// SessionStats counts commoners by status.
func (s *Session) SessionStats() Stats {
	var st Stats
	for _, c := range s.AllCommoners() {
		st.Total++
		switch c.Status {
		case StatusAlive:
			st.Alive++
		case StatusKO:
			st.KO++
		case StatusDead:
			st.Dead++
		case StatusOut:
			st.Out++
		}
	}
	return st
}

// PlayerScoreFromEvents recomputes a player's score from finished event
// results. The live ScoreTotal is authoritative; this is a cross-check for
// views that want the per-event breakdown.
func (s *Session) PlayerScoreFromEvents(playerID string) int {
	total := 0
	for i := range s.EventsRun {
		for _, r := range s.EventsRun[i].Results {
			if r.PlayerID == playerID {
				total += r.PointsAwarded
			}
		}
	}
	return total
}
