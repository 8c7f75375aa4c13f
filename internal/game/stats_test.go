package game

import "testing"

func statsSession() *Session {
	return &Session{
		Players: []Player{
			{
				ID: "p1", Name: "One", ScoreTotal: 5,
				Commoners: []Commoner{
					{ID: "c1", Status: StatusAlive},
					{ID: "c2", Status: StatusKO},
					{ID: "c3", Status: StatusDead},
				},
			},
			{
				ID: "p2", Name: "Two", ScoreTotal: 2,
				Commoners: []Commoner{
					{ID: "c4", Status: StatusAlive},
					{ID: "c5", Status: StatusOut},
				},
			},
		},
		EventsRun: []EventInstance{
			{ID: "e1", Results: []EventResult{
				{PlayerID: "p1", PointsAwarded: 3},
				{PlayerID: "p2", PointsAwarded: 1},
			}},
			{ID: "e2", Results: []EventResult{
				{PlayerID: "p1", PointsAwarded: 2},
			}},
		},
	}
}

func TestAllCommoners(t *testing.T) {
	s := statsSession()

	all := s.AllCommoners()
	if len(all) != 5 {
		t.Fatalf("got %d commoners, want 5", len(all))
	}
	if all[0].PlayerID != "p1" || all[0].PlayerName != "One" {
		t.Errorf("owner info not attached: %+v", all[0])
	}
	if all[4].ID != "c5" || all[4].PlayerID != "p2" {
		t.Errorf("order should follow players: %+v", all[4])
	}
}

func TestLivingCommoners(t *testing.T) {
	s := statsSession()

	living := s.LivingCommoners()
	if len(living) != 2 {
		t.Fatalf("got %d living, want 2", len(living))
	}
	for _, c := range living {
		if c.Status != StatusAlive {
			t.Errorf("commoner %s has status %s", c.ID, c.Status)
		}
	}
}

func TestSessionStats(t *testing.T) {
	got := statsSession().SessionStats()

	want := Stats{Total: 5, Alive: 2, KO: 1, Dead: 1, Out: 1}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestPlayerScoreFromEvents(t *testing.T) {
	s := statsSession()

	if got := s.PlayerScoreFromEvents("p1"); got != 5 {
		t.Errorf("p1 = %d, want 5", got)
	}
	if got := s.PlayerScoreFromEvents("p2"); got != 1 {
		t.Errorf("p2 = %d, want 1", got)
	}
	if got := s.PlayerScoreFromEvents("nobody"); got != 0 {
		t.Errorf("unknown player = %d, want 0", got)
	}
}
