//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/arenagm/companion/internal/cloudsync"
	"github.com/arenagm/companion/internal/game"
	"github.com/arenagm/companion/internal/localstore"
	"github.com/arenagm/companion/internal/session"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// TestSync_MutationReachesRelay drives a mutation through the GM API and
// waits for the debounced push to land in the relay store.
func TestSync_MutationReachesRelay(t *testing.T) {
	rl := NewTestRelay(t)
	app := NewTestApp(t, WithRelay(rl.Server.URL))

	resp := postJSON(t, app.URL()+"/api/v1/session",
		`{"name": "Relay Night", "playerCount": 2, "commonersPerPlayer": 2}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		raw, err := rl.Store.GetLatest(context.Background())
		if err != nil {
			t.Fatalf("relay get: %v", err)
		}
		if raw != nil {
			var s game.Session
			if err := json.Unmarshal(raw, &s); err != nil {
				t.Fatalf("unmarshal relayed session: %v", err)
			}
			if s.Name != "Relay Night" {
				t.Errorf("relayed name = %q", s.Name)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("push never reached the relay")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestSync_PullerSeesGMChanges runs the whole loop: GM mutation, debounced
// push to the relay, player-view poll back out.
func TestSync_PullerSeesGMChanges(t *testing.T) {
	rl := NewTestRelay(t)
	app := NewTestApp(t, WithRelay(rl.Server.URL))

	resp := postJSON(t, app.URL()+"/api/v1/session",
		`{"name": "Pull Night", "playerCount": 2, "commonersPerPlayer": 2}`)
	resp.Body.Close()

	snaps := make(chan *game.Session, 16)
	puller := cloudsync.NewPuller(rl.Server.URL, func(s *game.Session) { snaps <- s },
		cloudsync.WithPollInterval(20*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go puller.Run(ctx)

	var got *game.Session
	select {
	case got = <-snaps:
	case <-ctx.Done():
		t.Fatal("puller never delivered a snapshot")
	}
	if got.Name != "Pull Night" {
		t.Errorf("pulled name = %q", got.Name)
	}

	// Mutate through the API and wait for the new score to round-trip.
	pid := got.Players[0].ID
	resp = postJSON(t, app.URL()+"/api/v1/events", `{"title": "Sprint"}`)
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodPatch, app.URL()+"/api/v1/players/"+pid,
		bytes.NewReader([]byte(`{"score": 7}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	resp.Body.Close()

	for {
		select {
		case s := <-snaps:
			if p := s.Player(pid); p != nil && p.ScoreTotal == 7 {
				return
			}
		case <-ctx.Done():
			t.Fatal("score change never round-tripped")
		}
	}
}

// TestSync_RestartHydratesFromDisk verifies a fresh store over the same
// database file restores the session.
func TestSync_RestartHydratesFromDisk(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "companion.sqlite")
	db, err := localstore.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	st := session.NewStore(session.WithSaver(db))
	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	before, err := st.CreateNew(session.Config{Name: "Durable Night", PlayerCount: 3, CommonersPerPlayer: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Saves are fire and forget; wait for the record to land.
	deadline := time.Now().Add(3 * time.Second)
	for {
		raw, err := db.Get(context.Background(), session.SessionKey)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if raw != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("save never landed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	db.Close()

	db2, err := localstore.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	st2 := session.NewStore(session.WithSaver(db2))
	if err := st2.Hydrate(context.Background()); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	after := st2.Snapshot()
	if after == nil || after.ID != before.ID || after.Name != "Durable Night" {
		t.Fatalf("restored session = %+v", after)
	}
	if len(after.Players) != 3 {
		t.Errorf("player count = %d", len(after.Players))
	}
}

// TestAuth_SessionRequiresCredentials checks the LAN auth gate end to end.
func TestAuth_SessionRequiresCredentials(t *testing.T) {
	app := NewTestApp(t, WithAuth("gm", "oink"))

	resp, err := http.Get(app.URL() + "/api/v1/session")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, app.URL()+"/api/v1/session", nil)
	req.SetBasicAuth("gm", "oink")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with auth: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	// Health stays open.
	resp, err = http.Get(app.URL() + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}
