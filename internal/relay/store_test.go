package relay

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "relay.sqlite")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGet_Absent(t *testing.T) {
	s := newTestStore(t)

	data, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("absent id should return nil, got %q", data)
	}
}

func TestUpsertGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := json.RawMessage(`{"id": "s1", "name": "Night"}`)
	if err := s.Upsert(ctx, "s1", doc); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("got %q, want %q", got, doc)
	}
}

func TestUpsert_LastWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "s1", json.RawMessage(`{"v": 1}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, "s1", json.RawMessage(`{"v": 2}`)); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"v": 2}` {
		t.Errorf("got %q, want the later write", got)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("upsert should not duplicate rows, count = %d", n)
	}
}

func TestGetLatest_Empty(t *testing.T) {
	s := newTestStore(t)

	data, err := s.GetLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Error("empty store should return nil")
	}
}

func TestGetLatest_ReturnsMostRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "old", json.RawMessage(`{"id": "old"}`)); err != nil {
		t.Fatal(err)
	}
	// The updated_at column carries millisecond precision; space the
	// writes out so ordering is unambiguous.
	time.Sleep(5 * time.Millisecond)
	if err := s.Upsert(ctx, "new", json.RawMessage(`{"id": "new"}`)); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetLatest(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(got, &probe); err != nil {
		t.Fatalf("latest document should be JSON: %v", err)
	}
	if probe.ID != "new" {
		t.Errorf("latest = %q, want new", probe.ID)
	}
}

func TestGetLatest_UpsertRefreshesRecency(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "a", json.RawMessage(`{"id": "a"}`)); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Upsert(ctx, "b", json.RawMessage(`{"id": "b"}`)); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	// Re-writing "a" makes it the latest again.
	if err := s.Upsert(ctx, "a", json.RawMessage(`{"id": "a", "v": 2}`)); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetLatest(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(got, &probe); err != nil {
		t.Fatal(err)
	}
	if probe.ID != "a" {
		t.Errorf("latest = %q, want a", probe.ID)
	}
}
