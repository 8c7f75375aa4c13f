package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arenagm/companion/internal/game"
)

// memorySaver is an in-memory Saver for tests.
type memorySaver struct {
	mu   sync.Mutex
	docs map[string][]byte

	getErr error
	setErr error
}

func newMemorySaver() *memorySaver {
	return &memorySaver{docs: map[string][]byte{}}
}

func (m *memorySaver) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (m *memorySaver) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.docs[key] = append([]byte(nil), data...)
	return nil
}

func (m *memorySaver) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *memorySaver) get(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[key]
}

// newTestStore returns a hydrated store with a memory saver and a session
// of 2 players x 2 commoners.
func newTestStore(t *testing.T) (*Store, *memorySaver) {
	t.Helper()

	saver := newMemorySaver()
	st := NewStore(WithSaver(saver))
	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	_, err := st.CreateNew(Config{Name: "Test Night", PlayerCount: 2, CommonersPerPlayer: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return st, saver
}

// waitForSave polls the saver until the stored session satisfies the
// predicate, failing the test on timeout. Saves are fire-and-forget, so
// tests have to wait for the background write.
func waitForSave(t *testing.T, saver *memorySaver, pred func(s *game.Session) bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if data := saver.get(SessionKey); data != nil {
			var s game.Session
			if err := json.Unmarshal(data, &s); err == nil && pred(&s) {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for background save")
}

func TestStore_ReadyLifecycle(t *testing.T) {
	st := NewStore(WithSaver(newMemorySaver()))

	if st.Ready() {
		t.Error("store should not be ready before hydration")
	}

	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if !st.Ready() {
		t.Error("store should be ready after hydration")
	}
	if st.HasSession() {
		t.Error("empty persistence should hydrate to no session")
	}
}

func TestStore_HydrateRestoresSession(t *testing.T) {
	saver := newMemorySaver()

	s := &game.Session{ID: "restored", Name: "Old Night", SchemaVersion: game.CurrentSchemaVersion}
	data, _ := json.Marshal(s)
	saver.docs[SessionKey] = data

	var notified *game.Session
	st := NewStore(WithSaver(saver), WithOnChange(func(s *game.Session) { notified = s }))
	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	snap := st.Snapshot()
	if snap == nil || snap.ID != "restored" {
		t.Fatal("expected restored session")
	}
	if notified == nil || notified.ID != "restored" {
		t.Error("onChange should fire for a restored session")
	}
}

func TestStore_HydrateCorruptRecord(t *testing.T) {
	saver := newMemorySaver()
	saver.docs[SessionKey] = []byte("{not json")

	st := NewStore(WithSaver(saver))
	if err := st.Hydrate(context.Background()); err != nil {
		t.Errorf("corrupt record should not surface an error, got %v", err)
	}
	if !st.Ready() {
		t.Error("store should still become ready")
	}
	if st.HasSession() {
		t.Error("corrupt record should hydrate to no session")
	}
}

func TestStore_HydrateIOError(t *testing.T) {
	saver := newMemorySaver()
	saver.getErr = errors.New("disk gone")

	st := NewStore(WithSaver(saver))
	err := st.Hydrate(context.Background())
	if err == nil {
		t.Error("storage I/O failure should be returned")
	}
	if !st.Ready() {
		t.Error("ready flag flips even on I/O failure")
	}
}

func TestStore_CreateNewPersistsAndNotifies(t *testing.T) {
	saver := newMemorySaver()

	var notified *game.Session
	st := NewStore(WithSaver(saver), WithOnChange(func(s *game.Session) { notified = s }))

	s, err := st.CreateNew(Config{Name: "Night", PlayerCount: 3, CommonersPerPlayer: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(s.Players) != 3 {
		t.Errorf("expected 3 players, got %d", len(s.Players))
	}
	if notified == nil || notified.ID != s.ID {
		t.Error("onChange should fire on create")
	}

	waitForSave(t, saver, func(got *game.Session) bool { return got.ID == s.ID })
}

func TestStore_CreateNewInvalidConfig(t *testing.T) {
	st := NewStore()

	_, err := st.CreateNew(Config{PlayerCount: 0, CommonersPerPlayer: 2})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	_, err = st.CreateNew(Config{PlayerCount: 2, CommonersPerPlayer: -1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStore_Clear(t *testing.T) {
	st, saver := newTestStore(t)

	var notified *game.Session = &game.Session{}
	st.onChange = func(s *game.Session) { notified = s }

	st.Clear()

	if st.HasSession() {
		t.Error("session should be gone after Clear")
	}
	if notified != nil {
		t.Error("onChange should fire with nil on Clear")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if saver.get(SessionKey) == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("stored record should be removed")
}

func TestStore_MutationsWithoutSessionAreSilent(t *testing.T) {
	st := NewStore()

	// None of these may panic or create state.
	st.RenamePlayer("p", "x")
	st.SetCommonerHP("p", "c", 3)
	st.StartEvent(EventDraft{Title: "Ghost"})
	st.AdvancePhase()
	st.EndEvent(nil)
	st.AbandonEvent()
	st.AddDeckCard(game.DeckCrap, "x", "", nil)
	st.ShuffleDeck(game.DeckSilver)
	st.AddLogEntry(game.LogNote, "x", nil)
	st.Clear()

	if st.HasSession() {
		t.Error("no mutation should conjure a session")
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	st, _ := newTestStore(t)

	snap := st.Snapshot()
	snap.Players[0].Name = "tampered"

	fresh := st.Snapshot()
	if fresh.Players[0].Name == "tampered" {
		t.Error("snapshot mutation must not write through to the store")
	}
}

func TestStore_MutationRefreshesUpdatedAt(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	st, _ := newTestStore(t)
	st.now = func() time.Time { return fixed }

	st.RenamePlayer(st.Snapshot().Players[0].ID, "Renamed")

	if got := st.Snapshot().UpdatedAt; !got.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", got, fixed)
	}
}

func TestStore_NoOpMutationDoesNotNotify(t *testing.T) {
	st, _ := newTestStore(t)

	calls := 0
	st.onChange = func(*game.Session) { calls++ }

	// Unknown player id: logical no-op
	st.RenamePlayer("missing", "x")

	if calls != 0 {
		t.Errorf("no-op mutation should not notify, got %d calls", calls)
	}
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	st, saver := newTestStore(t)
	saver.setErr = errors.New("disk full")

	pid := st.Snapshot().Players[0].ID
	st.RenamePlayer(pid, "Still Works")

	if st.Snapshot().Players[0].Name != "Still Works" {
		t.Error("in-memory state must stay authoritative when saves fail")
	}
}

func TestStore_AddLogEntry(t *testing.T) {
	st, _ := newTestStore(t)

	st.AddLogEntry(game.LogScore, "p1 scored", map[string]int{"points": 3})

	log := st.Snapshot().Log
	if len(log) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(log))
	}
	if log[0].Type != game.LogScore || log[0].Text != "p1 scored" {
		t.Errorf("unexpected entry: %+v", log[0])
	}
	if log[0].Ts.IsZero() {
		t.Error("log entry should be timestamped")
	}
}
