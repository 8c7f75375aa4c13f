package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/arenagm/companion/internal/game"
	"github.com/arenagm/companion/internal/roll"
)

// SessionKey is the document key the current session is stored under.
const SessionKey = "current-session"

// Saver is the local persistence contract the store writes through.
// Implemented by localstore.Store.
type Saver interface {
	// Get returns the stored document, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
}

// ChangeFunc receives the new snapshot after every successful mutation.
// A nil session means the session was cleared. The snapshot must not be
// mutated by the receiver.
type ChangeFunc func(s *game.Session)

// Store owns at most one Session. Every mutation clones the current
// snapshot, applies the change, refreshes UpdatedAt, swaps the snapshot
// atomically, kicks off a fire-and-forget local save, and notifies the
// change hook. Session-scoped mutations on an empty store are silent
// no-ops.
type Store struct {
	mu       sync.Mutex
	session  *game.Session
	hydrated bool

	saver    Saver
	onChange ChangeFunc
	logger   *slog.Logger
	rng      *rand.Rand
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSaver sets the local persistence adapter.
func WithSaver(s Saver) StoreOption {
	return func(st *Store) { st.saver = s }
}

// WithOnChange sets the change hook (feeds the cloud pusher).
func WithOnChange(fn ChangeFunc) StoreOption {
	return func(st *Store) { st.onChange = fn }
}

// WithStoreLogger sets the logger.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(st *Store) { st.logger = logger }
}

// WithNow sets the clock (for testing).
func WithNow(now func() time.Time) StoreOption {
	return func(st *Store) { st.now = now }
}

// WithRand sets the random source used for ids and generation.
func WithRand(rng *rand.Rand) StoreOption {
	return func(st *Store) { st.rng = rng }
}

// NewStore creates an empty, not-yet-hydrated store.
func NewStore(opts ...StoreOption) *Store {
	st := &Store{
		logger: slog.Default(),
		rng:    roll.NewRand(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Hydrate loads the persisted session, if any, and flips the ready flag.
// A corrupt record is treated as absent with a warning; only storage I/O
// failure is returned as an error (the flag flips regardless, so the UI
// can leave its indeterminate state).
func (st *Store) Hydrate(ctx context.Context) error {
	var loaded *game.Session

	var ioErr error
	if st.saver != nil {
		data, err := st.saver.Get(ctx, SessionKey)
		switch {
		case err != nil:
			ioErr = err
			st.logger.Warn("hydration read failed", "error", err)
		case data != nil:
			var s game.Session
			if err := json.Unmarshal(data, &s); err != nil {
				st.logger.Warn("stored session is corrupt, starting empty", "error", err)
			} else {
				loaded = &s
			}
		}
	}

	st.mu.Lock()
	st.session = loaded
	st.hydrated = true
	snap := st.session
	st.mu.Unlock()

	if snap != nil {
		st.notify(snap)
	}
	return ioErr
}

// Ready reports whether the initial load from persistence has completed.
// Until then the session is indeterminate, not absent.
func (st *Store) Ready() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.hydrated
}

// Snapshot returns a deep copy of the current session, or nil.
func (st *Store) Snapshot() *game.Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session.Clone()
}

// HasSession reports whether a session is loaded.
func (st *Store) HasSession() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session != nil
}

// CreateNew builds a fresh session from the config and replaces any
// current one wholesale.
func (st *Store) CreateNew(cfg Config) (*game.Session, error) {
	st.mu.Lock()
	s, err := New(cfg, st.rng)
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}
	st.session = s
	st.mu.Unlock()

	st.persist(s)
	st.notify(s)
	return s.Clone(), nil
}

// Clear destroys the current session and removes the local record.
func (st *Store) Clear() {
	st.mu.Lock()
	st.session = nil
	st.mu.Unlock()

	if st.saver != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := st.saver.Remove(ctx, SessionKey); err != nil {
				st.logger.Warn("failed to remove stored session", "error", err)
			}
		}()
	}
	st.notify(nil)
}

const saveTimeout = 5 * time.Second

// mutate runs fn against a clone of the current session. fn returns false
// to signal a logical no-op (nothing persisted, nothing notified). With no
// session loaded, mutate silently does nothing.
func (st *Store) mutate(fn func(s *game.Session) bool) {
	st.mu.Lock()
	if st.session == nil {
		st.mu.Unlock()
		return
	}
	next := st.session.Clone()
	if !fn(next) {
		st.mu.Unlock()
		return
	}
	next.UpdatedAt = st.now()
	st.session = next
	st.mu.Unlock()

	st.persist(next)
	st.notify(next)
}

// persist serializes the snapshot and writes it through the saver in the
// background. Failures are logged and never surfaced to the caller; the
// in-memory state stays authoritative. Ordering between rapid successive
// saves is not guaranteed.
func (st *Store) persist(s *game.Session) {
	if st.saver == nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		st.logger.Error("failed to serialize session", "error", err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := st.saver.Set(ctx, SessionKey, data); err != nil {
			st.logger.Warn("local save failed", "error", err)
		}
	}()
}

func (st *Store) notify(s *game.Session) {
	if st.onChange != nil {
		st.onChange(s)
	}
}

// AddLogEntry appends a timestamped entry to the session log. The log is
// informational only; nothing reads it back.
func (st *Store) AddLogEntry(kind game.LogEntryType, text string, payload any) {
	st.mutate(func(s *game.Session) bool {
		s.Log = append(s.Log, game.LogEntry{
			Ts:      st.now(),
			Type:    kind,
			Text:    text,
			Payload: payload,
		})
		return true
	})
}
