// Package relay implements the remote replication endpoint: a SQLite
// store of whole-session documents keyed by session id, and the HTTP
// surface the GM device pushes to and player views poll from.
package relay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Store persists session documents, one row per session id. Replication
// is last-writer-wins: an upsert overwrites the stored document whole and
// refreshes updated_at.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the relay database at path.
func Open(path string) (*Store, error) {
	escapedPath := url.PathEscape(path)
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", escapedPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(4)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Upsert creates or overwrites the document for id and refreshes its
// update timestamp.
func (s *Store) Upsert(ctx context.Context, id string, data json.RawMessage) error {
	if id == "" {
		return errors.New("session id is required")
	}
	const query = `
	INSERT INTO sessions (id, data, updated_at)
	VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	ON CONFLICT(id) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, id, string(data)); err != nil {
		return fmt.Errorf("upsert session %q: %w", id, err)
	}
	return nil
}

// Get returns the document for id, or nil if absent.
func (s *Store) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %q: %w", id, err)
	}
	return json.RawMessage(data), nil
}

// GetLatest returns the most recently updated document, or nil if the
// store is empty. This is the default read path for player views; in this
// deployment model there is exactly one session of interest.
func (s *Store) GetLatest(ctx context.Context) (json.RawMessage, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest session: %w", err)
	}
	return json.RawMessage(data), nil
}

// Count returns the number of stored sessions (for testing/monitoring).
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
