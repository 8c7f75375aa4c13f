// Package localstore provides the on-device document store backing the
// session store's automatic save. One logical key holds the serialized
// session together with a write timestamp and schema version.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// TimeFormat is the fixed-width RFC3339 format used for timestamps.
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// CurrentSchemaVersion is stamped onto every written record.
const CurrentSchemaVersion = 1

// Store wraps a SQLite database holding key->JSON documents.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the document database at path, in WAL mode with
// a busy timeout.
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

	// The session store serializes writes itself; a small pool still
	// lets reads overlap.
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
	CREATE TABLE IF NOT EXISTS documents (
		key            TEXT PRIMARY KEY,
		data           TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		schema_version INTEGER NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Get returns the document stored under key, or nil if absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE key = ?`, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", key, err)
	}
	return []byte(data), nil
}

// Set overwrites the document under key, refreshing the write timestamp
// and schema version.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	const query = `
	INSERT INTO documents (key, data, updated_at, schema_version)
	VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'), ?)
	ON CONFLICT(key) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at,
		schema_version = excluded.schema_version
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(data), CurrentSchemaVersion); err != nil {
		return fmt.Errorf("set document %q: %w", key, err)
	}
	return nil
}

// Remove deletes the document under key. Removing an absent key is not an
// error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove document %q: %w", key, err)
	}
	return nil
}

// journalMode returns the current journal mode (for testing).
func (s *Store) journalMode() (string, error) {
	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return "", err
	}
	return mode, nil
}
