package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arenagm/companion/internal/game"
)

// Export serializes the current session verbatim, no envelope, along with
// a suggested filename embedding the session name and date.
func (st *Store) Export() (data []byte, filename string, err error) {
	st.mu.Lock()
	s := st.session
	st.mu.Unlock()

	if s == nil {
		return nil, "", ErrNoSession
	}

	data, err = json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("serialize session: %w", err)
	}

	filename = fmt.Sprintf("%s-%s.json", slugify(s.Name), s.UpdatedAt.Format("2006-01-02"))
	return data, filename, nil
}

// Import parses a session document and replaces the current session
// wholesale. Validation is superficial: the top-level id, players, and
// schemaVersion fields must be present; internal invariants are not
// checked. On any failure the existing session is left untouched. The
// imported session is restamped to the current schema version and
// UpdatedAt is set to now.
func (st *Store) Import(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for _, field := range []string{"id", "players", "schemaVersion"} {
		if _, ok := raw[field]; !ok {
			return fmt.Errorf("%w: missing required field %q", ErrInvalidImport, field)
		}
	}

	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: id must be non-empty", ErrInvalidImport)
	}

	s.SchemaVersion = game.CurrentSchemaVersion
	s.UpdatedAt = st.now()

	st.mu.Lock()
	st.session = &s
	st.mu.Unlock()

	st.persist(&s)
	st.notify(&s)
	return nil
}

// slugify lowercases and squashes a session name into a filename-safe
// token.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "session"
	}
	return s
}
