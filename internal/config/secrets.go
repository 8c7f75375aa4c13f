package config

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
)

const (
	passwordLength  = 24
	passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	defaultUsername = "gm"
)

// SecretsLoadStatus reports how the secrets file was resolved. Callers use
// it to decide whether writing the file back could destroy data.
type SecretsLoadStatus int

const (
	// SecretsLoaded: parsed from disk successfully.
	SecretsLoaded SecretsLoadStatus = iota
	// SecretsMissing: no file yet, safe to create.
	SecretsMissing
	// SecretsFallback: the file exists but could not be used; overwriting
	// it would lose whatever the user had there.
	SecretsFallback
)

// Secret is a string that masks itself in formatted output. Call Value()
// where the real text is needed.
type Secret string

func (s Secret) String() string { return "[REDACTED]" }

// GoString masks %#v formatting as well.
func (s Secret) GoString() string { return "[REDACTED]" }

// Value returns the underlying text.
func (s Secret) Value() string { return string(s) }

// IsEmpty reports whether the secret is unset.
func (s Secret) IsEmpty() bool { return s == "" }

// Secrets holds the credentials kept out of config.json. json.Marshal of
// this struct exposes the real values; never log it whole.
type Secrets struct {
	SchemaVersion     int    `json:"schema_version"`
	BasicAuthUsername string `json:"basic_auth_username"`
	BasicAuthPassword Secret `json:"basic_auth_password"`
}

// DefaultSecrets returns empty credentials at the current schema version.
func DefaultSecrets() Secrets {
	return Secrets{SchemaVersion: CurrentSchemaVersion}
}

// LoadSecrets reads secrets from the data directory.
func LoadSecrets() (Secrets, SecretsLoadStatus, error) {
	path, err := SecretsPath()
	if err != nil {
		return DefaultSecrets(), SecretsFallback, err
	}
	return LoadSecretsFrom(path)
}

// LoadSecretsFrom reads secrets from the specified path. A missing file is
// not an error; a corrupt or version-mismatched one yields defaults with
// SecretsFallback so callers know not to write over it.
func LoadSecretsFrom(path string) (Secrets, SecretsLoadStatus, error) {
	sec := DefaultSecrets()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sec, SecretsMissing, nil
		}
		log.Printf("Warning: failed to read secrets file: %v, using defaults", err)
		return sec, SecretsFallback, fmt.Errorf("read secrets: %w", err)
	}

	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&sec); err != nil {
		log.Printf("Warning: secrets file is corrupt: %v, using defaults", err)
		return DefaultSecrets(), SecretsFallback, fmt.Errorf("decode secrets: %w", err)
	}

	if sec.SchemaVersion != CurrentSchemaVersion {
		log.Printf("Warning: secrets schema version mismatch (got %d, expected %d), using defaults",
			sec.SchemaVersion, CurrentSchemaVersion)
		return DefaultSecrets(), SecretsFallback, fmt.Errorf("schema mismatch: got %d", sec.SchemaVersion)
	}

	return sec, SecretsLoaded, nil
}

// SaveSecrets writes secrets to the data directory atomically.
func SaveSecrets(sec Secrets) error {
	path, err := SecretsPath()
	if err != nil {
		return err
	}
	return SaveSecretsTo(sec, path)
}

// SaveSecretsTo writes secrets to the specified path atomically, stamping
// the current schema version.
func SaveSecretsTo(sec Secrets, path string) error {
	sec.SchemaVersion = CurrentSchemaVersion
	return writeJSONAtomic(path, sec)
}

// GeneratePassword returns a random password drawn from crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("generate password: length must be positive")
	}
	b := make([]byte, length)
	charsetLen := big.NewInt(int64(len(passwordCharset)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b[i] = passwordCharset[idx.Int64()]
	}
	return string(b), nil
}

// EnsureLanAuth fills in missing basic auth credentials when LAN mode is
// on. When a password had to be generated it is returned in plaintext for
// one-time display; it is otherwise only stored masked.
func EnsureLanAuth(s *Secrets, lanEnabled bool) (updated bool, generatedPassword string, err error) {
	if !lanEnabled {
		return false, "", nil
	}

	if s.BasicAuthUsername == "" {
		s.BasicAuthUsername = defaultUsername
		updated = true
	}
	if s.BasicAuthPassword.IsEmpty() {
		pw, err := GeneratePassword(passwordLength)
		if err != nil {
			return false, "", err
		}
		s.BasicAuthPassword = Secret(pw)
		generatedPassword = pw
		updated = true
	}

	return updated, generatedPassword, nil
}

// WritePasswordFile drops the generated credentials into a 0600 file in
// the data directory, so the password never hits the log stream.
func WritePasswordFile(username, password string) (string, error) {
	dataDir, err := EnsureDataDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dataDir, "generated_password.txt")
	content := fmt.Sprintf("Username: %s\nPassword: %s\n\nDelete this file after saving the credentials.\n", username, password)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("write password file: %w", err)
	}
	return path, nil
}
