package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

// CurrentSchemaVersion is the current config schema version.
const CurrentSchemaVersion = 1

// Environment variable names for config overrides.
// Priority: Environment > Config File > Default
const (
	EnvPort            = "ARENAGM_PORT"
	EnvLanEnabled      = "ARENAGM_LAN_ENABLED"
	EnvRelayURL        = "ARENAGM_RELAY_URL"
	EnvPushDebounceMs  = "ARENAGM_PUSH_DEBOUNCE_MS"
	EnvPollIntervalSec = "ARENAGM_POLL_INTERVAL_SEC"
	EnvRelayPort       = "ARENAGM_RELAY_PORT"
)

// Config holds non-sensitive application configuration.
type Config struct {
	SchemaVersion   int    `json:"schema_version"`
	Port            int    `json:"port"`
	LanEnabled      bool   `json:"lan_enabled"`
	RelayURL        string `json:"relay_url"`
	PushDebounceMs  int    `json:"push_debounce_ms"`
	PollIntervalSec int    `json:"poll_interval_sec"`
	RelayPort       int    `json:"relay_port"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SchemaVersion:   CurrentSchemaVersion,
		Port:            8080,
		LanEnabled:      false,
		RelayURL:        "", // replication disabled until set
		PushDebounceMs:  500,
		PollIntervalSec: 3,
		RelayPort:       8090,
	}
}

// LoadConfig reads config from disk. If the file doesn't exist or is corrupt,
// it returns DefaultConfig with a warning logged (non-fatal).
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	return LoadConfigFrom(path)
}

// LoadConfigFrom reads config from the specified path.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, use defaults (not an error)
			return cfg, nil
		}
		log.Printf("Warning: failed to read config file: %v, using defaults", err)
		return cfg, nil
	}

	// Try to parse JSON
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		log.Printf("Warning: config file is corrupt: %v, using defaults", err)
		return DefaultConfig(), nil
	}

	// Check schema version
	if cfg.SchemaVersion != CurrentSchemaVersion {
		log.Printf("Warning: config schema version mismatch (got %d, expected %d), using defaults",
			cfg.SchemaVersion, CurrentSchemaVersion)
		return DefaultConfig(), nil
	}

	// Normalize/validate values
	cfg = normalizeConfig(cfg)

	return cfg, nil
}

// normalizeConfig validates and normalizes config values.
func normalizeConfig(cfg Config) Config {
	defaults := DefaultConfig()

	// Ensure schema version
	cfg.SchemaVersion = CurrentSchemaVersion

	// Validate ports
	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = defaults.Port
	}
	if cfg.RelayPort <= 0 || cfg.RelayPort > 65535 {
		cfg.RelayPort = defaults.RelayPort
	}

	// Validate timing values
	if cfg.PushDebounceMs < 0 {
		cfg.PushDebounceMs = defaults.PushDebounceMs
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = defaults.PollIntervalSec
	}

	// Relay URL must not end with a trailing slash (paths are appended)
	cfg.RelayURL = strings.TrimRight(cfg.RelayURL, "/")

	return cfg
}

// SaveConfig writes config to disk atomically.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	return SaveConfigTo(cfg, path)
}

// SaveConfigTo writes config to the specified path atomically.
func SaveConfigTo(cfg Config, path string) error {
	// Ensure schema version is set
	cfg.SchemaVersion = CurrentSchemaVersion

	return writeJSONAtomic(path, cfg)
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take highest priority over config file values.
func ApplyEnvOverrides(cfg Config) Config {
	// Port
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port <= 65535 {
			cfg.Port = port
		}
	}

	// LAN enabled
	if v := os.Getenv(EnvLanEnabled); v != "" {
		cfg.LanEnabled = parseBool(v)
	}

	// Relay URL
	if v := os.Getenv(EnvRelayURL); v != "" {
		cfg.RelayURL = strings.TrimRight(v, "/")
	}

	// Push debounce milliseconds
	if v := os.Getenv(EnvPushDebounceMs); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.PushDebounceMs = ms
		}
	}

	// Poll interval seconds
	if v := os.Getenv(EnvPollIntervalSec); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.PollIntervalSec = sec
		}
	}

	// Relay port
	if v := os.Getenv(EnvRelayPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port <= 65535 {
			cfg.RelayPort = port
		}
	}

	return cfg
}

// parseBool parses a boolean from various string representations.
// Accepts: "true", "1", "yes", "on" (case-insensitive) as true.
// All other values are treated as false.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
