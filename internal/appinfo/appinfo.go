// Package appinfo provides application identity constants.
// These are used across packages for consistent naming.
package appinfo

const (
	// AppName is the display name of the application.
	AppName = "Arena GM Companion"

	// DirName is the directory name used for storing application data.
	// Location: %LOCALAPPDATA%/arenagm/ (Windows) or ~/.config/arenagm/ (other)
	DirName = "arenagm"

	// MutexName is the Windows mutex name for single instance control.
	// "Local\" prefix means the mutex is scoped to the current user session,
	// not system-wide. This is appropriate for desktop applications.
	MutexName = "Local\\arenagm-companion"

	// ConfigFileName is the configuration file name.
	ConfigFileName = "config.json"

	// SecretsFileName is the secrets file name.
	SecretsFileName = "secrets.json"

	// DatabaseFileName is the local document database file name.
	DatabaseFileName = "arenagm.sqlite"

	// RelayDatabaseFileName is the relay's session database file name.
	RelayDatabaseFileName = "arenagm-relay.sqlite"
)
