// Package paths resolves where the launcher keeps its database and profile
// directories.
package paths

import (
	"os"
	"path/filepath"
)

const (
	// DefaultDataDirName is created under the user's home directory.
	DefaultDataDirName = ".karrito"
	// DatabaseFileName is the single SQLite file owned by the store.
	DatabaseFileName = "karrito_launcher.db"
	// ProfilesDirName holds one game directory per profile.
	ProfilesDirName = "profiles"
)

// homeDir can be overridden in tests.
var homeDir = os.UserHomeDir

// DefaultDataDir returns ~/.karrito.
func DefaultDataDir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDataDirName), nil
}

// ResolveDataDir follows the precedence flag > configured value > default.
func ResolveDataDir(flag, configured string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configured != "" {
		return filepath.Abs(configured)
	}
	return DefaultDataDir()
}

// DatabasePath returns the explicit path if set, otherwise <dataDir>/karrito_launcher.db.
func DatabasePath(dataDir, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dataDir, DatabaseFileName)
}

// ProfilesRoot returns <dataDir>/profiles.
func ProfilesRoot(dataDir string) string {
	return filepath.Join(dataDir, ProfilesDirName)
}
