package domain

import (
	"path/filepath"
	"regexp"
)

// File and directory names.
const (
	ConfigFileName = "config.toml" // Config file name
	DataDirName    = "taskcal"     // Directory under XDG data/config homes
	DataDirEnv     = "TASKCAL_HOME"
	LogFileName    = "taskcal.log"
)

// DataDir returns the data directory under the given XDG data home.
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, DataDirName)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, DataDirName)
}

// ConfigPath returns the data-dir config file path.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// LogPath returns the path to the log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", LogFileName)
}

// DocumentDir returns the directory of the JSON document store.
func DocumentDir(dataDir string) string {
	return filepath.Join(dataDir, "store")
}

// GitStoreDir returns the repository directory of the git document store.
func GitStoreDir(dataDir string) string {
	return filepath.Join(dataDir, "store.git")
}

// documentKeyPattern matches keys usable as file and ref names.
var documentKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidDocumentKey reports whether key can be stored by every backend.
func ValidDocumentKey(key string) bool {
	return documentKeyPattern.MatchString(key)
}
