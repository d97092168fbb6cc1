package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Import zones must resolve on hosts without zoneinfo
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Store    StoreConfig   `toml:"store"`
	Import   ImportConfig  `toml:"import"`
	Log      LogConfig     `toml:"log"`
	Goals    GoalsConfig   `toml:"goals"`
	History  HistoryConfig `toml:"history"`
}

// StoreConfig holds [store] settings.
type StoreConfig struct {
	Backend       string `toml:"backend"`        // "json" or "git"
	Namespace     string `toml:"namespace"`      // Ref namespace for the git backend
	EncryptionKey string `toml:"encryption_key"` // Hex AES-256 key sealing git blobs; empty disables
}

// GoalsConfig holds [goals] settings.
type GoalsConfig struct {
	Debounce time.Duration `toml:"debounce"` // Window collapsing rapid goal edits
}

// ImportConfig holds [import] settings.
type ImportConfig struct {
	DateLayout string `toml:"date_layout"` // Go time layout of "Due Date Text" values
	Timezone   string `toml:"timezone"`    // IANA zone the due dates are written in
}

// HistoryConfig holds [history] settings.
type HistoryConfig struct {
	Limit int `toml:"limit"` // Maximum undo steps kept
}

// LogConfig holds [log] settings.
type LogConfig struct {
	Level string `toml:"level"` // Log level: debug, info, warn, error
}

// Configuration defaults.
const (
	StoreBackendJSON    = "json"
	StoreBackendGit     = "git"
	DefaultStoreBackend = StoreBackendJSON
	DefaultNamespace    = "taskcal"
	DefaultGoalDebounce = 500 * time.Millisecond
	DefaultDateLayout   = "2006-01-02 15:04"
	DefaultImportZone   = "America/New_York"
	DefaultHistoryLimit = 100
	DefaultLogLevel     = "info"
)

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   DefaultStoreBackend,
			Namespace: DefaultNamespace,
		},
		Goals: GoalsConfig{
			Debounce: DefaultGoalDebounce,
		},
		Import: ImportConfig{
			DateLayout: DefaultDateLayout,
			Timezone:   DefaultImportZone,
		},
		History: HistoryConfig{
			Limit: DefaultHistoryLimit,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ImportLocation resolves the configured import time zone.
func (c *Config) ImportLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Import.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load import timezone %q: %w", c.Import.Timezone, err)
	}
	return loc, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendJSON, StoreBackendGit:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreBackend, c.Store.Backend)
	}
	return nil
}

// Render formats the effective configuration as TOML.
func (c *Config) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[store]\nbackend = %q\nnamespace = %q\n", c.Store.Backend, c.Store.Namespace)
	if c.Store.EncryptionKey != "" {
		fmt.Fprintf(&b, "encryption_key = %q\n", c.Store.EncryptionKey)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "[goals]\ndebounce = %q\n\n", c.Goals.Debounce.String())
	fmt.Fprintf(&b, "[import]\ndate_layout = %q\ntimezone = %q\n\n", c.Import.DateLayout, c.Import.Timezone)
	fmt.Fprintf(&b, "[history]\nlimit = %d\n\n", c.History.Limit)
	fmt.Fprintf(&b, "[log]\nlevel = %q\n", c.Log.Level)
	return b.String()
}

// Redacted returns a copy safe to display, with secrets masked.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Warnings = append([]string(nil), c.Warnings...)
	if cp.Store.EncryptionKey != "" {
		cp.Store.EncryptionKey = "********"
	}
	return &cp
}

// ConfigInfo describes one config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}
