// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskcal/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the taskcal data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskcal)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (data dir + global).
// Data dir config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	paths := []string{domain.ConfigPath(l.dataDir)}
	if l.globalConfDir != "" {
		paths = append([]string{filepath.Join(l.globalConfDir, domain.ConfigFileName)}, paths...)
	}

	// Merge: default <- global <- data dir (later takes precedence)
	for _, path := range paths {
		ov, err := loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ov.applyTo(base)
	}

	return base, nil
}

// overrides holds the values one file sets. Nil means unset.
type overrides struct {
	backend       *string
	namespace     *string
	encryptionKey *string
	debounce      *time.Duration
	dateLayout    *string
	timezone      *string
	historyLimit  *int
	logLevel      *string
	warnings      []string
}

// loadFile loads overrides from a file.
func loadFile(path string) (*overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRaw(raw), nil
}

// convertRaw converts the raw map to overrides and collects warnings.
func convertRaw(raw map[string]any) *overrides {
	res := &overrides{}
	var warnings []string
	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}
	invalid := func(section, key string, v any) {
		warnings = append(warnings, fmt.Sprintf("invalid value for %s.%s: %v", section, key, v))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "backend":
					res.backend = stringValue(v)
				case "namespace":
					res.namespace = stringValue(v)
				case "encryption_key":
					res.encryptionKey = stringValue(v)
				default:
					unknown(section, k)
				}
			}
		case "goals":
			for k, v := range m {
				switch k {
				case "debounce":
					if d, ok := durationValue(v); ok {
						res.debounce = &d
					} else {
						invalid(section, k, v)
					}
				default:
					unknown(section, k)
				}
			}
		case "import":
			for k, v := range m {
				switch k {
				case "date_layout":
					res.dateLayout = stringValue(v)
				case "timezone":
					res.timezone = stringValue(v)
				default:
					unknown(section, k)
				}
			}
		case "history":
			for k, v := range m {
				switch k {
				case "limit":
					if n, ok := v.(int64); ok && n > 0 {
						limit := int(n)
						res.historyLimit = &limit
					} else {
						invalid(section, k, v)
					}
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					res.logLevel = stringValue(v)
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.warnings = warnings
	return res
}

func stringValue(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}

// durationValue accepts a Go duration string or a millisecond integer.
func durationValue(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil || parsed < 0 {
			return 0, false
		}
		return parsed, true
	case int64:
		if d < 0 {
			return 0, false
		}
		return time.Duration(d) * time.Millisecond, true
	}
	return 0, false
}

// applyTo merges o into cfg, with o taking precedence.
func (o *overrides) applyTo(cfg *domain.Config) {
	cfg.Warnings = append(cfg.Warnings, o.warnings...)
	setString(&cfg.Store.Backend, o.backend)
	setString(&cfg.Store.Namespace, o.namespace)
	setString(&cfg.Store.EncryptionKey, o.encryptionKey)
	setString(&cfg.Import.DateLayout, o.dateLayout)
	setString(&cfg.Import.Timezone, o.timezone)
	setString(&cfg.Log.Level, o.logLevel)
	if o.debounce != nil {
		cfg.Goals.Debounce = *o.debounce
	}
	if o.historyLimit != nil {
		cfg.History.Limit = *o.historyLimit
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
