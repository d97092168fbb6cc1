package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document keys of the persisted collections.
const (
	DocEvents      = "events"
	DocWeeklyGoals = "weeklyGoals"
	DocDailyGoals  = "dailyGoals"
)

// DocumentKeys returns every persisted document key.
func DocumentKeys() []string {
	return []string{DocEvents, DocWeeklyGoals, DocDailyGoals}
}

// Revision is an opaque token identifying one stored version of a document.
// The empty revision means "no document yet".
type Revision string

// Document is one stored collection together with its revision.
type Document struct {
	Key      string
	Revision Revision
	Data     []byte
}

// DocumentStore persists whole-collection documents with optimistic concurrency.
type DocumentStore interface {
	// Load returns the current document. Returns ErrDocumentNotFound if absent.
	Load(ctx context.Context, key string) (*Document, error)

	// Save writes data under key.
	// An empty rev creates the document and conflicts if it already exists.
	// A non-empty rev must match the stored revision, otherwise
	// ErrRevisionConflict is returned.
	Save(ctx context.Context, key string, data []byte, rev Revision) (Revision, error)
}

// StoreInitializer prepares a backing store for first use.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether Initialize has run.
	IsInitialized() bool
}

// TaskRepository manages the task collection.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(id string) (*Task, error)

	// List returns every task.
	List() ([]*Task, error)

	// Save creates or updates tasks in a single write.
	Save(tasks ...*Task) error

	// Delete removes a task by ID.
	Delete(id string) error

	// Replace discards the collection and stores tasks instead.
	Replace(tasks []*Task) error
}

// GoalRepository manages the weekly and daily goal maps.
type GoalRepository interface {
	// Goals returns a copy of the goal map for scope.
	Goals(scope GoalScope) (Goals, error)

	// SetGoal stores text under key. Empty text removes the goal.
	SetGoal(scope GoalScope, key, text string) error

	// ReplaceGoals discards both maps and stores the given ones.
	ReplaceGoals(weekly, daily Goals) error
}

// Logger writes diagnostic messages.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards all messages.
type NopLogger struct{}

// Debug discards msg.
func (NopLogger) Debug(string, string) {}

// Info discards msg.
func (NopLogger) Info(string, string) {}

// Warn discards msg.
func (NopLogger) Warn(string, string) {}

// Error discards msg.
func (NopLogger) Error(string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// IDGenerator produces unique identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator implements IDGenerator with random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID v4 string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	// DataConfigInfo returns information about the data dir config file.
	DataConfigInfo() ConfigInfo

	// GlobalConfigInfo returns information about the global config file.
	GlobalConfigInfo() ConfigInfo

	// InitDataConfig writes cfg as the data dir config file.
	// Returns ErrConfigExists if the file is already present.
	InitDataConfig(cfg *Config) error
}
