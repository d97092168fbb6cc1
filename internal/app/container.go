// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/runoshun/taskcal/internal/calendar"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/infra/bundle"
	"github.com/runoshun/taskcal/internal/infra/config"
	"github.com/runoshun/taskcal/internal/infra/crypto"
	"github.com/runoshun/taskcal/internal/infra/gitstore"
	"github.com/runoshun/taskcal/internal/infra/jsonstore"
	"github.com/runoshun/taskcal/internal/infra/logging"
	"github.com/runoshun/taskcal/internal/store"
	"github.com/runoshun/taskcal/internal/usecase"
)

// Config holds the application paths derived from the data directory.
type Config struct {
	DataDir     string // Root of everything taskcal writes
	ConfigPath  string // Data dir config.toml
	StoreDir    string // JSON document store directory
	GitStoreDir string // Bare repository of the git document store
	LogPath     string // Log file
}

// newConfig derives every path from dataDir.
func newConfig(dataDir string) Config {
	return Config{
		DataDir:     dataDir,
		ConfigPath:  domain.ConfigPath(dataDir),
		StoreDir:    domain.DocumentDir(dataDir),
		GitStoreDir: domain.GitStoreDir(dataDir),
		LogPath:     domain.LogPath(dataDir),
	}
}

// ResolveDataDir picks the data directory: the flag value, then
// $TASKCAL_HOME, then $XDG_DATA_HOME/taskcal, then ~/.local/share/taskcal.
func ResolveDataDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if dir := os.Getenv(domain.DataDirEnv); dir != "" {
		return filepath.Abs(dir)
	}
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return domain.DataDir(home), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	return domain.DataDir(filepath.Join(home, ".local", "share")), nil
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	Goals            domain.GoalRepository
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Logger           domain.Logger

	// Pointer fields
	AppConfig *domain.Config
	History   *domain.UndoStack
	Calendar  *calendar.Cache
	Files     *bundle.Files
	Console   *slog.Logger
	state     *store.State
	closer    io.Closer

	// Configuration
	Config Config

	openOnce sync.Once
}

// New creates a new Container rooted at dataDir.
// It does not touch the stored documents until Open is called.
func New(dataDir string) (*Container, error) {
	cfg := newConfig(dataDir)

	configLoader := config.NewLoader(cfg.DataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}
	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	fileLogger := logging.New(cfg.DataDir, level)

	docs, storeInit, err := openDocuments(cfg, appConfig)
	if err != nil {
		_ = fileLogger.Close()
		return nil, err
	}

	state := store.NewState(docs,
		store.WithDebounce(appConfig.Goals.Debounce),
		store.WithLogger(fileLogger),
	)

	return &Container{
		Tasks:            store.NewTaskRepo(state),
		Goals:            store.NewGoalRepo(state),
		StoreInitializer: storeInit,
		Clock:            domain.RealClock{},
		IDs:              domain.UUIDGenerator{},
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManager(cfg.DataDir),
		Logger:           fileLogger,
		AppConfig:        appConfig,
		History:          domain.NewUndoStack(appConfig.History.Limit),
		Calendar:         calendar.NewCache(),
		Files:            bundle.New(nil),
		Console:          logging.NewConsole(os.Stderr, level),
		state:            state,
		closer:           fileLogger,
		Config:           cfg,
	}, nil
}

// documentBackend is what every store backend provides.
type documentBackend interface {
	domain.DocumentStore
	domain.StoreInitializer
}

// openDocuments selects the document store named by the config.
func openDocuments(cfg Config, appConfig *domain.Config) (documentBackend, domain.StoreInitializer, error) {
	if appConfig.Store.Backend != domain.StoreBackendGit {
		s := jsonstore.New(cfg.StoreDir)
		return s, s, nil
	}

	var opts []gitstore.Option
	if key := appConfig.Store.EncryptionKey; key != "" {
		enc, err := crypto.NewEncryptor(key)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
		}
		opts = append(opts, gitstore.WithEncryptor(enc))
	}
	s, err := gitstore.Open(cfg.GitStoreDir, appConfig.Store.Namespace, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// The returned container has no background state; Open and Close are no-ops.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, goals domain.GoalRepository, storeInit domain.StoreInitializer, clock domain.Clock, ids domain.IDGenerator, logger *slog.Logger) *Container {
	appConfig := domain.NewDefaultConfig()
	return &Container{
		Tasks:            tasks,
		Goals:            goals,
		StoreInitializer: storeInit,
		Clock:            clock,
		IDs:              ids,
		Logger:           domain.NopLogger{},
		AppConfig:        appConfig,
		History:          domain.NewUndoStack(appConfig.History.Limit),
		Calendar:         calendar.NewCache(),
		Files:            bundle.New(nil),
		Console:          logger,
		Config:           cfg,
	}
}

// Open loads the stored documents. Calling it again does nothing.
func (c *Container) Open(ctx context.Context) {
	c.openOnce.Do(func() {
		if c.state != nil {
			c.state.Open(ctx)
		}
	})
}

// Close flushes pending writes and releases the log file.
func (c *Container) Close() error {
	var errs []error
	if c.state != nil {
		errs = append(errs, c.state.Close())
	}
	if c.closer != nil {
		errs = append(errs, c.closer.Close())
	}
	return errors.Join(errs...)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.ConfigManager, c.AppConfig)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.IDs, c.Logger).WithHistory(c.History)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Tasks, c.Logger).WithHistory(c.History)
}

// ReorderTaskUseCase returns a new ReorderTask use case.
func (c *Container) ReorderTaskUseCase() *usecase.ReorderTask {
	return usecase.NewReorderTask(c.Tasks, c.Logger).WithHistory(c.History)
}

// CopyTaskUseCase returns a new CopyTask use case.
func (c *Container) CopyTaskUseCase() *usecase.CopyTask {
	return usecase.NewCopyTask(c.Tasks, c.IDs).WithHistory(c.History)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Logger).WithHistory(c.History)
}

// ToggleCompleteUseCase returns a new ToggleComplete use case.
func (c *Container) ToggleCompleteUseCase() *usecase.ToggleComplete {
	return usecase.NewToggleComplete(c.Tasks, c.Logger).WithHistory(c.History)
}

// ToggleUrgentUseCase returns a new ToggleUrgent use case.
func (c *Container) ToggleUrgentUseCase() *usecase.ToggleUrgent {
	return usecase.NewToggleUrgent(c.Tasks, c.Logger).WithHistory(c.History)
}

// AddCommentUseCase returns a new AddComment use case.
func (c *Container) AddCommentUseCase() *usecase.AddComment {
	return usecase.NewAddComment(c.Tasks, c.IDs, c.Logger).WithHistory(c.History)
}

// AddSubtaskUseCase returns a new AddSubtask use case.
func (c *Container) AddSubtaskUseCase() *usecase.AddSubtask {
	return usecase.NewAddSubtask(c.Tasks, c.IDs).WithHistory(c.History)
}

// ToggleSubtaskUseCase returns a new ToggleSubtask use case.
func (c *Container) ToggleSubtaskUseCase() *usecase.ToggleSubtask {
	return usecase.NewToggleSubtask(c.Tasks).WithHistory(c.History)
}

// SetGoalUseCase returns a new SetGoal use case.
func (c *Container) SetGoalUseCase() *usecase.SetGoal {
	return usecase.NewSetGoal(c.Goals, c.Logger)
}

// ShowGoalsUseCase returns a new ShowGoals use case.
func (c *Container) ShowGoalsUseCase() *usecase.ShowGoals {
	return usecase.NewShowGoals(c.Goals)
}

// ShowCalendarUseCase returns a new ShowCalendar use case.
func (c *Container) ShowCalendarUseCase() *usecase.ShowCalendar {
	return usecase.NewShowCalendar(c.Tasks, c.Goals, c.Clock).WithCache(c.Calendar)
}

// ShowStatsUseCase returns a new ShowStats use case.
func (c *Container) ShowStatsUseCase() *usecase.ShowStats {
	return usecase.NewShowStats(c.Tasks, c.Clock)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() (*usecase.ImportTasks, error) {
	loc, err := c.AppConfig.ImportLocation()
	if err != nil {
		return nil, err
	}
	opts := usecase.ImportOptions{Location: loc, Layout: c.AppConfig.Import.DateLayout}
	return usecase.NewImportTasks(c.Tasks, c.Goals, c.IDs, c.Clock, c.Logger, opts).WithHistory(c.History), nil
}

// ExportDataUseCase returns a new ExportData use case.
func (c *Container) ExportDataUseCase() *usecase.ExportData {
	return usecase.NewExportData(c.Tasks, c.Goals, c.Clock)
}

// UndoUseCase returns a new Undo use case.
func (c *Container) UndoUseCase() *usecase.Undo {
	return usecase.NewUndo(c.Tasks, c.History, c.Logger)
}

// RedoUseCase returns a new Redo use case.
func (c *Container) RedoUseCase() *usecase.Redo {
	return usecase.NewRedo(c.Tasks, c.History, c.Logger)
}
