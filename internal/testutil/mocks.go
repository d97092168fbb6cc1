// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// SequenceIDs is a deterministic domain.IDGenerator producing prefix-1, prefix-2, ...
type SequenceIDs struct {
	prefix string
	n      int
	mu     sync.Mutex
}

// NewSequenceIDs creates a SequenceIDs with the given prefix.
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

// NewID returns the next ID in the sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Stored tasks are cloned on the way in and out.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	SaveErr   error
	GetErr    error
	ListErr   error
	DeleteErr error
	SaveCalls int
	mu        sync.Mutex
}

// Ensure MockTaskRepository implements domain.TaskRepository interface.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// NewMockTaskRepository creates a new MockTaskRepository holding tasks.
func NewMockTaskRepository(tasks ...*domain.Task) *MockTaskRepository {
	m := &MockTaskRepository{Tasks: make(map[string]*domain.Task)}
	for _, t := range tasks {
		m.Tasks[t.ID] = t.Clone()
	}
	return m
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task.Clone(), nil
}

// List returns all tasks in display order.
func (m *MockTaskRepository) List() ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, t.Clone())
	}
	sortTasks(tasks)
	return tasks, nil
}

// Save stores tasks.
func (m *MockTaskRepository) Save(tasks ...*domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	for _, t := range tasks {
		m.Tasks[t.ID] = t.Clone()
	}
	return nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Tasks, id)
	return nil
}

// Replace discards all tasks and stores tasks instead.
func (m *MockTaskRepository) Replace(tasks []*domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	m.Tasks = make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		m.Tasks[t.ID] = t.Clone()
	}
	return nil
}

// Task returns the stored task without cloning, or nil.
func (m *MockTaskRepository) Task(id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tasks[id]
}

func sortTasks(tasks []*domain.Task) {
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := strings.Compare(a.DayKey(), b.DayKey()); c != 0 {
			return c
		}
		return domain.CompareTasks(a, b)
	})
}

// MockGoalRepository is a test double for domain.GoalRepository.
type MockGoalRepository struct {
	Weekly  domain.Goals
	Daily   domain.Goals
	SetErr  error
	GoalErr error
	mu      sync.Mutex
}

// Ensure MockGoalRepository implements domain.GoalRepository interface.
var _ domain.GoalRepository = (*MockGoalRepository)(nil)

// NewMockGoalRepository creates an empty MockGoalRepository.
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{Weekly: domain.Goals{}, Daily: domain.Goals{}}
}

// Goals returns a copy of the goal map for scope.
func (m *MockGoalRepository) Goals(scope domain.GoalScope) (domain.Goals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GoalErr != nil {
		return nil, m.GoalErr
	}
	if scope == domain.GoalScopeDay {
		return m.Daily.Clone(), nil
	}
	return m.Weekly.Clone(), nil
}

// SetGoal stores text under key.
func (m *MockGoalRepository) SetGoal(scope domain.GoalScope, key, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if scope == domain.GoalScopeDay {
		m.Daily.Set(key, text)
	} else {
		m.Weekly.Set(key, text)
	}
	return nil
}

// ReplaceGoals discards both maps and stores the given ones.
func (m *MockGoalRepository) ReplaceGoals(weekly, daily domain.Goals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Weekly = weekly.Clone()
	m.Daily = daily.Clone()
	return nil
}

// MemoryDocumentStore is an in-memory domain.DocumentStore.
// Revisions are decimal counters per key.
// Fields are ordered to minimize memory padding.
type MemoryDocumentStore struct {
	docs      map[string]*domain.Document
	LoadErr   error
	SaveErr   error
	SaveCalls int
	mu        sync.Mutex
}

// Ensure MemoryDocumentStore implements domain.DocumentStore interface.
var _ domain.DocumentStore = (*MemoryDocumentStore)(nil)

// NewMemoryDocumentStore creates an empty MemoryDocumentStore.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]*domain.Document)}
}

// Load returns the stored document.
func (m *MemoryDocumentStore) Load(_ context.Context, key string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *doc
	cp.Data = slices.Clone(doc.Data)
	return &cp, nil
}

// Save writes data if rev matches the stored revision.
func (m *MemoryDocumentStore) Save(_ context.Context, key string, data []byte, rev domain.Revision) (domain.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.SaveCalls++
	return m.put(key, data, rev)
}

func (m *MemoryDocumentStore) put(key string, data []byte, rev domain.Revision) (domain.Revision, error) {
	cur, exists := m.docs[key]
	switch {
	case rev == "" && exists:
		return "", domain.ErrRevisionConflict
	case rev != "" && (!exists || cur.Revision != rev):
		return "", domain.ErrRevisionConflict
	}

	next := 1
	if exists {
		n, _ := strconv.Atoi(string(cur.Revision))
		next = n + 1
	}
	newRev := domain.Revision(strconv.Itoa(next))
	m.docs[key] = &domain.Document{Key: key, Revision: newRev, Data: slices.Clone(data)}
	return newRev, nil
}

// Put stores data directly, bypassing revision checks and call counting.
func (m *MemoryDocumentStore) Put(key string, data []byte) domain.Revision {
	m.mu.Lock()
	defer m.mu.Unlock()
	rev := domain.Revision("")
	if cur, ok := m.docs[key]; ok {
		rev = cur.Revision
	}
	newRev, _ := m.put(key, data, rev)
	return newRev
}

// Saves returns the number of Save calls that reached the store.
func (m *MemoryDocumentStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls
}

// Data returns the stored bytes of key, or nil.
func (m *MemoryDocumentStore) Data(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[key]; ok {
		return slices.Clone(doc.Data)
	}
	return nil
}

// ConflictingDocumentStore wraps a MemoryDocumentStore and simulates a
// competing writer: for the next Conflicts saves, it first overwrites the
// document with Competitor data so the caller's revision goes stale.
type ConflictingDocumentStore struct {
	*MemoryDocumentStore
	Competitor []byte
	Conflicts  int
	Attempts   int
	mu         sync.Mutex
}

// NewConflictingDocumentStore creates a store that conflicts conflicts times.
func NewConflictingDocumentStore(conflicts int, competitor []byte) *ConflictingDocumentStore {
	return &ConflictingDocumentStore{
		MemoryDocumentStore: NewMemoryDocumentStore(),
		Competitor:          competitor,
		Conflicts:           conflicts,
	}
}

// Save injects a competing write before delegating.
func (c *ConflictingDocumentStore) Save(ctx context.Context, key string, data []byte, rev domain.Revision) (domain.Revision, error) {
	c.mu.Lock()
	c.Attempts++
	inject := c.Conflicts > 0
	if inject {
		c.Conflicts--
	}
	c.mu.Unlock()

	if inject {
		c.Put(key, c.Competitor)
	}
	return c.MemoryDocumentStore.Save(ctx, key, data, rev)
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store initialized.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured value.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	Written  *domain.Config
	InitErr  error
	DataInfo domain.ConfigInfo
	Global   domain.ConfigInfo
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// DataConfigInfo returns the configured data dir info.
func (m *MockConfigManager) DataConfigInfo() domain.ConfigInfo {
	return m.DataInfo
}

// GlobalConfigInfo returns the configured global info.
func (m *MockConfigManager) GlobalConfigInfo() domain.ConfigInfo {
	return m.Global
}

// InitDataConfig records cfg, failing with ErrConfigExists once written.
func (m *MockConfigManager) InitDataConfig(cfg *domain.Config) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	if m.DataInfo.Exists {
		return domain.ErrConfigExists
	}
	m.Written = cfg
	m.DataInfo.Exists = true
	m.DataInfo.Content = cfg.Render()
	return nil
}

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// RecordingLogger captures log messages for assertions.
type RecordingLogger struct {
	entries []LogEntry
	mu      sync.Mutex
}

// Ensure RecordingLogger implements domain.Logger interface.
var _ domain.Logger = (*RecordingLogger)(nil)

func (r *RecordingLogger) record(level, category, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug message.
func (r *RecordingLogger) Debug(category, msg string) { r.record("DEBUG", category, msg) }

// Info records an info message.
func (r *RecordingLogger) Info(category, msg string) { r.record("INFO", category, msg) }

// Warn records a warning.
func (r *RecordingLogger) Warn(category, msg string) { r.record("WARN", category, msg) }

// Error records an error.
func (r *RecordingLogger) Error(category, msg string) { r.record("ERROR", category, msg) }

// Entries returns a copy of the captured messages.
func (r *RecordingLogger) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// Count returns how many messages were captured at level.
func (r *RecordingLogger) Count(level string) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
