package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

// State holds the task collection and both goal maps in memory.
//
// Reads return deep copies. Writes update memory immediately and persist
// in the background: task writes start at once, goal writes are debounced
// per period key. Persistence failures are logged, never returned.
// A document that could not be read on Open is never written again until
// it is replaced wholesale, so the stored copy is kept for repair.
// Fields are ordered to minimize memory padding.
type State struct {
	ctx       context.Context
	persister *Persister
	logger    domain.Logger
	tasks     map[string]*domain.Task
	weekly    domain.Goals
	daily     domain.Goals
	timers    map[string]*pendingWrite
	held      map[string]struct{} // Documents not written until replaced
	inflight  sync.WaitGroup
	debounce  time.Duration
	gen       uint64
	mu        sync.Mutex
}

type pendingWrite struct {
	timer *time.Timer
	doc   string
	gen   uint64
}

// Option configures a State.
type Option func(*State)

// WithDebounce sets the goal write debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *State) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the logger receiving background failures.
func WithLogger(logger domain.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates an empty State persisting through docs.
func NewState(docs domain.DocumentStore, opts ...Option) *State {
	s := &State{
		ctx:      context.Background(),
		logger:   domain.NopLogger{},
		tasks:    make(map[string]*domain.Task),
		weekly:   domain.Goals{},
		daily:    domain.Goals{},
		timers:   make(map[string]*pendingWrite),
		held:     make(map[string]struct{}),
		debounce: domain.DefaultGoalDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persister = NewPersister(docs, s.logger)
	return s
}

// Open loads every collection. A missing document is created empty.
// Any other failure is logged, leaves that collection empty and holds
// the document back from later writes.
func (s *State) Open(ctx context.Context) {
	s.ctx = context.WithoutCancel(ctx)
	for _, key := range domain.DocumentKeys() {
		data, err := s.persister.Load(ctx, key)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			s.logger.Info(logCategory, fmt.Sprintf("%s not found, creating empty document", key))
			s.persist(key)
			continue
		}
		if err != nil {
			s.logger.Error(logCategory, fmt.Sprintf("load %s: %v", key, err))
			s.hold(key)
			continue
		}
		if err := s.decode(key, data); err != nil {
			s.logger.Error(logCategory, fmt.Sprintf("decode %s: %v", key, err))
			s.hold(key)
			continue
		}
		s.release(key)
	}
}

func (s *State) hold(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[key] = struct{}{}
}

func (s *State) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, key)
}

// Held reports whether writes of the document key are being withheld.
func (s *State) Held(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.held[key]
	return ok
}

func (s *State) decode(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case domain.DocEvents:
		var tasks []*domain.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return err
		}
		s.tasks = make(map[string]*domain.Task, len(tasks))
		for _, t := range tasks {
			if t == nil || t.ID == "" {
				s.logger.Warn(logCategory, "skipping stored task without id")
				continue
			}
			if t.Comments == nil {
				t.Comments = []domain.Comment{}
			}
			s.tasks[t.ID] = t
		}
	case domain.DocWeeklyGoals, domain.DocDailyGoals:
		var goals domain.Goals
		if err := json.Unmarshal(data, &goals); err != nil {
			return err
		}
		if key == domain.DocWeeklyGoals {
			s.weekly = goals.Clone()
		} else {
			s.daily = goals.Clone()
		}
	}
	return nil
}

// encode serializes the current collection of key.
func (s *State) encode(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case domain.DocEvents:
		return json.Marshal(s.sortedTasksLocked())
	case domain.DocWeeklyGoals:
		return json.Marshal(s.weekly)
	case domain.DocDailyGoals:
		return json.Marshal(s.daily)
	}
	return nil, fmt.Errorf("unknown document %q", key)
}

// persist writes the collection of key synchronously, encoding it only
// after the stored revision is known.
func (s *State) persist(key string) {
	if s.Held(key) {
		s.logger.Error(logCategory, fmt.Sprintf("not saving %s: stored document could not be read; import a backup to replace it", key))
		return
	}
	rev, err := s.persister.SaveCurrent(s.ctx, key, func() ([]byte, error) { return s.encode(key) })
	if err != nil {
		s.logger.Error(logCategory, err.Error())
		return
	}
	s.logger.Debug(logCategory, fmt.Sprintf("saved %s at revision %s", key, rev))
}

// persistAsync starts a background write of key. Callers hold s.mu.
func (s *State) persistAsync(key string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.persist(key)
	}()
}

// scheduleGoal (re)starts the debounce timer of one goal. Callers hold s.mu.
func (s *State) scheduleGoal(doc, periodKey string) {
	id := doc + "/" + periodKey
	if pw, ok := s.timers[id]; ok {
		pw.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timers[id] = &pendingWrite{
		doc:   doc,
		gen:   gen,
		timer: time.AfterFunc(s.debounce, func() { s.fire(id, gen) }),
	}
}

func (s *State) fire(id string, gen uint64) {
	s.mu.Lock()
	pw, ok := s.timers[id]
	if !ok || pw.gen != gen {
		s.mu.Unlock()
		return // Superseded or flushed
	}
	delete(s.timers, id)
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()
	s.persist(pw.doc)
}

// Flush starts every pending debounced write now.
func (s *State) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make(map[string]struct{})
	for id, pw := range s.timers {
		pw.timer.Stop()
		docs[pw.doc] = struct{}{}
		delete(s.timers, id)
	}
	for doc := range docs {
		s.persistAsync(doc)
	}
}

// Pending returns the number of debounced writes not yet started.
func (s *State) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Wait blocks until every started background write has finished.
func (s *State) Wait() {
	s.inflight.Wait()
}

// Close flushes pending goal writes and waits for all writes to finish.
func (s *State) Close() error {
	s.Flush()
	s.Wait()
	return nil
}

func (s *State) sortedTasksLocked() []*domain.Task {
	tasks := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := strings.Compare(a.DayKey(), b.DayKey()); c != 0 {
			return c
		}
		return domain.CompareTasks(a, b)
	})
	return tasks
}

// Tasks returns copies of every task, grouped by day in display order.
func (s *State) Tasks() []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := s.sortedTasksLocked()
	out := make([]*domain.Task, len(sorted))
	for i, t := range sorted {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of the task with id, or nil.
func (s *State) Task(id string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		return t.Clone()
	}
	return nil
}

// WeeklyGoals returns a copy of the weekly goal map.
func (s *State) WeeklyGoals() domain.Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weekly.Clone()
}

// DailyGoals returns a copy of the daily goal map.
func (s *State) DailyGoals() domain.Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.daily.Clone()
}

// PutTask creates or replaces tasks and persists the collection.
func (s *State) PutTask(tasks ...*domain.Task) {
	if len(tasks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		s.tasks[t.ID] = t.Clone()
	}
	s.persistAsync(domain.DocEvents)
}

// DeleteTask removes the task with id. It reports whether it existed.
func (s *State) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	s.persistAsync(domain.DocEvents)
	return true
}

// ReplaceTasks discards the task collection and stores tasks instead.
func (s *State) ReplaceTasks(tasks []*domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceTasksLocked(tasks)
	s.persistAsync(domain.DocEvents)
}

func (s *State) replaceTasksLocked(tasks []*domain.Task) {
	delete(s.held, domain.DocEvents)
	s.tasks = make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		s.tasks[t.ID] = t.Clone()
	}
}

// ReplaceGoals discards both goal maps and stores the given ones.
// Both documents are written at once, without debouncing.
func (s *State) ReplaceGoals(weekly, daily domain.Goals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly = weekly.Clone()
	s.daily = daily.Clone()
	delete(s.held, domain.DocWeeklyGoals)
	delete(s.held, domain.DocDailyGoals)
	s.persistAsync(domain.DocWeeklyGoals)
	s.persistAsync(domain.DocDailyGoals)
}

// ReplaceAll discards every collection and stores the given ones.
func (s *State) ReplaceAll(tasks []*domain.Task, weekly, daily domain.Goals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceTasksLocked(tasks)
	s.weekly = weekly.Clone()
	s.daily = daily.Clone()
	clear(s.held)
	for _, key := range domain.DocumentKeys() {
		s.persistAsync(key)
	}
}

// SetWeeklyGoal sets the goal of a week key. Empty text removes it.
func (s *State) SetWeeklyGoal(key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly.Set(key, text)
	s.scheduleGoal(domain.DocWeeklyGoals, key)
}

// SetDailyGoal sets the goal of a day key. Empty text removes it.
func (s *State) SetDailyGoal(key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily.Set(key, text)
	s.scheduleGoal(domain.DocDailyGoals, key)
}
