// Package jsonstore provides a JSON file-based implementation of DocumentStore.
//
// Each document lives in <dir>/<key>.json as {"revision": N, "data": ...}.
// Check-and-write runs under an exclusive flock on <dir>/.lock, so
// separate processes sharing the directory see consistent revisions.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/runoshun/taskcal/internal/domain"
)

// envelope is the on-disk file structure.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	Revision int64           `json:"revision"`
}

// Store implements domain.DocumentStore using one JSON file per key.
type Store struct {
	dir      string
	lockPath string
}

// New creates a new Store rooted at dir.
// The directory does not need to exist; it will be created on first write.
func New(dir string) *Store {
	return &Store{
		dir:      dir,
		lockPath: filepath.Join(dir, ".lock"),
	}
}

// Ensure Store implements domain.DocumentStore and domain.StoreInitializer.
var (
	_ domain.DocumentStore    = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Load returns the current document of key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var doc *domain.Document
	err := s.withLock(syscall.LOCK_SH, func() error {
		env, err := s.read(key)
		if err != nil {
			return err
		}
		doc = &domain.Document{Key: key, Revision: revision(env.Revision), Data: env.Data}
		return nil
	})
	return doc, err
}

// Save writes data under key if rev matches the stored revision.
// data must be valid JSON.
func (s *Store) Save(ctx context.Context, key string, data []byte, rev domain.Revision) (domain.Revision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkKey(key); err != nil {
		return "", err
	}
	if !json.Valid(data) {
		return "", fmt.Errorf("save %s: data is not valid JSON", key)
	}

	var newRev domain.Revision
	err := s.withLock(syscall.LOCK_EX, func() error {
		var current int64
		env, err := s.read(key)
		switch {
		case errors.Is(err, domain.ErrDocumentNotFound):
			if rev != "" {
				return fmt.Errorf("%w: %s was deleted", domain.ErrRevisionConflict, key)
			}
		case err != nil:
			return err
		default:
			if rev == "" || revision(env.Revision) != rev {
				return fmt.Errorf("%w: %s is at revision %d", domain.ErrRevisionConflict, key, env.Revision)
			}
			current = env.Revision
		}

		next := &envelope{Revision: current + 1, Data: data}
		if err := s.write(key, next); err != nil {
			return err
		}
		newRev = revision(next.Revision)
		return nil
	})
	return newRev, err
}

// IsInitialized checks if the store directory exists.
func (s *Store) IsInitialized() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Initialize creates the store directory if it doesn't exist.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) withLock(lockType int, fn func() error) error {
	lock, err := s.acquireLock(lockType)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read(key string) (*envelope, error) {
	content, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(content, &env); err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return &env, nil
}

func (s *Store) write(key string, env *envelope) error {
	content, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	// Write to temp file first, then rename for atomicity
	path := s.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func revision(n int64) domain.Revision {
	return domain.Revision(strconv.FormatInt(n, 10))
}

func checkKey(key string) error {
	if !domain.ValidDocumentKey(key) {
		return fmt.Errorf("invalid document key %q", key)
	}
	return nil
}
