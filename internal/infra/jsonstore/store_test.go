package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/runoshun/taskcal/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "store"))
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return store
}

func compact(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		t.Fatalf("compact: %v", err)
	}
	return buf.String()
}

func TestStore_Initialize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	store := New(dir)

	if store.IsInitialized() {
		t.Fatal("IsInitialized() = true before Initialize")
	}
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !store.IsInitialized() {
		t.Error("IsInitialized() = false after Initialize")
	}

	// Initialize again should be idempotent
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), domain.DocEvents)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("Load() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestStore_CreateAndUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rev1, err := store.Save(ctx, domain.DocEvents, []byte(`[]`), "")
	if err != nil {
		t.Fatalf("Save() create error = %v", err)
	}
	if rev1 != "1" {
		t.Errorf("Save() create revision = %q, want 1", rev1)
	}

	rev2, err := store.Save(ctx, domain.DocEvents, []byte(`[{"id":"a"}]`), rev1)
	if err != nil {
		t.Fatalf("Save() update error = %v", err)
	}
	if rev2 != "2" {
		t.Errorf("Save() update revision = %q, want 2", rev2)
	}

	doc, err := store.Load(ctx, domain.DocEvents)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Revision != rev2 {
		t.Errorf("Load() revision = %q, want %q", doc.Revision, rev2)
	}
	if got := compact(t, doc.Data); got != `[{"id":"a"}]` {
		t.Errorf("Load() data = %s", got)
	}
}

func TestStore_CreateConflictsWhenExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, domain.DocDailyGoals, []byte(`{}`), ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_, err := store.Save(ctx, domain.DocDailyGoals, []byte(`{"x":"y"}`), "")
	if !errors.Is(err, domain.ErrRevisionConflict) {
		t.Fatalf("Save() error = %v, want ErrRevisionConflict", err)
	}
}

func TestStore_StaleRevisionConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rev1, _ := store.Save(ctx, domain.DocWeeklyGoals, []byte(`{}`), "")
	if _, err := store.Save(ctx, domain.DocWeeklyGoals, []byte(`{"a":"1"}`), rev1); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := store.Save(ctx, domain.DocWeeklyGoals, []byte(`{"b":"2"}`), rev1)
	if !errors.Is(err, domain.ErrRevisionConflict) {
		t.Fatalf("Save() stale error = %v, want ErrRevisionConflict", err)
	}

	doc, _ := store.Load(ctx, domain.DocWeeklyGoals)
	if got := compact(t, doc.Data); got != `{"a":"1"}` {
		t.Errorf("stale write must not land, data = %s", got)
	}
}

func TestStore_UpdateMissingConflicts(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), domain.DocEvents, []byte(`[]`), "3")
	if !errors.Is(err, domain.ErrRevisionConflict) {
		t.Fatalf("Save() error = %v, want ErrRevisionConflict", err)
	}
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "../escape", []byte(`[]`), ""); err == nil {
		t.Error("Save() with path key should fail")
	}
	if _, err := store.Save(ctx, domain.DocEvents, []byte(`{broken`), ""); err == nil {
		t.Error("Save() with invalid JSON should fail")
	}
	if _, err := store.Load(ctx, ""); err == nil {
		t.Error("Load() with empty key should fail")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Load(ctx, domain.DocEvents); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if _, err := store.Save(ctx, domain.DocEvents, []byte(`[]`), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path(domain.DocEvents), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load(context.Background(), domain.DocEvents)
	if err == nil || errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("Load() error = %v, want parse error", err)
	}
}

func TestStore_ConcurrentCreateOnlyOneWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Save(ctx, domain.DocEvents, []byte(`[]`), "")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrRevisionConflict) {
				t.Errorf("Save() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
}

func TestStore_SeparateInstancesShareRevisions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	a, b := New(dir), New(dir)
	ctx := context.Background()

	rev, err := a.Save(ctx, domain.DocEvents, []byte(`[]`), "")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc, err := b.Load(ctx, domain.DocEvents)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Revision != rev {
		t.Errorf("revision = %q, want %q", doc.Revision, rev)
	}
}
