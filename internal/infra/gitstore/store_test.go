package gitstore

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/infra/crypto"
)

func setupMemoryStore(t *testing.T, opts ...Option) (*Store, *git.Repository) {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	return NewWithRepo(repo, "taskcal-test", opts...), repo
}

func TestStore_Initialize(t *testing.T) {
	store, _ := setupMemoryStore(t)
	assert.False(t, store.IsInitialized())

	require.NoError(t, store.Initialize())
	assert.True(t, store.IsInitialized())

	// Second call should be idempotent
	require.NoError(t, store.Initialize())
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := setupMemoryStore(t)

	_, err := store.Load(context.Background(), domain.DocEvents)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestStore_CreateAndUpdate(t *testing.T) {
	store, repo := setupMemoryStore(t)
	ctx := context.Background()

	rev1, err := store.Save(ctx, domain.DocEvents, []byte(`[]`), "")
	require.NoError(t, err)
	require.NotEmpty(t, rev1)

	rev2, err := store.Save(ctx, domain.DocEvents, []byte(`[{"id":"a"}]`), rev1)
	require.NoError(t, err)
	assert.NotEqual(t, rev1, rev2)

	doc, err := store.Load(ctx, domain.DocEvents)
	require.NoError(t, err)
	assert.Equal(t, rev2, doc.Revision)
	assert.Equal(t, `[{"id":"a"}]`, string(doc.Data))

	// The document lives under the namespaced ref.
	ref, err := repo.Reference(plumbing.ReferenceName("refs/taskcal-test/docs/events"), true)
	require.NoError(t, err)
	assert.Equal(t, string(rev2), ref.Hash().String())
}

func TestStore_CreateConflictsWhenExists(t *testing.T) {
	store, _ := setupMemoryStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, domain.DocWeeklyGoals, []byte(`{}`), "")
	require.NoError(t, err)

	_, err = store.Save(ctx, domain.DocWeeklyGoals, []byte(`{"a":"b"}`), "")
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)
}

func TestStore_StaleRevisionConflicts(t *testing.T) {
	store, _ := setupMemoryStore(t)
	ctx := context.Background()

	rev1, err := store.Save(ctx, domain.DocDailyGoals, []byte(`{}`), "")
	require.NoError(t, err)
	_, err = store.Save(ctx, domain.DocDailyGoals, []byte(`{"x":"1"}`), rev1)
	require.NoError(t, err)

	_, err = store.Save(ctx, domain.DocDailyGoals, []byte(`{"x":"2"}`), rev1)
	require.ErrorIs(t, err, domain.ErrRevisionConflict)

	doc, err := store.Load(ctx, domain.DocDailyGoals)
	require.NoError(t, err)
	assert.Equal(t, `{"x":"1"}`, string(doc.Data))
}

func TestStore_UpdateMissingConflicts(t *testing.T) {
	store, _ := setupMemoryStore(t)

	_, err := store.Save(context.Background(), domain.DocEvents, []byte(`[]`), domain.Revision(plumbing.ZeroHash.String()))
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	a := NewWithRepo(repo, "alice")
	b := NewWithRepo(repo, "bob")
	ctx := context.Background()

	_, err = a.Save(ctx, domain.DocEvents, []byte(`["alice"]`), "")
	require.NoError(t, err)

	_, err = b.Load(ctx, domain.DocEvents)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestStore_Keys(t *testing.T) {
	store, _ := setupMemoryStore(t)
	ctx := context.Background()
	require.NoError(t, store.Initialize())

	for _, key := range domain.DocumentKeys() {
		_, err := store.Save(ctx, key, []byte(`{}`), "")
		require.NoError(t, err)
	}

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"dailyGoals", "events", "weeklyGoals"}, keys)
}

func TestStore_InvalidKey(t *testing.T) {
	store, _ := setupMemoryStore(t)

	_, err := store.Save(context.Background(), "../../HEAD", []byte(`{}`), "")
	assert.Error(t, err)
}

func TestStore_Encrypted(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)
	store, repo := setupMemoryStore(t, WithEncryptor(enc))
	ctx := context.Background()

	rev, err := store.Save(ctx, domain.DocEvents, []byte(`[{"title":"secret"}]`), "")
	require.NoError(t, err)

	doc, err := store.Load(ctx, domain.DocEvents)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"secret"}]`, string(doc.Data))

	// The raw blob does not contain the plaintext.
	blob, err := repo.BlobObject(plumbing.NewHash(string(rev)))
	require.NoError(t, err)
	r, err := blob.Reader()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	var raw bytes.Buffer
	_, err = raw.ReadFrom(r)
	require.NoError(t, err)
	assert.NotContains(t, raw.String(), "secret")

	// A store without the key only sees the sealed bytes.
	plain := NewWithRepo(repo, "taskcal-test")
	sealed, err := plain.Load(ctx, domain.DocEvents)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed.Data), "secret")
}

func TestStore_ConcurrentUpdatesOneWinsPerRevision(t *testing.T) {
	store, _ := setupMemoryStore(t)
	ctx := context.Background()
	rev, err := store.Save(ctx, domain.DocEvents, []byte(`[]`), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload := []byte{'[', byte('0' + i), ']'}
			if _, err := store.Save(ctx, domain.DocEvents, payload, rev); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrRevisionConflict)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestOpen_CreatesBareRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.git")
	ctx := context.Background()

	store, err := Open(path, "")
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	rev, err := store.Save(ctx, domain.DocEvents, []byte(`[]`), "")
	require.NoError(t, err)

	reopened, err := Open(path, "")
	require.NoError(t, err)
	assert.True(t, reopened.IsInitialized())
	doc, err := reopened.Load(ctx, domain.DocEvents)
	require.NoError(t, err)
	assert.Equal(t, rev, doc.Revision)
}
