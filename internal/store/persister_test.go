package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/testutil"
)

func TestPersister_CreateThenUpdate(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	p := NewPersister(docs, nil)
	ctx := context.Background()

	rev, err := p.Save(ctx, domain.DocEvents, []byte("[]"))
	require.NoError(t, err)
	assert.Equal(t, domain.Revision("1"), rev)

	rev, err = p.Save(ctx, domain.DocEvents, []byte(`[{"id":"a"}]`))
	require.NoError(t, err)
	assert.Equal(t, domain.Revision("2"), rev)

	data, err := p.Load(ctx, domain.DocEvents)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(data))
}

func TestPersister_LoadMissing(t *testing.T) {
	p := NewPersister(testutil.NewMemoryDocumentStore(), nil)

	_, err := p.Load(context.Background(), domain.DocEvents)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestPersister_RetriesOnceOnConflict(t *testing.T) {
	docs := testutil.NewConflictingDocumentStore(1, []byte("competitor"))
	logger := &testutil.RecordingLogger{}
	p := NewPersister(docs, logger)

	_, err := p.Save(context.Background(), domain.DocDailyGoals, []byte("mine"))
	require.NoError(t, err)

	assert.Equal(t, 2, docs.Attempts)
	assert.Equal(t, "mine", string(docs.Data(domain.DocDailyGoals)), "last writer wins")
	assert.Equal(t, 1, logger.Count("WARN"))
}

func TestPersister_SecondConflictIsReturned(t *testing.T) {
	docs := testutil.NewConflictingDocumentStore(2, []byte("competitor"))
	p := NewPersister(docs, nil)

	_, err := p.Save(context.Background(), domain.DocEvents, []byte("mine"))
	require.ErrorIs(t, err, domain.ErrRevisionConflict)

	assert.Equal(t, 2, docs.Attempts)
	assert.Equal(t, "competitor", string(docs.Data(domain.DocEvents)))
}

func TestPersister_LoadFailure(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	docs.LoadErr = errors.New("disk on fire")
	p := NewPersister(docs, nil)

	_, err := p.Save(context.Background(), domain.DocEvents, []byte("[]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Zero(t, docs.Saves())
}

func TestPersister_ConcurrentSavesBothSucceed(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	p := NewPersister(docs, nil)
	ctx := context.Background()
	_, err := p.Save(ctx, domain.DocEvents, []byte("base"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, payload := range []string{"first", "second"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = p.Save(ctx, domain.DocEvents, []byte(payload))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Contains(t, []string{"first", "second"}, string(docs.Data(domain.DocEvents)))
}
