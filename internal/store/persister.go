// Package store owns the in-memory task and goal collections and keeps
// them persisted through a domain.DocumentStore.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
)

const logCategory = "store"

// Persister writes whole documents with last-writer-wins semantics.
type Persister struct {
	docs   domain.DocumentStore
	logger domain.Logger
}

// NewPersister creates a Persister over docs.
func NewPersister(docs domain.DocumentStore, logger domain.Logger) *Persister {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Persister{docs: docs, logger: logger}
}

// Load returns the stored bytes of key.
// Returns domain.ErrDocumentNotFound if the document does not exist.
func (p *Persister) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := p.docs.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Save writes data under key. The current revision is read first; if a
// concurrent writer moves it before the write lands, the latest revision
// is reloaded and the write retried exactly once.
func (p *Persister) Save(ctx context.Context, key string, data []byte) (domain.Revision, error) {
	return p.SaveCurrent(ctx, key, func() ([]byte, error) { return data, nil })
}

// SaveCurrent is like Save but calls encode after every revision load,
// so each attempt writes the collection as it is at that moment.
func (p *Persister) SaveCurrent(ctx context.Context, key string, encode func() ([]byte, error)) (domain.Revision, error) {
	newRev, err := p.attempt(ctx, key, encode)
	if errors.Is(err, domain.ErrRevisionConflict) {
		p.logger.Warn(logCategory, fmt.Sprintf("revision conflict on %s, retrying", key))
		newRev, err = p.attempt(ctx, key, encode)
	}
	if err != nil {
		return "", fmt.Errorf("save %s: %w", key, err)
	}
	return newRev, nil
}

func (p *Persister) attempt(ctx context.Context, key string, encode func() ([]byte, error)) (domain.Revision, error) {
	rev, err := p.currentRevision(ctx, key)
	if err != nil {
		return "", err
	}
	data, err := encode()
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return p.docs.Save(ctx, key, data, rev)
}

func (p *Persister) currentRevision(ctx context.Context, key string) (domain.Revision, error) {
	doc, err := p.docs.Load(ctx, key)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return doc.Revision, nil
}
