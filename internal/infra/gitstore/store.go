// Package gitstore provides a Git plumbing-based implementation of DocumentStore.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/infra/crypto"
)

// Store implements domain.DocumentStore using Git refs and blobs.
//
// Data structure:
//
//	refs/<namespace>/
//	  initialized → blob (marker)
//	  docs/
//	    <key>     → blob (document bytes)
//
// The revision of a document is the hash of its blob. Updates go through
// CheckAndSetReference, so a stale revision never overwrites a newer one.
type Store struct {
	repo      *git.Repository
	encryptor *crypto.Encryptor
	namespace string // e.g., "taskcal"
	mu        sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithEncryptor seals every document blob with enc.
func WithEncryptor(enc *crypto.Encryptor) Option {
	return func(s *Store) {
		s.encryptor = enc
	}
}

// Open opens the repository at repoPath, creating a bare one if none exists.
func Open(repoPath, namespace string, opts ...Option) (*Store, error) {
	repo, err := git.PlainOpen(repoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(repoPath, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace, opts...), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string, opts ...Option) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	s := &Store{
		repo:      repo,
		namespace: namespace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements domain.DocumentStore and domain.StoreInitializer.
var (
	_ domain.DocumentStore    = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

// docRef returns the ref name for a document.
func (s *Store) docRef(key string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "docs/" + key)
}

// initializedRef returns the ref name for the initialized marker.
func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// Load returns the current document of key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !domain.ValidDocumentKey(key) {
		return nil, fmt.Errorf("invalid document key %q", key)
	}

	ref, err := s.repo.Reference(s.docRef(key), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get %s ref: %w", key, err)
	}

	data, err := s.readBlob(key, ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return &domain.Document{
		Key:      key,
		Revision: domain.Revision(ref.Hash().String()),
		Data:     data,
	}, nil
}

// Save writes data under key if rev matches the stored revision.
func (s *Store) Save(ctx context.Context, key string, data []byte, rev domain.Revision) (domain.Revision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !domain.ValidDocumentKey(key) {
		return "", fmt.Errorf("invalid document key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.docRef(key)
	current, err := s.repo.Reference(name, true)
	exists := err == nil
	if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", fmt.Errorf("get %s ref: %w", key, err)
	}

	switch {
	case rev == "" && exists:
		return "", fmt.Errorf("%w: %s already exists", domain.ErrRevisionConflict, key)
	case rev != "" && !exists:
		return "", fmt.Errorf("%w: %s was deleted", domain.ErrRevisionConflict, key)
	case rev != "" && current.Hash().String() != string(rev):
		return "", fmt.Errorf("%w: %s is at %s", domain.ErrRevisionConflict, key, current.Hash())
	}

	hash, err := s.writeBlob(key, data)
	if err != nil {
		return "", err
	}
	next := plumbing.NewHashReference(name, hash)

	if !exists {
		if err := s.repo.Storer.SetReference(next); err != nil {
			return "", fmt.Errorf("set %s ref: %w", key, err)
		}
		return domain.Revision(hash.String()), nil
	}

	old := plumbing.NewHashReference(name, plumbing.NewHash(string(rev)))
	if err := s.repo.Storer.CheckAndSetReference(next, old); err != nil {
		if errors.Is(err, storage.ErrReferenceHasChanged) {
			return "", fmt.Errorf("%w: %s changed concurrently", domain.ErrRevisionConflict, key)
		}
		return "", fmt.Errorf("update %s ref: %w", key, err)
	}
	return domain.Revision(hash.String()), nil
}

// Keys returns the keys of every stored document, sorted.
func (s *Store) Keys() ([]string, error) {
	iter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	defer iter.Close()

	prefix := s.refPrefix() + "docs/"
	var keys []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if name := ref.Name().String(); strings.HasPrefix(name, prefix) {
			keys = append(keys, strings.TrimPrefix(name, prefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate refs: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// writeBlob writes data to a blob and returns the hash.
// If encryption is enabled, the data is encrypted before writing.
func (s *Store) writeBlob(key string, data []byte) (plumbing.Hash, error) {
	blobData := data
	if s.encryptor != nil {
		encrypted, err := s.encryptor.Encrypt(key, data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("encrypt data: %w", err)
		}
		blobData = encrypted
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(blobData)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(blobData); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

// readBlob reads and optionally decrypts data from a blob.
func (s *Store) readBlob(key string, hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}

	if s.encryptor != nil {
		decrypted, err := s.encryptor.Decrypt(key, data)
		if err != nil {
			return nil, fmt.Errorf("decrypt data: %w", err)
		}
		return decrypted, nil
	}

	return data, nil
}

// Initialize writes the initialized marker if it doesn't exist.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return nil // Already initialized
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("check initialized ref: %w", err)
	}

	hash, err := s.writeBlob("initialized", []byte("initialized"))
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.initializedRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set initialized ref: %w", err)
	}
	return nil
}

// IsInitialized checks if the store has been initialized.
func (s *Store) IsInitialized() bool {
	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}
