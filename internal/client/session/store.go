// Package session owns the client's single bearer credential.
//
// A Store is a durable slot with get/set/clear semantics and no network I/O.
// At most one credential is held at a time; Set replaces it and Clear is
// idempotent. The gateway reads the store on every request, so a Clear is
// observed by the very next call.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/sugarlog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sugarlog/internal/common"
	"github.com/dmitrijs2005/sugarlog/internal/logging"
)

// Store holds the current credential.
type Store interface {
	// Get returns the credential and true, or "" and false when there is
	// none. It never fails: storage problems read as "no credential".
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ErrEmptyToken is returned by Set for an empty credential.
var ErrEmptyToken = errors.New("empty token")

// SQLiteStore persists the credential under one metadata key.
type SQLiteStore struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewSQLiteStore(repo metadata.Repository, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{repo: repo, log: log}
}

func (s *SQLiteStore) Get(ctx context.Context) (string, bool) {
	v, err := s.repo.Get(ctx, common.MetaKeyAuthToken)
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			s.log.Warn(ctx, "reading session token failed", "error", err)
		}
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.repo.Set(ctx, common.MetaKeyAuthToken, []byte(token))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, common.MetaKeyAuthToken)
}

// MemoryStore keeps the credential in process memory. It is used when no
// durable storage is wanted and as a deterministic fake in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) Set(_ context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
