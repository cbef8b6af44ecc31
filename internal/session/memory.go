package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the credential for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *Credential
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, notStored("memory")
	}
	cp := *s.cred
	return &cp, nil
}

func (s *MemoryStore) Set(_ context.Context, cred Credential) error {
	if cred.SavedAt.IsZero() {
		cred.SavedAt = s.now().UTC()
	}
	s.mu.Lock()
	s.cred = &cred
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Token(ctx context.Context) (string, error) {
	return tokenOf(s.Get(ctx))
}
