package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"society360/pkg/platform/sentinel"
)

// InMemoryStore backs unit tests and local development without PostgreSQL.
type InMemoryStore struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*Identity
	idByEmail map[string]uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:      make(map[uuid.UUID]*Identity),
		idByEmail: make(map[string]uuid.UUID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, ident *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[ident.ID]; ok && !strings.EqualFold(prev.Email, ident.Email) {
		delete(s.idByEmail, strings.ToLower(prev.Email))
	}
	copied := *ident
	s.byID[ident.ID] = &copied
	s.idByEmail[strings.ToLower(ident.Email)] = ident.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ident, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *ident
	return &copied, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[id]
	return &copied, nil
}
