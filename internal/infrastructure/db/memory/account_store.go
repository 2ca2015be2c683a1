// Package memory provides a process-local AccountStore for development and
// tests. Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/99minutos/auth-service/internal/core/domain"
)

type AccountStore struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{byEmail: make(map[string]*domain.Account)}
}

func (s *AccountStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *AccountStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

// Save checks uniqueness and inserts under one lock.
func (s *AccountStore) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[account.Email]; ok {
		return nil, domain.ErrDuplicateIdentity
	}

	clone := *account
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	s.byEmail[clone.Email] = &clone

	out := clone
	return &out, nil
}

// Ping always succeeds; it lets the store sit behind readiness checks.
func (s *AccountStore) Ping(context.Context) error { return nil }
