package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/auth-service/internal/core/domain"
)

func TestAccountStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()

	saved, err := s.Save(ctx, &domain.Account{Name: "Ann", Email: "ann@x.com", PasswordHash: "h", Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	exists, err := s.ExistsByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := s.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, saved, found)

	// Returned values are copies.
	found.Name = "mutated"
	again, err := s.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name)
}

func TestAccountStore_EmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()

	_, err := s.Save(ctx, &domain.Account{Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	exists, err := s.ExistsByEmail(ctx, "ANN@x.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.FindByEmail(ctx, "Ann@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountStore_DuplicateSave(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()

	_, err := s.Save(ctx, &domain.Account{Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.Save(ctx, &domain.Account{Email: "ann@x.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestAccountStore_ConcurrentSaveOneWinner(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, &domain.Account{Email: "race@x.com", PasswordHash: "h"})
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
