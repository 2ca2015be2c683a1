package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AccountStore is the persistence boundary for accounts.
//
// FindByEmail returns domain.ErrAccountNotFound when nothing matches.
// Save must enforce email uniqueness atomically: when two saves race for the
// same email, exactly one succeeds and the other gets
// domain.ErrDuplicateIdentity.
type AccountStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
