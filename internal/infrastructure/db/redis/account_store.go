package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/auth-service/internal/core/domain"
)

const accountKeyPrefix = "account:"

// AccountStore keeps one JSON document per account under
// account:<email>. SETNX makes the insert the uniqueness check.
type AccountStore struct {
	client *redis.Client
}

// NewAccountStore creates an AccountStore wrapping the given Redis client.
func NewAccountStore(client *redis.Client) *AccountStore {
	return &AccountStore{client: client}
}

type redisAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *AccountStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}
	return n > 0, nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	raw, err := s.client.Get(ctx, s.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	var ra redisAccount
	if err := json.Unmarshal(raw, &ra); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &domain.Account{
		ID:           ra.ID,
		Name:         ra.Name,
		Email:        ra.Email,
		PasswordHash: ra.PasswordHash,
		Role:         ra.Role,
		CreatedAt:    ra.CreatedAt,
		UpdatedAt:    ra.UpdatedAt,
	}, nil
}

func (s *AccountStore) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	saved := *account
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	raw, err := json.Marshal(redisAccount{
		ID:           saved.ID,
		Name:         saved.Name,
		Email:        saved.Email,
		PasswordHash: saved.PasswordHash,
		Role:         saved.Role,
		CreatedAt:    saved.CreatedAt,
		UpdatedAt:    saved.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(saved.Email), raw, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("set account: %w", err)
	}
	if !ok {
		return nil, domain.ErrDuplicateIdentity
	}
	return &saved, nil
}

// Ping reports whether the server answers.
func (s *AccountStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *AccountStore) key(email string) string {
	return accountKeyPrefix + email
}
