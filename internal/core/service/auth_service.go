package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/infrastructure/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// timingPassword is hashed once and verified against when a login names an
// unknown account, so both failure paths cost one hash verification.
const timingPassword = "timing-equalization-placeholder"

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	store  ports.AccountStore
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	audit  ports.AuditSink
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	store ports.AccountStore,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		log:    log.With().Str("component", "auth_service").Logger(),
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.AuthResult, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" || !domain.ValidRole(role) {
		s.record(domain.ActionRegister, email, domain.ReasonInvalidInput)
		metrics.RegistrationsTotal.WithLabelValues(domain.ReasonInvalidInput).Inc()
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, s.internal(domain.ActionRegister, email, "check email", err)
	}
	if exists {
		s.record(domain.ActionRegister, email, domain.ReasonDuplicate)
		metrics.RegistrationsTotal.WithLabelValues(domain.ReasonDuplicate).Inc()
		return nil, domain.ErrDuplicateIdentity
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, s.internal(domain.ActionRegister, email, "hash password", err)
	}

	now := s.now().UTC()
	saved, err := s.store.Save(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent registration won the race between the check and the save.
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			s.record(domain.ActionRegister, email, domain.ReasonDuplicate)
			metrics.RegistrationsTotal.WithLabelValues(domain.ReasonDuplicate).Inc()
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, s.internal(domain.ActionRegister, email, "save account", err)
	}

	token, err := s.tokens.Issue(saved.Email, saved.Role)
	if err != nil {
		return nil, s.internal(domain.ActionRegister, email, "issue token", err)
	}

	s.record(domain.ActionRegister, email, "")
	metrics.RegistrationsTotal.WithLabelValues(string(domain.OutcomeSuccess)).Inc()
	s.log.Info().Str("account_id", saved.ID).Str("role", saved.Role).Msg("account registered")

	return domain.ResultFor(saved, token), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	account, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.Email, account.Role)
	if err != nil {
		return nil, s.internal(domain.ActionLogin, email, "issue token", err)
	}

	s.record(domain.ActionLogin, email, "")
	metrics.LoginsTotal.WithLabelValues(string(domain.OutcomeSuccess)).Inc()

	return domain.ResultFor(account, token), nil
}

// authenticate looks the account up and verifies the password. Unknown
// accounts and wrong passwords both return ErrInvalidCredentials; only the
// log and the audit trail tell them apart.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	if email == "" || password == "" {
		s.loginFailed(email, domain.ReasonInvalidInput)
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.hasher.Verify(password, s.timingHash())
		s.loginFailed(email, domain.ReasonUnknownAccount)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.internal(domain.ActionLogin, email, "find account", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.loginFailed(email, domain.ReasonBadPassword)
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

func (s *AuthService) GetProfile(ctx context.Context, email string) (*domain.AuthResult, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.record(domain.ActionProfile, email, domain.ReasonNotFound)
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, s.internal(domain.ActionProfile, email, "find account", err)
	}

	return domain.ResultFor(account, ""), nil
}

func (s *AuthService) hash(password string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	}()
	return s.hasher.Hash(password)
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(timingPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("timing hash unavailable")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthService) loginFailed(email, reason string) {
	s.log.Info().Str("email", email).Str("reason", reason).Msg("login rejected")
	s.record(domain.ActionLogin, email, reason)
	metrics.LoginsTotal.WithLabelValues(reason).Inc()
}

// internal logs an unanticipated failure and tags it as ErrUnexpected.
func (s *AuthService) internal(action domain.AuthAction, email, op string, err error) error {
	s.log.Error().Err(err).Str("action", string(action)).Str("email", email).Msg(op + " failed")
	s.record(action, email, domain.ReasonInternal)
	switch action {
	case domain.ActionRegister:
		metrics.RegistrationsTotal.WithLabelValues(domain.ReasonInternal).Inc()
	case domain.ActionLogin:
		metrics.LoginsTotal.WithLabelValues(domain.ReasonInternal).Inc()
	}
	return domain.Unexpected(op, err)
}

func (s *AuthService) record(action domain.AuthAction, email, reason string) {
	outcome := domain.OutcomeSuccess
	if reason != "" {
		outcome = domain.OutcomeFailure
	}
	s.audit.Record(domain.AuthEvent{
		Action:  action,
		Email:   email,
		Outcome: outcome,
		Reason:  reason,
		At:      s.now().UTC(),
	})
}

type nopAudit struct{}

func (nopAudit) Record(domain.AuthEvent) {}
