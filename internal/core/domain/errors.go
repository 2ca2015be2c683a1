package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIdentityNotFound   = errors.New("account not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnexpected         = errors.New("unexpected failure")

	// ErrAccountNotFound is returned by stores when a lookup has no match.
	// The service translates it into ErrInvalidCredentials or
	// ErrIdentityNotFound depending on the flow.
	ErrAccountNotFound = errors.New("no account for email")

	ErrEmptyPassword = errors.New("password cannot be empty")
)

// TokenError describes why a presented token was rejected.
type TokenError struct {
	Reason string
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Reason, e.Err)
	}
	return "token " + e.Reason
}

func (e *TokenError) Unwrap() error { return e.Err }

// Is makes every TokenError match ErrInvalidToken.
func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }

// Unexpected tags err as an unanticipated failure of op.
func Unexpected(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnexpected, op, err)
}
