package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const (
	// SigningKeySize is the HS256 key length in bytes (256 bits).
	SigningKeySize = 32

	DefaultTokenTTL = 24 * time.Hour
)

var ErrKeyTooShort = errors.New("signing key must be at least 32 bytes")

// GenerateSigningKey returns a fresh random HS256 key. The key lives only in
// memory; a restart invalidates every token signed with the previous one.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, SigningKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

type sessionClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs and verifies HS256 session tokens. It is safe for
// concurrent use: all fields are read-only after construction.
type JWTIssuer struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// IssuerOption configures a JWTIssuer.
type IssuerOption func(*JWTIssuer)

// WithTTL sets the token lifetime. Non-positive values are ignored.
func WithTTL(d time.Duration) IssuerOption {
	return func(i *JWTIssuer) {
		if d > 0 {
			i.ttl = d
		}
	}
}

// WithIssuer sets the iss claim and requires it on verification.
func WithIssuer(iss string) IssuerOption {
	return func(i *JWTIssuer) { i.issuer = iss }
}

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *JWTIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewJWTIssuer builds an issuer around key. The key is copied.
func NewJWTIssuer(key []byte, opts ...IssuerOption) (*JWTIssuer, error) {
	if len(key) < SigningKeySize {
		return nil, ErrKeyTooShort
	}

	i := &JWTIssuer{
		key: append([]byte(nil), key...),
		ttl: DefaultTokenTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(i.issuer))
	}
	i.parser = jwt.NewParser(parserOpts...)

	return i, nil
}

// Issue signs a token for subject valid from now until now+TTL.
func (i *JWTIssuer) Issue(subject, role string) (string, error) {
	if subject == "" {
		return "", errors.New("issue token: empty subject")
	}

	now := i.now()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Validate(token string) bool {
	_, err := i.Parse(token)
	return err == nil
}

func (i *JWTIssuer) ExtractSubject(token string) (string, error) {
	claims, err := i.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (i *JWTIssuer) Parse(token string) (*ports.TokenClaims, error) {
	if token == "" {
		return nil, &domain.TokenError{Reason: "missing"}
	}

	var claims sessionClaims
	if _, err := i.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.key, nil
	}); err != nil {
		return nil, tokenError(err)
	}
	if claims.Subject == "" {
		return nil, &domain.TokenError{Reason: "without subject"}
	}

	out := &ports.TokenClaims{Subject: claims.Subject, Role: claims.Role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// tokenError translates jwt library failures into a domain.TokenError.
func tokenError(err error) error {
	reason := "invalid"
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		reason = "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		reason = "signature invalid"
	case errors.Is(err, jwt.ErrTokenExpired):
		reason = "expired"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		reason = "missing claim"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		reason = "issuer mismatch"
	}
	return &domain.TokenError{Reason: reason, Err: err}
}
