package ports

import "time"

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	// Hash returns a salted one-way hash. Hashing the same plaintext twice
	// yields different output.
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes yield false.
	Verify(password, hash string) bool
}

// TokenClaims is what a verified session token carries.
type TokenClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies signed session tokens.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)
	// Validate reports whether token has a good signature and has not expired.
	Validate(token string) bool
	// ExtractSubject verifies token and returns its subject. Failures are
	// *domain.TokenError.
	ExtractSubject(token string) (string, error)
	// Parse verifies token and returns all of its claims.
	Parse(token string) (*TokenClaims, error)
}
