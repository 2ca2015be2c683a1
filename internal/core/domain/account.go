package domain

import "time"

const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
	RoleDriver     = "driver"
	RoleAdmin      = "admin"
)

// Roles lists every role label an account may carry.
var Roles = []string{RoleCustomer, RoleRestaurant, RoleDriver, RoleAdmin}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Account is a registered user's identity and credential record.
// Email is unique across accounts and matched case-sensitively.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthResult is returned by every authentication flow. Token is empty when
// the result comes from a profile lookup.
type AuthResult struct {
	Token string `json:"token,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ResultFor builds an AuthResult from an account and an optional token.
func ResultFor(a *Account, token string) *AuthResult {
	return &AuthResult{
		Token: token,
		Name:  a.Name,
		Email: a.Email,
		Role:  a.Role,
	}
}
