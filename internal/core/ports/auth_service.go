package ports

import (
	"context"

	"github.com/simpleusers/users-service/internal/core/domain"
)

// AuthService exchanges credentials for a bearer token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenValidator verifies a bearer token and extracts its principal.
type TokenValidator interface {
	Validate(token string) (domain.Principal, error)
}

// PasswordHasher hashes plaintext passwords at the transport boundary.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// CredentialVerifier checks a plaintext password against a stored hash.
type CredentialVerifier interface {
	Verify(plaintext, hash string) bool
}
