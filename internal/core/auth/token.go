// Package auth issues and validates bearer tokens and checks passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/simpleusers/users-service/internal/core/domain"
)

// MinKeyLength is the shortest accepted HMAC key, in bytes.
const MinKeyLength = 32

// TokenConfig is the process-wide signing configuration, loaded once at
// startup.
type TokenConfig struct {
	Key []byte
	TTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Claims is the signed payload of a bearer token. Subject carries the
// email and ID carries a random token id.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 tokens with one symmetric key.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager validates cfg and returns a TokenManager.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(cfg.Key) < MinKeyLength {
		return nil, fmt.Errorf("token key must be at least %d bytes, got %d", MinKeyLength, len(cfg.Key))
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)
	return &TokenManager{key: key, ttl: cfg.TTL, now: now}, nil
}

// Issue signs a token for user.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	if !user.Role.Valid() {
		return "", fmt.Errorf("issue token: user %d has invalid role %d", user.ID, uint8(user.Role))
	}
	now := m.now()
	claims := Claims{
		UserID: strconv.FormatInt(user.ID, 10),
		Role:   user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of raw and returns its
// principal. Claims are read only after the signature check passes. Every
// failure is domain.ErrUnauthorized.
func (m *TokenManager) Validate(raw string) (domain.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	return domain.Principal{UserID: id, Role: role, Email: claims.Subject}, nil
}
