package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

// AuthService implements login on top of the user service.
type AuthService struct {
	users    ports.UserService
	hasher   ports.PasswordHasher
	verifier ports.CredentialVerifier
	issuer   ports.TokenIssuer
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserService,
	hasher ports.PasswordHasher,
	verifier ports.CredentialVerifier,
	issuer ports.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		log:      log,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

// Login checks the credentials and returns a signed token. An unknown email
// and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.verifier.Verify(password, s.placeholderHash())
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !s.verifier.Verify(password, user.PasswordHash) {
		s.log.Info().Int64("user_id", user.ID).Msg("login rejected")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Msg("login succeeded")
	return token, nil
}

// placeholderHash is compared against when the email is unknown so both
// rejection paths cost one hash verification.
func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("placeholder-password")
		if err != nil {
			s.log.Warn().Err(err).Msg("placeholder hash unavailable")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
