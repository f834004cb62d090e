package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

// AuthService implements login. Logout has no server side effect: tokens are
// self-contained and remain valid until natural expiry, so invalidation is a
// client concern.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies the credentials and issues a bearer token. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.tokens.VerifyPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}
