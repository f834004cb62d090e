package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

// UserService implements registration and user management.
type UserService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, tokens ports.TokenService, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Create registers a new user with the default role. When no display name is
// given, the local part of the email address is used.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	hash, err := s.tokens.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = strings.SplitN(input.Email, "@", 2)[0]
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user created")
	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update mutates a user record. Only the user themselves or an admin may do
// so; the check runs before the store is touched.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if !actor.CanActOn(id) {
		return nil, domain.ErrForbidden
	}

	patch := ports.UserPatch{Name: input.Name}
	if input.Password != nil {
		hash, err := s.tokens.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	return s.repo.Update(ctx, id, patch)
}

// Delete removes a user record, subject to the same self-or-admin rule as
// Update.
func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if !actor.CanActOn(id) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("user deleted")
	return nil
}
