// Package identity resolves authenticated subjects to dashboard users.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user lookup and first-login provisioning
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// EnsureUser returns the user for an authenticated subject, creating it with
// the default role on first sight. Concurrent first requests for the same
// subject converge on one row.
func (s *UserService) EnsureUser(ctx context.Context, id uuid.UUID, email string) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	user, err = identity.NewUser(id, email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	s.logger.Info("Provisioned user on first authentication",
		zap.String("user_id", id.String()),
		zap.String("role", user.Role.String()),
	)

	// re-read so a row created by a concurrent request wins
	stored, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load provisioned user: %w", err)
	}
	return stored, nil
}

// GetUser returns the user by id
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}
