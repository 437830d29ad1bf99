package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/authbase/identity-api/internal/core/domain"
	"github.com/authbase/identity-api/internal/core/ports"
)

// maxRoleUpdateAttempts bounds the optimistic-concurrency retry loop on role
// mutations. Conflicts only arise when two writers race on the same user, so
// a handful of attempts is plenty.
const maxRoleUpdateAttempts = 3

// UserService mutates role membership. Every mutation is a read-modify-write
// guarded by the row version, so two concurrent mutations on the same user
// cannot silently overwrite each other.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// AddRole grants role to the user. Granting an already-held role is a no-op
// that performs no write.
func (s *UserService) AddRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	user, err := s.mutateRoles(ctx, userID, func(roles domain.RoleSet) domain.RoleSet {
		return roles.Add(role)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Str("role", string(role)).Msg("role added")
	return user, nil
}

// RemoveRole revokes role from the user. Revoking an absent role is a no-op;
// revoking the last remaining role resets membership to the default tag.
func (s *UserService) RemoveRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	user, err := s.mutateRoles(ctx, userID, func(roles domain.RoleSet) domain.RoleSet {
		return roles.Remove(role)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Str("role", string(role)).Msg("role removed")
	return user, nil
}

// mutateRoles applies mutate to the user's current role set and persists the
// result under the version observed at read time. On a version conflict the
// whole read-modify-write cycle is retried with fresh state.
func (s *UserService) mutateRoles(ctx context.Context, userID int64, mutate func(domain.RoleSet) domain.RoleSet) (*domain.User, error) {
	var lastErr error
	for attempt := 0; attempt < maxRoleUpdateAttempts; attempt++ {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		next := mutate(user.Roles.Clone())
		if next.Equal(user.Roles) {
			return user, nil
		}

		err = s.repo.UpdateRoles(ctx, userID, next, user.Version)
		if err == nil {
			user.Roles = next
			user.Version++
			user.UpdatedAt = time.Now().UTC()
			return user, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}

		lastErr = err
		s.logger.Warn().Int64("user_id", userID).Int("attempt", attempt+1).Msg("role update conflict, retrying")
	}
	return nil, lastErr
}
