package ports

import (
	"context"

	"github.com/authbase/identity-api/internal/core/domain"
)

// UserRepository defines the interface for identity persistence. Lookups must
// treat soft-deleted rows as absent; callers never see a deleted record.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateRoles persists a new role set iff the row version still matches
	// expectedVersion, returning domain.ErrVersionConflict otherwise.
	UpdateRoles(ctx context.Context, id int64, roles domain.RoleSet, expectedVersion int64) error
}
