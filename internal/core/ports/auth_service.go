package ports

import (
	"context"

	"github.com/authbase/identity-api/internal/core/domain"
)

type AuthService interface {
	UserExists(ctx context.Context, email string) (*domain.User, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	IssueToken(user *domain.User) (string, error)
}

// UserService mutates role membership on existing accounts.
type UserService interface {
	AddRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error)
	RemoveRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error)
}

// PasswordHasher is a one-way, salted transform over plaintext credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether hashed was produced from plaintext. It fails
	// closed: a malformed stored hash verifies as false rather than erroring
	// past the caller's deny branch.
	Verify(plaintext, hashed string) bool
}

// LoginLimiter throttles repeated failed logins for a single account.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
