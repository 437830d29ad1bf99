package domain

import (
	"errors"
	"time"
)

var ErrUserExists = errors.New("user already registered")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidRole = errors.New("invalid role")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrVersionConflict = errors.New("concurrent update conflict")

// User models an account in the identity store. PasswordHash never leaves the
// process boundary: it is excluded from JSON and only the hasher reads it.
// Version backs the optimistic concurrency check on role updates.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        RoleSet   `json:"roles"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	DeletedAt    time.Time `json:"-"`
}

// Deleted reports whether the record carries a soft-delete marker.
func (u *User) Deleted() bool {
	return !u.DeletedAt.IsZero()
}
