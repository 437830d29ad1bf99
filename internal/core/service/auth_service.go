package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authbase/identity-api/internal/core/domain"
	"github.com/authbase/identity-api/internal/core/ports"
)

// AuthService implements registration, credential verification and token
// issuance. The signing secret is injected at construction; nothing in this
// package reads ambient configuration.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	limiter   ports.LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService wires the service. limiter may be nil to disable login
// throttling. A non-positive tokenTTL falls back to 24 hours.
func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, limiter ports.LoginLimiter, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, hasher: hasher, limiter: limiter, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// UserExists looks an account up by email. Absence is reported as a nil user,
// not an error.
func (s *AuthService) UserExists(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates an account with the default role membership and returns a
// freshly issued session token alongside the stored identity.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	existing, err := s.UserExists(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Roles:        domain.DefaultRoles(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(created)
	if err != nil {
		return "", nil, err
	}

	return token, created, nil
}

// Login verifies the credential pair and mints a session token. Unknown
// email, soft-deleted account and wrong password all collapse into
// ErrInvalidCredentials so the response never reveals which half failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			return "", nil, err
		}
		if !allowed {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, email)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// IssueToken is a pure function of the identity: no I/O, no store access.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := domain.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter != nil {
		_ = s.limiter.RecordFailure(ctx, email)
	}
}
