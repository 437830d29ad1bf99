package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/authbase/identity-api/internal/core/domain"
)

func seedUser(repo *stubUserRepo, email string, roles domain.RoleSet) *domain.User {
	repo.nextID++
	user := &domain.User{
		ID:        repo.nextID,
		Email:     email,
		Roles:     roles.Clone(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	repo.users[user.ID] = user
	return user
}

func newTestUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, zerolog.Nop())
}

func TestUserService_AddRole(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "alice@example.com", domain.DefaultRoles())
	svc := newTestUserService(repo)

	user, err := svc.AddRole(context.Background(), seeded.ID, domain.RoleAgent)
	if err != nil {
		t.Fatalf("AddRole returned error: %v", err)
	}
	want := domain.RoleSet{domain.RoleGuest, domain.RoleAgent}
	if !user.Roles.Equal(want) {
		t.Fatalf("expected %v, got %v", want, user.Roles)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected 1 write, got %d", repo.updateCalls)
	}
}

func TestUserService_AddRole_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "alice@example.com", domain.DefaultRoles())
	svc := newTestUserService(repo)

	if _, err := svc.AddRole(context.Background(), seeded.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("first AddRole failed: %v", err)
	}
	user, err := svc.AddRole(context.Background(), seeded.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("second AddRole failed: %v", err)
	}

	count := 0
	for _, r := range user.Roles {
		if r == domain.RoleAdmin {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one admin entry, got %d (%v)", count, user.Roles)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected the second grant to skip the write, got %d writes", repo.updateCalls)
	}
}

func TestUserService_AddRole_UserNotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())

	if _, err := svc.AddRole(context.Background(), 42, domain.RoleAgent); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_AddRole_SoftDeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "gone@example.com", domain.DefaultRoles())
	repo.users[seeded.ID].DeletedAt = time.Now().UTC()
	svc := newTestUserService(repo)

	if _, err := svc.AddRole(context.Background(), seeded.ID, domain.RoleAgent); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for soft-deleted user, got %v", err)
	}
}

func TestUserService_RemoveRole_AbsentIsNoop(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "bob@example.com", domain.RoleSet{domain.RoleGuest, domain.RoleCustomer})
	svc := newTestUserService(repo)

	user, err := svc.RemoveRole(context.Background(), seeded.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("RemoveRole returned error: %v", err)
	}
	if !user.Roles.Equal(seeded.Roles) {
		t.Fatalf("expected unchanged roles, got %v", user.Roles)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("expected no write for a no-op removal, got %d", repo.updateCalls)
	}
}

func TestUserService_RemoveRole(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "bob@example.com", domain.RoleSet{domain.RoleGuest, domain.RoleAgent})
	svc := newTestUserService(repo)

	user, err := svc.RemoveRole(context.Background(), seeded.ID, domain.RoleAgent)
	if err != nil {
		t.Fatalf("RemoveRole returned error: %v", err)
	}
	if !user.Roles.Equal(domain.DefaultRoles()) {
		t.Fatalf("expected {guest}, got %v", user.Roles)
	}
}

func TestUserService_RemoveRole_LastRoleFallsBackToDefault(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "solo@example.com", domain.RoleSet{domain.RoleAdmin})
	svc := newTestUserService(repo)

	user, err := svc.RemoveRole(context.Background(), seeded.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("RemoveRole returned error: %v", err)
	}
	if !user.Roles.Equal(domain.DefaultRoles()) {
		t.Fatalf("expected fallback to default roles, got %v", user.Roles)
	}
}

func TestUserService_AddRole_RetriesOnVersionConflict(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "busy@example.com", domain.DefaultRoles())
	repo.conflicts = 2
	svc := newTestUserService(repo)

	user, err := svc.AddRole(context.Background(), seeded.ID, domain.RoleCustomer)
	if err != nil {
		t.Fatalf("AddRole returned error after retries: %v", err)
	}
	if !user.Roles.Has(domain.RoleCustomer) {
		t.Fatalf("expected role applied after retries, got %v", user.Roles)
	}
	if repo.updateCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", repo.updateCalls)
	}
}

func TestUserService_AddRole_ConflictExhaustion(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(repo, "busy@example.com", domain.DefaultRoles())
	repo.conflicts = maxRoleUpdateAttempts
	svc := newTestUserService(repo)

	if _, err := svc.AddRole(context.Background(), seeded.ID, domain.RoleCustomer); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict after exhausting retries, got %v", err)
	}
}
