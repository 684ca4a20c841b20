package users

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	svc.Now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "secret1", "Ada Lovelace")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Fatalf("expected hashed password")
	}
	if !user.HasRole(RoleRegisteredUser) {
		t.Fatalf("expected RegisteredUser role, got %v", user.Roles)
	}

	got, err := svc.Authenticate(ctx, "ADA@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected %s, got %s", user.ID, got.ID)
	}
}

func TestRegisterDefaultsFullNameToEmail(t *testing.T) {
	svc, _ := newTestService()
	user, err := svc.Register(context.Background(), "bob@example.com", "secret1", "  ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.FullName != "bob@example.com" {
		t.Fatalf("expected email as name, got %q", user.FullName)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "ada@example.com", "secret1", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, "Ada@Example.com", "secret2", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	user, err := svc.Register(ctx, "ada@example.com", "secret1", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	if err := repo.SetLockoutEnd(ctx, user.ID, &LockForever); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@example.com", "secret1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("locked: expected ErrLocked, got %v", err)
	}

	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.SetLockoutEnd(ctx, user.ID, &past); err != nil {
		t.Fatalf("expire lock: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@example.com", "secret1"); err != nil {
		t.Fatalf("expired lockout should allow login, got %v", err)
	}
}

func TestAuthenticateOAuthOnlyAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.UpsertFromAuth(ctx, "g@example.com", "G User", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "g@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpsertFromAuthKeepsExistingAccount(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, "ada@example.com", "secret1", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.AddRole(ctx, registered.ID, RoleAdmin); err != nil {
		t.Fatalf("add role: %v", err)
	}

	user, err := svc.UpsertFromAuth(ctx, "ada@example.com", "Ada L", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected same id, got %s", user.ID)
	}
	if user.FullName != "Ada L" || user.PictureURL != "https://example.com/a.png" {
		t.Fatalf("profile not updated: %+v", user)
	}
	if !user.HasRole(RoleAdmin) || user.PasswordHash == "" {
		t.Fatalf("roles or password lost: %+v", user)
	}
}

func TestUpsertFromAuthCreatesUser(t *testing.T) {
	svc, _ := newTestService()
	user, err := svc.UpsertFromAuth(context.Background(), "new@example.com", "", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if user.ID == "" || user.FullName != "new@example.com" || !user.HasRole(RoleRegisteredUser) {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUpsertFromAuthRequiresEmail(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.UpsertFromAuth(context.Background(), " ", "x", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "", "secret1", "Root"); err != nil {
		t.Fatalf("blank email should be a no-op: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("expected no users, got %d", n)
	}

	if err := svc.SeedAdmin(ctx, "root@example.com", "secret1", "Root"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.SeedAdmin(ctx, "root@example.com", "secret1", "Root"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	user, err := repo.GetByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !user.HasRole(RoleAdmin) || !user.HasRole(RoleRegisteredUser) {
		t.Fatalf("expected admin and registered roles, got %v", user.Roles)
	}
	if user.PrimaryRole() != RoleAdmin {
		t.Fatalf("expected primary role Admin, got %s", user.PrimaryRole())
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("expected one user, got %d", n)
	}
}

func TestSeedRoles(t *testing.T) {
	svc, repo := newTestService()
	if err := svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	for _, role := range DefaultRoles {
		if _, ok := repo.roles[role]; !ok {
			t.Fatalf("missing role %s", role)
		}
	}
}

func TestNilServiceNotConfigured(t *testing.T) {
	var svc *Service
	if _, err := svc.GetByID(context.Background(), "u1"); err == nil {
		t.Fatalf("expected error from nil service")
	}
}
