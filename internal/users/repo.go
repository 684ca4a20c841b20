package users

import (
	"context"
	"time"
)

type Repo interface {
	// Create inserts a new user with its roles. Returns ErrEmailTaken when the
	// email already exists (case-insensitive).
	Create(ctx context.Context, user User) error
	// Upsert inserts or updates profile fields by ID. Roles, password and
	// lockout are left untouched on update.
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// List returns every user ordered by email.
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)

	EnsureRole(ctx context.Context, role string) error
	SetRoles(ctx context.Context, userID string, roles []string) error
	AddRole(ctx context.Context, userID, role string) error
	RemoveRole(ctx context.Context, userID, role string) error
	SetLockoutEnd(ctx context.Context, userID string, until *time.Time) error
}
