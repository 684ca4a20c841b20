package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return nil
}

// Register creates a password account with the RegisteredUser role.
// A blank fullName falls back to the email address.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidInput
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = email
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Roles:        []string{RoleRegisteredUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID})
	return user, nil
}

// Authenticate checks email and password. Unknown emails, accounts without a
// password and wrong passwords all return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	user, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if user.PasswordHash == "" {
		return User{}, ErrInvalidCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if user.IsLocked(s.now()) {
		return User{}, ErrLocked
	}
	return user, nil
}

// UpsertFromAuth records an externally authenticated identity. Existing
// accounts are matched by email and keep their ID and roles; new accounts get
// the RegisteredUser role.
func (s *Service) UpsertFromAuth(ctx context.Context, email, fullName, pictureURL string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, ErrInvalidInput
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = email
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		existing.FullName = fullName
		existing.PictureURL = pictureURL
		if err := s.Repo.Upsert(ctx, existing); err != nil {
			return User{}, err
		}
		if existing.IsLocked(s.now()) {
			return User{}, ErrLocked
		}
		return s.Repo.GetByID(ctx, existing.ID)
	case errors.Is(err, ErrNotFound):
		now := s.now()
		user := User{
			ID:         uuid.NewString(),
			Email:      email,
			FullName:   fullName,
			PictureURL: pictureURL,
			Roles:      []string{RoleRegisteredUser},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Repo.Create(ctx, user); err != nil {
			return User{}, err
		}
		return user, nil
	default:
		return User{}, err
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID)
}

// SeedRoles makes sure every default role exists.
func (s *Service) SeedRoles(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, role := range DefaultRoles {
		if err := s.Repo.EnsureRole(ctx, role); err != nil {
			return fmt.Errorf("ensure role %s: %w", role, err)
		}
	}
	return nil
}

// SeedAdmin creates the bootstrap administrator when email and password are
// both set, and grants the Admin role to an existing account with that email.
func (s *Service) SeedAdmin(ctx context.Context, email, password, name string) error {
	if err := s.ready(); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		user, err = s.Register(ctx, email, password, name)
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if user.HasRole(RoleAdmin) {
		return nil
	}
	if err := s.Repo.AddRole(ctx, user.ID, RoleAdmin); err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}
	telemetry.Info("user.admin_seeded", map[string]any{"user_id": user.ID})
	return nil
}

// Claims builds the token claims for user.
func Claims(user User) auth.Claims {
	return auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.FullName,
		Roles: append([]string(nil), user.Roles...),
	}
}
