package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
	roles map[string]struct{}
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[string]User),
		roles: make(map[string]struct{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.findByEmailLocked(user.Email); ok {
		return ErrEmailTaken
	}
	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Roles = sortedUnique(user.Roles)
	for _, role := range user.Roles {
		r.roles[role] = struct{}{}
	}
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	existing, ok := r.users[user.ID]
	if !ok {
		if other, taken := r.findByEmailLocked(user.Email); taken && other.ID != user.ID {
			return ErrEmailTaken
		}
		user.CreatedAt = now
		user.UpdatedAt = now
		user.Roles = sortedUnique(user.Roles)
		r.users[user.ID] = copyUser(user)
		return nil
	}
	existing.Email = user.Email
	existing.FullName = user.FullName
	existing.PictureURL = user.PictureURL
	existing.UpdatedAt = now
	r.users[user.ID] = existing
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return copyUser(user), nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.findByEmailLocked(email)
	if !ok {
		return User{}, ErrNotFound
	}
	return copyUser(user), nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Email) < strings.ToLower(out[j].Email)
	})
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *MemoryRepo) EnsureRole(ctx context.Context, role string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role] = struct{}{}
	return nil
}

func (r *MemoryRepo) SetRoles(ctx context.Context, userID string, roles []string) error {
	return r.mutate(ctx, userID, func(u *User) {
		u.Roles = sortedUnique(roles)
		for _, role := range u.Roles {
			r.roles[role] = struct{}{}
		}
	})
}

func (r *MemoryRepo) AddRole(ctx context.Context, userID, role string) error {
	return r.mutate(ctx, userID, func(u *User) {
		r.roles[role] = struct{}{}
		u.Roles = sortedUnique(append(u.Roles, role))
	})
}

func (r *MemoryRepo) RemoveRole(ctx context.Context, userID, role string) error {
	return r.mutate(ctx, userID, func(u *User) {
		kept := u.Roles[:0:0]
		for _, existing := range u.Roles {
			if existing != role {
				kept = append(kept, existing)
			}
		}
		u.Roles = kept
	})
}

func (r *MemoryRepo) SetLockoutEnd(ctx context.Context, userID string, until *time.Time) error {
	return r.mutate(ctx, userID, func(u *User) {
		if until == nil {
			u.LockoutEnd = nil
			return
		}
		t := until.UTC()
		u.LockoutEnd = &t
	})
}

func (r *MemoryRepo) mutate(ctx context.Context, userID string, fn func(*User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	user.UpdatedAt = r.now()
	r.users[userID] = user
	return nil
}

func (r *MemoryRepo) findByEmailLocked(email string) (User, bool) {
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if strings.ToLower(u.Email) == needle {
			return u, true
		}
	}
	return User{}, false
}

func copyUser(u User) User {
	u.Roles = append([]string(nil), u.Roles...)
	if u.LockoutEnd != nil {
		t := *u.LockoutEnd
		u.LockoutEnd = &t
	}
	return u
}

func sortedUnique(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok || role == "" {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}
