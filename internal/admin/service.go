package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const mostActiveUsersLimit = 5

// Service implements the admin dashboard. User mutations go straight to the
// users repository; resume analytics go through Store.
type Service struct {
	Users users.Repo
	Store Store
	Now   func() time.Time
}

func NewService(u users.Repo, store Store) *Service {
	return &Service{Users: u, Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	list, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]UserSummary, 0, len(list))
	for _, u := range list {
		roles := u.Roles
		if roles == nil {
			roles = []string{}
		}
		out = append(out, UserSummary{
			ID:         u.ID,
			Email:      u.Email,
			FullName:   u.FullName,
			Roles:      roles,
			LockoutEnd: u.LockoutEnd,
			IsLocked:   u.IsLocked(now),
		})
	}
	return out, nil
}

func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	var err error
	if m.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return Metrics{}, err
	}
	if m.TotalResumes, err = s.Store.CountResumes(ctx, time.Time{}); err != nil {
		return Metrics{}, err
	}
	if m.Last24hResumes, err = s.Store.CountResumes(ctx, s.now().Add(-24*time.Hour)); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

// SetRole replaces every role the user holds with role.
func (s *Service) SetRole(ctx context.Context, userID, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrRoleRequired
	}
	if err := s.Users.SetRoles(ctx, userID, []string{role}); err != nil {
		return mapUserErr(err)
	}
	telemetry.Info("admin.role_set", map[string]any{"user_id": userID, "role": role})
	return nil
}

// AddRole grants role while keeping existing roles.
func (s *Service) AddRole(ctx context.Context, userID, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrRoleRequired
	}
	if err := s.Users.AddRole(ctx, userID, role); err != nil {
		return mapUserErr(err)
	}
	telemetry.Info("admin.role_added", map[string]any{"user_id": userID, "role": role})
	return nil
}

// RemoveRole revokes role. An admin may not revoke their own Admin role.
func (s *Service) RemoveRole(ctx context.Context, actorID, userID, role string) error {
	if actorID == userID && strings.EqualFold(role, users.RoleAdmin) {
		return ErrSelfAdminRemoval
	}
	if err := s.Users.RemoveRole(ctx, userID, role); err != nil {
		return mapUserErr(err)
	}
	telemetry.Info("admin.role_removed", map[string]any{"user_id": userID, "role": role})
	return nil
}

// SetLocked locks the account indefinitely or clears the lock.
func (s *Service) SetLocked(ctx context.Context, userID string, locked bool) error {
	var until *time.Time
	if locked {
		t := users.LockForever
		until = &t
	}
	if err := s.Users.SetLockoutEnd(ctx, userID, until); err != nil {
		return mapUserErr(err)
	}
	telemetry.Info("admin.lock_changed", map[string]any{"user_id": userID, "locked": locked})
	return nil
}

func (s *Service) SearchResumes(ctx context.Context, q ResumeQuery) (ResumePage, error) {
	q = q.Normalize()
	items, total, err := s.Store.SearchResumes(ctx, q)
	if err != nil {
		return ResumePage{}, err
	}
	return newResumePage(q, total, items), nil
}

func (s *Service) GetResume(ctx context.Context, id int64) (ResumeDetail, error) {
	return s.Store.GetResume(ctx, id)
}

func (s *Service) ResumeStats(ctx context.Context) (ResumeStats, error) {
	now := s.now()
	var st ResumeStats
	var err error
	counts := []struct {
		dst   *int
		since time.Time
	}{
		{&st.TotalResumes, time.Time{}},
		{&st.ResumesLast24h, now.Add(-24 * time.Hour)},
		{&st.ResumesLast7Days, now.AddDate(0, 0, -7)},
		{&st.ResumesLast30Days, now.AddDate(0, 0, -30)},
	}
	for _, c := range counts {
		if *c.dst, err = s.Store.CountResumes(ctx, c.since); err != nil {
			return ResumeStats{}, err
		}
	}
	st.AverageResumesPerDay = float64(st.ResumesLast30Days) / 30.0
	if st.MostActiveUsers, err = s.Store.MostActiveUsers(ctx, mostActiveUsersLimit); err != nil {
		return ResumeStats{}, err
	}
	if st.MostActiveUsers == nil {
		st.MostActiveUsers = []UserResumeCount{}
	}
	return st, nil
}

func (s *Service) TemplateUsage(ctx context.Context) ([]TemplateUsage, error) {
	return s.Store.TemplateUsage(ctx)
}

func (s *Service) UserActivity(ctx context.Context) ([]UserActivity, error) {
	return s.Store.UserActivity(ctx)
}

func mapUserErr(err error) error {
	if errors.Is(err, users.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
