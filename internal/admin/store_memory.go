package admin

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"resume-builder/internal/resumes"
	"resume-builder/internal/users"
)

// MemoryStore computes dashboard queries over the in-memory repositories.
type MemoryStore struct {
	Users   users.Repo
	Resumes resumes.Repo
}

func NewMemoryStore(u users.Repo, r resumes.Repo) *MemoryStore {
	return &MemoryStore{Users: u, Resumes: r}
}

func (s *MemoryStore) CountResumes(ctx context.Context, since time.Time) (int, error) {
	all, err := s.Resumes.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range all {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) owners(ctx context.Context) (map[string]users.User, error) {
	list, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]users.User, len(list))
	for _, u := range list {
		out[u.ID] = u
	}
	return out, nil
}

func (s *MemoryStore) SearchResumes(ctx context.Context, q ResumeQuery) ([]ResumeItem, int, error) {
	all, err := s.Resumes.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	owners, err := s.owners(ctx)
	if err != nil {
		return nil, 0, err
	}

	term := strings.ToLower(q.Q)
	ownerEmail := strings.ToLower(q.OwnerEmail)
	var matched []ResumeItem
	for _, r := range all {
		u, ok := owners[r.UserID]
		if !ok {
			continue
		}
		item := toItem(r, u)
		if term != "" && !matchesTerm(item, term) {
			continue
		}
		if ownerEmail != "" && !strings.Contains(strings.ToLower(u.Email), ownerEmail) {
			continue
		}
		if q.TemplateStyle != "" && r.TemplateStyle != q.TemplateStyle {
			continue
		}
		matched = append(matched, item)
	}

	sortItems(matched, q.SortBy, q.SortDir == "asc")

	total := len(matched)
	start := q.offset()
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesTerm(item ResumeItem, term string) bool {
	for _, field := range []string{
		item.Title,
		item.PersonalInfo,
		item.Education,
		item.Experience,
		item.Skills,
		item.Owner.Email,
		item.Owner.FullName,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func sortItems(items []ResumeItem, by string, asc bool) {
	less := func(a, b ResumeItem) int {
		switch by {
		case SortCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortTitle:
			return strings.Compare(a.Title, b.Title)
		case SortOwner:
			return strings.Compare(a.Owner.Email, b.Owner.Email)
		default:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			c = compareInt64(items[i].ResumeID, items[j].ResumeID)
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s *MemoryStore) GetResume(ctx context.Context, id int64) (ResumeDetail, error) {
	r, err := s.Resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return ResumeDetail{}, ErrNotFound
		}
		return ResumeDetail{}, err
	}
	u, err := s.Users.GetByID(ctx, r.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ResumeDetail{}, ErrNotFound
		}
		return ResumeDetail{}, err
	}
	return ResumeDetail{
		ResumeID:          r.ID,
		Title:             r.Title,
		PersonalInfo:      r.PersonalInfo,
		Education:         r.Education,
		Experience:        r.Experience,
		Skills:            r.Skills,
		TemplateStyle:     r.TemplateStyle,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		AISuggestionsJSON: r.AISuggestionsJSON,
		Owner:             Owner{ID: u.ID, Email: u.Email, FullName: u.FullName},
	}, nil
}

func (s *MemoryStore) MostActiveUsers(ctx context.Context, limit int) ([]UserResumeCount, error) {
	all, err := s.Resumes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range all {
		counts[r.UserID]++
	}
	out := make([]UserResumeCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, UserResumeCount{UserID: id, ResumeCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResumeCount != out[j].ResumeCount {
			return out[i].ResumeCount > out[j].ResumeCount
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) TemplateUsage(ctx context.Context) ([]TemplateUsage, error) {
	all, err := s.Resumes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byStyle := make(map[string]*TemplateUsage)
	for _, r := range all {
		t, ok := byStyle[r.TemplateStyle]
		if !ok {
			t = &TemplateUsage{TemplateStyle: r.TemplateStyle}
			byStyle[r.TemplateStyle] = t
		}
		t.Count++
		if r.UpdatedAt.After(t.LastUsed) {
			t.LastUsed = r.UpdatedAt
		}
	}
	out := make([]TemplateUsage, 0, len(byStyle))
	for _, t := range byStyle {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].TemplateStyle < out[j].TemplateStyle
	})
	return out, nil
}

func (s *MemoryStore) UserActivity(ctx context.Context) ([]UserActivity, error) {
	all, err := s.Resumes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owners, err := s.owners(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]*UserActivity)
	for _, r := range all {
		u, ok := owners[r.UserID]
		if !ok {
			continue
		}
		a, ok := byUser[r.UserID]
		if !ok {
			a = &UserActivity{
				UserID:       r.UserID,
				LastActivity: r.UpdatedAt,
				FirstResume:  r.CreatedAt,
				UserEmail:    u.Email,
				UserName:     u.FullName,
			}
			byUser[r.UserID] = a
		}
		a.ResumeCount++
		if r.UpdatedAt.After(a.LastActivity) {
			a.LastActivity = r.UpdatedAt
		}
		if r.CreatedAt.Before(a.FirstResume) {
			a.FirstResume = r.CreatedAt
		}
	}
	out := make([]UserActivity, 0, len(byUser))
	for _, a := range byUser {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResumeCount != out[j].ResumeCount {
			return out[i].ResumeCount > out[j].ResumeCount
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func toItem(r resumes.Resume, u users.User) ResumeItem {
	return ResumeItem{
		ResumeID:      r.ID,
		Title:         r.Title,
		TemplateStyle: r.TemplateStyle,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		PersonalInfo:  r.PersonalInfo,
		Education:     r.Education,
		Experience:    r.Experience,
		Skills:        r.Skills,
		Owner:         Owner{ID: u.ID, Email: u.Email, FullName: u.FullName},
	}
}

var _ Store = (*MemoryStore)(nil)
