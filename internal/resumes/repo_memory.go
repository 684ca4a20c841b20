package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[int64]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	resume.ID = r.nextID
	r.byID[resume.ID] = copyResume(resume)
	return copyResume(resume), nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return copyResume(resume), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	return r.list(ctx, func(res Resume) bool { return res.UserID == userID })
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]Resume, error) {
	return r.list(ctx, func(Resume) bool { return true })
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Resume) bool) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0, len(r.byID))
	for _, res := range r.byID {
		if keep(res) {
			out = append(out, copyResume(res))
		}
	}
	r.mu.RUnlock()
	sortByUpdatedDesc(out)
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[resume.ID]
	if !ok {
		return ErrNotFound
	}
	resume.UserID = existing.UserID
	resume.CreatedAt = existing.CreatedAt
	r.byID[resume.ID] = copyResume(resume)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func copyResume(r Resume) Resume {
	if r.AISuggestionsJSON != nil {
		s := *r.AISuggestionsJSON
		r.AISuggestionsJSON = &s
	}
	return r
}

func sortByUpdatedDesc(items []Resume) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

var _ Repo = (*MemoryRepo)(nil)
