package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	// Create stores resume and returns it with its assigned ID.
	Create(ctx context.Context, resume Resume) (Resume, error)
	GetByID(ctx context.Context, id int64) (Resume, error)
	// ListByUser returns a user's resumes, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	// ListAll returns every resume, most recently updated first.
	ListAll(ctx context.Context) ([]Resume, error)
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, id int64) error
}
