package admin

import (
	"context"
	"time"
)

// Store answers the read-only resume queries behind the admin dashboard.
type Store interface {
	// CountResumes counts resumes created at or after since; a zero since counts all.
	CountResumes(ctx context.Context, since time.Time) (int, error)
	// SearchResumes returns one page of matches and the total match count.
	// Resumes whose owner no longer exists are excluded. q must be normalised.
	SearchResumes(ctx context.Context, q ResumeQuery) ([]ResumeItem, int, error)
	GetResume(ctx context.Context, id int64) (ResumeDetail, error)
	// MostActiveUsers ranks owners by resume count, highest first.
	MostActiveUsers(ctx context.Context, limit int) ([]UserResumeCount, error)
	TemplateUsage(ctx context.Context) ([]TemplateUsage, error)
	// UserActivity summarises each owner that still exists, busiest first.
	UserActivity(ctx context.Context) ([]UserActivity, error)
}
