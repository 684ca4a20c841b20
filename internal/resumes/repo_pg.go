package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, personal_info, education, experience, skills, template_style, ai_suggestions_json, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	const query = `
INSERT INTO resumes (
    user_id, title, personal_info, education, experience, skills, template_style, ai_suggestions_json, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		resume.UserID,
		resume.Title,
		resume.PersonalInfo,
		resume.Education,
		resume.Experience,
		resume.Skills,
		resume.TemplateStyle,
		nullableString(resume.AISuggestionsJSON),
		resume.CreatedAt,
		resume.UpdatedAt,
	).Scan(&resume.ID)
	if err != nil {
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`
	return r.query(ctx, query, userID)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes ORDER BY updated_at DESC, id DESC`
	return r.query(ctx, query)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Resume, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes SET
    title = $2,
    personal_info = $3,
    education = $4,
    experience = $5,
    skills = $6,
    template_style = $7,
    ai_suggestions_json = $8,
    updated_at = $9
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.Title,
		resume.PersonalInfo,
		resume.Education,
		resume.Experience,
		resume.Skills,
		resume.TemplateStyle,
		nullableString(resume.AISuggestionsJSON),
		resume.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var suggestions sql.NullString
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.PersonalInfo,
		&resume.Education,
		&resume.Experience,
		&resume.Skills,
		&resume.TemplateStyle,
		&suggestions,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if suggestions.Valid {
		s := suggestions.String
		resume.AISuggestionsJSON = &s
	}
	resume.CreatedAt = resume.CreatedAt.UTC()
	resume.UpdatedAt = resume.UpdatedAt.UTC()
	return resume, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var _ Repo = (*PGRepo)(nil)
