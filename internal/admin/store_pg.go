package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGStore answers dashboard queries with SQL aggregates.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) CountResumes(ctx context.Context, since time.Time) (int, error) {
	var n int
	var err error
	if since.IsZero() {
		err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&n)
	} else {
		err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes WHERE created_at >= $1`, since).Scan(&n)
	}
	return n, err
}

var sortColumns = map[string]string{
	SortCreatedAt: "r.created_at",
	SortUpdatedAt: "r.updated_at",
	SortTitle:     "r.title",
	SortOwner:     "u.email",
}

// searchWhere builds the filter clause and its positional args.
func searchWhere(q ResumeQuery) (string, []any) {
	var clauses []string
	var args []any
	if q.Q != "" {
		args = append(args, strings.ToLower(q.Q))
		p := fmt.Sprintf("$%d", len(args))
		var ors []string
		for _, col := range []string{"r.title", "r.personal_info", "r.education", "r.experience", "r.skills", "u.email", "u.full_name"} {
			ors = append(ors, fmt.Sprintf("strpos(lower(%s), %s) > 0", col, p))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if q.OwnerEmail != "" {
		args = append(args, strings.ToLower(q.OwnerEmail))
		clauses = append(clauses, fmt.Sprintf("strpos(lower(u.email), $%d) > 0", len(args)))
	}
	if q.TemplateStyle != "" {
		args = append(args, q.TemplateStyle)
		clauses = append(clauses, fmt.Sprintf("r.template_style = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *PGStore) SearchResumes(ctx context.Context, q ResumeQuery) ([]ResumeItem, int, error) {
	const from = ` FROM resumes r JOIN users u ON u.id = r.user_id`
	where, args := searchWhere(q)

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[SortUpdatedAt]
	}
	dir := "DESC"
	if q.SortDir == "asc" {
		dir = "ASC"
	}
	args = append(args, q.PageSize, q.offset())
	query := `SELECT r.id, r.title, r.template_style, r.created_at, r.updated_at,
       r.personal_info, r.education, r.experience, r.skills,
       u.id, u.email, u.full_name` + from + where +
		fmt.Sprintf(" ORDER BY %s %s, r.id %s LIMIT $%d OFFSET $%d", col, dir, dir, len(args)-1, len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []ResumeItem{}
	for rows.Next() {
		var it ResumeItem
		if err := rows.Scan(
			&it.ResumeID,
			&it.Title,
			&it.TemplateStyle,
			&it.CreatedAt,
			&it.UpdatedAt,
			&it.PersonalInfo,
			&it.Education,
			&it.Experience,
			&it.Skills,
			&it.Owner.ID,
			&it.Owner.Email,
			&it.Owner.FullName,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (s *PGStore) GetResume(ctx context.Context, id int64) (ResumeDetail, error) {
	const query = `
SELECT r.id, r.title, r.personal_info, r.education, r.experience, r.skills, r.template_style,
       r.created_at, r.updated_at, r.ai_suggestions_json,
       u.id, u.email, u.full_name
FROM resumes r
JOIN users u ON u.id = r.user_id
WHERE r.id = $1`
	var d ResumeDetail
	var suggestions sql.NullString
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&d.ResumeID,
		&d.Title,
		&d.PersonalInfo,
		&d.Education,
		&d.Experience,
		&d.Skills,
		&d.TemplateStyle,
		&d.CreatedAt,
		&d.UpdatedAt,
		&suggestions,
		&d.Owner.ID,
		&d.Owner.Email,
		&d.Owner.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResumeDetail{}, ErrNotFound
		}
		return ResumeDetail{}, err
	}
	if suggestions.Valid {
		v := suggestions.String
		d.AISuggestionsJSON = &v
	}
	return d, nil
}

func (s *PGStore) MostActiveUsers(ctx context.Context, limit int) ([]UserResumeCount, error) {
	const query = `
SELECT user_id, COUNT(*) AS n
FROM resumes
GROUP BY user_id
ORDER BY n DESC, user_id
LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserResumeCount{}
	for rows.Next() {
		var c UserResumeCount
		if err := rows.Scan(&c.UserID, &c.ResumeCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PGStore) TemplateUsage(ctx context.Context) ([]TemplateUsage, error) {
	const query = `
SELECT template_style, COUNT(*) AS n, MAX(updated_at)
FROM resumes
GROUP BY template_style
ORDER BY n DESC, template_style`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TemplateUsage{}
	for rows.Next() {
		var t TemplateUsage
		if err := rows.Scan(&t.TemplateStyle, &t.Count, &t.LastUsed); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) UserActivity(ctx context.Context) ([]UserActivity, error) {
	const query = `
SELECT r.user_id, COUNT(*) AS n, MAX(r.updated_at), MIN(r.created_at), u.email, u.full_name
FROM resumes r
JOIN users u ON u.id = r.user_id
GROUP BY r.user_id, u.email, u.full_name
ORDER BY n DESC, r.user_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserActivity{}
	for rows.Next() {
		var a UserActivity
		if err := rows.Scan(&a.UserID, &a.ResumeCount, &a.LastActivity, &a.FirstResume, &a.UserEmail, &a.UserName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ Store = (*PGStore)(nil)
