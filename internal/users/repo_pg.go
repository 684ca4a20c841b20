package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-builder/internal/shared/storage/db"
)

const pgUniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, full_name, password_hash, picture_url, lockout_end, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const insertUser = `
INSERT INTO users (id, email, full_name, password_hash, picture_url, lockout_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
		if _, err := tx.ExecContext(ctx, insertUser,
			user.ID,
			user.Email,
			user.FullName,
			user.PasswordHash,
			user.PictureURL,
			nullableTime(user.LockoutEnd),
		); err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		for _, role := range sortedUnique(user.Roles) {
			if err := addRoleTx(ctx, tx, user.ID, role); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.PictureURL,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.getOne(ctx, query, email)
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg any) (User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	roles, err := r.rolesFor(ctx, user.ID)
	if err != nil {
		return User{}, err
	}
	user.Roles = roles
	return user, nil
}

func (r *PGRepo) rolesFor(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY lower(email)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	index := make(map[string]int)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		user.Roles = []string{}
		index[user.ID] = len(out)
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roleRows, err := r.DB.QueryContext(ctx, `SELECT user_id, role FROM user_roles ORDER BY user_id, role`)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var userID, role string
		if err := roleRows.Scan(&userID, &role); err != nil {
			return nil, err
		}
		if i, ok := index[userID]; ok {
			out[i].Roles = append(out[i].Roles, role)
		}
	}
	return out, roleRows.Err()
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PGRepo) EnsureRole(ctx context.Context, role string) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role)
	return err
}

func (r *PGRepo) SetRoles(ctx context.Context, userID string, roles []string) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := touchTx(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, role := range sortedUnique(roles) {
			if err := addRoleTx(ctx, tx, userID, role); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepo) AddRole(ctx context.Context, userID, role string) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := touchTx(ctx, tx, userID); err != nil {
			return err
		}
		return addRoleTx(ctx, tx, userID, role)
	})
}

func (r *PGRepo) RemoveRole(ctx context.Context, userID, role string) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := touchTx(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role)
		return err
	})
}

func (r *PGRepo) SetLockoutEnd(ctx context.Context, userID string, until *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET lockout_end = $2, updated_at = now() WHERE id = $1`,
		userID, nullableTime(until),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var lockoutEnd sql.NullTime
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.PictureURL,
		&lockoutEnd,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return User{}, err
	}
	if lockoutEnd.Valid {
		t := lockoutEnd.Time.UTC()
		user.LockoutEnd = &t
	}
	return user, nil
}

func touchTx(ctx context.Context, tx *sql.Tx, userID string) error {
	res, err := tx.ExecContext(ctx, `UPDATE users SET updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func addRoleTx(ctx context.Context, tx *sql.Tx, userID, role string) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role); err != nil {
		return fmt.Errorf("ensure role %s: %w", role, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, role,
	); err != nil {
		return fmt.Errorf("assign role %s: %w", role, err)
	}
	return nil
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

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
