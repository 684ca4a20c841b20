package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

var userRowColumns = []string{"id", "email", "full_name", "password_hash", "picture_url", "lockout_end", "created_at", "updated_at"}

func TestPGRepoCreateInsertsUserAndRoles(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := User{ID: "u1", Email: "ada@example.com", FullName: "Ada", PasswordHash: "hash", Roles: []string{RoleRegisteredUser}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "ada@example.com", "Ada", "hash", "", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO roles").
		WithArgs(RoleRegisteredUser).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs("u1", RoleRegisteredUser).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), User{ID: "u1", Email: "ada@example.com"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmailLoadsRoles(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	lockout := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ADA@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "ada@example.com", "Ada", "hash", "", lockout, created, created))
	mock.ExpectQuery("SELECT role FROM user_roles").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(RoleAdmin).AddRow(RoleRegisteredUser))

	user, err := repo.GetByEmail(context.Background(), "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "u1" || len(user.Roles) != 2 || user.PrimaryRole() != RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.LockoutEnd == nil || !user.LockoutEnd.Equal(lockout) {
		t.Fatalf("expected lockout %v, got %v", lockout, user.LockoutEnd)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListMergesRoles(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users ORDER BY").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "a@example.com", "A", "", "", nil, now, now).
			AddRow("u2", "b@example.com", "B", "", "", nil, now, now))
	mock.ExpectQuery("SELECT user_id, role FROM user_roles").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "role"}).
			AddRow("u2", RoleAdmin).
			AddRow("u2", RoleRegisteredUser).
			AddRow("ghost", RoleGuest))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if len(users[0].Roles) != 0 || len(users[1].Roles) != 2 {
		t.Fatalf("unexpected roles: %v / %v", users[0].Roles, users[1].Roles)
	}
}

func TestPGRepoSetRolesReplaces(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET updated_at").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_roles").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO roles").
		WithArgs("Editor").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs("u1", "Editor").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SetRoles(context.Background(), "u1", []string{"Editor"}); err != nil {
		t.Fatalf("SetRoles: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoRemoveRoleUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET updated_at").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.RemoveRole(context.Background(), "nope", RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetLockoutEnd(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET lockout_end").
		WithArgs("u1", LockForever).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET lockout_end").
		WithArgs("u1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	until := LockForever
	if err := repo.SetLockoutEnd(context.Background(), "u1", &until); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := repo.SetLockoutEnd(context.Background(), "u1", nil); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
