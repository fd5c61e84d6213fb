package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

const userColumns = `id, email, password_hash, COALESCE(first_name,''), COALESCE(middle_name,''),
COALESCE(last_name,''), dob, COALESCE(role,'employee'), COALESCE(avatar_url,''), created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var dob sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.MiddleName,
		&u.LastName, &dob, &u.Role, &u.AvatarURL, &u.CreatedAt); err != nil {
		return nil, err
	}
	if dob.Valid {
		u.DOB = &dob.Time
	}
	return &u, nil
}

func (r *MySQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.Role == "" {
		u.Role = domain.RoleEmployee
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (email, password_hash, first_name, middle_name, last_name, dob, role, avatar_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		u.Email, u.PasswordHash, u.FirstName, u.MiddleName, u.LastName, u.DOB, u.Role, nullString(u.AvatarURL))
	if err != nil {
		if isDupEntry(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	return nil
}

func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return u, nil
}

func (r *MySQLUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	return u, nil
}

func (r *MySQLUserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET first_name = ?, middle_name = ?, last_name = ?, dob = ?, avatar_url = ?
WHERE id = ?`,
		u.FirstName, u.MiddleName, u.LastName, u.DOB, nullString(u.AvatarURL), u.ID)
	if err != nil {
		return fmt.Errorf("update profile %d: %w", u.ID, err)
	}
	return nil
}

func (r *MySQLUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MySQLUserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+userColumns+` FROM users ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *MySQLUserRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("update role %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ usecase.UserStore = (*MySQLUserRepo)(nil)
