package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/paragraph-titler/internal/model"
	"github.com/iliyamo/paragraph-titler/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The password is hashed with
// bcrypt before it touches the database; the plaintext is never stored.
// Username and email are unique columns, so a duplicate of either maps to
// ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, firstName, lastName *string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, first_name, last_name) VALUES (?,?,?,?,?)",
		username, email, hash, firstName, lastName)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an active user by username. Inactive accounts are
// indistinguishable from missing ones: both return sql.ErrNoRows.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT user_id,username,email,password_hash,first_name,last_name,is_active,created_at,last_login FROM users WHERE username=? AND is_active=TRUE LIMIT 1",
		username)
}

// GetByID fetches an active user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT user_id,username,email,password_hash,first_name,last_name,is_active,created_at,last_login FROM users WHERE user_id=? AND is_active=TRUE LIMIT 1",
		id)
}

// TouchLastLogin records a successful login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login=UTC_TIMESTAMP() WHERE user_id=?", id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u         model.User
		firstName sql.NullString
		lastName  sql.NullString
		lastLogin sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&firstName, &lastName, &u.IsActive, &u.CreatedAt, &lastLogin)
	if err != nil {
		return model.User{}, err
	}
	if firstName.Valid {
		v := firstName.String
		u.FirstName = &v
	}
	if lastName.Valid {
		v := lastName.String
		u.LastName = &v
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}
