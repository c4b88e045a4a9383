package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/topic-feed-service/internal/model"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,created_at,updated_at"

// Create inserts a user with an already-hashed password and returns its
// ID. Email is normalized to lower case. A duplicate email or username
// maps to ErrEmailExists / ErrUsernameExists via the unique indexes.
func (r *UserRepo) Create(ctx context.Context, email, username, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash) VALUES (?,?,?)",
		email, username, passwordHash)
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(err.Error(), "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// Update persists email, username and password hash for an existing
// user and bumps updated_at. Duplicate-key violations map to the same
// sentinels as Create.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, username=?, password_hash=?, updated_at=NOW() WHERE id=?",
		strings.ToLower(strings.TrimSpace(u.Email)), strings.TrimSpace(u.Username), u.PasswordHash, u.ID)
	if err != nil && isDuplicateKey(err) {
		if strings.Contains(err.Error(), "username") {
			return ErrUsernameExists
		}
		return ErrEmailExists
	}
	return err
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}
