package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/models"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	const q = `
INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `
SELECT id, name, email, password_hash, created_at, updated_at
FROM users WHERE id = $1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by email. Callers normalize the email first.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
SELECT id, name, email, password_hash, created_at, updated_at
FROM users WHERE email = $1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// UpdateProfile updates name and email, refreshing updated_at.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*models.User, error) {
	const q = `
UPDATE users SET name = $2, email = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, email, password_hash, created_at, updated_at`
	u, err := r.scanUser(r.db.Pool.QueryRow(ctx, q, id, name, email))
	if err != nil && isUniqueViolation(err) {
		return nil, errs.ErrAlreadyExists
	}
	return u, err
}

// UpdatePassword replaces the password hash, refreshing updated_at.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const q = `
UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
