package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/models"
)

// VerificationRepo implements VerificationRepository using PostgreSQL.
type VerificationRepo struct{ db *DB }

// NewVerificationRepo constructs a verification code repository.
func NewVerificationRepo(db *DB) *VerificationRepo { return &VerificationRepo{db: db} }

// Create inserts a new verification code row.
func (r *VerificationRepo) Create(ctx context.Context, v *models.Verification) error {
	const q = `
INSERT INTO auth_verifications (id, user_id, email, code, used, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, v.ID, v.UserID, v.Email, v.Code, v.Used, v.ExpiresAt, v.CreatedAt)
	return err
}

// Latest returns the most recent code for the user/email pair.
func (r *VerificationRepo) Latest(ctx context.Context, userID uuid.UUID, email string) (*models.Verification, error) {
	const q = `
SELECT id, user_id, email, code, used, expires_at, created_at
FROM auth_verifications WHERE user_id = $1 AND email = $2
ORDER BY created_at DESC LIMIT 1`
	return r.scan(r.db.Pool.QueryRow(ctx, q, userID, email))
}

// LatestActive returns the most recent unused, unexpired code for the user.
func (r *VerificationRepo) LatestActive(ctx context.Context, userID uuid.UUID) (*models.Verification, error) {
	const q = `
SELECT id, user_id, email, code, used, expires_at, created_at
FROM auth_verifications WHERE user_id = $1 AND used = false AND expires_at > now()
ORDER BY created_at DESC LIMIT 1`
	return r.scan(r.db.Pool.QueryRow(ctx, q, userID))
}

// Consume marks the code used and stores the new password hash atomically.
func (r *VerificationRepo) Consume(ctx context.Context, verificationID, userID uuid.UUID, passwordHash string) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE auth_verifications SET used = true WHERE id = $1`,
		verificationID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *VerificationRepo) scan(row pgx.Row) (*models.Verification, error) {
	var v models.Verification
	if err := row.Scan(&v.ID, &v.UserID, &v.Email, &v.Code, &v.Used, &v.ExpiresAt, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
