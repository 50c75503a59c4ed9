package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/models"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

// Create inserts a new note row.
func (r *NoteRepo) Create(ctx context.Context, n *models.Note) error {
	const q = `
INSERT INTO notes (id, user_id, title, content, tags, color, is_pinned, is_archived, ai_summary, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Pool.Exec(ctx, q,
		n.ID, n.UserID, n.Title, n.Content, n.Tags, n.Color, n.IsPinned, n.IsArchived, n.AISummary, n.CreatedAt, n.UpdatedAt)
	return err
}

// ListByOwner returns the owner's notes ordered by updated_at descending.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	const q = `
SELECT id, user_id, title, content, tags, color, is_pinned, is_archived, ai_summary, created_at, updated_at
FROM notes WHERE user_id = $1
ORDER BY updated_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &n.Color,
			&n.IsPinned, &n.IsArchived, &n.AISummary, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetByID selects a note by ID, for any owner.
func (r *NoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	const q = `
SELECT id, user_id, title, content, tags, color, is_pinned, is_archived, ai_summary, created_at, updated_at
FROM notes WHERE id = $1`
	var n models.Note
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &n.Color,
		&n.IsPinned, &n.IsArchived, &n.AISummary, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Update writes all mutable columns. The user_id column stays untouched so
// ownership can never change after creation.
func (r *NoteRepo) Update(ctx context.Context, n *models.Note) error {
	const q = `
UPDATE notes
SET title = $2, content = $3, tags = $4, color = $5, is_pinned = $6, is_archived = $7, ai_summary = $8, updated_at = $9
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q,
		n.ID, n.Title, n.Content, n.Tags, n.Color, n.IsPinned, n.IsArchived, n.AISummary, n.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the note row permanently.
func (r *NoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
