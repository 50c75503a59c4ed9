package repository

import (
	"context"

	"github.com/google/uuid"

	"NOTEHUB_BACK-END/internal/models"
)

// NoteRepository provides CRUD access to note records.
type NoteRepository interface {
	// Create inserts a new note.
	Create(ctx context.Context, n *models.Note) error
	// ListByOwner returns all notes owned by the given user, most recently
	// updated first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error)
	// GetByID loads a note by ID regardless of owner. Returns
	// errs.ErrNotFound when no such note exists.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	// Update writes all mutable fields of the note. The owner column is
	// never touched.
	Update(ctx context.Context, n *models.Note) error
	// Delete removes the note permanently. Returns errs.ErrNotFound when
	// the note no longer exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// VerificationRepository stores password reset verification codes.
type VerificationRepository interface {
	// Create inserts a new verification code.
	Create(ctx context.Context, v *models.Verification) error
	// Latest returns the most recent code for the given user and email.
	Latest(ctx context.Context, userID uuid.UUID, email string) (*models.Verification, error)
	// LatestActive returns the most recent unused, unexpired code.
	LatestActive(ctx context.Context, userID uuid.UUID) (*models.Verification, error)
	// Consume marks the code used and sets the user's new password hash in
	// a single transaction.
	Consume(ctx context.Context, verificationID, userID uuid.UUID, passwordHash string) error
}
