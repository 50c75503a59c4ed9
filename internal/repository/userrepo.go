// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/google/uuid"

	"NOTEHUB_BACK-END/internal/models"
)

// UserRepository provides access to user records.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists when the
	// email is already registered.
	Create(ctx context.Context, u *models.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail loads a user by case-normalized email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile updates name and email for the given user.
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*models.User, error)
	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
