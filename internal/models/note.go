package models

import (
	"time"

	"github.com/google/uuid"
)

// Note represents a note owned by a single user. The owner is set at
// creation and never changes afterwards.
type Note struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user" db:"user_id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Tags       []string  `json:"tags" db:"tags"`
	Color      string    `json:"color" db:"color"`
	IsPinned   bool      `json:"isPinned" db:"is_pinned"`
	IsArchived bool      `json:"isArchived" db:"is_archived"`
	AISummary  *string   `json:"aiSummary,omitempty" db:"ai_summary"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Verification is a short-lived password reset code sent by email.
type Verification struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	Used      bool      `db:"used"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
