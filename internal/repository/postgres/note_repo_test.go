package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/models"
)

func noteColumns() []string {
	return []string{"id", "user_id", "title", "content", "tags", "color", "is_pinned", "is_archived", "ai_summary", "created_at", "updated_at"}
}

func TestNoteRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	now := time.Now()
	n := &models.Note{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "Groceries",
		Content:   "milk, eggs",
		Tags:      []string{"home"},
		Color:     "#ffffff",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO notes`).
		WithArgs(n.ID, n.UserID, n.Title, n.Content, n.Tags, n.Color, n.IsPinned, n.IsArchived, n.AISummary, n.CreatedAt, n.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, n))
}

func TestNoteRepo_ListByOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM notes WHERE user_id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows(noteColumns()).
			AddRow(uuid.New(), ownerID, "b", "newest", []string{}, "#ffffff", false, false, nil, now, now).
			AddRow(uuid.New(), ownerID, "a", "older", []string{"x"}, "#000000", true, false, nil, now.Add(-time.Hour), now.Add(-time.Hour)))
	notes, err := r.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "b", notes[0].Title)

	// No notes yields an empty, non-nil slice
	mock.ExpectQuery(`FROM notes WHERE user_id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows(noteColumns()))
	notes, err = r.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, notes)
	require.Empty(t, notes)
}

func TestNoteRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM notes WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(noteColumns()).
			AddRow(id, ownerID, "t", "c", []string{}, "#ffffff", false, false, nil, now, now))
	n, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, n.ID)
	require.Equal(t, ownerID, n.UserID)

	mock.ExpectQuery(`FROM notes WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNoteRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	summary := "short version"
	n := &models.Note{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "t",
		Content:   "c",
		Tags:      []string{"a"},
		Color:     "#abcdef",
		IsPinned:  true,
		AISummary: &summary,
		UpdatedAt: time.Now(),
	}

	mock.ExpectExec(`UPDATE notes`).
		WithArgs(n.ID, n.Title, n.Content, n.Tags, n.Color, n.IsPinned, n.IsArchived, n.AISummary, n.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Update(ctx, n))

	mock.ExpectExec(`UPDATE notes`).
		WithArgs(n.ID, n.Title, n.Content, n.Tags, n.Color, n.IsPinned, n.IsArchived, n.AISummary, n.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := r.Update(ctx, n)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNoteRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, id))

	// Second delete of the same note
	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	err := r.Delete(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
