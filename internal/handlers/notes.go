package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"NOTEHUB_BACK-END/internal/dto"
	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/models"
	"NOTEHUB_BACK-END/internal/repository"
	"NOTEHUB_BACK-END/internal/utils"
)

// DefaultNoteColor is applied when a note is created without a color.
const DefaultNoteColor = "#ffffff"

// NotesHandler manages note-related endpoints
type NotesHandler struct {
	notes  repository.NoteRepository
	logger *zap.Logger
}

// NewNotesHandler creates a new NotesHandler
func NewNotesHandler(notes repository.NoteRepository, logger *zap.Logger) *NotesHandler {
	return &NotesHandler{notes: notes, logger: logger}
}

// Notes dispatches by HTTP method for /api/notes and /api/notes/{note_id}
func (h *NotesHandler) Notes(w http.ResponseWriter, r *http.Request) {
	hasID := strings.HasPrefix(r.URL.Path, "/api/notes/") && len(r.URL.Path) > len("/api/notes/")
	switch r.Method {
	case http.MethodPost:
		h.CreateNote(w, r)
	case http.MethodGet:
		if hasID {
			h.NoteDetail(w, r)
			return
		}
		h.ListNotes(w, r)
	case http.MethodPut, http.MethodPatch:
		h.UpdateNote(w, r)
	case http.MethodDelete:
		h.DeleteNote(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CreateNote handles POST /api/notes
// @Summary Create a new note
// @Tags notes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param payload body dto.CreateNoteRequest true "Note payload"
// @Success 201 {object} models.Note
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes [post]
func (h *NotesHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateNoteRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Title cannot be empty")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Content cannot be empty")
		return
	}

	// Defaults for optional fields
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	color := req.Color
	if color == "" {
		color = DefaultNoteColor
	}
	isPinned := false
	if req.IsPinned != nil {
		isPinned = *req.IsPinned
	}
	isArchived := false
	if req.IsArchived != nil {
		isArchived = *req.IsArchived
	}

	now := time.Now()
	note := models.Note{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       tags,
		Color:      color,
		IsPinned:   isPinned,
		IsArchived: isArchived,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.notes.Create(r.Context(), &note); err != nil {
		h.logger.Error("create note", zap.Error(err), zap.String("user_id", userID.String()))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to create note")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, note)
}

// ListNotes handles GET /api/notes
// @Summary List the current user's notes
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Note "Sorted by updatedAt descending"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes [get]
func (h *NotesHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	notes, err := h.notes.ListByOwner(r.Context(), userID)
	if err != nil {
		h.logger.Error("list notes", zap.Error(err), zap.String("user_id", userID.String()))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to load notes")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, notes)
}

// NoteDetail handles GET /api/notes/{note_id}
// @Summary Get a note by ID
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param note_id path string true "Note ID"
// @Success 200 {object} models.Note
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/{note_id} [get]
func (h *NotesHandler) NoteDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	note, ok := h.loadOwnedNote(w, r, userID)
	if !ok {
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, note)
}

// UpdateNote handles PUT/PATCH /api/notes/{note_id} as a merge-patch: only
// fields present in the payload are applied.
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param note_id path string true "Note ID"
// @Param payload body dto.UpdateNoteRequest true "Fields to update"
// @Success 200 {object} models.Note
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/{note_id} [put]
func (h *NotesHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	note, ok := h.loadOwnedNote(w, r, userID)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Title cannot be empty")
			return
		}
		note.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Content cannot be empty")
			return
		}
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}
	if req.Color != nil {
		note.Color = *req.Color
	}
	if req.IsPinned != nil {
		note.IsPinned = *req.IsPinned
	}
	if req.IsArchived != nil {
		note.IsArchived = *req.IsArchived
	}
	if req.AISummary != nil {
		note.AISummary = req.AISummary
	}

	// updatedAt is refreshed on every accepted update, even a no-op one.
	note.UpdatedAt = time.Now()

	if err := h.notes.Update(r.Context(), note); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Note not found")
			return
		}
		h.logger.Error("update note", zap.Error(err), zap.String("note_id", note.ID.String()))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to update note")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{note_id}
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param note_id path string true "Note ID"
// @Success 200 {object} dto.DeleteNoteResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/{note_id} [delete]
func (h *NotesHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	note, ok := h.loadOwnedNote(w, r, userID)
	if !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), note.ID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Note not found")
			return
		}
		h.logger.Error("delete note", zap.Error(err), zap.String("note_id", note.ID.String()))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to delete note")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.DeleteNoteResponse{Message: "Note deleted successfully"})
}

// loadOwnedNote extracts the note ID from the path, loads the note, and
// enforces the existence-then-ownership check order: a missing note yields
// 404 before ownership is ever considered, a foreign note yields 403.
// On failure the response has already been written and false is returned.
func (h *NotesHandler) loadOwnedNote(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Note, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/notes/")
	noteID, err := uuid.Parse(idStr)
	if err != nil {
		// A malformed ID can never name an existing note.
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Note not found")
		return nil, false
	}

	note, err := h.notes.GetByID(r.Context(), noteID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Note not found")
			return nil, false
		}
		h.logger.Error("get note", zap.Error(err), zap.String("note_id", noteID.String()))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to load note")
		return nil, false
	}

	if note.UserID != userID {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "Note does not belong to the current user")
		return nil, false
	}

	return note, true
}
