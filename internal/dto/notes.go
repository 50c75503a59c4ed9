package dto

// CreateNoteRequest represents the payload for creating a note.
// Field names follow the client's camelCase convention.
type CreateNoteRequest struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Tags       []string `json:"tags,omitempty"`
	Color      string   `json:"color,omitempty"`
	IsPinned   *bool    `json:"isPinned,omitempty"`
	IsArchived *bool    `json:"isArchived,omitempty"`
}

// UpdateNoteRequest represents a merge-patch on a note: only fields present
// in the payload are applied, everything else keeps its stored value. The
// owner is deliberately not part of this shape.
type UpdateNoteRequest struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Color      *string   `json:"color,omitempty"`
	IsPinned   *bool     `json:"isPinned,omitempty"`
	IsArchived *bool     `json:"isArchived,omitempty"`
	AISummary  *string   `json:"aiSummary,omitempty"`
}

// DeleteNoteResponse confirms a successful delete
type DeleteNoteResponse struct {
	Message string `json:"message"`
}
