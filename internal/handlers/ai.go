package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"NOTEHUB_BACK-END/internal/dto"
	"NOTEHUB_BACK-END/internal/summarize"
	"NOTEHUB_BACK-END/internal/utils"
)

// AIHandler proxies note content to the external summarization service
type AIHandler struct {
	client *summarize.Client
	logger *zap.Logger
}

// NewAIHandler creates a new AIHandler instance
func NewAIHandler(client *summarize.Client, logger *zap.Logger) *AIHandler {
	return &AIHandler{client: client, logger: logger}
}

// Analyze handles POST /api/ai/analyze
// @Summary Summarize note content
// @Description Forward note content to the external summarization model
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.AnalyzeRequest true "Content to summarize"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse "Empty content"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Missing upstream credential"
// @Failure 502 {object} dto.ErrorResponse "Upstream failure"
// @Failure 503 {object} dto.ModelLoadingResponse "Model warming up"
// @Router /api/ai/analyze [post]
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.AnalyzeRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Content is required for analysis")
		return
	}

	summary, err := h.client.Summarize(r.Context(), req.Content)
	if err != nil {
		var loading *summarize.ModelLoadingError
		if errors.As(err, &loading) {
			utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.ModelLoadingResponse{
				Error:         "Model loading",
				Message:       loading.Error() + ". Please try again shortly.",
				EstimatedTime: loading.EstimatedSeconds,
			})
			return
		}
		if errors.Is(err, summarize.ErrMissingToken) {
			h.logger.Error("summarization token missing")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Configuration error", "AI service is not configured")
			return
		}
		if errors.Is(err, summarize.ErrEmptyInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Content is required for analysis")
			return
		}
		h.logger.Error("summarize", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusBadGateway, "Upstream error", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AnalyzeResponse{Summary: summary})
}
