package dto

// AnalyzeRequest represents the payload for the AI analysis endpoint
type AnalyzeRequest struct {
	Content string `json:"content" validate:"required"`
}

// AnalyzeResponse carries the summary produced by the external model. When
// the upstream response shape is unexpected the summary is empty rather
// than the request failing.
type AnalyzeResponse struct {
	Summary string `json:"summary"`
}

// ModelLoadingResponse is returned while the external model is warming up,
// so the client can decide to retry later.
type ModelLoadingResponse struct {
	Error         string  `json:"error"`
	Message       string  `json:"message"`
	EstimatedTime float64 `json:"estimated_time"`
}
