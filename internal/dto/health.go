package dto

// HealthResponse is the body of the health probe endpoints. Checks is only
// filled in by the readiness probe, one entry per dependency.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
