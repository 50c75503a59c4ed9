// Package summarize calls an external text-summarization model and
// normalizes its response and error shapes.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"NOTEHUB_BACK-END/internal/config"
)

// ErrEmptyInput is returned before any outbound call when the input text is
// empty or whitespace-only.
var ErrEmptyInput = errors.New("content is required for analysis")

// ErrMissingToken is returned when no API credential is configured.
var ErrMissingToken = errors.New("summarization API token not configured")

// ModelLoadingError signals that the upstream model is warming up. The
// caller may retry after the estimated wait; the client never retries on
// its own.
type ModelLoadingError struct {
	Model            string
	EstimatedSeconds float64
}

func (e *ModelLoadingError) Error() string {
	return fmt.Sprintf("model %s is currently loading, estimated time: %.1fs", e.Model, e.EstimatedSeconds)
}

// UpstreamError wraps any other failure of the external service so callers
// never see the raw transport error shape.
type UpstreamError struct {
	Model string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("error with model %s: %v", e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client is an HTTP client for a hosted inference API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
}

// NewClient builds a summarization client from configuration.
func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		model:      cfg.Model,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceCandidate struct {
	SummaryText string `json:"summary_text"`
}

type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Summarize sends content to the configured model and returns the first
// candidate's summary text. An unexpected success shape yields an empty
// summary rather than an error, so callers can treat a degraded summary as
// non-fatal.
func (c *Client) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyInput
	}
	if c.token == "" {
		return "", ErrMissingToken
	}

	body, err := json.Marshal(inferenceRequest{Inputs: content})
	if err != nil {
		return "", &UpstreamError{Model: c.model, Err: err}
	}

	url := c.baseURL + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Model: c.model, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Model: c.model, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Model: c.model, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		// A 503 with estimated_time means the model is warming up.
		if resp.StatusCode == http.StatusServiceUnavailable {
			var ie inferenceError
			if jsonErr := json.Unmarshal(respBody, &ie); jsonErr == nil && ie.EstimatedTime > 0 {
				return "", &ModelLoadingError{Model: c.model, EstimatedSeconds: ie.EstimatedTime}
			}
		}
		return "", &UpstreamError{
			Model: c.model,
			Err:   fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
		}
	}

	var candidates []inferenceCandidate
	if err := json.Unmarshal(respBody, &candidates); err != nil || len(candidates) == 0 {
		// Unexpected response shape: degrade to an empty summary.
		return "", nil
	}
	return candidates[0].SummaryText, nil
}
