// Package api implements the HTTP client for the sonar search backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sonar/internal/domain"
)

// StatusError reports a non-2xx backend reply. Detail carries the
// human-readable message extracted from the response body.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// detailBody matches FastAPI's error envelope: {"detail": "..."}
type detailBody struct {
	Detail string `json:"detail"`
}

// Client talks to the search backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new backend client
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search posts a query to the backend and returns the decoded result.
// The raw body and HTTP status are kept on the result for diagnostics.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	// Read the body as text before any parsing so error replies and
	// malformed payloads are preserved verbatim for display.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Status: resp.StatusCode,
			Detail: extractDetail(body, resp.StatusCode),
		}
	}

	var decoded domain.SearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}

	return &domain.SearchResult{
		Response: decoded,
		Status:   resp.StatusCode,
		Duration: duration,
		RawBody:  string(body),
	}, nil
}

// Health probes the backend's /health endpoint
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Status: resp.StatusCode,
			Detail: extractDetail(body, resp.StatusCode),
		}
	}

	status := domain.HealthStatus{BaseURL: c.baseURL}
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &status, nil
}

// extractDetail pulls a display message out of an error reply. The
// backend wraps messages as {"detail": "..."}; anything else is shown
// as raw text, and an empty body falls back to the status line.
func extractDetail(body []byte, status int) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("%d %s", status, http.StatusText(status))
	}

	var envelope detailBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return trimmed
}
