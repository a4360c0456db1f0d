// Package google implements the remote calendar/task HTTP API consumed by
// the sync engine: event and task CRUD plus the OAuth token lifecycle
// endpoints.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
)

const (
	calendarBaseURL = "https://www.googleapis.com/calendar/v3"
	tasksBaseURL    = "https://tasks.googleapis.com/tasks/v1"

	defaultTimeout = 30 * time.Second
)

// Client is a bearer-token JSON client for the remote calendar/task API.
type Client struct {
	httpClient  *http.Client
	calendarURL string
	tasksURL    string
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURLs points both API surfaces at alternative endpoints. Tests use
// this with a local httptest server.
func WithBaseURLs(calendarURL, tasksURL string) Option {
	return func(c *Client) {
		c.calendarURL = calendarURL
		c.tasksURL = tasksURL
	}
}

// NewClient creates a client with a bounded per-call timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		calendarURL: calendarBaseURL,
		tasksURL:    tasksBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doJSON executes one authenticated call and decodes the response into out
// (when out is non-nil). Remote failures are classified into the sync error
// taxonomy.
func (c *Client) doJSON(ctx context.Context, method, url, accessToken string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return apperrors.NewRemoteTransientError(err.Error())
		}
		return apperrors.NewRemoteTransientError(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return classifyStatus(resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

// classifyStatus maps remote HTTP status codes onto the sync error taxonomy.
func classifyStatus(status int, body string) error {
	detail := fmt.Sprintf("status %d: %s", status, body)
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.NewRemoteUnauthorizedError(detail)
	case status == http.StatusForbidden:
		return apperrors.NewRemoteForbiddenError(detail)
	case status == http.StatusNotFound || status == http.StatusGone:
		return apperrors.NewRemoteNotFoundError(detail)
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return apperrors.NewRemoteTransientError(detail)
	default:
		return apperrors.NewRemoteTransientError(detail)
	}
}
