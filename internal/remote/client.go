// Package remote is the HTTP client for the stats backend. It performs one
// time-bounded attempt per call and classifies failures; retry policy lives
// entirely in the breaker at the call site.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marple/lotsync/internal/models"
)

// requestTimeout is the hard per-call budget. The context deadline aborts the
// in-flight request; a hung backend cannot stall the caller past it.
const requestTimeout = 5 * time.Second

// ErrUnauthorized marks 401 responses so callers can distinguish a bad
// credential from ordinary backend trouble.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned HTTP %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("backend returned HTTP %d", e.Code)
}

// Client talks to the stats backend.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	timeout time.Duration
}

// New creates a client for the given base URL. apiKey may be empty; when set
// it is attached as a bearer token on every request.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{},
		timeout: requestTimeout,
	}
}

// TicketEvent is the body for POST /stats/ticket.
type TicketEvent struct {
	UserID    string `json:"userId"`
	TicketID  string `json:"ticketId"`
	DrawID    string `json:"drawId"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// UserEvent is the body for POST /stats/user.
type UserEvent struct {
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

// DrawCompletionEvent is the body for POST /draws/complete. TotalEntries is
// carried for backend-side audit only; it is not folded into the aggregate.
type DrawCompletionEvent struct {
	DrawID         string  `json:"drawId"`
	WinnerUsername string  `json:"winnerUsername"`
	WinnerTicketID string  `json:"winnerTicketId"`
	PrizeAmount    float64 `json:"prizeAmount"`
	TotalEntries   int64   `json:"totalEntries"`
	Timestamp      string  `json:"timestamp"`
}

// FetchStats retrieves the authoritative aggregate.
func (c *Client) FetchStats(ctx context.Context) (*models.GlobalStats, error) {
	var stats models.GlobalStats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PostTicket reports a ticket purchase and returns the updated aggregate.
func (c *Client) PostTicket(ctx context.Context, ev TicketEvent) (*models.GlobalStats, error) {
	var stats models.GlobalStats
	if err := c.do(ctx, http.MethodPost, "/stats/ticket", ev, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PostUser reports a user registration and returns the updated aggregate.
func (c *Client) PostUser(ctx context.Context, ev UserEvent) (*models.GlobalStats, error) {
	var stats models.GlobalStats
	if err := c.do(ctx, http.MethodPost, "/stats/user", ev, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PostDrawCompletion reports a completed draw and returns the updated aggregate.
func (c *Client) PostDrawCompletion(ctx context.Context, ev DrawCompletionEvent) (*models.GlobalStats, error) {
	var stats models.GlobalStats
	if err := c.do(ctx, http.MethodPost, "/draws/complete", ev, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// do executes a single JSON request with the hard timeout. The timeout
// context is cancelled on every exit path so the transport releases its
// resources whether the call succeeds, fails, or times out.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: HTTP %d", ErrUnauthorized, resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Body: truncate(respBody, 200)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
