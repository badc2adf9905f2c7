package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
)

// ErrUnauthorized is returned when the server rejects the session token.
// The client clears its session before returning it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries a non-2xx response's status and server message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL    string
	Session    *Session
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Session:    &Session{},
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do runs one API call, attaching the bearer token only when a session
// is held. A 401 clears the session before the error is returned, so
// callers never observe a logged-in state the server has rejected.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.Session.LogOut()
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server goodbye and clears the local session either
// way. The session is gone even when the network call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.Session.LogOut()
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// CalendarMonth fetches the per-day buckets for one month.
func (c *Client) CalendarMonth(ctx context.Context, year, month int) (*models.CalendarMonthResponse, error) {
	var out models.CalendarMonthResponse
	path := fmt.Sprintf("/api/calendar/%d/%d", year, month)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders fetches a newest-first page of orders.
func (c *Client) Orders(ctx context.Context, limit, offset int) (*models.OrderListResponse, error) {
	var out models.OrderListResponse
	path := fmt.Sprintf("/api/orders?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary fetches the rolling multi-month stats.
func (c *Client) Summary(ctx context.Context) (*models.SummaryResponse, error) {
	var out models.SummaryResponse
	if err := c.do(ctx, http.MethodGet, "/api/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerSync starts a backend email sync and returns its job ID.
func (c *Client) TriggerSync(ctx context.Context) (string, error) {
	var out struct {
		JobID string `json:"job_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/sync", nil, &out); err != nil {
		return "", err
	}
	return out.JobID, nil
}

// SyncStatus polls the state of the caller's sync job.
func (c *Client) SyncStatus(ctx context.Context) (*models.SyncStatusResponse, error) {
	var out models.SyncStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/sync/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestoreOutcome distinguishes "token is dead" from "could not reach
// the server" when restoring a persisted session at startup.
type RestoreOutcome int

const (
	// Restored: the token is valid and the session is populated.
	Restored RestoreOutcome = iota
	// NotAuthenticated: the server rejected the token; it was discarded.
	NotAuthenticated
	// TransientError: network or server failure; the token may still be
	// good, so it was kept for a later retry.
	TransientError
)

// Restore validates a persisted token against the server. Only a
// definitive 401 discards the token; transient failures leave the
// session logged in so the app can retry instead of forcing a fresh
// OAuth round trip.
func (c *Client) Restore(ctx context.Context, token string) (RestoreOutcome, error) {
	c.Session.LogIn(token, "")

	user, err := c.Me(ctx)
	if err == nil {
		c.Session.LogIn(token, user.Email)
		return Restored, nil
	}
	if errors.Is(err, ErrUnauthorized) {
		// Me already cleared the session.
		return NotAuthenticated, err
	}
	return TransientError, err
}
