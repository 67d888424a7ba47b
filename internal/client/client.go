// ABOUTME: HTTP client for the Pulse platform API
// ABOUTME: Stamps requests with the stored bearer token and clears the session on 401

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pulsekit/pulsectl/internal/session"
)

// ErrUnauthenticated marks a 401 response. By the time the caller sees
// it, the stored session has already been cleared.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden marks a 403 response. The token is still valid, so the
// session is left untouched.
var ErrForbidden = errors.New("permission denied")

// Client is the API client for the Pulse backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
}

// New creates a new API client that reads and invalidates auth state
// through the given session store
func New(baseURL string, sessions *session.Store) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sessions: sessions,
	}
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// loginRequest is the POST /api/auth/login body
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest is the POST /api/auth/register body
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login exchanges credentials for a bearer token via POST /api/auth/login.
// The token is returned to the caller, not stored; storing it is the
// caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required")
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Register creates a new account via POST /api/auth/register and returns
// the created user. It never touches the session.
func (c *Client) Register(ctx context.Context, email, password, role string) (*session.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if role != "admin" && role != "user" {
		return nil, fmt.Errorf("role must be admin or user, got %q", role)
	}

	var user session.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", registerRequest{Email: email, Password: password, Role: role}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile calls GET /api/user/profile for the current session
func (c *Client) GetProfile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers calls GET /api/admin/users (admin role required)
func (c *Client) GetUsers(ctx context.Context) ([]session.User, error) {
	var users []session.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserEvents calls GET /api/analytics/events. A non-zero userID is
// passed as the server-side user_id filter; the client never filters.
func (c *Client) GetUserEvents(ctx context.Context, userID uint64) ([]AnalyticsEvent, error) {
	var events []AnalyticsEvent
	if err := c.doJSON(ctx, http.MethodGet, filteredPath("/api/analytics/events", userID), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetUserLogs calls GET /api/audit/logs with the same filter contract
// as GetUserEvents
func (c *Client) GetUserLogs(ctx context.Context, userID uint64) ([]AuditLog, error) {
	var logs []AuditLog
	if err := c.doJSON(ctx, http.MethodGet, filteredPath("/api/audit/logs", userID), nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// filteredPath appends the optional user_id query parameter
func filteredPath(path string, userID uint64) string {
	if userID == 0 {
		return path
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatUint(userID, 10))
	return path + "?" + q.Encode()
}

// doJSON performs a single round trip: build the request, attach the
// bearer token if one is stored, execute, and decode the response into
// out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The token is read fresh for every request
	if token, ok := c.sessions.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The session must be gone before the caller observes the
		// failure, so gating logic sees a cleared token first.
		c.sessions.Logout()
		return fmt.Errorf("%w: %s", ErrUnauthenticated, c.serverMessage(resp))

	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, c.serverMessage(resp))

	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}

// serverMessage extracts the error message from a response body,
// falling back to the status code
func (c *Client) serverMessage(resp *http.Response) string {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return errResp.Error
}
