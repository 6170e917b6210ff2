// Package dropbox is a thin client for the Dropbox OAuth2 and Business API
// endpoints relayed by the server.
package dropbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	apiBase        = "https://api.dropboxapi.com"
	authorizeBase  = "https://www.dropbox.com"
	defaultTimeout = 30 * time.Second

	// Fixed page size for list endpoints. Pagination beyond it is not followed.
	listLimitBody = `{"limit":100}`
)

// Credentials holds the Dropbox app settings used for the OAuth2 flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client is a Dropbox API client. It holds no per-user state: every call
// takes the access token supplied by the caller.
type Client struct {
	creds         Credentials
	http          *http.Client
	timeout       time.Duration
	apiBase       string
	authorizeBase string
	logger        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is used as
// is: WithTimeout does not change it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout of the default HTTP client. Non-positive
// values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAPIBase points API and token calls at base instead of api.dropboxapi.com.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

// NewClient creates a new Dropbox API client.
func NewClient(creds Credentials, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		creds:         creds,
		timeout:       defaultTimeout,
		apiBase:       apiBase,
		authorizeBase: authorizeBase,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// TeamInfo returns the raw response of /2/team/get_info.
func (c *Client) TeamInfo(ctx context.Context, token string) ([]byte, error) {
	return c.apiCall(ctx, "Failed to get team info", "/2/team/get_info", token, "null")
}

// Members returns the raw response of /2/team/members/list (first 100 members).
func (c *Client) Members(ctx context.Context, token string) ([]byte, error) {
	return c.apiCall(ctx, "Failed to get team members", "/2/team/members/list", token, listLimitBody)
}

// SignInEvents returns the raw response of /2/team_log/get_events (first 100 events).
func (c *Client) SignInEvents(ctx context.Context, token string) ([]byte, error) {
	return c.apiCall(ctx, "Failed to get sign-in events", "/2/team_log/get_events", token, listLimitBody)
}

func (c *Client) apiCall(ctx context.Context, op, endpoint, token, body string) ([]byte, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+endpoint, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op, endpoint)
}

// do executes req and returns the full body. Non-2xx responses become *APIError.
func (c *Client) do(req *http.Request, op, endpoint string) ([]byte, error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Dropbox call finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Op:         op,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}
