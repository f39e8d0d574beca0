// Package instagram fetches profile data through the private web_profile_info
// API and normalizes the nested edge-list response into the Profile/Post model.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"gramlens/internal/session"
	"gramlens/internal/types"
)

const (
	defaultBaseURL = "https://www.instagram.com"
	appID          = "936619743392459"
)

// Client calls the profile-info endpoint with session-derived headers.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Client with a bounded request timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		baseURL:   defaultBaseURL,
		userAgent: session.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProfile issues one GET to the profile-info endpoint and returns the
// normalized Profile. Failures are classified into the package's sentinel
// errors; transport failures come back wrapped.
func (c *Client) FetchProfile(ctx context.Context, username string, creds session.Credentials) (*types.Profile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s", c.baseURL, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, username, creds)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error fetching profile %s: %w", username, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", username, ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", username, ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", username, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("profile request for %s returned status %d", username, resp.StatusCode)
	}

	var raw rawResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", username, ErrMalformedResponse, err)
	}

	user := raw.Data.User
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%s: %w", username, ErrMalformedResponse)
	}

	return normalizeProfile(username, user), nil
}

// setHeaders prepares the header set the web client sends, embedding the
// username in the referer and the session tokens in the IG-specific headers.
func (c *Client) setHeaders(req *http.Request, username string, creds session.Credentials) {
	h := req.Header
	h.Set("accept", "*/*")
	h.Set("accept-language", "en-US,en;q=0.9")
	h.Set("referer", fmt.Sprintf("https://www.instagram.com/%s/", username))
	h.Set("sec-ch-prefers-color-scheme", "dark")
	h.Set("sec-ch-ua", `"Chromium";v="134", "Not:A-Brand";v="24", "Google Chrome";v="134"`)
	h.Set("sec-ch-ua-mobile", "?0")
	h.Set("sec-ch-ua-platform", `"macOS"`)
	h.Set("sec-fetch-dest", "empty")
	h.Set("sec-fetch-mode", "cors")
	h.Set("sec-fetch-site", "same-origin")
	h.Set("user-agent", c.userAgent)
	h.Set("x-csrftoken", creds.CSRFToken())
	h.Set("x-ig-app-id", appID)
	h.Set("x-requested-with", "XMLHttpRequest")
	h.Set("x-ig-user-id", creds.UserID())
	h.Set("cookie", cookieHeader(creds))
}

// cookieHeader flattens the credential map into a Cookie header with a stable
// order.
func cookieHeader(creds session.Credentials) string {
	names := make([]string, 0, len(creds))
	for name := range creds {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+creds[name])
	}
	return strings.Join(pairs, "; ")
}
