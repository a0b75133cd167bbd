package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent is sent on every outbound request. Some sites serve
// stripped-down or blocked pages to clients they do not recognize.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Error wraps any failure during the outbound fetch: transport errors, DNS
// failures, timeouts and non-2xx statuses.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Client performs the single outbound GET per inbound request. No retries,
// no redirect-policy customization beyond net/http defaults.
type Client struct {
	UserAgent      string
	AllowedDomains []string
	httpClient     *http.Client
}

// New creates a Client. A zero timeout leaves the underlying client's
// default in place. An empty allowlist allows every domain.
func New(userAgent string, timeout time.Duration, allowedDomains []string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		UserAgent:      userAgent,
		AllowedDomains: allowedDomains,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

// Fetch issues one GET to target and returns the response body as text. Any
// failure is returned as a *Error; nothing is retried.
func (c *Client) Fetch(ctx context.Context, target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", &Error{URL: target, Err: fmt.Errorf("error parsing target URL: %w", err)}
	}

	if len(c.AllowedDomains) > 0 && !domainAllowed(u.Hostname(), c.AllowedDomains) {
		return "", &Error{URL: target, Err: fmt.Errorf("domain not allowed: %s", u.Hostname())}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &Error{URL: target, Err: fmt.Errorf("error building request: %w", err)}
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: target, Err: fmt.Errorf("error fetching site: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{URL: target, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: target, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	return string(body), nil
}

// domainAllowed matches the host exactly or as a subdomain of an allowed
// entry.
func domainAllowed(host string, allowed []string) bool {
	for _, domain := range allowed {
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
