// Package api is the HTTP client for the rental REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	apperrors "carrental/internal/errors"
)

const (
	maxErrorBody = 4 << 10
	userAgent    = "carrental-portal/1.0"
)

// Client talks to one rental API instance.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	jar        http.CookieJar
	logger     *slog.Logger
	userAgent  string
	// adminReads marks GET cars as credentialed, the way the admin portal reads it.
	adminReads bool
}

// Option configures a Client.
type Option func(*Client) error

// WithCookieJar replaces the jar used for credentialed requests.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) error {
		c.jar = jar
		return nil
	}
}

// WithSessionCookie seeds the jar with a session cookie for the API host.
func WithSessionCookie(name, value string) Option {
	return func(c *Client) error {
		if value == "" {
			return nil
		}
		if name == "" {
			return fmt.Errorf("session cookie: empty name")
		}
		c.jar.SetCookies(c.baseURL, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
		return nil
	}
}

// WithAdminCredentials sends cookies on car reads as well as car writes.
func WithAdminCredentials() Option {
	return func(c *Client) error {
		c.adminReads = true
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// NewClient constructs a client for the API rooted at baseURL, for example
// "http://localhost:5000/api". A nil httpClient uses transport defaults.
func NewClient(httpClient *http.Client, baseURL string, opts ...Option) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    u,
		jar:        jar,
		logger:     slog.Default(),
		userAgent:  userAgent,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Request describes one call against a resource path relative to the base URL.
type Request struct {
	Method string
	Path   string
	Body   any
	// Credentials attaches the jar's cookies and stores any it receives.
	Credentials bool
}

// Do sends req and decodes a 2xx JSON body into out when out is non-nil.
// Non-2xx responses and transport failures come back as *errors.RequestError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	u := c.baseURL.JoinPath(req.Path)

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Credentials && c.jar != nil {
		for _, cookie := range c.jar.Cookies(u) {
			httpReq.AddCookie(cookie)
		}
	}

	c.logger.Debug("api request", "method", req.Method, "path", req.Path, "credentials", req.Credentials)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed", "method", req.Method, "path", req.Path, "err", err)
		return apperrors.NewNetworkError(req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	if req.Credentials && c.jar != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			c.jar.SetCookies(u, cookies)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var payload errorResponse
		_ = json.Unmarshal(b, &payload)
		c.logger.Debug("api error response", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "error", payload.Error)
		return apperrors.NewAPIError(req.Method, req.Path, resp.StatusCode, strings.TrimSpace(payload.Error))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(req.Method, req.Path, fmt.Errorf("read body: %w", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", req.Method, req.Path, err)
	}
	return nil
}
