// Package api is the client of the remote content feed that serves the
// banner and career catalog.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agripath/agripath/internal/content"
)

//nolint:gochecknoglobals // default values are overwritten by WithBaseURL and WithHTTPClient.
var (
	defaultTimeout = 5 * time.Second
	defaultBaseURL = "https://feed.agripath.in/api/v1"
)

// FeedClient is the transport interface used by the CLI and the TUI.
type FeedClient interface {
	FetchCatalog(ctx context.Context) (*content.Catalog, error)
	FetchCareer(ctx context.Context, id string) (*content.Career, error)
}

// Client is a concrete implementation of FeedClient.
type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	userAgent       string
	defaultIdentity Identity
	locale          string

	// Cached health state for one-shot health probing.
	healthOnce   sync.Once
	healthStatus HealthStatus
	healthErr    error
	forceOffline atomic.Bool

	// skipHealthProbe disables the initial /health check; used by tests.
	skipHealthProbe bool
}

// ClientOption mutates Client configuration.
type ClientOption func(*Client)

// WithBaseURL configures the API base URL for production or tests.
func WithBaseURL(base string) ClientOption { //nolint:ireturn
	return func(c *Client) {
		if base == "" {
			return
		}
		if u, err := url.Parse(base); err == nil {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption { //nolint:ireturn
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithDefaultIdentity attaches an identity to requests whose context has none.
func WithDefaultIdentity(id Identity) ClientOption { //nolint:ireturn
	return func(c *Client) {
		c.defaultIdentity = id
	}
}

// WithLocale selects the language of the served content, e.g. "hi-IN".
func WithLocale(locale string) ClientOption { //nolint:ireturn
	return func(c *Client) {
		c.locale = locale
	}
}

// withSkipHealthProbe disables the initial /health probe on first request.
// Intended for internal tests that don't expose a /health endpoint.
func withSkipHealthProbe() ClientOption { //nolint:ireturn
	return func(c *Client) {
		c.skipHealthProbe = true
	}
}

// NewClient constructs a new Client with defaults. When the initial health
// probe fails the client is returned together with ErrOffline, and every
// later call fails fast with ErrOffline.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == nil {
		u, err := url.Parse(defaultBaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid default baseURL: %w", err)
		}
		c.baseURL = u
	}
	if c.skipHealthProbe {
		c.healthStatus = Healthy
		return c, nil
	}
	hctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
	defer cancel()
	if status, err := c.checkHealth(hctx); err != nil || status == Unhealthy {
		c.forceOffline.Store(true)
		return c, ErrOffline
	}
	return c, nil
}

const healthProbeTimeout = 3 * time.Second

// checkHealth performs a one-time health probe to /health and caches the status.
// Subsequent calls return the cached status immediately.
func (c *Client) checkHealth(ctx context.Context) (HealthStatus, error) {
	c.healthOnce.Do(func() {
		if c.skipHealthProbe {
			c.healthStatus = Healthy
			return
		}
		hctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
		defer cancel()

		// Use a raw request to avoid re-entrancy via newRequest.
		req, err := http.NewRequestWithContext(hctx, http.MethodGet, c.buildURL("/health", nil), nil)
		if err != nil {
			c.healthStatus, c.healthErr = Unhealthy, err
			return
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.healthStatus, c.healthErr = Unhealthy, err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			// Any 2xx is healthy unless the body says otherwise.
			var hr HealthResponse
			if err := decodeJSON(resp.Body, &hr); err == nil && hr.Status != "" {
				c.healthStatus = hr.Status
			} else {
				c.healthStatus = Healthy
			}
			return
		}
		c.healthStatus = Unhealthy
		c.healthErr = fmt.Errorf("health check: unexpected status %d", resp.StatusCode)
	})
	return c.healthStatus, c.healthErr
}

// Offline reports whether the client gave up on the feed.
func (c *Client) Offline() bool { return c.forceOffline.Load() }

// --- Helpers ---

// joinURLPath joins two URL paths with exactly one slash boundary.
func joinURLPath(basePath, addPath string) string {
	switch {
	case basePath == "" || basePath == "/":
		return addPath
	case addPath == "":
		return basePath
	case hasTrailingSlash(basePath) && hasLeadingSlash(addPath):
		return basePath + addPath[1:]
	case !hasTrailingSlash(basePath) && !hasLeadingSlash(addPath):
		return basePath + "/" + addPath
	default:
		return basePath + addPath
	}
}

func hasTrailingSlash(p string) bool { return len(p) > 0 && p[len(p)-1] == '/' }
func hasLeadingSlash(p string) bool  { return len(p) > 0 && p[0] == '/' }

func (c *Client) buildURL(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = joinURLPath(u.Path, path)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, fullURL string, body io.Reader) (*http.Request, error) {
	if c.forceOffline.Load() {
		return nil, ErrOffline
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	identityFor(ctx, c.defaultIdentity).apply(req.Header)
	return req, nil
}

// graphQL posts one operation and decodes its data into out.
func (c *Client) graphQL(ctx context.Context, op graphQLRequest, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(op); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.buildURL("/graphql", nil), buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return handleHTTPError(resp)
	}
	var env graphQLResponse
	if err := decodeJSON(resp.Body, &env); err != nil {
		return fmt.Errorf("decode %s response: %w", op.OperationName, err)
	}
	if len(env.Errors) > 0 {
		return graphQLErrors(env.Errors)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%s: empty data", op.OperationName)
	}
	return json.Unmarshal(env.Data, out)
}

func decodeJSON[T any](r io.Reader, out *T) error {
	dec := json.NewDecoder(r)
	return dec.Decode(out)
}
