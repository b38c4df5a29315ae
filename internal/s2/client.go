// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package s2 talks to the Semantic Scholar Graph API. It is the only code
// in citegraph that touches the network: single-paper lookups for the
// crawler and paginated corpus search, both behind bounded retry with
// exponential backoff.
package s2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/citegraph/internal/httputil"
	"github.com/pdiddy/citegraph/internal/metrics"
	"github.com/pdiddy/citegraph/pkg/types"
)

// apiBase is the Semantic Scholar Graph API root. Declared as a var so
// tests can substitute an httptest server.
var apiBase = "https://api.semanticscholar.org/graph/v1"

// PaperFields is the static field selection for paper lookups.
const PaperFields = "title,authors,year,venue,url,citations,references"

const (
	DefaultMaxAttempts = 20
	DefaultBackoffBase = 1 * time.Second
	DefaultBackoffCap  = 60 * time.Second
	DefaultTimeout     = 15 * time.Second
	DefaultUserAgent   = "citegraph/0.1"
)

var (
	// ErrExhausted wraps every lookup that failed all of its attempts.
	ErrExhausted = httputil.ErrExhausted

	// ErrInvalidResponse indicates a 2xx response whose body is not the
	// expected JSON.
	ErrInvalidResponse = errors.New("invalid response from Semantic Scholar")
)

// Client is a retrying HTTP client for the Semantic Scholar Graph API. It
// holds no per-crawl state and may be shared across independent crawls.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	maxAttempts int
	policy      httputil.Policy
	log         io.Writer
	metrics     *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom API root (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithLogger sets the writer that receives retry and failure messages.
func WithLogger(w io.Writer) Option {
	return func(c *Client) { c.log = w }
}

// WithMetrics records attempts and exhausted lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a Client from cfg, filling unset fields with defaults.
func NewClient(cfg types.FetchConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:     apiBase,
		apiKey:      cfg.APIKey,
		userAgent:   cfg.UserAgent,
		maxAttempts: cfg.MaxAttempts,
		policy:      httputil.Policy{Base: cfg.BackoffBase, Cap: cfg.BackoffCap},
		log:         io.Discard,
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.policy.Base <= 0 {
		c.policy.Base = DefaultBackoffBase
	}
	if c.policy.Cap <= 0 {
		c.policy.Cap = DefaultBackoffCap
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxAttempts returns the configured attempt bound.
func (c *Client) MaxAttempts() int { return c.maxAttempts }

// FetchPaper looks up one paper with the PaperFields selection. After
// MaxAttempts failed attempts it logs the identifier and returns an error
// wrapping ErrExhausted.
func (c *Client) FetchPaper(ctx context.Context, id string) (*PaperPayload, error) {
	reqURL := c.baseURL + "/paper/" + escapeID(id) + "?" + url.Values{"fields": {PaperFields}}.Encode()

	p, err := getJSON[PaperPayload](ctx, c, reqURL)
	if err != nil {
		if errors.Is(err, ErrExhausted) {
			fmt.Fprintf(c.log, "failed to fetch data for paper %s after %d attempts\n", id, c.maxAttempts)
		}
		return nil, fmt.Errorf("fetching paper %s: %w", id, err)
	}
	return p, nil
}

// getJSON issues a GET through c with retry and decodes the first 2xx body
// that parses as T. Network errors, non-2xx statuses, body read errors, and
// bodies that do not decode all count as failed attempts.
func getJSON[T any](ctx context.Context, c *Client, reqURL string) (*T, error) {
	var result *T
	observe := func(attempt int, err error, wait time.Duration) {
		fmt.Fprintf(c.log, "attempt %d failed: %v\n", attempt, err)
		if wait > 0 {
			fmt.Fprintf(c.log, "retrying in %v...\n", wait)
		}
	}

	err := httputil.Do(ctx, c.policy, c.maxAttempts, observe, func(ctx context.Context) error {
		body, err := c.attempt(ctx, reqURL)
		if err == nil {
			var v T
			if jerr := json.Unmarshal(body, &v); jerr != nil {
				err = fmt.Errorf("%w: %v", ErrInvalidResponse, jerr)
			} else {
				result = &v
			}
		}
		if err != nil {
			c.count(metrics.OutcomeFailure)
			return err
		}
		c.count(metrics.OutcomeSuccess)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrExhausted) && c.metrics != nil {
			c.metrics.FetchExhausted.Inc()
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) attempt(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) count(outcome string) {
	if c.metrics != nil {
		c.metrics.FetchAttempts.WithLabelValues(outcome).Inc()
	}
}

// escapeID path-escapes each segment of a paper identifier while keeping
// the slashes DOI identifiers carry (e.g. "DOI:10.1038/nature12373").
func escapeID(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
