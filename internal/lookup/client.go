package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRetries bounds retry attempts for transient failures.
	DefaultRetries = 3

	// DefaultRateLimit is requests per second across all adapters
	// sharing a client. Public bibliographic APIs ask for polite use.
	DefaultRateLimit = 5.0

	baseBackoff = 500 * time.Millisecond
)

// Client is a rate-limited, retrying HTTP client shared by the lookup
// adapters. The limiter is the only mutable state shared across
// concurrent invocations; rate.Limiter is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry bound for transient failures.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		c.retries = n
	}
}

// WithRateLimit sets the request rate limit in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header. CrossRef's polite pool
// wants a descriptive agent with a contact address.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a lookup HTTP client with default limits.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		retries:    DefaultRetries,
		userAgent:  "refcheck/1.0 (reference verification)",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON issues a GET to endpoint with the given query parameters and
// decodes the JSON response into v. Transient failures (timeouts,
// 5xx, 429) are retried with exponential backoff up to the configured
// bound; on exhaustion the returned error wraps ErrUnavailable.
func (c *Client) GetJSON(ctx context.Context, provider, endpoint string, params url.Values, v any) error {
	u := endpoint
	if len(params) > 0 {
		u = endpoint + "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.doOnce(ctx, u)
		if err == nil {
			if jsonErr := json.Unmarshal(body, v); jsonErr != nil {
				return fmt.Errorf("%w: decoding %s response: %v", ErrInvalidResponse, provider, jsonErr)
			}
			return nil
		}

		lastErr = err
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.Provider = provider
			if !retryable(apiErr.StatusCode) {
				return err
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %v", ErrUnavailable, provider, c.retries+1, lastErr)
}

// doOnce performs a single HTTP round trip.
func (c *Client) doOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return nil, &APIError{StatusCode: 429, Message: "rate limited"}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	return body, nil
}
