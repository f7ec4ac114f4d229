// Package fetch retrieves remote resources over HTTP for macro commands.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize is the most bytes of a response body that will be
	// read. Anything past it is cut off.
	DefaultMaxBodySize = 4 * 1024 * 1024
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http %d: %s", e.URL, e.StatusCode, truncate(e.Body))
}

// Config contains the settings for a Client. The zero value gives a Client
// with default timeout and no rate limiting.
type Config struct {
	// Timeout is the maximum duration of a single request, including reading
	// the body. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond limits how often requests are made. Zero or less means
	// no limit.
	RequestsPerSecond float64

	// Burst is the most requests that may be made at once before the rate
	// limit applies. Defaults to 1 if RequestsPerSecond is set.
	Burst int

	// MaxBodySize is the maximum number of body bytes read. Defaults to
	// DefaultMaxBodySize.
	MaxBodySize int64

	// UserAgent is sent with every request if set.
	UserAgent string
}

// Client performs GET requests and returns their bodies as text. A Client is
// safe for concurrent use.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	maxBody   int64
	userAgent string
}

// New creates a new Client from the given config.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}

	c := &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxBody:   cfg.MaxBodySize,
		userAgent: cfg.UserAgent,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// GetString performs a GET request to url and returns the response body. A
// non-2xx response gives a *StatusError.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return string(body), nil
}

func truncate(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
