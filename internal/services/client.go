package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
	defaultRequestRate   = 10 // requests per second
)

// Client wraps HTTP access to one media-management API. Requests are
// rate limited, retried with exponential backoff, and honor Retry-After
// on throttled responses.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRequestRate caps outbound requests per second.
func WithRequestRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithRetry overrides the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// NewClient creates a client for the named service API.
func NewClient(name, baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, Wrap(ErrConfiguration, name, "new client", "base url required", nil)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, Wrap(ErrConfiguration, name, "new client", "api key required", nil)
	}
	client := &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestRate), 1),
		attempts:   defaultRetryAttempts,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name returns the service name used in error context.
func (c *Client) Name() string {
	return c.name
}

// GetJSON fetches path under the API base and decodes the JSON response
// into out. Transient failures are retried with exponential backoff; a
// 429 waits out the server's Retry-After before the next attempt.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return Wrap(ErrValidation, c.name, "build request", fmt.Sprintf("parse url %q", path), err)
	}
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return Wrap(ErrTimeout, c.name, "rate limit", "", err)
		}

		wait, err := c.doOnce(ctx, endpoint.String(), out)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
		lastErr = err
		if wait > 0 {
			if err := sleepContext(ctx, wait); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// doOnce performs a single attempt. The returned duration is the
// server-requested wait before the next attempt, zero if none.
func (c *Client) doOnce(ctx context.Context, endpoint string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, Wrap(ErrValidation, c.name, "build request", "", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, Wrap(ErrTimeout, c.name, "execute request", "", err)
		}
		return 0, Wrap(ErrTransient, c.name, "execute request", "", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return 0, Wrap(ErrUnauthorized, c.name, "execute request", fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return 0, Wrap(ErrNotFound, c.name, "execute request", endpoint, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return retryAfter(resp, c.retryDelay), Wrap(ErrTransient, c.name, "execute request", "rate limited", nil)
	default:
		return 0, Wrap(ErrTransient, c.name, "execute request", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	if out == nil {
		return 0, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, Wrap(ErrValidation, c.name, "decode response", "", err)
	}
	return 0, nil
}

// Ping verifies connectivity and credentials against the system status
// endpoint shared by both services.
func (c *Client) Ping(ctx context.Context) error {
	return c.GetJSON(ctx, "/api/v3/system/status", nil, nil)
}

func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	header := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if header == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
