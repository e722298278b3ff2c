package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/mmcdole/wardrobe/internal/domain"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	baseRetryDelay    = 500 * time.Millisecond
)

// StatusError is returned for non-2xx responses that have no sentinel mapping
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d - %s", e.StatusCode, e.Body)
}

// Client talks to the wardrobe REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client during construction
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries bounds retries of 5xx and network failures
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the initial backoff interval
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a new API client
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		maxRetries: defaultMaxRetries,
		retryDelay: baseRetryDelay,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken attaches the bearer token to all future requests. An empty
// token removes the Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently attached token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request describes one API call. body is replayed on every retry attempt.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// do performs an authenticated request with exponential backoff on 5xx and
// network failures. 4xx responses are never retried.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL = reqURL + "?" + r.query.Encode()
	}
	requestID := uuid.NewString()

	var respBody []byte
	attempt := 0
	op := func() error {
		attempt++

		var body io.Reader
		if r.body != nil {
			body = bytes.NewReader(r.body)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		c.logger.Debug("api request", "method", r.method, "path", r.path, "attempt", attempt, "request_id", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return backoff.Permanent(domain.ErrAuthFailed)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%s %s: %w", r.method, r.path, domain.ErrNotFound))
		case resp.StatusCode >= 500:
			return &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			c.logger.Error("api request error", "status", resp.StatusCode, "path", r.path, "body", string(data))
			return backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(data)})
		}

		respBody = data
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxRetries)), ctx)

	notify := func(err error, delay time.Duration) {
		c.logger.Warn("api request failed, will retry",
			"error", err,
			"attempt", attempt,
			"maxRetries", c.maxRetries,
			"delay", delay,
			"path", r.path,
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if !errors.Is(err, domain.ErrAuthFailed) && !errors.Is(err, domain.ErrNotFound) {
			c.logger.Error("api request failed", "error", err, "method", r.method, "path", r.path, "attempts", attempt)
		}
		return nil, err
	}
	return respBody, nil
}

// doJSON sends in (when non-nil) as JSON and decodes the response into out (when non-nil)
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	r := request{method: method, path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		r.body = b
		r.contentType = "application/json"
	}

	body, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
