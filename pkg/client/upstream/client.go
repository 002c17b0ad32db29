package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"allgecare/pkg/fetch"
)

// StatusError is a non-2xx reply from the monitoring API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream HTTP %d: %s", e.Code, e.Message)
}

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// Client talks JSON to the monitoring API. A new request for the view and
// caller tagged on ctx (see fetch.WithView) cancels the one still in flight.
type Client struct {
	baseURL     string
	http        *http.Client
	views       *fetch.Superseder
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 300 * time.Millisecond
	}
	return &Client{
		baseURL:     base.String(),
		http:        &http.Client{Timeout: cfg.Timeout},
		views:       fetch.NewSuperseder(),
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    5 * time.Second,
	}, nil
}

// Get fetches path into out. GETs are retried with backoff on transport
// errors and 5xx replies.
func (c *Client) Get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	ctx, done := c.views.Begin(ctx)
	defer done()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.do(ctx, http.MethodGet, path, query, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) || attempt == c.maxAttempts {
			break
		}

		backoff := c.baseDelay << (attempt - 1)
		if backoff > c.maxDelay {
			backoff = c.maxDelay
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("%s request canceled: %w", endpoint, ctx.Err())
		}
	}
	return lastErr
}

// Post sends body as JSON and decodes the reply into out. Never retried.
func (c *Client) Post(ctx context.Context, endpoint, path string, body, out any) error {
	ctx, done := c.views.Begin(ctx)
	defer done()
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// errorMessage pulls {"error": "..."} out of a reply, or falls back to the
// status text.
func errorMessage(data []byte, code int) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(code)
}

// ErrUnavailable matches failures to reach the monitoring API at all.
var ErrUnavailable = errors.New("monitoring API unreachable")

type transportError struct {
	err error
}

func (e *transportError) Error() string        { return e.err.Error() }
func (e *transportError) Unwrap() error        { return e.err }
func (e *transportError) Is(target error) bool { return target == ErrUnavailable }

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	var te *transportError
	return errors.As(err, &te)
}
