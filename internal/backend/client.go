// Package backend talks to the booking platform REST API that owns every record
// shown in the dashboard.
package backend

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
	"time"

	"github.com/google/uuid"

	"github.com/halocare/halocare-admin/internal/platform/httpx"
)

// Observer records backend call latency.
type Observer interface {
	ObserveBackend(resource, method string, status int, elapsed time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	Logger   *slog.Logger
	Observer Observer
	HTTP     *http.Client
}

// Client wraps HTTP interactions with the booking platform API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
}

// Error describes a non-2xx backend response.
type Error struct {
	Status int
	Title  string
	Detail string
	cause  error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, msg)
}

// Unwrap exposes the httpx sentinel matching the status code.
func (e *Error) Unwrap() error { return e.cause }

// UserMessage is the backend's own explanation, safe to show to managers for
// validation failures.
func (e *Error) UserMessage() string { return e.Detail }

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTP
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     logger,
		observer:   cfg.Observer,
	}
}

// Ping checks that the API answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, resource, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s body: %w", resource, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(resource, method, 0, time.Since(start))
		return fmt.Errorf("backend: %s %s: %w: %w", method, path, httpx.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.observe(resource, method, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) observe(resource, method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackend(resource, method, status, elapsed)
	}
	c.logger.Debug("backend call", slog.String("resource", resource), slog.String("method", method), slog.Int("status", status), slog.Duration("elapsed", elapsed))
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode, cause: sentinelFor(resp.StatusCode)}
	var problem httpx.ProblemDetail
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &problem); jsonErr == nil {
			e.Title = problem.Title
			e.Detail = problem.Detail
		} else {
			e.Detail = strings.TrimSpace(string(data))
		}
	}
	return e
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusNotFound:
		return httpx.ErrNotFound
	case http.StatusConflict:
		return httpx.ErrDuplicate
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return httpx.ErrValidation
	case http.StatusUnauthorized:
		return httpx.ErrUnauthorized
	case http.StatusForbidden:
		return httpx.ErrForbidden
	default:
		return httpx.ErrUnavailable
	}
}

// IsUnavailable reports whether err is a transport failure or a 5xx answer.
// Caller cancellation is not an outage.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, httpx.ErrUnavailable)
}
