// Package client talks to the game-rental catalog REST API.
package client

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

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hongminglow/rentalctl/internal/models/dto"
)

var (
	// ErrNoToken is returned when an authenticated call has no token to send.
	ErrNoToken = errors.New("no authentication token found")
	// ErrSessionExpired is returned when the backend answers 401 to an authenticated call.
	ErrSessionExpired = errors.New("authentication expired, please log in again")
)

// StatusError is a non-success HTTP response from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// IsRejection reports whether err is an explicit answer from the backend
// (as opposed to a transport failure where no response arrived).
func IsRejection(err error) bool {
	var se *StatusError
	return errors.As(err, &se) || errors.Is(err, ErrSessionExpired)
}

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
}

// Client is a small JSON client for the catalog API.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	limiter        *rate.Limiter
	onUnauthorized func(ctx context.Context)
	userAgent      string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource sets where authenticated calls read their token from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook runs fn when an authenticated call is answered with 401.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New builds a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 15 * time.Second},
		userAgent: "rentalctl",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource swaps the token source after construction.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetUnauthorizedHook swaps the 401 hook after construction.
func (c *Client) SetUnauthorizedHook(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
	// token overrides the token source for this call.
	token string
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	token := req.token
	if req.auth && token == "" {
		if c.tokens != nil {
			token, _ = c.tokens.Get(ctx)
		}
		if token == "" {
			return ErrNoToken
		}
	}

	endpoint := c.baseURL + req.path
	if strings.HasPrefix(req.path, "http://") || strings.HasPrefix(req.path, "https://") {
		endpoint = req.path
	}
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && req.auth && req.token == "" {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	return &StatusError{StatusCode: resp.StatusCode}
}
