// Package portal is the REST client for the education-portal content API.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"collegefinder/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

var (
	// ErrUnsuccessful is returned when the backend answers with success=false
	ErrUnsuccessful = errors.New("portal: request unsuccessful")
	// ErrNotFound matches a 404 StatusError
	ErrNotFound = errors.New("portal: not found")
)

// StatusError carries a non-2xx answer from the backend
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("portal: %s: status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("portal: %s: status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client talks to the portal backend. The zero timeout leaves it to the transport.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	limiter *rate.Limiter
	log     *zap.Logger
	details singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithToken forwards a bearer credential on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithRateLimit caps outgoing requests; rps <= 0 disables the limit
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.Named("portal")
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Pages int `json:"pages"`
}

// get issues a GET for endpoint (a metrics label) and decodes the envelope into out
func get[T any](ctx context.Context, c *Client, endpoint, path, rawQuery string, out *envelope[T]) (err error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.PortalRequestsTotal.WithLabelValues(endpoint, status).Inc()
		metrics.PortalRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("portal: %s: rate limit: %w", endpoint, err)
		}
	}

	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("portal: %s: build request: %w", endpoint, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("request", zap.String("endpoint", endpoint), zap.String("url", target), zap.String("request_id", reqID))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("portal: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode >= 400 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: drainError(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("portal: %s: decode: %w", endpoint, err)
	}
	if !out.Success {
		if out.Message != "" {
			return fmt.Errorf("%w: %s: %s", ErrUnsuccessful, endpoint, out.Message)
		}
		return fmt.Errorf("%w: %s", ErrUnsuccessful, endpoint)
	}

	c.log.Debug("response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.String("request_id", reqID))
	return nil
}

func drainError(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}

func slugPath(prefix, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("portal: %s: empty slug", prefix)
	}
	return "/" + prefix + "/" + url.PathEscape(slug), nil
}
