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
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/plantel/internal/fault"
)

// TokenSource supplies the bearer token for each request. It returns an
// error wrapping fault.ErrNoToken when the user has to sign in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the club HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	userAgent string
	log       *slog.Logger
}

const (
	defaultBaseURL   = "127.0.0.1:3000"
	defaultUserAgent = "plantel/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests to rps per second. Zero or a
// negative value disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token source is nil")
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		tokens:    tokens,
		userAgent: defaultUserAgent,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do sends one authenticated JSON request. body is encoded when non-nil and
// the response is decoded into dest when dest is non-nil. Every failure is a
// *fault.FetchError tagged with op.
func (c *Client) Do(ctx context.Context, op, method string, segments []string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	// No token, no request.
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if errors.Is(err, fault.ErrNoToken) {
			return fault.FromTransport(op, err)
		}
		return &fault.FetchError{Kind: fault.KindAuth, Op: op, Message: "could not read session", Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fault.FromTransport(op, err)
		}
	}

	reqURL := c.baseURL.JoinPath(segments...)
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &fault.FetchError{Kind: fault.KindValidation, Op: op, Message: "could not encode request", Err: err}
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fault.FromTransport(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "url", reqURL.Path, "error", err)
		return fault.FromTransport(op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debug("request", "method", method, "url", reqURL.Path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return fault.FromStatus(op, resp.StatusCode, readErrorMessage(resp.Body))
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fault.Malformed(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// readErrorMessage extracts {"message": ...} or {"error": ...}. Anything
// else yields "", which the caller replaces with a generic message.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(body.Error)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
