package gateway

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

	"note-inbox/internal/config"
	"note-inbox/internal/services/inbox"

	"github.com/oklog/ulid/v2"
)

const (
	maxResponseBytes = 8 << 20

	headerRequestID = "X-Request-ID"
)

// ErrBaseURL is returned when the store base URL cannot be used.
var ErrBaseURL = errors.New("invalid note store base URL")

// Client talks to the remote note store over HTTP and implements
// inbox.Gateway. It is the only place that knows the wire formats.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

var _ inbox.Gateway = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the store at baseURL. timeout bounds every
// round trip on top of any context deadline.
func New(baseURL string, timeout time.Duration, log *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a client from INBOX_BASE_URL and INBOX_REQUEST_TIMEOUT_MS.
func NewFromConfig(cfg config.Config, log *slog.Logger) (*Client, error) {
	return New(cfg.BaseURL, cfg.RequestTimeout(), log)
}

// BaseURL returns the store address the client was built with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do performs one request and returns the raw body of a 2xx answer. Transport
// failures come back as inbox.ErrNetwork, non-2xx answers as *inbox.StatusError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, err
	}
	reqID := ulid.Make().String()
	req.Header.Set(headerRequestID, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("note store unreachable", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%w: %w", inbox.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", inbox.ErrNetwork, err)
	}

	c.log.Debug("note store request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &inbox.StatusError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

// errorMessage pulls the "error" field out of a JSON error body, falling
// back to the trimmed body text.
func errorMessage(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: malformed %s response: %w", inbox.ErrServer, what, err)
}

// isEmptyBody reports whether a 2xx body carries no record.
func isEmptyBody(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}

// Health checks the store's /healthz endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

func deadlineSoon() time.Time {
	return time.Now().Add(time.Second)
}
