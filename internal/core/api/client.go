package api

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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 32 * 1024 * 1024

// SessionListener is called whenever the client's session changes because of
// a login, a silent refresh, a logout, or a failed refresh (empty session).
type SessionListener func(domain.Session)

// Client talks to the LinkLift HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger

	mu        sync.RWMutex
	session   domain.Session
	listeners []SessionListener
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger; requests are logged at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l.WithField("component", "api") }
}

// WithSession seeds the client with a stored session.
func WithSession(s domain.Session) Option {
	return func(c *Client) { c.session = s }
}

// New creates a client for the API rooted at baseURL (for example
// "http://localhost:7070/api/v1").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	nullLogger := logrus.New()
	nullLogger.SetOutput(io.Discard)

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        nullLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns a copy of the current session.
func (c *Client) Session() domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSession replaces the current session without notifying listeners.
func (c *Client) SetSession(s domain.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// OnSessionChange registers a listener for session changes.
func (c *Client) OnSessionChange(fn SessionListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Client) updateSession(s domain.Session) {
	c.mu.Lock()
	c.session = s
	listeners := append([]SessionListener(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// key names the field holding the payload when the endpoint does not use
	// the "data" envelope.
	key string
	// noRefresh disables the silent refresh on 401.
	noRefresh bool
}

// do performs r and decodes the unwrapped payload into out (when non-nil).
// A *string out receives the response text (or its "message" field).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return &UnknownError{Err: fmt.Errorf("encode request body: %w", err)}
		}
	}

	status, body, err := c.send(ctx, r, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !r.noRefresh && c.Session().RefreshToken != "" {
		original := newHTTPError(r.method, r.path, status, body)
		c.log.WithField("path", r.path).Debug("access token rejected, attempting silent refresh")
		if refreshErr := c.Refresh(ctx); refreshErr != nil {
			c.log.WithError(refreshErr).Warn("silent token refresh failed")
			return errors.Join(ErrSessionExpired, original)
		}
		status, body, err = c.send(ctx, r, payload)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return newHTTPError(r.method, r.path, status, body)
	}

	if out == nil {
		return nil
	}

	if text, ok := out.(*string); ok {
		*text = bodyMessage(body)
		return nil
	}

	data, err := unwrap(body, r.key)
	if err != nil {
		return &UnknownError{Err: fmt.Errorf("decode %s %s: %w", r.method, r.path, err)}
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &UnknownError{Err: fmt.Errorf("decode %s %s: %w", r.method, r.path, err)}
	}
	return nil
}

// send issues a single HTTP request and returns the status and body.
func (c *Client) send(ctx context.Context, r request, payload []byte) (int, []byte, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return 0, nil, &UnknownError{Err: fmt.Errorf("build request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Session().AccessToken; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed without response")
		return 0, nil, &NetworkError{Method: r.method, Path: r.path, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Debug("failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, &NetworkError{Method: r.method, Path: r.path, Err: fmt.Errorf("read response: %w", err)}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("request completed")

	return resp.StatusCode, body, nil
}

// unwrap normalizes the backend's response envelopes. Objects carrying a
// "data" field are unwrapped, repeatedly for double-wrapped responses. When
// the outermost object has no "data" field, key (if set) is tried instead.
// Anything else is returned unchanged.
func unwrap(body []byte, key string) (json.RawMessage, error) {
	data := json.RawMessage(bytes.TrimSpace(body))
	for depth := 0; depth < 3; depth++ {
		if len(data) == 0 || data[0] != '{' {
			return data, nil
		}
		var env map[string]json.RawMessage
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		inner, ok := env["data"]
		if !ok && depth == 0 && key != "" {
			inner, ok = env[key]
		}
		if !ok {
			return data, nil
		}
		data = bytes.TrimSpace(inner)
	}
	return data, nil
}

func linkPath(id string, rest ...string) string {
	p := "/links/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func collectionPath(id string, rest ...string) string {
	p := "/collections/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}
