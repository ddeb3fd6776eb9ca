// Package transport is the HTTP layer under the resource updaters. It knows
// the service root, carries the session cookie, tags every request with an
// ID, and classifies failures into typed errors from pkg/errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// RequestIDHeader carries the per-request ID.
const RequestIDHeader = "X-Request-ID"

// Client provides HTTP access to one photo service.
type Client struct {
	http    *http.Client
	base    *url.URL
	session *SessionJar
	logger  *zerolog.Logger
}

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

// WithHTTPClient replaces the underlying HTTP client. Its Jar is replaced by
// the session jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the service rooted at serverURL.
func New(serverURL string, opts ...Option) (*Client, error) {
	base, err := parseServerURL(serverURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		base:    base,
		session: NewSessionJar(),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = c.session
	return c, nil
}

func parseServerURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.NewConfigError("server", "url is required", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.NewConfigError("server", "invalid url "+raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NewConfigError("server", "url must be http or https: "+raw, nil)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the service root without a trailing slash. Relative image
// URLs returned by the service are resolved against it.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL joins path and the escaped segments onto the service root.
func (c *Client) URL(path string, segments ...string) string {
	u := *c.base
	joined := u.Path + path
	for _, seg := range segments {
		joined += "/" + url.PathEscape(seg)
	}
	u.Path = ""
	u.RawPath = ""
	return u.String() + joined
}

// Session returns the cookie jar.
func (c *Client) Session() *SessionJar {
	return c.session
}

// ResetSession drops the session cookie.
func (c *Client) ResetSession() {
	c.session.Reset()
}

// Get performs a GET request against path.
func (c *Client) Get(ctx context.Context, path string, segments ...string) (*http.Response, error) {
	target := c.URL(path, segments...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+target, err)
	}
	return c.DoWithContext(ctx, req)
}

// PostJSON performs a POST request with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}

	target := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+target, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.DoWithContext(ctx, req)
}

// Part is one file in a multipart upload.
type Part struct {
	Name    string
	Content io.Reader
}

// PostMultipart uploads parts, all under the same form field.
func (c *Client) PostMultipart(ctx context.Context, path, field string, parts []Part) (*http.Response, error) {
	return c.PostMultipartValues(ctx, path, field, parts, nil)
}

// PostMultipartValues uploads parts plus plain form values. The values are
// written before the parts.
func (c *Client) PostMultipartValues(ctx context.Context, path, field string, parts []Part, values url.Values) (*http.Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, v := range vals {
			if err := w.WriteField(key, v); err != nil {
				return nil, errors.WrapIO("write", key, err)
			}
		}
	}
	for _, p := range parts {
		fw, err := w.CreateFormFile(field, p.Name)
		if err != nil {
			return nil, errors.WrapIO("write", p.Name, err)
		}
		if _, err := io.Copy(fw, p.Content); err != nil {
			return nil, errors.WrapIO("read", p.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.WrapIO("write", "multipart body", err)
	}

	target := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+target, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.DoWithContext(ctx, req)
}

// DoWithContext sends req. A failure to get any response at all is returned
// as *errors.NetworkError; status codes are left to the caller.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Context() != ctx {
		req = req.WithContext(ctx)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Dur("duration", time.Since(start)).Msg("request failed")
		return nil, errors.NewNetworkError(req.Method, req.URL.String(), err)
	}
	logger.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("request completed")
	return resp, nil
}
