// Package apiclient is the single point of outbound HTTP to the queue
// backend: base URL resolution, a fixed timeout, default headers, bearer
// authorization and request logging.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kunalgharate/token-generation-admin-panel/internal/session"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

type Options struct {
	// BaseURL is the backend origin. Empty means same-origin, in which case
	// requests resolve against DevOrigin.
	BaseURL   string
	DevOrigin string
	Transport http.RoundTripper
}

type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

func New(opts Options, sess *session.Session, log zerolog.Logger) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		raw = strings.TrimRight(strings.TrimSpace(opts.DevOrigin), "/")
	}
	if raw == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}

	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	transport := &loggingTransport{
		next: &authTransport{next: otelhttp.NewTransport(next), session: sess},
		log:  log,
	}

	return &Client{
		base: base,
		http: &http.Client{Timeout: DefaultTimeout, Transport: transport},
		log:  log,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	// path arrives escaped; keep RawPath so encoded separators survive.
	u := *c.base
	rawPath := strings.TrimRight(c.base.EscapedPath(), "/") + path
	if unescaped, err := url.PathUnescape(rawPath); err == nil {
		u.Path, u.RawPath = unescaped, rawPath
	} else {
		u.Path = strings.TrimRight(c.base.Path, "/") + path
		u.RawPath = ""
	}
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.endpoint(path, query)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{
			Method:        method,
			URL:           target,
			StatusCode:    resp.StatusCode,
			ServerMessage: serverMessage(data),
		}
	}
	return data, nil
}
