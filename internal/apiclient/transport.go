package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/session"
)

type skipAuthKey struct{}

func withoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey{}, true)
}

func authSkipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuthKey{}).(bool)
	return skip
}

// authTransport is the only place the bearer token is attached. It reads the
// session at send time, so a login during the process lifetime takes effect
// on the next request.
type authTransport struct {
	next    http.RoundTripper
	session *session.Session
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.session == nil || authSkipped(req.Context()) || req.Header.Get("Authorization") != "" {
		return t.next.RoundTrip(req)
	}
	token := t.session.Token()
	if token == "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.next.RoundTrip(clone)
}

// loggingTransport records every exchange. It passes the response and error
// through untouched.
type loggingTransport struct {
	next http.RoundTripper
	log  zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("request")

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		t.log.Warn().
			Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Str("request_id", req.Header.Get("X-Request-ID")).
			Int64("duration_ms", duration).
			Msg("request failed")
		return resp, err
	}

	event := t.log.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		event = t.log.Warn()
	}
	event.
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Int64("duration_ms", duration).
		Msg("response")
	return resp, err
}
