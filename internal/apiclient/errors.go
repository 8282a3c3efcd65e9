package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	ErrNoBaseURL       = errors.New("no base url or dev origin configured")
	ErrInvalidBaseURL  = errors.New("invalid base url")
	ErrUnknownResource = errors.New("unknown resource")
)

// NetworkError is a request that never produced an HTTP response: connection
// failures, timeouts, cancelled contexts, truncated bodies.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ServerError is a non-2xx response. ServerMessage is the text the backend
// put in the body, when it put any.
type ServerError struct {
	Method        string
	URL           string
	StatusCode    int
	ServerMessage string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message())
}

func (e *ServerError) Message() string {
	if e.ServerMessage != "" {
		return e.ServerMessage
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "unexpected status"
}

// FetchError wraps the failure of one resource fetch.
type FetchError struct {
	Kind ResourceKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsUnauthorized(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusUnauthorized
}

// serverMessage pulls the most specific text out of an error body. Accepted
// forms: {"message": ...}, {"error": "..."}, {"error": {"message": ...}}.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(envelope.Message); msg != "" {
		return msg
	}
	if len(envelope.Error) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}
