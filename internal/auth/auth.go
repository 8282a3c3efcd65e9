// Package auth runs the operator login: it forwards credentials, pulls the
// token and user out of whichever response shape the backend used, and only
// lets admins through.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/apiclient"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/session"
)

const (
	MessageInvalidResponse = "Invalid response from server. User data missing."
	MessageAccessDenied    = "Access denied. Admin privileges required."
	MessageLoginFailed     = "Login failed"
	MessageMissingFields   = "Username and password are required."
)

type Reason string

const (
	ReasonInvalidInput    Reason = "invalid_input"
	ReasonTransport       Reason = "transport"
	ReasonInvalidResponse Reason = "invalid_response"
	ReasonAccessDenied    Reason = "access_denied"
)

// Error is a failed login. Message is what the operator sees.
type Error struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type LoginClient interface {
	Login(ctx context.Context, req models.LoginRequest) ([]byte, error)
}

type Result struct {
	Token string
	User  models.User
}

type Authenticator struct {
	client  LoginClient
	session *session.Session
	store   session.Store
	onLogin func(models.User, string)
	log     zerolog.Logger
}

type Option func(*Authenticator)

// WithStore persists the session after a successful login.
func WithStore(store session.Store) Option {
	return func(a *Authenticator) {
		a.store = store
	}
}

// OnLogin registers the callback that runs once an admin has signed in.
func OnLogin(fn func(user models.User, token string)) Option {
	return func(a *Authenticator) {
		a.onLogin = fn
	}
}

func NewAuthenticator(client LoginClient, sess *session.Session, log zerolog.Logger, opts ...Option) *Authenticator {
	a := &Authenticator{client: client, session: sess, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (Result, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Result{}, &Error{Reason: ReasonInvalidInput, Message: MessageMissingFields}
	}

	body, err := a.client.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		a.log.Warn().Err(err).Str("username", username).Msg("login request failed")
		return Result{}, &Error{Reason: ReasonTransport, Message: transportMessage(err), Err: err}
	}

	token, user, ok := Extract(body)
	a.log.Debug().Str("username", username).Str("role", user.Role).Msg("login response received")
	if !ok || user.Role == "" {
		return Result{}, &Error{Reason: ReasonInvalidResponse, Message: MessageInvalidResponse}
	}
	if user.Role != models.RoleAdmin {
		return Result{}, &Error{Reason: ReasonAccessDenied, Message: MessageAccessDenied}
	}
	if token == "" {
		return Result{}, &Error{Reason: ReasonInvalidResponse, Message: MessageInvalidResponse}
	}

	if a.session != nil {
		a.session.Set(token, user)
		if a.store != nil {
			if err := a.store.Save(a.session); err != nil {
				a.log.Warn().Err(err).Msg("session not persisted")
			}
		}
	}
	if a.onLogin != nil {
		a.onLogin(user, token)
	}
	return Result{Token: token, User: user}, nil
}

// Logout forgets the session in memory and on disk.
func (a *Authenticator) Logout() error {
	if a.session != nil {
		a.session.Clear()
	}
	if a.store != nil {
		return a.store.Clear()
	}
	return nil
}

// Extract reads the token and user from a login response. Accepted shapes:
//
//	{"token": "...", "user": {...}}
//	{"accessToken": "...", ...user fields}
//	{"role": "...", "token": "...", ...}
//	{"token": "...", ...} (fallback: the whole body is the user)
func Extract(body []byte) (string, models.User, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", models.User{}, false
	}

	token := stringField(fields, "token")
	if userRaw, ok := fields["user"]; ok && token != "" {
		var user models.User
		if err := json.Unmarshal(userRaw, &user); err != nil {
			return token, models.User{}, false
		}
		return token, user, true
	}
	if access := stringField(fields, "accessToken"); access != "" {
		token = access
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return token, models.User{}, false
	}
	return token, user, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// transportMessage picks the most specific text available: the server's own
// message, then the error text, then a generic fallback.
func transportMessage(err error) string {
	var serverErr *apiclient.ServerError
	if errors.As(err, &serverErr) && serverErr.ServerMessage != "" {
		return serverErr.ServerMessage
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return MessageLoginFailed
}
