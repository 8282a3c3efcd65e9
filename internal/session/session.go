// Package session holds the bearer token of the signed-in operator. A Session
// is created once per process and handed to the API client explicitly; there
// is no package-level token.
package session

import (
	"sync"
	"time"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

type Session struct {
	mu    sync.RWMutex
	token string
	user  models.User
}

func New() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Set(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Session) Clear() {
	s.Set("", models.User{})
}

// Expired reports whether the token carries an exp claim in the past. Opaque
// tokens never expire from the client's point of view.
func (s *Session) Expired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	claims, err := Inspect(token)
	if err != nil {
		return false
	}
	return claims.Expired(now)
}
