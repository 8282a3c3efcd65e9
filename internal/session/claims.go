package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are read from the bearer token without verifying its signature. The
// backend verifies; the console only uses them to avoid sending a token that
// is already known to be expired.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

func Inspect(token string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, ErrOpaqueToken
	}

	var claims Claims
	if subject, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = subject
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	return claims, nil
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
