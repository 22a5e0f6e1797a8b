package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims describes what can be read from a token without the server's key.
type Claims struct {
	// JWT is false when the token is not a parseable JWT; the other
	// fields are then empty.
	JWT bool

	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect decodes the token's claims without verifying the signature.
// The result is informational only; the server remains the authority.
func Inspect(token string) Claims {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}
	}

	c := Claims{JWT: true, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		c.ExpiresAt = claims.ExpiresAt.Time
	}
	return c
}
