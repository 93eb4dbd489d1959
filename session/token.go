package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the fields the console reads from a bearer token.
type TokenClaims struct {
	Subject   string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// InspectToken reads the claims of a JWT without verifying its signature; the
// signing key belongs to the backend. Opaque tokens return ok=false.
func InspectToken(token string) (TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}

	var out TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	return out, true
}
