package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValid reports whether raw is a structurally well-formed bearer
// token whose exp claim is strictly after now. The signature is not
// checked here — the backend verifies it on every request; the client
// only needs to know whether a stored token is still worth presenting.
// Malformed input (wrong segment count, bad base64, bad JSON, missing
// exp) is simply invalid; this never panics.
func TokenValid(raw string, now time.Time) bool {
	exp, ok := tokenExpiry(raw)
	if !ok {
		return false
	}
	return exp.After(now)
}

// tokenExpiry extracts the exp claim from an unverified token.
func tokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
