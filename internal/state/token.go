package state

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsTokenExpired inspects a session token's exp claim without verifying
// the signature; the backend is the authority on validity, this only
// lets the client skip calls it knows will be rejected. Tokens that
// cannot be parsed count as expired.
func IsTokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now())
}
