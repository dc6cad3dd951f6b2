package apitest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testToken is the session token returned by the fake login endpoint.
// It is a real signed JWT so token-expiry inspection works in tests.
var testToken = func() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("apitest-secret"))
	if err != nil {
		panic(err)
	}
	return signed
}()

// ExpiredToken returns a signed JWT whose exp claim is in the past.
func ExpiredToken() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("apitest-secret"))
	if err != nil {
		panic(err)
	}
	return signed
}
