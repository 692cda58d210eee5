package jwt

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reads the "exp" claim of rawToken without verifying its signature. The client can't verify
// tokens (it has no key) and only uses the value to avoid sending a request that is certain to 401.
// ok is false for opaque tokens and for JWTs without an expiry.
func ExpiresAt(rawToken string) (time.Time, bool) {
	if strings.Count(rawToken, ".") != 2 {
		return time.Time{}, false
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := unverifiedToken.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject returns the unverified "sub" claim, or "" when there is none.
func Subject(rawToken string) string {
	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return ""
	}
	sub, _ := unverifiedToken.Claims.GetSubject()
	return sub
}
