package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator mints HS256 access tokens shaped like the ones the match tracker API issues. The client
// never signs tokens itself; Creator backs the fake API used in tests and local tooling.
type Creator struct {
	secret []byte
	expiry time.Duration
}

// NewCreator creates a new JWT creator
func NewCreator(secret string, expiry time.Duration) *Creator {
	return &Creator{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// CreateAccessToken creates an access token for userID
func (c *Creator) CreateAccessToken(userID string) (string, error) {
	return c.CreateAccessTokenWithExpiry(userID, NowTimeFunc().Add(c.expiry))
}

// CreateAccessTokenWithExpiry creates an access token expiring at exp
func (c *Creator) CreateAccessTokenWithExpiry(userID string, exp time.Time) (string, error) {
	claims := jwtlib.MapClaims{
		"sub":        userID,               // The user the token was issued to
		"iat":        NowTimeFunc().Unix(), // Issued At
		"exp":        exp.Unix(),           // Expiry
		"jti":        uuid.New().String(),  // Unique token ID
		"token_type": "access",
	}

	signedToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signedToken, nil
}
