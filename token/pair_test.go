package token_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-match-tracker/token"
	"github.com/jrsteele09/go-match-tracker/token/jwt"
	"github.com/stretchr/testify/require"
)

func TestPair_Authorize(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://localhost/api/v1/auth/me", nil)
	require.NoError(t, err)

	token.New("abc", "").Authorize(req)
	require.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}

func TestPair_AuthorizeWithoutAccessToken(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://localhost/api/v1/players/", nil)
	require.NoError(t, err)

	token.New("", "refresh").Authorize(req)
	require.Empty(t, req.Header.Get("Authorization"))
}

func TestPair_Expired(t *testing.T) {
	creator := jwt.NewCreator("secret", time.Hour)

	live, err := creator.CreateAccessToken("1")
	require.NoError(t, err)
	stale, err := creator.CreateAccessTokenWithExpiry("1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	require.False(t, token.New(live, "r").Expired())
	require.True(t, token.New(stale, "r").Expired())
	require.False(t, token.New("opaque", "r").Expired())
	require.False(t, token.New("", "r").Expired())

	p := token.New("abc", "r")
	require.True(t, p.HasAccess())
	require.True(t, p.HasRefresh())
	require.True(t, p.Expiry.IsZero())
}
