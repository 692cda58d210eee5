package jwt_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-match-tracker/token/jwt"
	"github.com/stretchr/testify/require"
)

func TestExpiresAt(t *testing.T) {
	creator := jwt.NewCreator("secret", time.Hour)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	raw, err := creator.CreateAccessTokenWithExpiry("user-1", exp)
	require.NoError(t, err)

	got, ok := jwt.ExpiresAt(raw)
	require.True(t, ok)
	require.True(t, exp.Equal(got))
	require.Equal(t, "user-1", jwt.Subject(raw))
}

func TestExpiresAt_OpaqueToken(t *testing.T) {
	_, ok := jwt.ExpiresAt("abc")
	require.False(t, ok)

	_, ok = jwt.ExpiresAt("not.a.jwt")
	require.False(t, ok)

	require.Empty(t, jwt.Subject("abc"))
}
