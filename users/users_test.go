package users_test

import (
	"testing"

	"github.com/jrsteele09/go-match-tracker/users"
	"github.com/stretchr/testify/require"
)

func TestFallbackProfile(t *testing.T) {
	p := users.FallbackProfile(users.Identity{ID: "2", Email: "alice@example.com"}, "alice")
	require.Equal(t, "2", p.ID)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, "alice@example.com", p.Email)
	require.True(t, p.IsActive)
	require.Zero(t, p.EloRating)

	p = users.FallbackProfile(users.Identity{ID: "3", Username: "bob"}, "bob@example.com")
	require.Equal(t, "bob", p.Username)
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Alice", users.Profile{Name: "Alice", Username: "a"}.DisplayName())
	require.Equal(t, "Alice Smith", users.Profile{FirstName: "Alice", LastName: "Smith"}.DisplayName())
	require.Equal(t, "alice", users.Profile{Username: "alice"}.DisplayName())
	require.Equal(t, "a@example.com", users.Profile{Email: "a@example.com"}.DisplayName())
}
