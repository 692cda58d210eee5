package api_test

import (
	"testing"

	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/internal/apitest"
	"github.com/jrsteele09/go-match-tracker/internal/config"
	"github.com/jrsteele09/go-match-tracker/storage"
	"github.com/jrsteele09/go-match-tracker/token"
	"github.com/jrsteele09/go-match-tracker/users"
	"github.com/stretchr/testify/require"
)

const (
	aliceID  = "1"
	bobID    = "2"
	password = "secret1"
)

func setupServer(t *testing.T, opts ...apitest.Option) *apitest.Server {
	t.Helper()
	srv := apitest.New(opts...)
	t.Cleanup(srv.Close)

	srv.SeedUser(users.Profile{ID: aliceID, Username: "alice", Email: "alice@example.com", Name: "Alice", EloRating: 1200}, password)
	srv.SeedUser(users.Profile{ID: bobID, Username: "bob", Email: "bob@example.com", Name: "Bob", EloRating: 1180}, password)
	return srv
}

func setupClient(t *testing.T, srv *apitest.Server, opts ...api.Option) (*storage.Credentials, *api.Client) {
	t.Helper()
	creds := storage.NewCredentials(storage.NewMemoryStore(), "")
	opts = append([]api.Option{api.WithBaseURLResolver(srv.BaseURL)}, opts...)
	return creds, api.New(config.New(), creds, opts...)
}

// signIn stores a valid token pair for userID, as a previous login would have.
func signIn(t *testing.T, srv *apitest.Server, creds *storage.Credentials, userID string) token.Pair {
	t.Helper()
	access, refresh := srv.IssueTokens(userID)
	pair := token.New(access, refresh)
	require.NoError(t, creds.SetTokens(pair))
	return pair
}
