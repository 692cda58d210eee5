package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/internal/apitest"
	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/users"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.SeedUser(users.Profile{ID: "1", Username: "alice", Email: "alice@example.com", EloRating: 1200}, "secret1")

	t.Setenv("ENV", "development")
	t.Setenv("API_URL", "")
	t.Setenv("LOCAL_API_URL", srv.URL)
	t.Setenv("STORAGE_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("STORAGE_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	return srv
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "login", "-u", "alice", "-p", "secret1")
	require.NoError(t, err)
	var p users.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Equal(t, "alice", p.Username)

	// A second process picks the session up from the file.
	out, _, err = runCLI(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, `"username": "alice"`)

	_, _, err = runCLI(t, "logout")
	require.NoError(t, err)

	_, _, err = runCLI(t, "whoami")
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestCLI_LoginFailure(t *testing.T) {
	setupCLI(t)
	t.Setenv(passwordVar, "nope")

	_, _, err := runCLI(t, "login", "-u", "alice")
	require.EqualError(t, err, "Incorrect username or password")
}

func TestCLI_DeleteTournamentNotOwner(t *testing.T) {
	srv := setupCLI(t)
	tour := srv.SeedTournament(api.Tournament{Name: "Bob's Cup", OwnerID: "2"})

	_, _, err := runCLI(t, "login", "-u", "alice", "-p", "secret1")
	require.NoError(t, err)

	_, _, err = runCLI(t, "delete-tournament", tour.ID)
	require.EqualError(t, err, "permission denied: only the tournament owner can delete this tournament")
	require.True(t, srv.HasTournament(tour.ID))
}

func TestCLI_UpdateTournamentSendsOnlyGivenFlags(t *testing.T) {
	srv := setupCLI(t)
	tour := srv.SeedTournament(api.Tournament{Name: "League", Description: "Tuesdays", OwnerID: "1", IsActive: true})

	_, _, err := runCLI(t, "login", "-u", "alice", "-p", "secret1")
	require.NoError(t, err)

	out, _, err := runCLI(t, "update-tournament", tour.ID, "-active=false")
	require.NoError(t, err)
	var got api.Tournament
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.False(t, got.IsActive)
	require.Equal(t, "League", got.Name)
	require.Equal(t, "Tuesdays", got.Description)
}

func TestCLI_ExpiredSession(t *testing.T) {
	srv := setupCLI(t)
	_, _, err := runCLI(t, "login", "-u", "alice", "-p", "secret1")
	require.NoError(t, err)
	srv.ExpireAccessTokens()
	srv.RevokeRefreshTokens()

	_, errOut, err := runCLI(t, "players")
	require.True(t, api.IsKind(err, api.KindUnauthorized))
	require.Contains(t, errOut, "Your session has expired")

	_, _, err = runCLI(t, "whoami")
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestCLI_UsageAndUnknownCommand(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t)
	require.NoError(t, err)
	require.Contains(t, out, "delete-tournament")

	_, errOut, err := runCLI(t, "dance")
	require.EqualError(t, err, `unknown command "dance"`)
	require.Contains(t, errOut, "Usage:")

	_, _, err = runCLI(t, "standings")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
