package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/internal/apitest"
	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	pair := signIn(t, srv, creds, aliceID)

	_, err := client.ListPlayers(context.Background())
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "Bearer "+pair.AccessToken, reqs[0].Authorization)
	require.NotEmpty(t, reqs[0].RequestID)
}

func TestClient_RequestIDsAreUnique(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)

	for range 3 {
		_, err := client.ListPlayers(context.Background())
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for _, r := range srv.Requests() {
		require.False(t, seen[r.RequestID])
		seen[r.RequestID] = true
	}
}

func TestClient_LoginIsAnonymous(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, bobID)

	resp, err := client.Login(context.Background(), "alice@example.com", password)
	require.NoError(t, err)
	require.True(t, resp.HasUser())
	require.Equal(t, aliceID, resp.ID)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	require.Empty(t, reqs[0].Authorization)
}

func TestClient_LoginFailures(t *testing.T) {
	srv := setupServer(t)
	_, client := setupClient(t, srv)

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.True(t, api.IsKind(err, api.KindUnauthorized))
	require.Equal(t, "Incorrect username or password", err.Error())
	// A rejected login never goes near the refresh endpoint.
	require.Zero(t, srv.Calls(http.MethodPost, "/auth/refresh"))

	_, err = client.Login(context.Background(), " ", password)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	require.Equal(t, 1, srv.TotalCalls())
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		detail  string
		kind    api.Kind
		message string
	}{
		{"validation", http.StatusBadRequest, "Name is required", api.KindValidation, "Name is required"},
		{"unprocessable", http.StatusUnprocessableEntity, "", api.KindValidation, "unprocessable entity"},
		{"forbidden", http.StatusForbidden, "Not allowed", api.KindForbidden, "Not allowed"},
		{"not found", http.StatusNotFound, "", api.KindNotFound, "not found"},
		{"conflict", http.StatusConflict, "Player name already taken", api.KindConflict, "Player name already taken"},
		{"server error", http.StatusInternalServerError, "", api.KindServerError, "internal server error"},
		{"bad gateway", http.StatusBadGateway, "upstream down", api.KindServerError, "upstream down"},
		{"teapot", http.StatusTeapot, "", api.KindUnknown, "i'm a teapot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := setupServer(t)
			creds, client := setupClient(t, srv)
			signIn(t, srv, creds, aliceID)
			srv.Fail(http.MethodGet, "/players/", tc.status, tc.detail)

			players, err := client.ListPlayers(context.Background())
			require.Error(t, err)
			require.NotNil(t, players)
			require.Empty(t, players)
			require.Equal(t, tc.kind, api.KindOf(err))
			require.Equal(t, tc.status, api.StatusOf(err))
			require.Equal(t, tc.message, err.Error())
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := apitest.New()
	srv.Close()

	redirects := 0
	creds, client := setupClient(t, srv, api.WithSignInRedirect(func() { redirects++ }))
	signIn(t, srv, creds, aliceID)

	_, err := client.ListTournaments(context.Background())
	require.True(t, api.IsKind(err, api.KindNetwork))
	require.Zero(t, api.StatusOf(err))
	require.Equal(t, "unable to reach the server", err.Error())

	require.True(t, creds.Tokens().HasAccess())
	require.Zero(t, redirects)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListPlayers(ctx)
	require.True(t, api.IsKind(err, api.KindNetwork))
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_CurrentUser(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)

	p, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, 1200.0, p.EloRating)
}

func TestClient_RegisterAndDeleteAccount(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)

	_, err := client.Register(context.Background(), api.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "secret99"})
	require.True(t, api.IsKind(err, api.KindConflict))
	require.Equal(t, "Username already registered", err.Error())

	resp, err := client.Register(context.Background(), api.RegisterRequest{
		Username:  "carol",
		Email:     "carol@example.com",
		Password:  "secret99",
		FirstName: "Carol",
	})
	require.NoError(t, err)
	require.True(t, resp.HasUser())
	require.True(t, srv.HasUser(resp.ID))

	signIn(t, srv, creds, resp.ID)
	err = client.DeleteAccount(context.Background(), "delete")
	require.True(t, api.IsKind(err, api.KindValidation))
	require.True(t, srv.HasUser(resp.ID))

	require.NoError(t, client.DeleteAccount(context.Background(), apitest.DeleteConfirmation))
	require.False(t, srv.HasUser(resp.ID))
}
