package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-match-tracker/api"
	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPlayers_CRUD(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	carol, err := client.CreatePlayer(ctx, api.CreatePlayerRequest{Name: "Carol"})
	require.NoError(t, err)
	require.NotEmpty(t, carol.ID)
	require.Equal(t, 1200.0, carol.EloRating)

	_, err = client.CreatePlayer(ctx, api.CreatePlayerRequest{Name: "carol"})
	require.True(t, api.IsKind(err, api.KindConflict))
	require.Equal(t, "Player name already taken", err.Error())

	_, err = client.CreatePlayer(ctx, api.CreatePlayerRequest{})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	renamed, err := client.UpdatePlayer(ctx, carol.ID, api.UpdatePlayerRequest{Name: utils.Ptr("Caroline")})
	require.NoError(t, err)
	require.Equal(t, "Caroline", renamed.Name)

	players, err := client.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)

	require.NoError(t, client.DeletePlayer(ctx, carol.ID))
	err = client.DeletePlayer(ctx, carol.ID)
	require.True(t, api.IsKind(err, api.KindNotFound))

	players, err = client.ListPlayers(ctx)
	require.NoError(t, err)
	require.NotNil(t, players)
	require.Empty(t, players)
}

func TestMatches_RecordUpdateDelete(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	p1 := srv.SeedPlayer(api.Player{Name: "Alice"})
	p2 := srv.SeedPlayer(api.Player{Name: "Bob"})

	m, err := client.RecordMatch(ctx, api.RecordMatchRequest{Player1ID: p1.ID, Player2ID: p2.ID, Player1Score: 1, Player2Score: 3})
	require.NoError(t, err)
	require.Equal(t, p2.ID, m.WinnerID)
	require.False(t, m.IsDraw())

	m, err = client.UpdateMatch(ctx, m.ID, api.UpdateMatchRequest{Player1Score: utils.Ptr(3)})
	require.NoError(t, err)
	require.True(t, m.IsDraw())
	require.Empty(t, m.WinnerID)

	require.NoError(t, client.DeleteMatch(ctx, m.ID))
	require.True(t, api.IsKind(client.DeleteMatch(ctx, m.ID), api.KindNotFound))
}

func TestMatches_RecordValidation(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)

	for _, r := range []api.RecordMatchRequest{
		{Player1ID: "1"},
		{Player1ID: "1", Player2ID: "1"},
		{Player1ID: "1", Player2ID: "2", Player1Score: -1},
	} {
		_, err := client.RecordMatch(context.Background(), r)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
	require.Zero(t, srv.TotalCalls())

	_, err := client.RecordMatch(context.Background(), api.RecordMatchRequest{Player1ID: "404", Player2ID: "405"})
	require.True(t, api.IsKind(err, api.KindNotFound))
}

func TestStats_UserAndHeadToHead(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	stats, err := client.PlayerStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1200.0, stats.EloRating)

	p1 := srv.SeedPlayer(api.Player{Name: "Alice"})
	p2 := srv.SeedPlayer(api.Player{Name: "Bob"})
	srv.SeedMatches("", p1.ID, p2.ID, 2)

	h, err := client.HeadToHead(ctx, p2.ID, p1.ID)
	require.NoError(t, err)
	require.Equal(t, 2, h.TotalMatches)
	require.Equal(t, 2, h.Player2Wins)
	require.Equal(t, 2, h.Player1Goals)
	require.Len(t, h.Matches, 2)

	empty, err := client.HeadToHead(ctx, p1.ID, "")
	require.NoError(t, err)
	require.Zero(t, empty.TotalMatches)
	require.NotNil(t, empty.Matches)
	require.Equal(t, 2, srv.Calls(http.MethodGet, "/stats/")+srv.Calls(http.MethodGet, "/stats/head-to-head/{p1}/{p2}"))

	srv.Fail(http.MethodGet, "/stats/", http.StatusInternalServerError, "")
	stats, err = client.PlayerStats(ctx)
	require.Error(t, err)
	require.Equal(t, api.PlayerStats{}, stats)
}
