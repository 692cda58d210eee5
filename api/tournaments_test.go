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

func TestTournaments_DeleteByNonOwner(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	pair := signIn(t, srv, creds, aliceID)
	tour := srv.SeedTournament(api.Tournament{Name: "Bob's Cup", OwnerID: bobID, IsActive: true})

	err := client.DeleteTournament(context.Background(), tour.ID)
	require.Error(t, err)
	require.True(t, api.IsKind(err, api.KindForbidden))
	require.Equal(t, http.StatusForbidden, api.StatusOf(err))
	require.Contains(t, err.Error(), "only the tournament owner")

	require.True(t, srv.HasTournament(tour.ID))
	// A 403 is not an authentication problem.
	require.Zero(t, srv.Calls(http.MethodPost, refreshRoute))
	require.Equal(t, pair.AccessToken, creds.AccessToken())
}

func TestTournaments_OwnerLifecycle(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	p1 := srv.SeedPlayer(api.Player{Name: "Alice", UserID: aliceID})
	p2 := srv.SeedPlayer(api.Player{Name: "Bob", UserID: bobID})

	tour, err := client.CreateTournament(ctx, api.CreateTournamentRequest{Name: "Office League", PlayerIDs: []string{p1.ID}})
	require.NoError(t, err)
	require.Equal(t, aliceID, tour.OwnerID)
	require.Len(t, tour.Players, 1)

	require.NoError(t, client.AddTournamentPlayer(ctx, tour.ID, p2.ID))
	err = client.AddTournamentPlayer(ctx, tour.ID, p2.ID)
	require.True(t, api.IsKind(err, api.KindConflict))

	updated, err := client.UpdateTournament(ctx, tour.ID, api.UpdateTournamentRequest{
		Name:     utils.Ptr("Office League 2025"),
		IsActive: utils.Ptr(false),
	})
	require.NoError(t, err)
	require.Equal(t, "Office League 2025", updated.Name)
	require.False(t, updated.IsActive)
	require.Len(t, updated.Players, 2)

	require.NoError(t, client.RemoveTournamentPlayer(ctx, tour.ID, p1.ID))
	got, err := client.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, got.Players, 1)
	require.Equal(t, p2.ID, got.Players[0].ID)

	list, err := client.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, client.DeleteTournament(ctx, tour.ID))
	require.False(t, srv.HasTournament(tour.ID))

	err = client.DeleteTournament(ctx, tour.ID)
	require.Equal(t, "tournament not found", err.Error())
}

func TestTournaments_EmptyIDMakesNoCalls(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	tour, err := client.GetTournament(ctx, "")
	require.NoError(t, err)
	require.Nil(t, tour)

	page, err := client.TournamentMatches(ctx, "", 3, 10)
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.NotNil(t, page.Items)
	require.Equal(t, 3, page.Page)
	require.Equal(t, 10, page.PageSize)

	stats, err := client.TournamentStandings(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, stats.Standings)
	require.Empty(t, stats.Standings)

	require.ErrorIs(t, client.DeleteTournament(ctx, ""), apperrors.ErrMissingID)
	_, err = client.UpdateTournament(ctx, "", api.UpdateTournamentRequest{})
	require.ErrorIs(t, err, apperrors.ErrMissingID)
	_, err = client.CreateTournament(ctx, api.CreateTournamentRequest{Name: "  "})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	require.Zero(t, srv.TotalCalls())
}

func TestTournaments_MatchPaging(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	p1 := srv.SeedPlayer(api.Player{Name: "Alice"})
	p2 := srv.SeedPlayer(api.Player{Name: "Bob"})
	tour := srv.SeedTournament(api.Tournament{Name: "League", OwnerID: aliceID}, p1.ID, p2.ID)
	srv.SeedMatches(tour.ID, p1.ID, p2.ID, 25)

	page, err := client.TournamentMatches(ctx, tour.ID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Equal(t, api.DefaultPageSize, page.PageSize)
	require.Len(t, page.Items, 20)
	require.Equal(t, 25, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.True(t, page.HasNext)
	require.False(t, page.HasPrevious)
	require.True(t, page.Items[0].PlayedAt.After(page.Items[1].PlayedAt))

	reqs := srv.Requests()
	require.Equal(t, "page=1&page_size=20", reqs[len(reqs)-1].Query)

	// Past the end the client sends the page as is and the server clamps it.
	page, err = client.TournamentMatches(ctx, tour.ID, 7, 10)
	require.NoError(t, err)
	reqs = srv.Requests()
	require.Equal(t, "page=7&page_size=10", reqs[len(reqs)-1].Query)
	require.Equal(t, 3, page.Page)
	require.Len(t, page.Items, 5)
	require.False(t, page.HasNext)
	require.True(t, page.HasPrevious)
}

func TestTournaments_MatchPagingFailureIsEmptyPage(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)

	page, err := client.TournamentMatches(context.Background(), "missing", -1, 5)
	require.True(t, api.IsKind(err, api.KindNotFound))
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 5, page.PageSize)
}

func TestTournaments_Standings(t *testing.T) {
	srv := setupServer(t)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)

	p1 := srv.SeedPlayer(api.Player{Name: "Alice", EloRating: 1230})
	p2 := srv.SeedPlayer(api.Player{Name: "Bob", EloRating: 1170})
	tour := srv.SeedTournament(api.Tournament{Name: "League", OwnerID: aliceID}, p1.ID, p2.ID)
	srv.SeedMatches(tour.ID, p1.ID, p2.ID, 3)

	stats, err := client.TournamentStandings(context.Background(), tour.ID)
	require.NoError(t, err)
	require.Equal(t, tour.ID, stats.TournamentID)
	require.Equal(t, 3, stats.TotalMatches)
	require.Equal(t, 9, stats.TotalGoals)
	require.Len(t, stats.Standings, 2)

	top := stats.Standings[0]
	require.Equal(t, 1, top.Position)
	require.Equal(t, p1.ID, top.PlayerID)
	require.Equal(t, 9, top.Points)
	require.Equal(t, 3, top.GoalDifference)

	srv.Fail(http.MethodGet, "/tournaments/{id}/stats", http.StatusInternalServerError, "")
	stats, err = client.TournamentStandings(context.Background(), tour.ID)
	require.True(t, api.IsKind(err, api.KindServerError))
	require.Equal(t, tour.ID, stats.TournamentID)
	require.Empty(t, stats.Standings)
}
