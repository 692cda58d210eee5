package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/users"
	"github.com/stretchr/testify/require"
)

func TestFriends_RequestAndAccept(t *testing.T) {
	srv := setupServer(t)
	aliceCreds, alice := setupClient(t, srv)
	bobCreds, bob := setupClient(t, srv)
	signIn(t, srv, aliceCreds, aliceID)
	signIn(t, srv, bobCreds, bobID)
	ctx := context.Background()

	fr, err := alice.SendFriendRequest(ctx, bobID)
	require.NoError(t, err)
	require.Equal(t, api.FriendRequestPending, fr.Status)
	require.Equal(t, "bob", fr.ReceiverUsername)

	_, err = alice.SendFriendRequest(ctx, bobID)
	require.True(t, api.IsKind(err, api.KindConflict))
	require.Equal(t, "Friend request already sent", err.Error())

	pending, err := bob.FriendRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending.Incoming, 1)
	require.Empty(t, pending.Outgoing)

	// Only the receiver may answer, and the server gives no detail for it.
	err = alice.AcceptFriendRequest(ctx, fr.ID)
	require.True(t, api.IsKind(err, api.KindForbidden))
	require.Equal(t, "you can't accept this friend request", err.Error())

	require.NoError(t, bob.AcceptFriendRequest(ctx, fr.ID))
	require.True(t, srv.AreFriends(aliceID, bobID))

	friends, err := alice.Friends(ctx)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, "bob", friends[0].Username)

	_, err = alice.SendFriendRequest(ctx, bobID)
	require.Equal(t, "You are already friends", err.Error())
}

func TestFriends_Reject(t *testing.T) {
	srv := setupServer(t)
	aliceCreds, alice := setupClient(t, srv)
	bobCreds, bob := setupClient(t, srv)
	signIn(t, srv, aliceCreds, aliceID)
	signIn(t, srv, bobCreds, bobID)
	ctx := context.Background()

	fr, err := alice.SendFriendRequest(ctx, bobID)
	require.NoError(t, err)
	require.NoError(t, bob.RejectFriendRequest(ctx, fr.ID))

	stored, ok := srv.FriendRequest(fr.ID)
	require.True(t, ok)
	require.Equal(t, api.FriendRequestRejected, stored.Status)
	require.False(t, srv.AreFriends(aliceID, bobID))

	err = bob.RejectFriendRequest(ctx, fr.ID)
	require.True(t, api.IsKind(err, api.KindNotFound))
}

func TestFriends_SearchAndOpponents(t *testing.T) {
	srv := setupServer(t)
	srv.SeedUser(users.Profile{ID: "3", Username: "carol", FirstName: "Carol", LastName: "Jones"}, password)
	creds, client := setupClient(t, srv)
	signIn(t, srv, creds, aliceID)
	ctx := context.Background()

	results, err := client.SearchUsers(ctx, "  ")
	require.NoError(t, err)
	require.NotNil(t, results)
	require.Empty(t, results)
	require.Zero(t, srv.TotalCalls())

	results, err = client.SearchUsers(ctx, "jones")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "carol", results[0].Username)
	require.False(t, results[0].IsFriend)
	reqs := srv.Requests()
	require.Equal(t, "q=jones", reqs[len(reqs)-1].Query)

	mine := srv.SeedPlayer(api.Player{Name: "Alice", UserID: aliceID})
	bobs := srv.SeedPlayer(api.Player{Name: "Bob", UserID: bobID})
	carols := srv.SeedPlayer(api.Player{Name: "Carol", UserID: "3"})
	srv.SeedMatches("", mine.ID, bobs.ID, 2)
	srv.SeedMatches("", carols.ID, mine.ID, 1)
	srv.SeedFriendship(aliceID, "3")

	opponents, err := client.RecentNonFriendOpponents(ctx)
	require.NoError(t, err)
	require.Len(t, opponents, 1)
	require.Equal(t, bobID, opponents[0].ID)
	require.Equal(t, 2, opponents[0].MatchesAgainst)

	srv.Fail(http.MethodGet, "/user/friends", http.StatusBadGateway, "")
	friends, err := client.Friends(ctx)
	require.True(t, api.IsKind(err, api.KindServerError))
	require.NotNil(t, friends)
}
