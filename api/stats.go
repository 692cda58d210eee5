package api

import (
	"context"
	"net/http"
	"net/url"
)

// PlayerStats returns the signed-in user's aggregate record, zero valued on failure.
func (c *Client) PlayerStats(ctx context.Context) (PlayerStats, error) {
	var s PlayerStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/stats/"}, &s); err != nil {
		return PlayerStats{}, err
	}
	return s, nil
}

// HeadToHead compares two players. Missing ids return the zero record without a network call.
func (c *Client) HeadToHead(ctx context.Context, player1ID, player2ID string) (HeadToHead, error) {
	empty := HeadToHead{Player1ID: player1ID, Player2ID: player2ID, Matches: []Match{}}
	if player1ID == "" || player2ID == "" {
		return empty, nil
	}

	var h HeadToHead
	path := "/stats/head-to-head/" + url.PathEscape(player1ID) + "/" + url.PathEscape(player2ID)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &h); err != nil {
		return empty, err
	}
	h.Matches = nonNil(h.Matches)
	return h, nil
}
