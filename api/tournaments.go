package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
)

func (c *Client) ListTournaments(ctx context.Context) ([]Tournament, error) {
	var tournaments []Tournament
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tournaments/"}, &tournaments); err != nil {
		return []Tournament{}, err
	}
	return nonNil(tournaments), nil
}

// GetTournament returns nil without calling the server when id is empty.
func (c *Client) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	if id == "" {
		return nil, nil
	}

	var t Tournament
	if err := c.do(ctx, request{method: http.MethodGet, path: tournamentPath(id) + "/"}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTournament(ctx context.Context, r CreateTournamentRequest) (*Tournament, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client CreateTournament] name is required")
	}

	var t Tournament
	if err := c.do(ctx, request{method: http.MethodPost, path: "/tournaments/", body: r}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTournament returns errors with display-ready messages, e.g. when the caller isn't the owner.
func (c *Client) UpdateTournament(ctx context.Context, id string, r UpdateTournamentRequest) (*Tournament, error) {
	if id == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingID, "[Client UpdateTournament] tournament id")
	}

	var t Tournament
	if err := c.do(ctx, request{method: http.MethodPut, path: tournamentPath(id) + "/", body: r}, &t); err != nil {
		return nil, tournamentWriteError(err, "update")
	}
	return &t, nil
}

// DeleteTournament returns errors with display-ready messages, e.g. when the caller isn't the owner.
func (c *Client) DeleteTournament(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Wrapf(apperrors.ErrMissingID, "[Client DeleteTournament] tournament id")
	}

	if err := c.do(ctx, request{method: http.MethodDelete, path: tournamentPath(id) + "/"}, nil); err != nil {
		return tournamentWriteError(err, "delete")
	}
	return nil
}

func (c *Client) AddTournamentPlayer(ctx context.Context, tournamentID, playerID string) error {
	if tournamentID == "" || playerID == "" {
		return apperrors.Wrapf(apperrors.ErrMissingID, "[Client AddTournamentPlayer] tournament and player id")
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   tournamentPath(tournamentID) + "/players",
		body:   addTournamentPlayerRequest{PlayerID: playerID},
	}, nil)
}

func (c *Client) RemoveTournamentPlayer(ctx context.Context, tournamentID, playerID string) error {
	if tournamentID == "" || playerID == "" {
		return apperrors.Wrapf(apperrors.ErrMissingID, "[Client RemoveTournamentPlayer] tournament and player id")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   tournamentPath(tournamentID) + "/players/" + url.PathEscape(playerID),
	}, nil)
}

// TournamentMatches returns one page of a tournament's match history. page < 1 is sent as 1 and
// pageSize < 1 as DefaultPageSize; pages past the end are left for the server to clamp. An empty
// tournament id returns an empty page without a network call.
func (c *Client) TournamentMatches(ctx context.Context, tournamentID string, page, pageSize int) (Page[Match], error) {
	page, pageSize = normalisePaging(page, pageSize)
	if tournamentID == "" {
		return EmptyPage[Match](page, pageSize), nil
	}

	var p Page[Match]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tournamentPath(tournamentID) + "/matches",
		query:  pagingQuery(page, pageSize),
	}, &p)
	if err != nil {
		return EmptyPage[Match](page, pageSize), err
	}
	p.Items = nonNil(p.Items)
	return p, nil
}

// TournamentStandings returns the server computed table. On failure, or for an empty id, the stats
// are zero valued with an empty table.
func (c *Client) TournamentStandings(ctx context.Context, tournamentID string) (TournamentStats, error) {
	empty := TournamentStats{TournamentID: tournamentID, Standings: []Standing{}}
	if tournamentID == "" {
		return empty, nil
	}

	var stats TournamentStats
	if err := c.do(ctx, request{method: http.MethodGet, path: tournamentPath(tournamentID) + "/stats"}, &stats); err != nil {
		return empty, err
	}
	if stats.TournamentID == "" {
		stats.TournamentID = tournamentID
	}
	stats.Standings = nonNil(stats.Standings)
	return stats, nil
}

func tournamentPath(id string) string {
	return "/tournaments/" + url.PathEscape(id)
}
