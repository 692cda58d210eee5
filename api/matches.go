package api

import (
	"context"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
)

// RecordMatch logs a result. The server updates standings and Elo ratings from it.
func (c *Client) RecordMatch(ctx context.Context, r RecordMatchRequest) (*Match, error) {
	switch {
	case r.Player1ID == "" || r.Player2ID == "":
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client RecordMatch] both players are required")
	case r.Player1ID == r.Player2ID:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client RecordMatch] a player can't play themselves")
	case r.Player1Score < 0 || r.Player2Score < 0:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client RecordMatch] scores can't be negative")
	}

	var m Match
	if err := c.do(ctx, request{method: http.MethodPost, path: "/matches/", body: r}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMatch(ctx context.Context, id string, r UpdateMatchRequest) (*Match, error) {
	if id == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingID, "[Client UpdateMatch] match id")
	}

	var m Match
	if err := c.do(ctx, request{method: http.MethodPut, path: matchPath(id), body: r}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMatch(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Wrapf(apperrors.ErrMissingID, "[Client DeleteMatch] match id")
	}
	return c.do(ctx, request{method: http.MethodDelete, path: matchPath(id)}, nil)
}

func matchPath(id string) string {
	return "/matches/" + url.PathEscape(id) + "/"
}
