package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
)

// ListPlayers returns every player. On failure the list is empty, never nil.
func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	var players []Player
	if err := c.do(ctx, request{method: http.MethodGet, path: "/players/"}, &players); err != nil {
		return []Player{}, err
	}
	return nonNil(players), nil
}

func (c *Client) CreatePlayer(ctx context.Context, r CreatePlayerRequest) (*Player, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client CreatePlayer] name is required")
	}

	var p Player
	if err := c.do(ctx, request{method: http.MethodPost, path: "/players/", body: r}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, id string, r UpdatePlayerRequest) (*Player, error) {
	if id == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingID, "[Client UpdatePlayer] player id")
	}

	var p Player
	if err := c.do(ctx, request{method: http.MethodPut, path: "/player/" + url.PathEscape(id) + "/", body: r}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePlayer(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Wrapf(apperrors.ErrMissingID, "[Client DeletePlayer] player id")
	}
	return c.do(ctx, request{method: http.MethodDelete, path: "/player/" + url.PathEscape(id) + "/"}, nil)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
