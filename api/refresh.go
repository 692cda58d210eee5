package api

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/token"
	"github.com/jrsteele09/go-match-tracker/token/jwt"
)

const refreshFlightKey = "refresh"

// Refresh exchanges the stored refresh token for a new access token and stores it. Concurrent calls,
// including the ones the client makes itself on a 401, share a single exchange.
//
// When the server rejects the refresh token (or there is none) the stored session is purged and the
// session-expired listeners and sign-in redirect run once. Unreachable servers and 5xx responses leave
// the session in place.
func (c *Client) Refresh(ctx context.Context) error {
	ch := c.refreshGroup.DoChan(refreshFlightKey, func() (any, error) {
		// The exchange outlives the first caller's context: other callers may be waiting on it.
		return nil, c.exchangeRefreshToken(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// recoverUnauthorized handles a 401 for a request sent with sentToken. It reports whether a newer
// access token is now stored.
func (c *Client) recoverUnauthorized(ctx context.Context, sentToken string) bool {
	if current := c.creds.AccessToken(); current != "" && current != sentToken {
		// Refreshed (or signed in again) while this request was in flight.
		return true
	}
	return c.Refresh(ctx) == nil
}

func (c *Client) refreshIfExpired(ctx context.Context) {
	pair := c.creds.Tokens()
	if !pair.Expired() || !pair.HasRefresh() {
		return
	}
	c.log.Debug().Time("expiry", pair.Expiry).Msg("access token expired, refreshing before request")
	if err := c.Refresh(ctx); err != nil {
		c.log.Debug().Err(err).Msg("proactive refresh failed")
	}
}

func (c *Client) exchangeRefreshToken(ctx context.Context) error {
	snapshot := c.creds.Tokens()
	if !snapshot.HasRefresh() {
		c.expireSession(snapshot, apperrors.ErrNoRefreshToken)
		return apperrors.ErrNoRefreshToken
	}

	var resp RefreshResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   RefreshRequest{RefreshToken: snapshot.RefreshToken},
		public: true,
	}, &resp)
	if err == nil && resp.AccessToken == "" {
		err = &RequestError{Kind: KindUnknown, HTTPStatus: http.StatusOK, Message: "refresh response has no access token"}
	}

	if err != nil {
		switch KindOf(err) {
		case KindNetwork, KindServerError:
			c.log.Warn().Err(err).Msg("token refresh unavailable, keeping session")
		default:
			c.expireSession(snapshot, err)
		}
		return err
	}

	stored, err := c.creds.SetTokensIfUnchanged(snapshot, token.New(resp.AccessToken, resp.RefreshToken))
	if err != nil {
		c.log.Error().Err(err).Msg("failed to store refreshed access token")
		return apperrors.Wrapf(err, "[Client Refresh] store tokens")
	}
	if !stored {
		// A sign-in or sign-out won the race; its state stands and these tokens are dropped.
		if c.creds.AccessToken() == "" {
			c.log.Debug().Msg("signed out during refresh, discarding refreshed tokens")
			return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[Client Refresh] signed out during refresh")
		}
		c.log.Debug().Msg("session changed during refresh, discarding refreshed tokens")
		return nil
	}
	c.log.Info().
		Str("user_id", jwt.Subject(resp.AccessToken)).
		Bool("rotated", resp.RefreshToken != "").
		Msg("access token refreshed")
	return nil
}

// expireSession purges the stored session after an unrecoverable refresh failure. Nothing is purged
// (and nobody is notified) when the stored tokens changed since snapshot was taken, or when there was
// no session to begin with.
func (c *Client) expireSession(snapshot token.Pair, cause error) {
	if !snapshot.HasAccess() && !snapshot.HasRefresh() {
		return
	}

	cleared, err := c.creds.ClearIfUnchanged(snapshot)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to clear expired session")
		return
	}
	if !cleared {
		c.log.Debug().Msg("session changed during refresh, keeping it")
		return
	}

	c.log.Info().Err(cause).Msg("session expired, sign in required")
	c.notifySessionExpired()
}
