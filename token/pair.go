package token

import (
	"net/http"

	"github.com/jrsteele09/go-match-tracker/token/jwt"
	"golang.org/x/oauth2"
)

const bearerType = "Bearer"

// Pair is the access/refresh credential pair issued by the API on login, registration and refresh.
// The access token is a short lived bearer credential attached to every authenticated request; the
// refresh token is only ever sent to the refresh endpoint.
type Pair struct {
	oauth2.Token
}

// New builds a pair, deriving the access token expiry from its "exp" claim when it is a JWT.
// Opaque access tokens get a zero expiry, meaning "unknown": they are only found to be stale by a 401.
func New(accessToken, refreshToken string) Pair {
	p := Pair{Token: oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    bearerType,
	}}
	if exp, ok := jwt.ExpiresAt(accessToken); ok {
		p.Expiry = exp
	}
	return p
}

// HasAccess reports whether there is an access token to attach.
func (p Pair) HasAccess() bool {
	return p.AccessToken != ""
}

// HasRefresh reports whether the refresh endpoint can be tried.
func (p Pair) HasRefresh() bool {
	return p.RefreshToken != ""
}

// Expired reports whether the access token is known to be past its expiry.
func (p Pair) Expired() bool {
	if !p.HasAccess() || p.Expiry.IsZero() {
		return false
	}
	return !p.Token.Valid()
}

// Authorize attaches "Authorization: Bearer <access token>" to r. Requests are left anonymous when
// there is no access token.
func (p Pair) Authorize(r *http.Request) {
	if !p.HasAccess() {
		return
	}
	p.Token.SetAuthHeader(r)
}
