package api

import "github.com/jrsteele09/go-match-tracker/users"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	// Username is whatever the user typed as their identifier (username or email).
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	// Name is the display name. Older clients send only this; newer ones split it into
	// FirstName/LastName. Either form is accepted by the server.
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
}

// AuthResponse is returned from both login and registration: the user's identity fields flattened
// next to the issued tokens.
type AuthResponse struct {
	users.Identity

	// AccessToken is the bearer credential for subsequent requests.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Lifespan: Short-lived; a 401 means it must be refreshed
	AccessToken string `json:"access_token"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Only present: When the server issues refresh tokens for this account
	// Security: Never attached to ordinary requests
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType indicates how to use the access token ("bearer").
	TokenType string `json:"token_type,omitempty"`
}

// HasUser reports whether the response identifies a user.
func (r *AuthResponse) HasUser() bool {
	return r != nil && r.ID != ""
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned from POST /auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`

	// RefreshToken is set when the server rotates refresh tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// DeleteAccountRequest is the body of DELETE /auth/me.
type DeleteAccountRequest struct {
	ConfirmationText string `json:"confirmation_text"`
}
