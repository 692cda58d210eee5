package users

import (
	"strings"
	"time"
)

// Profile is the server's view of a signed-in user: identity plus the aggregate stats the backend
// maintains for them. The client never computes any of these values, it only stores and forwards them.
type Profile struct {
	ID            string    `json:"id"`                       // Unique identifier for the user
	Username      string    `json:"username,omitempty"`       // Unique login name
	Email         string    `json:"email,omitempty"`          // User's email address
	Name          string    `json:"name,omitempty"`           // Display name, if the server supplies one
	FirstName     string    `json:"first_name,omitempty"`     // First name of the user
	LastName      string    `json:"last_name,omitempty"`      // Last name of the user
	EloRating     float64   `json:"elo_rating,omitempty"`     // Server computed skill rating
	MatchesPlayed int       `json:"matches_played,omitempty"` // Total recorded matches
	Wins          int       `json:"wins,omitempty"`
	Losses        int       `json:"losses,omitempty"`
	Draws         int       `json:"draws,omitempty"`
	TournamentIDs []string  `json:"tournament_ids,omitempty"` // Tournaments the user belongs to
	IsActive      bool      `json:"is_active,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

// DisplayName returns the best human readable name available.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if full := strings.TrimSpace(p.FirstName + " " + p.LastName); full != "" {
		return full
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// Identity is the subset of user fields the login and registration endpoints return next to the tokens.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// FallbackProfile builds the minimal profile used when the full profile can't be fetched right after
// signing in. fallbackUsername is used when the response carries no username (the identifier typed in).
func FallbackProfile(id Identity, fallbackUsername string) *Profile {
	username := id.Username
	if username == "" {
		username = fallbackUsername
	}
	return &Profile{
		ID:        id.ID,
		Username:  username,
		Email:     id.Email,
		Name:      id.Name,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		IsActive:  true,
	}
}
