package sessions

import "github.com/jrsteele09/go-match-tracker/users"

// Session is the signed-in state shown to the UI. The refresh token is persisted but never held here.
type Session struct {
	User        *users.Profile // Signed-in user; nil when signed out
	AccessToken string         // Bearer token for the current session
	IsLoading   bool           // True only while RestoreSession runs
}

// IsAuthenticated reports whether a user is signed in. A token without a user doesn't count.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

// clone copies the profile so callers can't mutate the manager's state through a snapshot.
func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		u.TournamentIDs = append([]string(nil), s.User.TournamentIDs...)
		s.User = &u
	}
	return s
}
