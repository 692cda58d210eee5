package apitest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/token/jwt"
	"github.com/jrsteele09/go-match-tracker/users"
)

// DeleteConfirmation is the text DELETE /auth/me expects.
const DeleteConfirmation = "DELETE MY ACCOUNT"

type userIDKey struct{}

// WithoutRefreshTokens makes login and registration omit the refresh token.
func WithoutRefreshTokens() Option {
	return func(s *Server) { s.noRefreshTokens = true }
}

// SeedUser adds an account. The profile must have an ID.
func (s *Server) SeedUser(p users.Profile, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[p.ID] = &User{Profile: p, Password: password}
}

// UpdateProfile changes a stored profile, e.g. to simulate new server side stats.
func (s *Server) UpdateProfile(p users.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[p.ID]; ok {
		u.Profile = p
	}
}

// IssueTokens returns a valid access/refresh pair for userID, as if the user had signed in earlier.
func (s *Server) IssueTokens(userID string) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueAccessToken(userID), s.issueRefreshToken(userID)
}

// IssueExpiredAccessToken returns a JWT for userID whose exp is in the past.
func (s *Server) IssueExpiredAccessToken(userID string) string {
	creator := s.jwtCreator
	if creator == nil {
		creator = jwt.NewCreator("apitest-secret", time.Minute)
	}
	t, err := creator.CreateAccessTokenWithExpiry(userID, time.Now().Add(-time.Hour))
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens[t] = userID
	return t
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = make(map[string]string)
}

// HasUser reports whether the account still exists.
func (s *Server) HasUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

// issueAccessToken must be called with s.mu held.
func (s *Server) issueAccessToken(userID string) string {
	var t string
	if s.jwtCreator != nil {
		var err error
		if t, err = s.jwtCreator.CreateAccessToken(userID); err != nil {
			panic(err)
		}
	} else {
		t = "access-" + s.newID()
	}
	s.accessTokens[t] = userID
	return t
}

// issueRefreshToken must be called with s.mu held.
func (s *Server) issueRefreshToken(userID string) string {
	t := "refresh-" + s.newID()
	s.refreshTokens[t] = userID
	return t
}

func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := bearer(r)

		s.mu.Lock()
		userID, ok := s.accessTokens[t]
		s.mu.Unlock()

		if exp, isJWT := jwt.ExpiresAt(t); isJWT && exp.Before(time.Now()) {
			ok = false
		}
		if t == "" || !ok {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	}
}

func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey{}).(string)
	return id
}

func (s *Server) authResponse(u *User) api.AuthResponse {
	resp := api.AuthResponse{
		Identity: users.Identity{
			ID:        u.Profile.ID,
			Username:  u.Profile.Username,
			Email:     u.Profile.Email,
			Name:      u.Profile.Name,
			FirstName: u.Profile.FirstName,
			LastName:  u.Profile.LastName,
		},
		AccessToken: s.issueAccessToken(u.Profile.ID),
		TokenType:   "bearer",
	}
	if !s.noRefreshTokens {
		resp.RefreshToken = s.issueRefreshToken(u.Profile.ID)
	}
	return resp
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if (strings.EqualFold(u.Profile.Username, body.Username) || strings.EqualFold(u.Profile.Email, body.Username)) &&
			u.Password == body.Password {
			writeJSON(w, http.StatusOK, s.authResponse(u))
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" || body.Email == "" || len(body.Password) < 6 {
		writeDetail(w, http.StatusBadRequest, "Username, email and a password of at least 6 characters are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Profile.Username, body.Username) {
			writeDetail(w, http.StatusConflict, "Username already registered")
			return
		}
		if strings.EqualFold(u.Profile.Email, body.Email) {
			writeDetail(w, http.StatusConflict, "Email already registered")
			return
		}
	}

	u := &User{
		Profile: users.Profile{
			ID:        s.newID(),
			Username:  body.Username,
			Email:     body.Email,
			Name:      body.Name,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			EloRating: 1200,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		},
		Password: body.Password,
	}
	s.users[u.Profile.ID] = u
	writeJSON(w, http.StatusCreated, s.authResponse(u))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refreshDelay > 0 {
		time.Sleep(s.refreshDelay)
	}

	var body api.RefreshRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refreshTokens[body.RefreshToken]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	resp := api.RefreshResponse{AccessToken: s.issueAccessToken(userID), TokenType: "bearer"}
	if s.rotateRefresh {
		delete(s.refreshTokens, body.RefreshToken)
		resp.RefreshToken = s.issueRefreshToken(userID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[currentUserID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u.Profile)
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteAccountRequest
	if !decode(w, r, &body) {
		return
	}
	if body.ConfirmationText != DeleteConfirmation {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Please type %q to confirm", DeleteConfirmation))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentUserID(r)
	delete(s.users, userID)
	for t, id := range s.accessTokens {
		if id == userID {
			delete(s.accessTokens, t)
		}
	}
	for t, id := range s.refreshTokens {
		if id == userID {
			delete(s.refreshTokens, t)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
