// Package apitest runs an in-process fake of the match tracker API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/token/jwt"
	"github.com/jrsteele09/go-match-tracker/users"
)

const BasePath = "/api/v1"

// User is an account known to the fake server.
type User struct {
	Profile  users.Profile
	Password string
}

// RecordedRequest is what the fake saw for one call.
type RecordedRequest struct {
	Method        string
	Pattern       string // chi route pattern without the base path, e.g. "/tournaments/{id}/"
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

type failure struct {
	status int
	body   any
	times  int // <= 0 means until cleared
}

type Server struct {
	*httptest.Server

	mu            sync.Mutex
	users         map[string]*User  // by id
	accessTokens  map[string]string // token -> user id
	refreshTokens map[string]string // token -> user id
	players       map[string]*api.Player
	matches       map[string]*api.Match
	tournaments   map[string]*tournamentRecord
	friendships   map[string]map[string]bool
	friendReqs    map[string]*api.FriendRequest
	failures      map[string]*failure
	requests      []RecordedRequest
	nextID        int

	jwtCreator      *jwt.Creator
	rotateRefresh   bool
	refreshDelay    time.Duration
	noRefreshTokens bool
}

type Option func(*Server)

// WithJWTAccessTokens makes the server issue JWT access tokens (with an exp claim) instead of
// opaque ones.
func WithJWTAccessTokens(expiry time.Duration) Option {
	return func(s *Server) { s.jwtCreator = jwt.NewCreator("apitest-secret", expiry) }
}

// WithRefreshRotation makes /auth/refresh return a new refresh token each time.
func WithRefreshRotation() Option {
	return func(s *Server) { s.rotateRefresh = true }
}

// WithRefreshDelay slows /auth/refresh down so tests can pile concurrent 401s onto one refresh.
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Server) { s.refreshDelay = d }
}

// New starts the fake server. Close it with t.Cleanup(s.Close).
func New(opts ...Option) *Server {
	s := &Server{
		users:         make(map[string]*User),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		players:       make(map[string]*api.Player),
		matches:       make(map[string]*api.Match),
		tournaments:   make(map[string]*tournamentRecord),
		friendships:   make(map[string]map[string]bool),
		friendReqs:    make(map[string]*api.FriendRequest),
		failures:      make(map[string]*failure),
		nextID:        100,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL is the API root to configure the client with.
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route(BasePath, func(r chi.Router) {
		s.handle(r, http.MethodPost, "/auth/login", s.handleLogin)
		s.handle(r, http.MethodPost, "/auth/register", s.handleRegister)
		s.handle(r, http.MethodPost, "/auth/refresh", s.handleRefresh)
		s.handle(r, http.MethodGet, "/auth/me", s.authenticated(s.handleMe))
		s.handle(r, http.MethodDelete, "/auth/me", s.authenticated(s.handleDeleteMe))

		s.handle(r, http.MethodGet, "/players/", s.authenticated(s.handleListPlayers))
		s.handle(r, http.MethodPost, "/players/", s.authenticated(s.handleCreatePlayer))
		s.handle(r, http.MethodPut, "/player/{id}/", s.authenticated(s.handleUpdatePlayer))
		s.handle(r, http.MethodDelete, "/player/{id}/", s.authenticated(s.handleDeletePlayer))

		s.handle(r, http.MethodPost, "/matches/", s.authenticated(s.handleRecordMatch))
		s.handle(r, http.MethodPut, "/matches/{id}/", s.authenticated(s.handleUpdateMatch))
		s.handle(r, http.MethodDelete, "/matches/{id}/", s.authenticated(s.handleDeleteMatch))

		s.handle(r, http.MethodGet, "/tournaments/", s.authenticated(s.handleListTournaments))
		s.handle(r, http.MethodPost, "/tournaments/", s.authenticated(s.handleCreateTournament))
		s.handle(r, http.MethodGet, "/tournaments/{id}/", s.authenticated(s.handleGetTournament))
		s.handle(r, http.MethodPut, "/tournaments/{id}/", s.authenticated(s.handleUpdateTournament))
		s.handle(r, http.MethodDelete, "/tournaments/{id}/", s.authenticated(s.handleDeleteTournament))
		s.handle(r, http.MethodPost, "/tournaments/{id}/players", s.authenticated(s.handleAddTournamentPlayer))
		s.handle(r, http.MethodDelete, "/tournaments/{id}/players/{playerID}", s.authenticated(s.handleRemoveTournamentPlayer))
		s.handle(r, http.MethodGet, "/tournaments/{id}/matches", s.authenticated(s.handleTournamentMatches))
		s.handle(r, http.MethodGet, "/tournaments/{id}/stats", s.authenticated(s.handleTournamentStats))

		s.handle(r, http.MethodGet, "/stats/", s.authenticated(s.handleStats))
		s.handle(r, http.MethodGet, "/stats/head-to-head/{p1}/{p2}", s.authenticated(s.handleHeadToHead))

		s.handle(r, http.MethodGet, "/user/friends", s.authenticated(s.handleFriends))
		s.handle(r, http.MethodGet, "/user/friend-requests", s.authenticated(s.handleFriendRequests))
		s.handle(r, http.MethodPost, "/user/send-friend-request", s.authenticated(s.handleSendFriendRequest))
		s.handle(r, http.MethodPost, "/user/accept-friend-request", s.authenticated(s.handleAnswerFriendRequest(true)))
		s.handle(r, http.MethodPost, "/user/reject-friend-request", s.authenticated(s.handleAnswerFriendRequest(false)))
		s.handle(r, http.MethodGet, "/user/recent-non-friend-opponents", s.authenticated(s.handleOpponents))
		s.handle(r, http.MethodGet, "/user/search", s.authenticated(s.handleSearch))
	})

	return r
}

// handle registers h and wraps it with request recording and failure injection.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := routeKey(method, pattern)
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        method,
			Pattern:       pattern,
			Path:          req.URL.Path,
			Query:         req.URL.RawQuery,
			Authorization: req.Header.Get("Authorization"),
			RequestID:     req.Header.Get("X-Request-ID"),
		})
		f, forced := s.failures[key]
		if forced && f.times > 0 {
			f.times--
			if f.times == 0 {
				delete(s.failures, key)
			}
		}
		s.mu.Unlock()

		if forced {
			writeJSON(w, f.status, f.body)
			return
		}
		h(w, req)
	}))
}

// Fail makes every call to method+pattern answer status with {"detail": detail}. An empty detail
// sends an empty JSON object.
func (s *Server) Fail(method, pattern string, status int, detail string) {
	s.FailTimes(method, pattern, status, detail, 0)
}

// FailTimes is Fail for the next n calls only.
func (s *Server) FailTimes(method, pattern string, status int, detail string, n int) {
	var body any = map[string]string{}
	if detail != "" {
		body = map[string]string{"detail": detail}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, pattern)] = &failure{status: status, body: body, times: n}
}

// Recover removes an injected failure.
func (s *Server) Recover(method, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, routeKey(method, pattern))
}

// Calls counts the requests made to method+pattern.
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Pattern == pattern {
			n++
		}
	}
	return n
}

// Requests returns a copy of everything recorded so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// TotalCalls is the number of requests the server has seen.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}

func (s *Server) newID() string {
	s.nextID++
	return fmt.Sprintf("%d", s.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "invalid body: " + err.Error()}},
		})
		return false
	}
	return true
}

func bearer(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
