package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-match-tracker/api"
	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/storage"
	"github.com/jrsteele09/go-match-tracker/token"
	"github.com/jrsteele09/go-match-tracker/users"
	"github.com/rs/zerolog"
)

// Manager is the single source of truth for who is signed in. It keeps the in-memory Session and
// the persisted credentials in step, and resets the Session when the client reports that the
// stored session could not be refreshed.
//
// The mutex is never held across a network call.
type Manager struct {
	client *api.Client
	creds  *storage.Credentials
	log    zerolog.Logger

	mu      sync.Mutex
	session Session

	subsLock sync.Mutex
	subs     map[int]func(Session)
	nextSub  int

	removeExpiryListener func()
}

type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates a manager with an empty Session. Call RestoreSession to pick up a persisted one.
func New(client *api.Client, creds *storage.Credentials, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		creds:  creds,
		log:    zerolog.Nop(),
		subs:   make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.removeExpiryListener = client.OnSessionExpired(m.expired)
	return m
}

// Close detaches the manager from the client.
func (m *Manager) Close() {
	m.removeExpiryListener()
}

// Session returns a snapshot of the current state.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}

// Subscribe calls fn with the new Session after every change. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(Session)) (unsubscribe func()) {
	m.subsLock.Lock()
	defer m.subsLock.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.subsLock.Lock()
		defer m.subsLock.Unlock()
		delete(m.subs, id)
	}
}

// RestoreSession picks up the session persisted by a previous run. The cached profile is shown
// straight away and then checked against the server; if the check fails, or the cached data can't
// be read, everything persisted is cleared. It never fails and always ends with IsLoading false.
func (m *Manager) RestoreSession(ctx context.Context) {
	m.update(func(s *Session) { s.IsLoading = true })

	cached, err := m.creds.User()
	accessToken := m.creds.AccessToken()
	switch {
	case err != nil:
		m.log.Warn().Err(err).Msg("cached session unreadable, clearing it")
		m.reset()
		return
	case cached == nil || accessToken == "":
		if cached != nil || accessToken != "" {
			m.log.Debug().Msg("partial session in storage, clearing it")
			m.reset()
			return
		}
		m.update(func(s *Session) { s.IsLoading = false })
		return
	}

	m.update(func(s *Session) {
		s.User = cached
		s.AccessToken = accessToken
	})

	profile, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.log.Info().Err(err).Str("user_id", cached.ID).Msg("stored session rejected, clearing it")
		m.reset()
		return
	}
	if err := m.creds.SetUser(profile); err != nil {
		m.log.Error().Err(err).Msg("failed to persist restored profile")
	}

	// The access token may have been refreshed while the profile was fetched.
	current := m.creds.AccessToken()
	m.update(func(s *Session) {
		s.User = profile
		s.AccessToken = current
		s.IsLoading = false
	})
	m.log.Debug().Str("user_id", profile.ID).Msg("session restored")
}

// SignIn logs in with a username or email. On failure the Session and storage are left as they were.
func (m *Manager) SignIn(ctx context.Context, identifier, password string) error {
	resp, err := m.client.Login(ctx, identifier, password)
	if err != nil {
		return fmt.Errorf("[Manager SignIn] %w", err)
	}
	return m.establish(ctx, resp, identifier)
}

// SignUp registers a new account and signs in with it. On failure the Session and storage are left
// as they were.
func (m *Manager) SignUp(ctx context.Context, r api.RegisterRequest) error {
	resp, err := m.client.Register(ctx, r)
	if err != nil {
		return fmt.Errorf("[Manager SignUp] %w", err)
	}
	return m.establish(ctx, resp, r.Username)
}

// establish stores the tokens from a login or registration, then fetches the full profile. When the
// profile can't be fetched a minimal one is built from the auth response.
func (m *Manager) establish(ctx context.Context, resp *api.AuthResponse, fallbackUsername string) error {
	if !resp.HasUser() || resp.AccessToken == "" {
		return apperrors.Wrapf(apperrors.ErrNoUserInResponse, "[Manager establish]")
	}

	if err := m.creds.Replace(token.New(resp.AccessToken, resp.RefreshToken)); err != nil {
		return fmt.Errorf("[Manager establish] store tokens: %w", err)
	}

	profile, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.log.Warn().Err(err).Str("user_id", resp.ID).Msg("profile fetch failed after sign in, using minimal profile")
		profile = users.FallbackProfile(resp.Identity, fallbackUsername)
	}

	accessToken := m.creds.AccessToken()
	if accessToken == "" {
		// The fresh session was rejected and purged while the profile was fetched.
		return apperrors.Wrapf(apperrors.ErrSessionExpired, "[Manager establish]")
	}
	if err := m.creds.SetUser(profile); err != nil {
		return fmt.Errorf("[Manager establish] store profile: %w", err)
	}

	m.update(func(s *Session) {
		s.User = profile
		s.AccessToken = accessToken
	})
	m.log.Info().Str("user_id", profile.ID).Msg("signed in")
	return nil
}

// SignOut clears the Session and every persisted key. It is safe to call when signed out.
func (m *Manager) SignOut() {
	m.reset()
	m.log.Info().Msg("signed out")
}

// UpdateUser replaces the cached profile, e.g. after an edit the server confirmed. Tokens are untouched.
func (m *Manager) UpdateUser(profile *users.Profile) error {
	if profile == nil || profile.ID == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "[Manager UpdateUser] profile needs an id")
	}
	if !m.Session().IsAuthenticated() {
		return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[Manager UpdateUser]")
	}

	p := *profile
	if err := m.creds.SetUser(&p); err != nil {
		return fmt.Errorf("[Manager UpdateUser] %w", err)
	}
	m.update(func(s *Session) { s.User = &p })
	return nil
}

// DeleteAccount deletes the signed-in account on the server and then signs out.
func (m *Manager) DeleteAccount(ctx context.Context, confirmation string) error {
	if !m.Session().IsAuthenticated() {
		return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[Manager DeleteAccount]")
	}
	if err := m.client.DeleteAccount(ctx, confirmation); err != nil {
		return fmt.Errorf("[Manager DeleteAccount] %w", err)
	}
	m.SignOut()
	return nil
}

// expired runs when the client purged the stored session after a failed refresh.
func (m *Manager) expired() {
	m.log.Info().Msg("session expired")
	m.update(func(s *Session) {
		s.User = nil
		s.AccessToken = ""
	})
}

// reset clears storage and the Session.
func (m *Manager) reset() {
	if err := m.creds.Clear(); err != nil {
		m.log.Error().Err(err).Msg("failed to clear stored session")
	}
	m.update(func(s *Session) { *s = Session{} })
}

// update applies fn under the lock and notifies subscribers when the Session changed.
func (m *Manager) update(fn func(*Session)) {
	m.mu.Lock()
	before := m.session
	fn(&m.session)
	changed := before != m.session
	after := m.session.clone()
	m.mu.Unlock()

	if changed {
		m.notify(after)
	}
}

func (m *Manager) notify(s Session) {
	m.subsLock.Lock()
	fns := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsLock.Unlock()

	for _, fn := range fns {
		fn(s.clone())
	}
}
