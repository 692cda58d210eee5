package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/token"
	"github.com/jrsteele09/go-match-tracker/users"
)

const (
	userKeySuffix         = "-user"
	tokenKeySuffix        = "-token"
	refreshTokenKeySuffix = "-refresh-token"
)

// Credentials is the only code that knows the persisted session key names. It stores the cached
// profile and the token pair under <prefix>-user, <prefix>-token and <prefix>-refresh-token.
//
// Reads are tolerant: a missing or unreadable token is reported as absent, which callers treat as
// "no session". Writes are last-write-wins.
type Credentials struct {
	store  Store
	prefix string
	mu     sync.Mutex
}

// NewCredentials creates a typed accessor over store using prefix for the key names
func NewCredentials(store Store, prefix string) *Credentials {
	if prefix == "" {
		prefix = "matchtracker"
	}
	return &Credentials{
		store:  store,
		prefix: prefix,
	}
}

func (c *Credentials) UserKey() string         { return c.prefix + userKeySuffix }
func (c *Credentials) TokenKey() string        { return c.prefix + tokenKeySuffix }
func (c *Credentials) RefreshTokenKey() string { return c.prefix + refreshTokenKeySuffix }

// Keys returns all persisted session keys
func (c *Credentials) Keys() []string {
	return []string{c.UserKey(), c.TokenKey(), c.RefreshTokenKey()}
}

// User returns the cached profile, nil when none is stored. Cached data that can't be decoded is
// reported as ErrCorruptProfile.
func (c *Credentials) User() (*users.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.store.Get(c.UserKey())
	if err != nil {
		return nil, fmt.Errorf("[Credentials User] %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var p users.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrCorruptProfile, "[Credentials User] %v", err)
	}
	if p.ID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrCorruptProfile, "[Credentials User] profile has no id")
	}
	return &p, nil
}

// SetUser persists the profile. A nil profile removes the cached one.
func (c *Credentials) SetUser(p *users.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p == nil {
		return c.store.Delete(c.UserKey())
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("[Credentials SetUser] encode: %w", err)
	}
	return c.store.Set(c.UserKey(), string(b))
}

// AccessToken returns the stored access token or ""
func (c *Credentials) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(c.TokenKey())
}

// RefreshToken returns the stored refresh token or ""
func (c *Credentials) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(c.RefreshTokenKey())
}

// Tokens returns a snapshot of the stored pair
func (c *Credentials) Tokens() token.Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return token.New(c.get(c.TokenKey()), c.get(c.RefreshTokenKey()))
}

func (c *Credentials) SetAccessToken(accessToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Set(c.TokenKey(), accessToken)
}

func (c *Credentials) SetRefreshToken(refreshToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Set(c.RefreshTokenKey(), refreshToken)
}

// SetTokens persists the access token and, when the pair carries one, the refresh token. An existing
// refresh token is kept when the pair has none.
func (c *Credentials) SetTokens(p token.Pair) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Set(c.TokenKey(), p.AccessToken); err != nil {
		return fmt.Errorf("[Credentials SetTokens] access token: %w", err)
	}
	if p.HasRefresh() {
		if err := c.store.Set(c.RefreshTokenKey(), p.RefreshToken); err != nil {
			return fmt.Errorf("[Credentials SetTokens] refresh token: %w", err)
		}
	}
	return nil
}

// SetTokensIfUnchanged stores p like SetTokens, but only if the stored tokens are still the ones in
// snapshot. It reports false, without writing, when a sign-in or sign-out got there first.
func (c *Credentials) SetTokensIfUnchanged(snapshot, p token.Pair) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unchanged(snapshot) {
		return false, nil
	}
	if err := c.store.Set(c.TokenKey(), p.AccessToken); err != nil {
		return false, fmt.Errorf("[Credentials SetTokensIfUnchanged] access token: %w", err)
	}
	if p.HasRefresh() {
		if err := c.store.Set(c.RefreshTokenKey(), p.RefreshToken); err != nil {
			return false, fmt.Errorf("[Credentials SetTokensIfUnchanged] refresh token: %w", err)
		}
	}
	return true, nil
}

// Replace stores the pair of a new session. Unlike SetTokens, a pair without a refresh token removes
// any stored one so it can't outlive the session it belonged to.
func (c *Credentials) Replace(p token.Pair) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Set(c.TokenKey(), p.AccessToken); err != nil {
		return fmt.Errorf("[Credentials Replace] access token: %w", err)
	}
	if !p.HasRefresh() {
		return c.store.Delete(c.RefreshTokenKey())
	}
	if err := c.store.Set(c.RefreshTokenKey(), p.RefreshToken); err != nil {
		return fmt.Errorf("[Credentials Replace] refresh token: %w", err)
	}
	return nil
}

// Clear removes every persisted session key. Clearing an empty store is a no-op.
func (c *Credentials) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(c.Keys()...)
}

// ClearIfUnchanged clears the session only if the stored tokens are still the ones in snapshot. A
// failed refresh must not wipe credentials written by a sign-in that completed in the meantime.
func (c *Credentials) ClearIfUnchanged(snapshot token.Pair) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unchanged(snapshot) {
		return false, nil
	}
	if err := c.store.Delete(c.Keys()...); err != nil {
		return false, err
	}
	return true, nil
}

// unchanged must be called with c.mu held.
func (c *Credentials) unchanged(snapshot token.Pair) bool {
	return c.get(c.TokenKey()) == snapshot.AccessToken && c.get(c.RefreshTokenKey()) == snapshot.RefreshToken
}

func (c *Credentials) get(key string) string {
	v, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return ""
	}
	return v
}
