package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-match-tracker/internal/config"
	"github.com/jrsteele09/go-match-tracker/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	headerRequestID   = "X-Request-ID"
	contentTypeJSON   = "application/json"
	maxResponseLength = 10 << 20
)

// Client is the single path from the UI to the match tracker API. It builds every request, attaches
// the stored access token, and runs the 401 protocol: one shared refresh, then one retry.
type Client struct {
	config            config.APIConfig
	creds             *storage.Credentials
	httpClient        *http.Client
	log               zerolog.Logger
	baseURL           func() string
	retryAfterRefresh bool
	signInRedirect    func()

	refreshGroup singleflight.Group

	listenersLock sync.Mutex
	listeners     map[int]func()
	nextListener  int
}

type Option func(*Client)

// WithHTTPClient replaces the default client (which has the configured request timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSignInRedirect sets what happens once the session can't be refreshed, typically navigating
// the user to the sign-in page.
func WithSignInRedirect(fn func()) Option {
	return func(c *Client) { c.signInRedirect = fn }
}

// WithRetryAfterRefresh controls whether the request that triggered a successful refresh is sent
// again. Defaults to true; with false the original 401 is returned to the caller.
func WithRetryAfterRefresh(retry bool) Option {
	return func(c *Client) { c.retryAfterRefresh = retry }
}

// WithBaseURLResolver overrides config.ResolveBaseURL. It is still called once per request.
func WithBaseURLResolver(fn func() string) Option {
	return func(c *Client) { c.baseURL = fn }
}

// New creates a client reading tokens from creds.
func New(cfg config.APIConfig, creds *storage.Credentials, opts ...Option) *Client {
	c := &Client{
		config:            cfg,
		creds:             creds,
		log:               zerolog.Nop(),
		retryAfterRefresh: true,
		listeners:         make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.GetRequestTimeout()}
	}
	if c.baseURL == nil {
		c.baseURL = func() string { return config.ResolveBaseURL(cfg) }
	}
	return c
}

// Credentials exposes the token store the client reads from.
func (c *Client) Credentials() *storage.Credentials {
	return c.creds
}

// BaseURL returns the API root the next request will use.
func (c *Client) BaseURL() string {
	return c.baseURL()
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// public requests (login, register, refresh) carry no bearer token and never trigger a refresh.
	public bool
}

// do runs r and decodes a successful response body into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var body []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return &RequestError{Kind: KindUnknown, Message: "unable to encode request", Err: err}
		}
		body = b
	}

	if !r.public {
		c.refreshIfExpired(ctx)
	}

	status, data, sentToken, err := c.send(ctx, r, body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !r.public {
		refreshed := c.recoverUnauthorized(ctx, sentToken)
		if refreshed && c.retryAfterRefresh {
			status, data, _, err = c.send(ctx, r, body)
			if err != nil {
				return err
			}
		}
	}

	if status >= http.StatusBadRequest {
		return responseError(status, data)
	}

	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{
			Kind:       KindUnknown,
			HTTPStatus: status,
			Message:    "unexpected response from the server",
			Err:        fmt.Errorf("[Client do] decode %s %s: %w", r.method, r.path, err),
		}
	}
	return nil
}

// send issues one HTTP request with the access token stored at this moment. It returns the token it
// attached so a 401 can be matched against later refreshes.
func (c *Client) send(ctx context.Context, r request, body []byte) (int, []byte, string, error) {
	target := c.baseURL() + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return 0, nil, "", &RequestError{Kind: KindUnknown, Message: "invalid request", Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	var sentToken string
	if !r.public {
		pair := c.creds.Tokens()
		pair.Authorize(req)
		sentToken = pair.AccessToken
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("method", r.method).
			Str("path", r.path).
			Str("request_id", requestID).
			Msg("api request failed")
		return 0, nil, sentToken, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLength))
	if err != nil {
		return 0, nil, sentToken, networkError(err)
	}

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Bool("authenticated", sentToken != "").
		Msg("api request")

	return resp.StatusCode, data, sentToken, nil
}

// OnSessionExpired registers fn to run after a failed refresh has purged the stored session.
// The returned function removes it.
func (c *Client) OnSessionExpired(fn func()) (remove func()) {
	c.listenersLock.Lock()
	defer c.listenersLock.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn

	return func() {
		c.listenersLock.Lock()
		defer c.listenersLock.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) notifySessionExpired() {
	c.listenersLock.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersLock.Unlock()

	for _, fn := range fns {
		fn()
	}
	if c.signInRedirect != nil {
		c.signInRedirect()
	}
}
