package rest

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/singleflight"
)

// SessionCookieName is the cookie the platform issues on login. AdoptSession
// installs a token under this name; Session reads it back out.
const SessionCookieName = "connect.sid"

// AuthMode selects how a Context authenticates. Construct one with
// Anonymous, UsernamePassword, SessionToken or BearerToken.
type AuthMode interface {
	mode() string
}

type anonymousAuth struct{}

type passwordAuth struct {
	username string
	password string
}

type sessionAuth struct {
	token string
}

type bearerAuth struct {
	token string
}

func (anonymousAuth) mode() string { return "anonymous" }
func (passwordAuth) mode() string  { return "password" }
func (sessionAuth) mode() string   { return "session" }
func (bearerAuth) mode() string    { return "bearer" }

// Anonymous makes requests with no credentials. Endpoints that require a
// session will answer 401, which surfaces as a RequestError like any other
// failure status.
func Anonymous() AuthMode { return anonymousAuth{} }

// UsernamePassword defers authentication until the first request: the
// executor logs in once, transparently, and replays the original call with
// the established session.
func UsernamePassword(username, password string) AuthMode {
	return passwordAuth{username: username, password: password}
}

// SessionToken reuses a session established elsewhere, for example one
// harvested from a browser or handed over by an admin context.
func SessionToken(token string) AuthMode { return sessionAuth{token: token} }

// BearerToken authenticates every request with an OAuth access token in the
// Authorization header. No session is involved.
func BearerToken(token string) AuthMode { return bearerAuth{token: token} }

// Context carries everything needed to call one tenant as one identity: the
// base URL, the auth mode, extra headers and the session slot. Create one
// per identity and pass it to every call; a Context is safe for concurrent
// use.
type Context struct {
	host       string
	auth       AuthMode
	headers    map[string]string
	referer    string
	hostHeader string
	insecure   bool
	executor   *Executor

	mu      sync.RWMutex
	session []*http.Cookie

	loginGroup singleflight.Group
}

// ContextOption adjusts a Context at construction time.
type ContextOption func(*Context)

// WithHeader attaches an extra header to every request made with the
// Context. Later calls for the same name replace the earlier value.
func WithHeader(name, value string) ContextOption {
	return func(c *Context) { c.headers[name] = value }
}

// WithReferer replaces the default referer, which is the host URL followed
// by a slash. The server rejects requests whose referer does not match the
// tenant, so this is mostly useful to simulate cross-tenant traffic.
func WithReferer(referer string) ContextOption {
	return func(c *Context) { c.referer = referer }
}

// WithHostHeader overrides the Host header while the connection still dials
// the context's host URL. This is how a tenant is addressed through a
// shared front end, for example hitting a global admin server with a tenant
// alias.
func WithHostHeader(host string) ContextOption {
	return func(c *Context) { c.hostHeader = host }
}

// WithInsecureTLS disables certificate verification for this Context. Meant
// for test tenants running on self-signed certificates.
func WithInsecureTLS() ContextOption {
	return func(c *Context) { c.insecure = true }
}

// WithExecutor pins the Context to a specific Executor instead of the
// package default.
func WithExecutor(e *Executor) ContextOption {
	return func(c *Context) { c.executor = e }
}

// NewContext builds a Context for the tenant at host, for example
// "https://tenant1.oae.example". The host must be an absolute http or https
// URL without a path; a trailing slash is tolerated and trimmed.
func NewContext(host string, auth AuthMode, opts ...ContextOption) (*Context, error) {
	host = strings.TrimSuffix(host, "/")
	if err := validation.Validate(host, validation.Required, validation.By(checkHostURL)); err != nil {
		return nil, newConfigurationError("invalid host "+quoteTrunc(host), err)
	}
	if auth == nil {
		auth = Anonymous()
	}

	c := &Context{
		host:    host,
		auth:    auth,
		headers: map[string]string{},
		referer: host + "/",
	}
	if s, ok := auth.(sessionAuth); ok {
		c.session = []*http.Cookie{{Name: SessionCookieName, Value: s.token}}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func quoteTrunc(s string) string {
	if len(s) > 64 {
		s = s[:64] + "..."
	}
	return `"` + s + `"`
}

func checkHostURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return errors.New("must not carry a path, query or fragment")
	}
	return nil
}

// Host returns the base URL the Context was built with, without a trailing
// slash.
func (c *Context) Host() string { return c.host }

// Auth returns the Context's auth mode.
func (c *Context) Auth() AuthMode { return c.auth }

// Session returns the current session token, or "" when none has been
// established yet.
func (c *Context) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sessionValue(c.session)
}

func sessionValue(cookies []*http.Cookie) string {
	for _, ck := range cookies {
		if ck.Name == SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// AdoptSession installs a session token, replacing whatever the Context held
// before. Concurrent adoptions resolve last-write-wins; the executor only
// fills the slot on its own when it is still empty.
func (c *Context) AdoptSession(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = []*http.Cookie{{Name: SessionCookieName, Value: token}}
}

// adoptCookies fills the session slot from a response that issued a session
// cookie. An existing session is never replaced this way; only AdoptSession
// overwrites.
func (c *Context) adoptCookies(cookies []*http.Cookie) {
	if sessionValue(cookies) == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if sessionValue(c.session) != "" {
		return
	}
	c.session = cookies
}

func (c *Context) sessionCookies() []*http.Cookie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*http.Cookie, len(c.session))
	copy(out, c.session)
	return out
}

func (c *Context) executorOrDefault() *Executor {
	if c == nil || c.executor == nil {
		return DefaultExecutor
	}
	return c.executor
}

// String renders the Context for logs. Credentials are redacted.
func (c *Context) String() string {
	return "Context(" + c.host + ", " + c.auth.mode() + ")"
}
