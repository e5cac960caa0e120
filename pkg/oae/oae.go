// Package oae provides the public API for embedding the client library.
// It re-exports the request context and executor surface and adds the
// platform's well-known string constants, so embedders import one package.
package oae

import (
	"context"

	"github.com/stuartf/oae-rest/internal/config"
	"github.com/stuartf/oae-rest/rest"
)

// Visibility values accepted by principals, content, folders and
// discussions.
const (
	VisibilityPrivate  = "private"
	VisibilityLoggedIn = "loggedin"
	VisibilityPublic   = "public"
)

// Joinability values accepted by groups.
const (
	JoinableYes     = "yes"
	JoinableNo      = "no"
	JoinableRequest = "request"
)

// Role values used by the permission endpoints. RoleNone removes a
// principal from a resource.
const (
	RoleManager = "manager"
	RoleMember  = "member"
	RoleViewer  = "viewer"
	RoleNone    = "false"
)

// Context carries the tenant address and credential state for a caller.
type Context = rest.Context

// ContextOption customizes a Context at construction time.
type ContextOption = rest.ContextOption

// AuthMode is one of the supported credential modes.
type AuthMode = rest.AuthMode

// Executor performs calls; most embedders use the shared default.
type Executor = rest.Executor

// Params carries the request parameters for a single call.
type Params = rest.Params

// Value is one request parameter.
type Value = rest.Value

// Result is the normalized outcome of one call.
type Result = rest.Result

// Completion pairs a Result with its error for asynchronous delivery.
type Completion = rest.Completion

// RequestError reports a server response with status 400 or higher.
type RequestError = rest.RequestError

// TransportError reports a request that never completed a round trip.
type TransportError = rest.TransportError

// ParseError reports a structured body that did not parse.
type ParseError = rest.ParseError

// ConfigurationError reports an invalid construction.
type ConfigurationError = rest.ConfigurationError

// Config is the client configuration loaded from file and environment.
type Config = config.Config

// NewContext builds a Context for the tenant at host.
func NewContext(host string, auth AuthMode, opts ...ContextOption) (*Context, error) {
	return rest.NewContext(host, auth, opts...)
}

// Anonymous returns the unauthenticated mode.
func Anonymous() AuthMode { return rest.Anonymous() }

// UsernamePassword returns the password mode; the session is established
// transparently on the first call.
func UsernamePassword(username, password string) AuthMode {
	return rest.UsernamePassword(username, password)
}

// SessionToken returns the mode that reuses an existing session token.
func SessionToken(token string) AuthMode { return rest.SessionToken(token) }

// BearerToken returns the mode that sends an OAuth bearer token.
func BearerToken(token string) AuthMode { return rest.BearerToken(token) }

// Do performs one call through the Context's executor.
func Do(ctx context.Context, rc *Context, method, path string, params Params) (*Result, error) {
	return rest.Do(ctx, rc, method, path, params)
}

// DoAsync performs one call and delivers its completion on the returned
// channel.
func DoAsync(ctx context.Context, rc *Context, method, path string, params Params) <-chan Completion {
	return rest.DoAsync(ctx, rc, method, path, params)
}

// NewConfig creates a configuration with defaults.
func NewConfig() *Config { return config.NewDefaultConfig() }

// LoadConfig loads configuration from the specified path.
func LoadConfig(path string) (*Config, error) { return config.LoadConfig(path) }

// LoadConfigOptional is LoadConfig, except a missing file yields defaults.
func LoadConfigOptional(path string, optional bool) (*Config, error) {
	return config.LoadConfigOptional(path, optional)
}

// Connect turns a loaded configuration into a ready Context: credential
// mode from the session or username fields, headers, TLS and timeout
// settings applied.
func Connect(cfg *Config) (*Context, error) {
	var auth AuthMode
	switch {
	case cfg.Session != "":
		auth = SessionToken(cfg.Session)
	case cfg.Username != "":
		auth = UsernamePassword(cfg.Username, cfg.Password)
	default:
		auth = Anonymous()
	}

	var opts []ContextOption
	if cfg.HostHeader != "" {
		opts = append(opts, rest.WithHostHeader(cfg.HostHeader))
	}
	if cfg.Referer != "" {
		opts = append(opts, rest.WithReferer(cfg.Referer))
	}
	for k, v := range cfg.Headers {
		opts = append(opts, rest.WithHeader(k, v))
	}
	if cfg.Insecure {
		opts = append(opts, rest.WithInsecureTLS())
	}
	if d := cfg.RequestTimeout(); d > 0 {
		opts = append(opts, rest.WithExecutor(rest.NewExecutor(rest.WithTimeout(d))))
	}
	return NewContext(cfg.Host, auth, opts...)
}
