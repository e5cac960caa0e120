package rest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	log "github.com/stuartf/oae-rest/internal/logging"
)

const (
	loginPath = "/api/auth/login"

	defaultUserAgent = "oae-rest-go/1.0"
)

// DefaultTimeout bounds one whole call, body download included. Uploads of
// any size fit because the timeout only starts counting per request, not
// per byte; raise it through WithTimeout if a deployment needs more.
const DefaultTimeout = 2 * time.Minute

// DefaultExecutor performs the calls of every Context that was not pinned
// to its own Executor, in the spirit of http.DefaultClient.
var DefaultExecutor = NewExecutor()

// Executor turns (Context, method, path, params) into an HTTP exchange and
// normalizes the outcome into a Result and error. It holds no per-identity
// state; one Executor can serve any number of Contexts concurrently.
type Executor struct {
	client         *http.Client
	insecureClient *http.Client
}

type executorSettings struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// ExecutorOption adjusts an Executor at construction time.
type ExecutorOption func(*executorSettings)

// WithTimeout bounds every call made through the Executor.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(s *executorSettings) { s.timeout = d }
}

// WithTransport installs a custom round tripper, replacing the shared
// transport for secure and insecure Contexts alike.
func WithTransport(rt http.RoundTripper) ExecutorOption {
	return func(s *executorSettings) { s.transport = rt }
}

// NewExecutor builds an Executor on the shared transports.
func NewExecutor(opts ...ExecutorOption) *Executor {
	s := executorSettings{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	base := http.RoundTripper(sharedTransport)
	insecure := http.RoundTripper(insecureTransport)
	if s.transport != nil {
		base, insecure = s.transport, s.transport
	}
	return &Executor{
		client:         &http.Client{Transport: base, Timeout: s.timeout},
		insecureClient: &http.Client{Transport: insecure, Timeout: s.timeout},
	}
}

// Do performs one call with the Context's executor, or the package default.
// Every endpoint helper in this library funnels through here.
func Do(ctx context.Context, rc *Context, method, path string, params Params) (*Result, error) {
	return rc.executorOrDefault().Do(ctx, rc, method, path, params)
}

// DoAsync is the package-level counterpart of Executor.DoAsync.
func DoAsync(ctx context.Context, rc *Context, method, path string, params Params) <-chan Completion {
	return rc.executorOrDefault().DoAsync(ctx, rc, method, path, params)
}

// Do performs one call: resolve auth, build the request, run it, normalize
// the response. On a status of 400 or higher both the Result and a
// RequestError come back, so the failure body stays available. Exactly one
// HTTP request reaches the server per call; nothing is retried.
func (e *Executor) Do(ctx context.Context, rc *Context, method, path string, params Params) (*Result, error) {
	if err := checkCall(rc, method, path, params); err != nil {
		return nil, err
	}
	// Password contexts establish their session lazily, on the first call.
	// The login endpoint itself is exempt so explicit logins stay possible.
	if creds, ok := rc.auth.(passwordAuth); ok && rc.Session() == "" && path != loginPath {
		if err := e.ensureSession(ctx, rc, creds); err != nil {
			return nil, err
		}
	}
	return e.perform(ctx, rc, method, path, params)
}

// Completion delivers the outcome of an asynchronous call.
type Completion struct {
	Result *Result
	Err    error
}

// DoAsync runs Do on its own goroutine. The returned channel is buffered,
// receives exactly one Completion and is then closed, so an abandoned call
// leaks nothing.
func (e *Executor) DoAsync(ctx context.Context, rc *Context, method, path string, params Params) <-chan Completion {
	ch := make(chan Completion, 1)
	go func() {
		defer close(ch)
		res, err := e.Do(ctx, rc, method, path, params)
		ch <- Completion{Result: res, Err: err}
	}()
	return ch
}

func checkCall(rc *Context, method, path string, params Params) error {
	if rc == nil {
		return newConfigurationError("nil request context", nil)
	}
	switch method {
	case http.MethodGet, http.MethodDelete:
		if params.hasFiles() {
			return newConfigurationError("file parameters require POST or PUT", nil)
		}
	case http.MethodPost, http.MethodPut:
	default:
		return newConfigurationError("unsupported method "+method, nil)
	}
	if !strings.HasPrefix(path, "/") {
		return newConfigurationError("path must start with a slash", nil)
	}
	return nil
}

// ensureSession logs the Context in at most once. Concurrent first calls
// collapse onto a single login; everyone waits for it and then proceeds
// with the shared session.
func (e *Executor) ensureSession(ctx context.Context, rc *Context, creds passwordAuth) error {
	_, err, _ := rc.loginGroup.Do("login", func() (any, error) {
		if rc.Session() != "" {
			return nil, nil
		}
		_, err := e.perform(ctx, rc, http.MethodPost, loginPath, Params{
			"username": String(creds.username),
			"password": String(creds.password),
		})
		return nil, err
	})
	if err != nil {
		log.WithError(err).Debugf("transparent login failed for %s", rc)
	}
	return err
}

func (e *Executor) perform(ctx context.Context, rc *Context, method, path string, params Params) (*Result, error) {
	reqURL := rc.host + path

	var body io.Reader
	contentType := ""
	switch method {
	case http.MethodGet, http.MethodDelete:
		if q := params.urlValues().Encode(); q != "" {
			reqURL += "?" + q
		}
	case http.MethodPost, http.MethodPut:
		if params.hasFiles() {
			body, contentType = params.multipartReader()
		} else {
			body = strings.NewReader(params.urlValues().Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, newConfigurationError("build request for "+reqURL, err)
	}
	e.applyHeaders(req, rc, contentType)

	id := uuid.NewString()[:8]
	start := time.Now()
	log.Debugf("[%s] %s %s", id, method, path)

	resp, err := e.clientFor(rc).Do(req)
	if err != nil {
		log.WithError(err).Debugf("[%s] transport failure after %s", id, time.Since(start).Round(time.Millisecond))
		return nil, &TransportError{Err: err}
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	data, err := io.ReadAll(reader)
	if errClose := reader.Close(); errClose != nil {
		log.WithError(errClose).Debugf("[%s] response body close failed", id)
	}
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	rc.adoptCookies(resp.Cookies())

	log.Debugf("[%s] %d in %s (%d bytes)", id, resp.StatusCode, time.Since(start).Round(time.Millisecond), len(data))

	raw := &Raw{StatusCode: resp.StatusCode, Status: resp.Status, Header: resp.Header}
	bodyVal, perr := parseBody(resp.Header.Get("Content-Type"), data)
	res := &Result{Body: bodyVal, Raw: raw}

	if resp.StatusCode >= 400 {
		return res, &RequestError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}
	if perr != nil {
		return res, perr
	}
	return res, nil
}

func (e *Executor) applyHeaders(req *http.Request, rc *Context, contentType string) {
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)
	req.Header.Set("Referer", rc.referer)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, value := range rc.headers {
		req.Header.Set(name, value)
	}
	if rc.hostHeader != "" {
		req.Host = rc.hostHeader
	}
	for _, ck := range rc.sessionCookies() {
		req.AddCookie(ck)
	}
	if b, ok := rc.auth.(bearerAuth); ok {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
}

func (e *Executor) clientFor(rc *Context) *http.Client {
	if rc.insecure {
		return e.insecureClient
	}
	return e.client
}

// serverMessage pulls the msg field out of a platform error body, falling
// back to the trimmed raw text.
func serverMessage(data []byte) string {
	if m := gjson.GetBytes(data, "msg"); m.Exists() {
		return m.String()
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	return s
}
