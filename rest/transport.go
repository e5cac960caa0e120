package rest

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	log "github.com/stuartf/oae-rest/internal/logging"
)

const (
	dialTimeout         = 10 * time.Second
	dialKeepAlive       = 30 * time.Second
	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second

	http2ReadIdleTimeout = 30 * time.Second
	http2PingTimeout     = 15 * time.Second
)

// sharedTransport backs every Executor unless a custom round tripper is
// installed. One transport per process keeps connection reuse effective
// across Contexts that talk to the same tenant.
var sharedTransport = newTransport(false)

// insecureTransport is sharedTransport with certificate verification turned
// off, used by Contexts built with WithInsecureTLS.
var insecureTransport = newTransport(true)

func newTransport(insecure bool) *http.Transport {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: dialKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	configureHTTP2(t)
	return t
}

// configureHTTP2 turns on h2 health-check pings so stale connections get
// dropped instead of swallowing a request.
func configureHTTP2(t *http.Transport) {
	h2, err := http2.ConfigureTransports(t)
	if err != nil {
		log.Warnf("http2 configuration failed, staying on h1: %v", err)
		return
	}
	h2.ReadIdleTimeout = http2ReadIdleTimeout
	h2.PingTimeout = http2PingTimeout
}
