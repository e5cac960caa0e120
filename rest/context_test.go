package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextAcceptsBareHosts(t *testing.T) {
	for _, host := range []string{
		"https://tenant1.oae.example",
		"http://localhost:2001",
		"https://tenant1.oae.example/",
	} {
		t.Run(host, func(t *testing.T) {
			rc, err := NewContext(host, Anonymous())
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(rc.Host(), "/"))
		})
	}
}

func TestNewContextRejectsBadHosts(t *testing.T) {
	cases := []struct {
		name string
		host string
	}{
		{"empty", ""},
		{"no scheme", "tenant1.oae.example"},
		{"wrong scheme", "ftp://tenant1.oae.example"},
		{"with path", "https://tenant1.oae.example/api"},
		{"with query", "https://tenant1.oae.example?x=1"},
		{"scheme only", "https://"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewContext(tc.host, Anonymous())
			require.Error(t, err)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestNewContextTrimsTrailingSlash(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example/", Anonymous())
	require.NoError(t, err)
	assert.Equal(t, "https://tenant1.oae.example", rc.Host())
	assert.Equal(t, "https://tenant1.oae.example/", rc.referer)
}

func TestContextOptions(t *testing.T) {
	ex := NewExecutor()
	rc, err := NewContext("https://tenant1.oae.example", Anonymous(),
		WithHeader("x-oae-bypass", "true"),
		WithReferer("https://other.oae.example/"),
		WithHostHeader("tenant1.oae.example"),
		WithInsecureTLS(),
		WithExecutor(ex),
	)
	require.NoError(t, err)
	assert.Equal(t, "true", rc.headers["x-oae-bypass"])
	assert.Equal(t, "https://other.oae.example/", rc.referer)
	assert.Equal(t, "tenant1.oae.example", rc.hostHeader)
	assert.True(t, rc.insecure)
	assert.Same(t, ex, rc.executorOrDefault())
}

func TestDefaultExecutorIsSharedWhenUnset(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", Anonymous())
	require.NoError(t, err)
	assert.Same(t, DefaultExecutor, rc.executorOrDefault())
}

func TestNilAuthFallsBackToAnonymous(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", nil)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", rc.Auth().mode())
}

func TestSessionTokenModePrefillsSlot(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", SessionToken("s3ss10n"))
	require.NoError(t, err)
	assert.Equal(t, "s3ss10n", rc.Session())
}

func TestAdoptSessionOverwrites(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", Anonymous())
	require.NoError(t, err)
	assert.Equal(t, "", rc.Session())

	rc.AdoptSession("first")
	rc.AdoptSession("second")
	assert.Equal(t, "second", rc.Session())
}

func TestConcurrentAdoptionLandsOnOneWriter(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", Anonymous())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rc.AdoptSession(fmt.Sprintf("token-%d", n))
		}(i)
	}
	wg.Wait()
	assert.Regexp(t, `^token-\d+$`, rc.Session())
}

func TestAdoptCookiesNeverReplacesASession(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", Anonymous())
	require.NoError(t, err)

	// Cookies without a session entry are ignored outright.
	rc.adoptCookies([]*http.Cookie{{Name: "locale", Value: "en_GB"}})
	assert.Equal(t, "", rc.Session())

	rc.adoptCookies([]*http.Cookie{
		{Name: "locale", Value: "en_GB"},
		{Name: SessionCookieName, Value: "from-login"},
	})
	assert.Equal(t, "from-login", rc.Session())

	rc.adoptCookies([]*http.Cookie{{Name: SessionCookieName, Value: "later-login"}})
	assert.Equal(t, "from-login", rc.Session(), "implicit adoption must not clobber an existing session")

	rc.AdoptSession("explicit")
	assert.Equal(t, "explicit", rc.Session(), "explicit adoption always wins")
}

func TestContextStringRedactsCredentials(t *testing.T) {
	rc, err := NewContext("https://tenant1.oae.example", UsernamePassword("jdoe", "hunter2"))
	require.NoError(t, err)
	s := rc.String()
	assert.Contains(t, s, "password")
	assert.NotContains(t, s, "hunter2")
	assert.NotContains(t, s, "jdoe")
}
