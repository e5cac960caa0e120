package tenant

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuartf/oae-rest/rest"
)

func TestGetTenantsDecodesAliasKeyedMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tenants", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"admin":{"alias":"admin","displayName":"Global admin","host":"admin.oae.example.com","active":true,"isGlobalAdminServer":true},"cam":{"alias":"cam","displayName":"Cambridge","host":"cam.oae.example.com","countryCode":"GB","active":true}}`)
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	ts, err := GetTenants(context.Background(), rc)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.True(t, ts["admin"].IsGlobalAdminServer)
	assert.Equal(t, "Cambridge", ts["cam"].DisplayName)
	assert.Equal(t, "GB", ts["cam"].CountryCode)
	assert.False(t, ts["cam"].IsGlobalAdminServer)
}

func TestCreateTenantKeepsUnsetFieldsOffTheWire(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tenant/create", r.URL.Path)
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"alias":"oxford","displayName":"Oxford","host":"oxford.oae.example.com","active":false}`)
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	tn, err := CreateTenant(context.Background(), rc, "oxford", "Oxford", "oxford.oae.example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "oxford", tn.Alias)
	assert.False(t, tn.Active)

	assert.Equal(t, "oxford.oae.example.com", form.Get("host"))
	assert.NotContains(t, form, "countryCode")
	assert.NotContains(t, form, "emailDomains")
}

func TestStartAndStopPostAliasLists(t *testing.T) {
	type call struct {
		path    string
		aliases []string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		calls = append(calls, call{path: r.URL.Path, aliases: r.PostForm["aliases"]})
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	require.NoError(t, Stop(context.Background(), rc, []string{"cam", "oxford"}))
	require.NoError(t, Start(context.Background(), rc, []string{"cam"}))

	require.Len(t, calls, 2)
	assert.Equal(t, "/api/tenant/stop", calls[0].path)
	assert.Equal(t, []string{"cam", "oxford"}, calls[0].aliases)
	assert.Equal(t, "/api/tenant/start", calls[1].path)
	assert.Equal(t, []string{"cam"}, calls[1].aliases)
}
