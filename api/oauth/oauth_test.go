package oauth

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

func TestClientLifecycle(t *testing.T) {
	type call struct {
		method, path string
		form         url.Values
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		calls = append(calls, call{r.Method, r.URL.Path, r.PostForm})
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth/oauth/clients/u:cam:abc123":
			fmt.Fprintf(w, `{"id":"client-1","displayName":%q,"secret":"s3cret"}`, r.PostFormValue("displayName"))
		case r.Method == http.MethodGet:
			fmt.Fprint(w, `{"results":[{"id":"client-1","displayName":"Harvester","secret":"s3cret"}]}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	c, err := CreateClient(context.Background(), rc, "u:cam:abc123", "Harvester")
	require.NoError(t, err)
	assert.Equal(t, "client-1", c.ID)
	assert.Equal(t, "s3cret", c.Secret, "the secret is only ever shown here")

	list, err := GetClients(context.Background(), rc, "u:cam:abc123")
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Harvester", list.Results[0].DisplayName)

	require.NoError(t, UpdateClient(context.Background(), rc, "u:cam:abc123", "client-1", "Harvester v2", "newsecret"))
	require.NoError(t, DeleteClient(context.Background(), rc, "u:cam:abc123", "client-1"))

	require.Len(t, calls, 4)
	assert.Equal(t, "/api/auth/oauth/clients/u:cam:abc123/client-1", calls[2].path)
	assert.Equal(t, "Harvester v2", calls[2].form.Get("displayName"))
	assert.Equal(t, http.MethodDelete, calls[3].method)
	assert.Equal(t, "/api/auth/oauth/clients/u:cam:abc123/client-1", calls[3].path)
}

func TestBearerContextExchangesCredentials(t *testing.T) {
	var tokenForm url.Values
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/oauth/v2/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		tokenForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"u:cam:abc123"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rc, err := BearerContext(context.Background(), srv.URL, "client-1", "s3cret")
	require.NoError(t, err)

	_, err = rest.Do(context.Background(), rc, http.MethodGet, "/api/me", nil)
	require.NoError(t, err)

	assert.Equal(t, "client_credentials", tokenForm.Get("grant_type"))
	assert.Equal(t, "client-1", tokenForm.Get("client_id"))
	assert.Equal(t, "s3cret", tokenForm.Get("client_secret"))
	assert.Equal(t, "Bearer at-123", gotAuth)
}
