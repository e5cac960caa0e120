package auth

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

func TestLoginAdoptsIssuedSession(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		r.ParseForm()
		form = r.PostForm
		http.SetCookie(w, &http.Cookie{Name: rest.SessionCookieName, Value: "sess-jdoe", Path: "/"})
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	require.NoError(t, Login(context.Background(), rc, "jdoe", "hunter2"))
	assert.Equal(t, "jdoe", form.Get("username"))
	assert.Equal(t, "hunter2", form.Get("password"))
	assert.Equal(t, "sess-jdoe", rc.Session(), "the issued session must land in the context")
}

func TestUserExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/exists/jdoe":
			w.WriteHeader(http.StatusOK)
		case "/api/auth/exists/free":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"code":404,"msg":"No user could be found"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	taken, err := UserExists(context.Background(), rc, "jdoe")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = UserExists(context.Background(), rc, "free")
	require.NoError(t, err, "a 404 means the username is free, not that the call failed")
	assert.False(t, taken)

	_, err = UserExists(context.Background(), rc, "boom")
	assert.Equal(t, 500, rest.StatusOf(err))
}

func TestPasswordManagement(t *testing.T) {
	type call struct {
		method, path string
		form         url.Values
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		calls = append(calls, call{r.Method, r.URL.Path, r.PostForm})
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	require.NoError(t, ChangePassword(context.Background(), rc, "u:cam:abc123", "old", "new"))
	require.NoError(t, ResetPasswordSecret(context.Background(), rc, "jdoe"))
	require.NoError(t, ResetPassword(context.Background(), rc, "jdoe", "s3cret", "new"))

	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/api/user/u:cam:abc123/password", calls[0].path)
	assert.Equal(t, "old", calls[0].form.Get("oldPassword"))
	assert.Equal(t, "new", calls[0].form.Get("newPassword"))

	assert.Equal(t, http.MethodGet, calls[1].method)
	assert.Equal(t, "/api/auth/local/reset/secret/jdoe", calls[1].path)

	assert.Equal(t, "/api/auth/local/reset/password/jdoe", calls[2].path)
	assert.Equal(t, "s3cret", calls[2].form.Get("secret"))
}
