package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuartf/oae-rest/rest"
)

func TestCreateFileStreamsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/content/create", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "file", r.FormValue("resourceSubType"))
		assert.Equal(t, "private", r.FormValue("visibility"))
		assert.Equal(t, []string{"f:cam:week3"}, r.MultipartForm.Value["folders"])

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		f.Close()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c:cam:xyz987","displayName":%q,"resourceSubType":"file","filename":%q,"size":%d,"mime":"application/pdf"}`,
			r.FormValue("displayName"), hdr.Filename, len(data))
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	c, err := CreateFile(context.Background(), rc, "Week 3 slides", "private", "week3.pdf",
		strings.NewReader("%PDF-1.4 slides"), &CreateOpts{Folders: []string{"f:cam:week3"}})
	require.NoError(t, err)
	assert.Equal(t, "c:cam:xyz987", c.ID)
	assert.Equal(t, "week3.pdf", c.Filename)
	assert.EqualValues(t, len("%PDF-1.4 slides"), c.Size)
	assert.Equal(t, "application/pdf", c.Mime)
}

func TestCreateLinkIsAPlainForm(t *testing.T) {
	var contentType string
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c:cam:lnk1","resourceSubType":"link","link":"https://go.dev"}`)
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	c, err := CreateLink(context.Background(), rc, "Go", "public", "https://go.dev", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev", c.Link)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType, "no file means no multipart")
	assert.Equal(t, "link", form.Get("resourceSubType"))
	assert.Equal(t, "https://go.dev", form.Get("link"))
}

func TestDownloadReturnsRawBytes(t *testing.T) {
	payload := []byte("%PDF-1.4 entire file body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/content/c:cam:xyz987/download", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	data, err := Download(context.Background(), rc, "c:cam:xyz987")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestCommentsUseTimestampIds(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if r.Method == http.MethodPost {
			r.ParseForm()
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":"c:cam:xyz987#1517234875123","body":%q,"created":1517234875123,"level":1,"replyTo":%s}`,
				r.PostFormValue("body"), r.PostFormValue("replyTo"))
		}
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	cm, err := CreateComment(context.Background(), rc, "c:cam:xyz987", "Nice slides", 1517234870000)
	require.NoError(t, err)
	assert.EqualValues(t, 1517234875123, cm.Created)
	assert.EqualValues(t, 1517234870000, cm.ReplyTo)

	require.NoError(t, DeleteComment(context.Background(), rc, "c:cam:xyz987", cm.Created))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/content/c:cam:xyz987/messages/1517234875123", gotPath,
		"the created timestamp is the message id on the wire")
}

func TestRevisionRestore(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if strings.HasSuffix(r.URL.Path, "/revisions") {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results":[{"revisionId":"rev:cam:2","contentId":"c:cam:xyz987","created":2000},{"revisionId":"rev:cam:1","contentId":"c:cam:xyz987","created":1000}]}`)
		}
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	revs, err := Revisions(context.Background(), rc, "c:cam:xyz987", nil)
	require.NoError(t, err)
	require.Len(t, revs.Results, 2)
	assert.Equal(t, "rev:cam:2", revs.Results[0].RevisionID)

	require.NoError(t, RestoreRevision(context.Background(), rc, "c:cam:xyz987", "rev:cam:1"))
	assert.Equal(t, "/api/content/c:cam:xyz987/revisions/rev:cam:1/restore", gotPath)
}
