package discussion

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

func TestCreateDiscussionSendsInitialMembers(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/discussion/create", r.URL.Path)
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"d:cam:seminar","displayName":"Seminar","description":"Weekly seminar","visibility":"loggedin","created":1517234875123}`)
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	d, err := CreateDiscussion(context.Background(), rc, "Seminar", "Weekly seminar", "loggedin", &CreateDiscussionOpts{
		Members: []string{"u:cam:abc123", "g:cam:staff"},
	})
	require.NoError(t, err)
	assert.Equal(t, "d:cam:seminar", d.ID)
	assert.EqualValues(t, 1517234875123, d.Created)

	assert.Equal(t, "Weekly seminar", form.Get("description"))
	assert.Equal(t, []string{"u:cam:abc123", "g:cam:staff"}, form["members"])
	assert.NotContains(t, form, "managers")
}

func TestMessagesDecodeThreading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/discussion/d:cam:seminar/messages", r.URL.Path)
		assert.Equal(t, "limit=10", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"id":"d:cam:seminar#1517234875123","body":"First","created":1517234875123,"level":0,"threadKey":"1517234875123|","createdBy":{"id":"u:cam:abc123","displayName":"Jane Doe"}},{"id":"d:cam:seminar#1517234880000","body":"A reply","created":1517234880000,"level":1,"replyTo":1517234875123,"threadKey":"1517234875123#1517234880000|","createdBy":{"id":"u:cam:def456","displayName":"John Smith"}}],"nextToken":"1517234880000"}`)
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	list, err := Messages(context.Background(), rc, "d:cam:seminar", &ListOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Results, 2)
	reply := list.Results[1]
	assert.Equal(t, 1, reply.Level)
	assert.EqualValues(t, 1517234875123, reply.ReplyTo)
	assert.Equal(t, "John Smith", reply.CreatedBy.DisplayName)
	assert.Equal(t, "1517234880000", list.NextToken)
}

func TestDeleteMessageAddressesByTimestamp(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))
	defer srv.Close()
	rc, err := rest.NewContext(srv.URL, rest.Anonymous())
	require.NoError(t, err)

	require.NoError(t, DeleteMessage(context.Background(), rc, "d:cam:seminar", 1517234875123))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/discussion/d:cam:seminar/messages/1517234875123", gotPath)
}
