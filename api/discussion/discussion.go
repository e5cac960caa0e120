// Package discussion binds the discussion endpoints: discussion CRUD,
// sharing and the message board.
package discussion

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stuartf/oae-rest/rest"
)

// Tenant is the tenant summary embedded in discussion profiles.
type Tenant struct {
	Alias       string `json:"alias"`
	DisplayName string `json:"displayName"`
}

// Discussion is a discussion profile as the API returns it.
type Discussion struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	Visibility   string `json:"visibility"`
	ProfilePath  string `json:"profilePath"`
	CreatedBy    string `json:"createdBy"`
	Created      int64  `json:"created"`
	LastModified int64  `json:"lastModified"`
	Tenant       Tenant `json:"tenant"`
}

// Author is the principal summary attached to a message.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Visibility  string `json:"visibility"`
	ProfilePath string `json:"profilePath"`
}

// Message is one entry on a discussion's message board. Created doubles as
// the message id in delete calls.
type Message struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedBy Author `json:"createdBy"`
	Created   int64  `json:"created"`
	Level     int    `json:"level"`
	ReplyTo   int64  `json:"replyTo"`
	ThreadKey string `json:"threadKey"`
}

// MessagesList is a page of messages.
type MessagesList struct {
	Results   []Message `json:"results"`
	NextToken string    `json:"nextToken"`
}

// LibraryList is a page of a principal's discussion library.
type LibraryList struct {
	Results   []Discussion `json:"results"`
	NextToken string       `json:"nextToken"`
}

// ListOpts pages a listing.
type ListOpts struct {
	Start string
	Limit int
}

func (o *ListOpts) params() rest.Params {
	if o == nil {
		return nil
	}
	return rest.Params{
		"start": rest.OptString(o.Start),
		"limit": rest.OptInt(o.Limit),
	}
}

// CreateDiscussionOpts carries the optional fields of CreateDiscussion.
type CreateDiscussionOpts struct {
	Managers []string
	Members  []string
}

func decodeDiscussion(res *rest.Result) (*Discussion, error) {
	var d Discussion
	if err := res.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDiscussion creates a discussion owned by the current user.
func CreateDiscussion(ctx context.Context, rc *rest.Context, displayName, description, visibility string, opts *CreateDiscussionOpts) (*Discussion, error) {
	params := rest.Params{
		"displayName": rest.String(displayName),
		"description": rest.String(description),
		"visibility":  rest.OptString(visibility),
	}
	if opts != nil {
		params["managers"] = rest.OptStrings(opts.Managers)
		params["members"] = rest.OptStrings(opts.Members)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/discussion/create", params)
	if err != nil {
		return nil, err
	}
	return decodeDiscussion(res)
}

// GetDiscussion fetches a discussion profile by id.
func GetDiscussion(ctx context.Context, rc *rest.Context, discussionID string) (*Discussion, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/discussion/"+url.PathEscape(discussionID), nil)
	if err != nil {
		return nil, err
	}
	return decodeDiscussion(res)
}

// UpdateDiscussion applies profile field updates and returns the updated
// profile.
func UpdateDiscussion(ctx context.Context, rc *rest.Context, discussionID string, updates map[string]string) (*Discussion, error) {
	params := rest.Params{}
	for k, v := range updates {
		params[k] = rest.String(v)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/discussion/"+url.PathEscape(discussionID), params)
	if err != nil {
		return nil, err
	}
	return decodeDiscussion(res)
}

// DeleteDiscussion removes a discussion and its message board.
func DeleteDiscussion(ctx context.Context, rc *rest.Context, discussionID string) error {
	_, err := rest.Do(ctx, rc, http.MethodDelete, "/api/discussion/"+url.PathEscape(discussionID), nil)
	return err
}

// Share invites the listed principals as members.
func Share(ctx context.Context, rc *rest.Context, discussionID string, members []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/discussion/"+url.PathEscape(discussionID)+"/share", rest.Params{
		"members": rest.Strings(members),
	})
	return err
}

// SetPermissions changes roles in bulk. The map goes from principal id to
// "manager", "member", or "false" to remove the principal.
func SetPermissions(ctx context.Context, rc *rest.Context, discussionID string, roles map[string]string) error {
	params := rest.Params{}
	for principalID, role := range roles {
		params[principalID] = rest.String(role)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/discussion/"+url.PathEscape(discussionID)+"/members", params)
	return err
}

// Library lists the discussion library of a principal.
func Library(ctx context.Context, rc *rest.Context, principalID string, opts *ListOpts) (*LibraryList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/discussion/library/"+url.PathEscape(principalID), opts.params())
	if err != nil {
		return nil, err
	}
	var list LibraryList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateMessage posts to the message board. replyTo is the Created
// timestamp of the parent message, or zero for a top-level post.
func CreateMessage(ctx context.Context, rc *rest.Context, discussionID, body string, replyTo int64) (*Message, error) {
	params := rest.Params{
		"body": rest.String(body),
	}
	if replyTo != 0 {
		params["replyTo"] = rest.Int64(replyTo)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/discussion/"+url.PathEscape(discussionID)+"/messages", params)
	if err != nil {
		return nil, err
	}
	var m Message
	if err := res.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Messages lists the message board.
func Messages(ctx context.Context, rc *rest.Context, discussionID string, opts *ListOpts) (*MessagesList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/discussion/"+url.PathEscape(discussionID)+"/messages", opts.params())
	if err != nil {
		return nil, err
	}
	var list MessagesList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteMessage removes a message by its Created timestamp.
func DeleteMessage(ctx context.Context, rc *rest.Context, discussionID string, created int64) error {
	path := "/api/discussion/" + url.PathEscape(discussionID) + "/messages/" + strconv.FormatInt(created, 10)
	_, err := rest.Do(ctx, rc, http.MethodDelete, path, nil)
	return err
}
