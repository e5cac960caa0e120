// Package content binds the content endpoints: links, files, collaborative
// documents, revisions, sharing and comments.
package content

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stuartf/oae-rest/rest"
)

// Tenant is the tenant summary embedded in content profiles.
type Tenant struct {
	Alias       string `json:"alias"`
	DisplayName string `json:"displayName"`
}

// Content is a content item profile. ResourceSubType is one of "file",
// "link" or "collabdoc"; the Mime, Size, Filename and Link fields are
// populated according to it.
type Content struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	Description      string `json:"description"`
	Visibility       string `json:"visibility"`
	ResourceSubType  string `json:"resourceSubType"`
	Mime             string `json:"mime"`
	Size             int64  `json:"size"`
	Filename         string `json:"filename"`
	Link             string `json:"link"`
	LatestRevisionID string `json:"latestRevisionId"`
	ProfilePath      string `json:"profilePath"`
	DownloadPath     string `json:"downloadPath"`
	CreatedBy        string `json:"createdBy"`
	Created          int64  `json:"created"`
	LastModified     int64  `json:"lastModified"`
	Tenant           Tenant `json:"tenant"`
}

// Revision is one stored version of a file or collaborative document.
type Revision struct {
	RevisionID   string `json:"revisionId"`
	ContentID    string `json:"contentId"`
	Filename     string `json:"filename"`
	Mime         string `json:"mime"`
	Size         int64  `json:"size"`
	CreatedBy    string `json:"createdBy"`
	Created      int64  `json:"created"`
	DownloadPath string `json:"downloadPath"`
}

// RevisionsList is a page of revisions, newest first.
type RevisionsList struct {
	Results   []Revision `json:"results"`
	NextToken string     `json:"nextToken"`
}

// Author is the principal summary attached to a comment.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Visibility  string `json:"visibility"`
	ProfilePath string `json:"profilePath"`
}

// Comment is one message on a content item. Created doubles as the
// message id in delete calls.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedBy Author `json:"createdBy"`
	Created   int64  `json:"created"`
	Level     int    `json:"level"`
	ReplyTo   int64  `json:"replyTo"`
	ThreadKey string `json:"threadKey"`
}

// CommentsList is a page of comments.
type CommentsList struct {
	Results   []Comment `json:"results"`
	NextToken string    `json:"nextToken"`
}

// LibraryList is a page of a principal's content library.
type LibraryList struct {
	Results   []Content `json:"results"`
	NextToken string    `json:"nextToken"`
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

// CreateOpts carries the shared optional fields of the create calls:
// description, initial role grants and target folders.
type CreateOpts struct {
	Description string
	Managers    []string
	Viewers     []string
	Folders     []string
}

func (o *CreateOpts) fill(params rest.Params) {
	if o == nil {
		return
	}
	params["description"] = rest.OptString(o.Description)
	params["managers"] = rest.OptStrings(o.Managers)
	params["viewers"] = rest.OptStrings(o.Viewers)
	params["folders"] = rest.OptStrings(o.Folders)
}

func decodeContent(res *rest.Result) (*Content, error) {
	var c Content
	if err := res.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateLink creates a link item pointing at an external URL.
func CreateLink(ctx context.Context, rc *rest.Context, displayName, visibility, link string, opts *CreateOpts) (*Content, error) {
	params := rest.Params{
		"resourceSubType": rest.String("link"),
		"displayName":     rest.String(displayName),
		"visibility":      rest.OptString(visibility),
		"link":            rest.String(link),
	}
	opts.fill(params)
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/create", params)
	if err != nil {
		return nil, err
	}
	return decodeContent(res)
}

// CreateFile uploads a new file item. The file bytes stream straight from
// the reader into the request body.
func CreateFile(ctx context.Context, rc *rest.Context, displayName, visibility, filename string, file io.Reader, opts *CreateOpts) (*Content, error) {
	params := rest.Params{
		"resourceSubType": rest.String("file"),
		"displayName":     rest.String(displayName),
		"visibility":      rest.OptString(visibility),
		"file":            rest.File(filename, file),
	}
	opts.fill(params)
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/create", params)
	if err != nil {
		return nil, err
	}
	return decodeContent(res)
}

// CreateCollabDoc creates an empty collaborative document.
func CreateCollabDoc(ctx context.Context, rc *rest.Context, displayName, visibility string, opts *CreateOpts) (*Content, error) {
	params := rest.Params{
		"resourceSubType": rest.String("collabdoc"),
		"displayName":     rest.String(displayName),
		"visibility":      rest.OptString(visibility),
	}
	opts.fill(params)
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/create", params)
	if err != nil {
		return nil, err
	}
	return decodeContent(res)
}

// GetContent fetches a content profile by id.
func GetContent(ctx context.Context, rc *rest.Context, contentID string) (*Content, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/content/"+url.PathEscape(contentID), nil)
	if err != nil {
		return nil, err
	}
	return decodeContent(res)
}

// UpdateContent applies profile field updates (displayName, description,
// visibility, link) and returns the updated profile.
func UpdateContent(ctx context.Context, rc *rest.Context, contentID string, updates map[string]string) (*Content, error) {
	params := rest.Params{}
	for k, v := range updates {
		params[k] = rest.String(v)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/"+url.PathEscape(contentID), params)
	if err != nil {
		return nil, err
	}
	return decodeContent(res)
}

// DeleteContent removes a content item.
func DeleteContent(ctx context.Context, rc *rest.Context, contentID string) error {
	_, err := rest.Do(ctx, rc, http.MethodDelete, "/api/content/"+url.PathEscape(contentID), nil)
	return err
}

// Share gives the listed principals viewer access.
func Share(ctx context.Context, rc *rest.Context, contentID string, viewers []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/"+url.PathEscape(contentID)+"/share", rest.Params{
		"viewers": rest.Strings(viewers),
	})
	return err
}

// SetPermissions changes roles in bulk. The map goes from principal id to
// "manager", "viewer", or "false" to remove the principal.
func SetPermissions(ctx context.Context, rc *rest.Context, contentID string, roles map[string]string) error {
	params := rest.Params{}
	for principalID, role := range roles {
		params[principalID] = rest.String(role)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/"+url.PathEscape(contentID)+"/members", params)
	return err
}

// Library lists the content library of a principal.
func Library(ctx context.Context, rc *rest.Context, principalID string, opts *ListOpts) (*LibraryList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/content/library/"+url.PathEscape(principalID), opts.params())
	if err != nil {
		return nil, err
	}
	var list LibraryList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Download fetches the latest revision's bytes. The server redirects to
// the backing store; the redirect is followed and the final body returned.
func Download(ctx context.Context, rc *rest.Context, contentID string) ([]byte, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/content/"+url.PathEscape(contentID)+"/download", nil)
	if err != nil {
		return nil, err
	}
	return res.Bytes(), nil
}

// DownloadRevision fetches the bytes of a specific revision.
func DownloadRevision(ctx context.Context, rc *rest.Context, contentID, revisionID string) ([]byte, error) {
	path := "/api/content/" + url.PathEscape(contentID) + "/revisions/" + url.PathEscape(revisionID) + "/download"
	res, err := rest.Do(ctx, rc, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return res.Bytes(), nil
}

// Revisions lists the stored revisions of a file or collaborative document.
func Revisions(ctx context.Context, rc *rest.Context, contentID string, opts *ListOpts) (*RevisionsList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/content/"+url.PathEscape(contentID)+"/revisions", opts.params())
	if err != nil {
		return nil, err
	}
	var list RevisionsList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// RestoreRevision makes an older revision the latest one.
func RestoreRevision(ctx context.Context, rc *rest.Context, contentID, revisionID string) error {
	path := "/api/content/" + url.PathEscape(contentID) + "/revisions/" + url.PathEscape(revisionID) + "/restore"
	_, err := rest.Do(ctx, rc, http.MethodPost, path, nil)
	return err
}

// UpdateFileBody uploads a new version of a file item, streaming like
// CreateFile, and returns the updated profile.
func UpdateFileBody(ctx context.Context, rc *rest.Context, contentID, filename string, file io.Reader) (*Content, error) {
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/"+url.PathEscape(contentID)+"/newversion", rest.Params{
		"file": rest.File(filename, file),
	})
	if err != nil {
		return nil, err
	}
	return decodeContent(res)
}

// CreateComment posts a comment. replyTo is the Created timestamp of the
// parent comment, or zero for a top-level one.
func CreateComment(ctx context.Context, rc *rest.Context, contentID, body string, replyTo int64) (*Comment, error) {
	params := rest.Params{
		"body": rest.String(body),
	}
	if replyTo != 0 {
		params["replyTo"] = rest.Int64(replyTo)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/content/"+url.PathEscape(contentID)+"/messages", params)
	if err != nil {
		return nil, err
	}
	var c Comment
	if err := res.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Comments lists the comments on a content item.
func Comments(ctx context.Context, rc *rest.Context, contentID string, opts *ListOpts) (*CommentsList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/content/"+url.PathEscape(contentID)+"/messages", opts.params())
	if err != nil {
		return nil, err
	}
	var list CommentsList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteComment removes a comment by its Created timestamp, which is the
// message id on the wire.
func DeleteComment(ctx context.Context, rc *rest.Context, contentID string, created int64) error {
	path := "/api/content/" + url.PathEscape(contentID) + "/messages/" + strconv.FormatInt(created, 10)
	_, err := rest.Do(ctx, rc, http.MethodDelete, path, nil)
	return err
}
