// Package folders binds the folder endpoints: folder CRUD, sharing and the
// folder's content library.
package folders

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Tenant is the tenant summary embedded in folder profiles.
type Tenant struct {
	Alias       string `json:"alias"`
	DisplayName string `json:"displayName"`
}

// Folder is a folder profile as the API returns it.
type Folder struct {
	ID           string `json:"id"`
	GroupID      string `json:"groupId"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	Visibility   string `json:"visibility"`
	ProfilePath  string `json:"profilePath"`
	CreatedBy    string `json:"createdBy"`
	Created      int64  `json:"created"`
	LastModified int64  `json:"lastModified"`
	Tenant       Tenant `json:"tenant"`
}

// Item is a content entry of a folder library; only the summary fields are
// typed here.
type Item struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	Visibility      string `json:"visibility"`
	ResourceSubType string `json:"resourceSubType"`
	Mime            string `json:"mime"`
	ProfilePath     string `json:"profilePath"`
}

// LibraryList is a page of folder contents.
type LibraryList struct {
	Results   []Item `json:"results"`
	NextToken string `json:"nextToken"`
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

// CreateFolderOpts carries the optional fields of CreateFolder. Leaving
// Managers or Viewers nil keeps those keys off the wire entirely.
type CreateFolderOpts struct {
	Description string
	Managers    []string
	Viewers     []string
}

func decodeFolder(res *rest.Result) (*Folder, error) {
	var f Folder
	if err := res.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFolder creates a folder owned by the current user.
func CreateFolder(ctx context.Context, rc *rest.Context, displayName, visibility string, opts *CreateFolderOpts) (*Folder, error) {
	params := rest.Params{
		"displayName": rest.String(displayName),
		"visibility":  rest.OptString(visibility),
	}
	if opts != nil {
		params["description"] = rest.OptString(opts.Description)
		params["managers"] = rest.OptStrings(opts.Managers)
		params["viewers"] = rest.OptStrings(opts.Viewers)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/folder", params)
	if err != nil {
		return nil, err
	}
	return decodeFolder(res)
}

// GetFolder fetches a folder profile by id.
func GetFolder(ctx context.Context, rc *rest.Context, folderID string) (*Folder, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/folder/"+url.PathEscape(folderID), nil)
	if err != nil {
		return nil, err
	}
	return decodeFolder(res)
}

// UpdateFolder applies profile field updates (displayName, description,
// visibility) and returns the updated profile.
func UpdateFolder(ctx context.Context, rc *rest.Context, folderID string, updates map[string]string) (*Folder, error) {
	params := rest.Params{}
	for k, v := range updates {
		params[k] = rest.String(v)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/folder/"+url.PathEscape(folderID), params)
	if err != nil {
		return nil, err
	}
	return decodeFolder(res)
}

// DeleteFolder removes a folder. The content inside it survives.
func DeleteFolder(ctx context.Context, rc *rest.Context, folderID string) error {
	_, err := rest.Do(ctx, rc, http.MethodDelete, "/api/folder/"+url.PathEscape(folderID), nil)
	return err
}

// Share gives the listed principals viewer access to the folder.
func Share(ctx context.Context, rc *rest.Context, folderID string, viewers []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/folder/"+url.PathEscape(folderID)+"/share", rest.Params{
		"viewers": rest.Strings(viewers),
	})
	return err
}

// SetPermissions changes folder roles in bulk. The map goes from principal
// id to "manager", "viewer", or "false" to remove the principal.
func SetPermissions(ctx context.Context, rc *rest.Context, folderID string, roles map[string]string) error {
	params := rest.Params{}
	for principalID, role := range roles {
		params[principalID] = rest.String(role)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/folder/"+url.PathEscape(folderID)+"/members", params)
	return err
}

// AddContentItems files existing content items into the folder.
func AddContentItems(ctx context.Context, rc *rest.Context, folderID string, contentIDs []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/folder/"+url.PathEscape(folderID)+"/library", rest.Params{
		"contentIds": rest.Strings(contentIDs),
	})
	return err
}

// RemoveContentItems takes content items out of the folder. The ids travel
// as a repeated query key on the DELETE.
func RemoveContentItems(ctx context.Context, rc *rest.Context, folderID string, contentIDs []string) error {
	_, err := rest.Do(ctx, rc, http.MethodDelete, "/api/folder/"+url.PathEscape(folderID)+"/library", rest.Params{
		"contentIds": rest.Strings(contentIDs),
	})
	return err
}

// Library lists the content filed in the folder.
func Library(ctx context.Context, rc *rest.Context, folderID string, opts *ListOpts) (*LibraryList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/folder/"+url.PathEscape(folderID)+"/library", opts.params())
	if err != nil {
		return nil, err
	}
	var list LibraryList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ManagedFolders lists the folders the current user manages.
func ManagedFolders(ctx context.Context, rc *rest.Context) ([]Folder, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/folder/managed", nil)
	if err != nil {
		return nil, err
	}
	var out []Folder
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
