// Package group binds the group endpoints: create, profile, membership and
// joining.
package group

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Tenant is the tenant summary embedded in group profiles.
type Tenant struct {
	Alias       string `json:"alias"`
	DisplayName string `json:"displayName"`
}

// Group is a group profile as the API returns it. Joinable is one of
// "yes", "no" or "request".
type Group struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	Visibility   string `json:"visibility"`
	Joinable     string `json:"joinable"`
	ResourceType string `json:"resourceType"`
	ProfilePath  string `json:"profilePath"`
	CreatedBy    string `json:"createdBy"`
	Created      int64  `json:"created"`
	LastModified int64  `json:"lastModified"`
	Tenant       Tenant `json:"tenant"`
}

// Member is one membership entry: the principal plus its role.
type Member struct {
	Profile struct {
		ID           string `json:"id"`
		DisplayName  string `json:"displayName"`
		Visibility   string `json:"visibility"`
		ResourceType string `json:"resourceType"`
	} `json:"profile"`
	Role string `json:"role"`
}

// MembersList is a page of members plus the token for the next one.
type MembersList struct {
	Results   []Member `json:"results"`
	NextToken string   `json:"nextToken"`
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

// CreateGroupOpts carries the optional fields of CreateGroup.
type CreateGroupOpts struct {
	Description string
	Joinable    string
	Managers    []string
	Members     []string
}

// CreateGroup creates a group owned by the current user. Managers and
// members are principal ids granted those roles at creation time.
func CreateGroup(ctx context.Context, rc *rest.Context, displayName, visibility string, opts *CreateGroupOpts) (*Group, error) {
	params := rest.Params{
		"displayName": rest.String(displayName),
		"visibility":  rest.OptString(visibility),
	}
	if opts != nil {
		params["description"] = rest.OptString(opts.Description)
		params["joinable"] = rest.OptString(opts.Joinable)
		params["managers"] = rest.OptStrings(opts.Managers)
		params["members"] = rest.OptStrings(opts.Members)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/group/create", params)
	if err != nil {
		return nil, err
	}
	var g Group
	if err := res.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGroup fetches a group profile by id.
func GetGroup(ctx context.Context, rc *rest.Context, groupID string) (*Group, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/group/"+url.PathEscape(groupID), nil)
	if err != nil {
		return nil, err
	}
	var g Group
	if err := res.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGroup applies profile field updates (displayName, description,
// visibility, joinable) and returns the updated profile.
func UpdateGroup(ctx context.Context, rc *rest.Context, groupID string, updates map[string]string) (*Group, error) {
	params := rest.Params{}
	for k, v := range updates {
		params[k] = rest.String(v)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/group/"+url.PathEscape(groupID), params)
	if err != nil {
		return nil, err
	}
	var g Group
	if err := res.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Members lists the direct members of the group with their roles.
func Members(ctx context.Context, rc *rest.Context, groupID string, opts *ListOpts) (*MembersList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/group/"+url.PathEscape(groupID)+"/members", opts.params())
	if err != nil {
		return nil, err
	}
	var list MembersList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SetMembers changes member roles in bulk. The map goes from principal id
// to "manager", "member", or "false" to remove the principal.
func SetMembers(ctx context.Context, rc *rest.Context, groupID string, roles map[string]string) error {
	params := rest.Params{}
	for principalID, role := range roles {
		params[principalID] = rest.String(role)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/group/"+url.PathEscape(groupID)+"/members", params)
	return err
}

// Join adds the current user to a joinable group.
func Join(ctx context.Context, rc *rest.Context, groupID string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/group/"+url.PathEscape(groupID)+"/join", nil)
	return err
}

// Leave removes the current user from the group.
func Leave(ctx context.Context, rc *rest.Context, groupID string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/group/"+url.PathEscape(groupID)+"/leave", nil)
	return err
}

// UploadPicture streams a new group picture.
func UploadPicture(ctx context.Context, rc *rest.Context, groupID, filename string, file io.Reader) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/group/"+url.PathEscape(groupID)+"/picture", rest.Params{
		"file": rest.File(filename, file),
	})
	return err
}
