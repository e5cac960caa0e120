// Package user binds the user endpoints: the current principal, profile
// CRUD, memberships and profile pictures.
package user

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Tenant is the tenant summary embedded in principal profiles.
type Tenant struct {
	Alias       string `json:"alias"`
	DisplayName string `json:"displayName"`
}

// Picture holds the download paths of a principal's profile picture sizes.
type Picture struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// User is a user profile as the API returns it. The anonymous and admin
// flags are only present on the /api/me shape.
type User struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"displayName"`
	Visibility    string  `json:"visibility"`
	Email         string  `json:"email"`
	Locale        string  `json:"locale"`
	Timezone      string  `json:"timezone"`
	PublicAlias   string  `json:"publicAlias"`
	ProfilePath   string  `json:"profilePath"`
	ResourceType  string  `json:"resourceType"`
	AcceptedTC    int64   `json:"acceptedTC"`
	LastModified  int64   `json:"lastModified"`
	Picture       Picture `json:"picture"`
	Tenant        Tenant  `json:"tenant"`
	Anonymous     bool    `json:"anon"`
	IsTenantAdmin bool    `json:"isTenantAdmin"`
	IsGlobalAdmin bool    `json:"isGlobalAdmin"`
}

// Membership is one entry of a user's memberships library.
type Membership struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Visibility   string `json:"visibility"`
	ResourceType string `json:"resourceType"`
	ProfilePath  string `json:"profilePath"`
	Tenant       Tenant `json:"tenant"`
}

// MembershipsList is a page of memberships plus the token for the next one.
type MembershipsList struct {
	Results   []Membership `json:"results"`
	NextToken string       `json:"nextToken"`
}

// ListOpts pages a library-style listing.
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

// Me returns the profile of the current principal. For anonymous Contexts
// the Anonymous flag is set and the rest of the profile is sparse.
func Me(ctx context.Context, rc *rest.Context) (*User, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/me", nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := res.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUserOpts carries the optional profile fields of CreateUser.
type CreateUserOpts struct {
	Email           string
	Locale          string
	Timezone        string
	PublicAlias     string
	AcceptedTC      bool
	InvitationToken string
	EmailPreference string
}

// CreateUser provisions a local user account on the tenant. Anonymous
// creation is allowed when the tenant permits sign-up; otherwise the
// Context must be a tenant admin.
func CreateUser(ctx context.Context, rc *rest.Context, username, password, displayName, visibility string, opts *CreateUserOpts) (*User, error) {
	params := rest.Params{
		"username":    rest.String(username),
		"password":    rest.String(password),
		"displayName": rest.String(displayName),
		"visibility":  rest.OptString(visibility),
	}
	if opts != nil {
		params["email"] = rest.OptString(opts.Email)
		params["locale"] = rest.OptString(opts.Locale)
		params["timezone"] = rest.OptString(opts.Timezone)
		params["publicAlias"] = rest.OptString(opts.PublicAlias)
		params["invitationToken"] = rest.OptString(opts.InvitationToken)
		params["emailPreference"] = rest.OptString(opts.EmailPreference)
		if opts.AcceptedTC {
			params["acceptedTC"] = rest.Bool(true)
		}
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/user/create", params)
	if err != nil {
		return nil, err
	}
	var u User
	if err := res.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user profile by principal id.
func GetUser(ctx context.Context, rc *rest.Context, userID string) (*User, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/user/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := res.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies profile field updates (displayName, visibility, email,
// publicAlias, locale and so on) and returns the updated profile.
func UpdateUser(ctx context.Context, rc *rest.Context, userID string, updates map[string]string) (*User, error) {
	params := rest.Params{}
	for k, v := range updates {
		params[k] = rest.String(v)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/user/"+url.PathEscape(userID), params)
	if err != nil {
		return nil, err
	}
	var u User
	if err := res.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user. Only admins can delete other principals.
func DeleteUser(ctx context.Context, rc *rest.Context, userID string) error {
	_, err := rest.Do(ctx, rc, http.MethodDelete, "/api/user/"+url.PathEscape(userID), nil)
	return err
}

// Memberships lists the groups the user is a direct or indirect member of.
func Memberships(ctx context.Context, rc *rest.Context, userID string, opts *ListOpts) (*MembershipsList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/user/"+url.PathEscape(userID)+"/memberships", opts.params())
	if err != nil {
		return nil, err
	}
	var list MembershipsList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UploadPicture streams a new profile picture for the user.
func UploadPicture(ctx context.Context, rc *rest.Context, userID, filename string, file io.Reader) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/user/"+url.PathEscape(userID)+"/picture", rest.Params{
		"file": rest.File(filename, file),
	})
	return err
}

// CropPicture selects the square region of the uploaded picture that the
// resized profile pictures are generated from.
func CropPicture(ctx context.Context, rc *rest.Context, userID string, x, y, width int) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/crop", rest.Params{
		"principalId": rest.String(userID),
		"x":           rest.Int(x),
		"y":           rest.Int(y),
		"width":       rest.Int(width),
	})
	return err
}

// SetTenantAdmin grants or revokes tenant admin rights on a user. The
// Context must be an admin of the user's tenant.
func SetTenantAdmin(ctx context.Context, rc *rest.Context, userID string, admin bool) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/user/"+url.PathEscape(userID)+"/admin", rest.Params{
		"admin": rest.Bool(admin),
	})
	return err
}
