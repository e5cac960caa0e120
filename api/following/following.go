// Package following binds the follow/unfollow endpoints and the follower
// and following listings.
package following

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Principal is the summary the follower listings return.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Visibility  string `json:"visibility"`
	ProfilePath string `json:"profilePath"`
}

// List is a page of principals.
type List struct {
	Results   []Principal `json:"results"`
	NextToken string      `json:"nextToken"`
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

// Follow subscribes the current user to userID's public activity.
func Follow(ctx context.Context, rc *rest.Context, userID string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/following/"+url.PathEscape(userID)+"/follow", nil)
	return err
}

// Unfollow removes the subscription.
func Unfollow(ctx context.Context, rc *rest.Context, userID string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/following/"+url.PathEscape(userID)+"/unfollow", nil)
	return err
}

// Followers lists who follows userID.
func Followers(ctx context.Context, rc *rest.Context, userID string, opts *ListOpts) (*List, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/following/"+url.PathEscape(userID)+"/followers", opts.params())
	if err != nil {
		return nil, err
	}
	var list List
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Following lists who userID follows.
func Following(ctx context.Context, rc *rest.Context, userID string, opts *ListOpts) (*List, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/following/"+url.PathEscape(userID)+"/following", opts.params())
	if err != nil {
		return nil, err
	}
	var list List
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}
