// Package search binds the search endpoints.
package search

import (
	"context"
	"net/http"

	"github.com/stuartf/oae-rest/rest"
)

// Doc is one search hit. Only the summary fields shared by all resource
// types are typed.
type Doc struct {
	ID           string `json:"id"`
	ResourceType string `json:"resourceType"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	Visibility   string `json:"visibility"`
	ProfilePath  string `json:"profilePath"`
	TenantAlias  string `json:"tenantAlias"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Mime         string `json:"mime"`
}

// Results is a search response page.
type Results struct {
	Total   int64 `json:"total"`
	Results []Doc `json:"results"`
}

// Opts refines a search. ResourceTypes narrows hits to the listed types
// ("user", "group", "content", "discussion", "folder"); Scope is one of
// the platform's scopes such as "_all", "_network" or a tenant alias.
type Opts struct {
	Query         string
	Start         int
	Limit         int
	Sort          string
	ResourceTypes []string
	Scope         string
}

// Search runs a named search. The common searchType is "general"; scoped
// searches carry their target in extra path segments, for example
// "followers/"+url.PathEscape(userID), so searchType lands in the URL
// verbatim.
func Search(ctx context.Context, rc *rest.Context, searchType string, opts *Opts) (*Results, error) {
	params := rest.Params{}
	if opts != nil {
		params["q"] = rest.OptString(opts.Query)
		params["start"] = rest.OptInt(opts.Start)
		params["limit"] = rest.OptInt(opts.Limit)
		params["sort"] = rest.OptString(opts.Sort)
		params["resourceTypes"] = rest.OptStrings(opts.ResourceTypes)
		params["scope"] = rest.OptString(opts.Scope)
	}
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/search/"+searchType, params)
	if err != nil {
		return nil, err
	}
	var out Results
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// General is Search("general", ...) with just a query string.
func General(ctx context.Context, rc *rest.Context, query string) (*Results, error) {
	return Search(ctx, rc, "general", &Opts{Query: query})
}

// ReindexAll rebuilds the whole search index. Global admin only.
func ReindexAll(ctx context.Context, rc *rest.Context) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/search/reindexAll", nil)
	return err
}
