// Package tenant binds the tenant endpoints. Reading the current tenant
// works everywhere; creating, updating, starting and stopping tenants are
// global admin server operations.
package tenant

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Tenant describes one tenant of the installation.
type Tenant struct {
	Alias               string `json:"alias"`
	DisplayName         string `json:"displayName"`
	Host                string `json:"host"`
	CountryCode         string `json:"countryCode"`
	Active              bool   `json:"active"`
	IsGlobalAdminServer bool   `json:"isGlobalAdminServer"`
}

// GetTenant returns the tenant the Context points at.
func GetTenant(ctx context.Context, rc *rest.Context) (*Tenant, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/tenant", nil)
	if err != nil {
		return nil, err
	}
	var t Tenant
	if err := res.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenantByAlias returns one tenant by alias, through the global admin
// server.
func GetTenantByAlias(ctx context.Context, rc *rest.Context, alias string) (*Tenant, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/tenant/"+url.PathEscape(alias), nil)
	if err != nil {
		return nil, err
	}
	var t Tenant
	if err := res.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenants lists every tenant of the installation, keyed by alias.
func GetTenants(ctx context.Context, rc *rest.Context) (map[string]Tenant, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/tenants", nil)
	if err != nil {
		return nil, err
	}
	out := map[string]Tenant{}
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTenantOpts carries the optional fields of CreateTenant.
type CreateTenantOpts struct {
	CountryCode  string
	EmailDomains []string
}

// CreateTenant provisions a new tenant on the installation.
func CreateTenant(ctx context.Context, rc *rest.Context, alias, displayName, host string, opts *CreateTenantOpts) (*Tenant, error) {
	params := rest.Params{
		"alias":       rest.String(alias),
		"displayName": rest.String(displayName),
		"host":        rest.String(host),
	}
	if opts != nil {
		params["countryCode"] = rest.OptString(opts.CountryCode)
		params["emailDomains"] = rest.OptStrings(opts.EmailDomains)
	}
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/tenant/create", params)
	if err != nil {
		return nil, err
	}
	var t Tenant
	if err := res.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTenant applies field updates (displayName, host, countryCode) to a
// tenant by alias.
func UpdateTenant(ctx context.Context, rc *rest.Context, alias string, updates map[string]string) error {
	params := rest.Params{}
	for k, v := range updates {
		params[k] = rest.String(v)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/tenant/"+url.PathEscape(alias), params)
	return err
}

// Start makes the listed tenants serve traffic again.
func Start(ctx context.Context, rc *rest.Context, aliases []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/tenant/start", rest.Params{
		"aliases": rest.Strings(aliases),
	})
	return err
}

// Stop takes the listed tenants offline.
func Stop(ctx context.Context, rc *rest.Context, aliases []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/tenant/stop", rest.Params{
		"aliases": rest.Strings(aliases),
	})
	return err
}
