// Package admin binds the administrative endpoints: signed authentication
// into tenants, tenant configuration, and bulk user import.
package admin

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// SignedRequest carries a pre-signed authentication request. URL is the
// absolute endpoint on the target tenant and Body holds the signed form
// parameters to post there.
type SignedRequest struct {
	URL  string            `json:"url"`
	Body map[string]string `json:"body"`
}

// GetSignedTenantAuthenticationRequest asks the global admin server for a
// signed request that authenticates the current admin on the given tenant.
func GetSignedTenantAuthenticationRequest(ctx context.Context, rc *rest.Context, tenantAlias string) (*SignedRequest, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/auth/signed/tenant", rest.Params{
		"tenant": rest.String(tenantAlias),
	})
	if err != nil {
		return nil, err
	}
	var sr SignedRequest
	if err := res.Decode(&sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

// GetSignedBecomeUserAuthenticationRequest asks for a signed request that
// authenticates the current admin as another user on that user's tenant.
func GetSignedBecomeUserAuthenticationRequest(ctx context.Context, rc *rest.Context, becomeUserID string) (*SignedRequest, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/auth/signed/become", rest.Params{
		"becomeUserId": rest.String(becomeUserID),
	})
	if err != nil {
		return nil, err
	}
	var sr SignedRequest
	if err := res.Decode(&sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

// DoSignedAuthentication posts a signed request body on the Context's host.
// The session established by the server lands in the Context, so rc should
// be an anonymous Context pointed at the tenant named in the request.
func DoSignedAuthentication(ctx context.Context, rc *rest.Context, sr *SignedRequest) error {
	params := make(rest.Params, len(sr.Body))
	for k, v := range sr.Body {
		params[k] = rest.String(v)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/auth/signed", params)
	return err
}

// LoginOnTenant authenticates a global admin on the given tenant and
// returns a Context bound to that tenant with the admin session attached.
// Extra options apply to the new Context, not to rc.
func LoginOnTenant(ctx context.Context, rc *rest.Context, tenantAlias string, opts ...rest.ContextOption) (*rest.Context, error) {
	sr, err := GetSignedTenantAuthenticationRequest(ctx, rc, tenantAlias)
	if err != nil {
		return nil, err
	}
	target, err := url.Parse(sr.URL)
	if err != nil {
		return nil, &rest.ConfigurationError{Reason: "invalid signed request url", Err: err}
	}
	tenantRC, err := rest.NewContext(target.Scheme+"://"+target.Host, rest.Anonymous(), opts...)
	if err != nil {
		return nil, err
	}
	if err := DoSignedAuthentication(ctx, tenantRC, sr); err != nil {
		return nil, err
	}
	return tenantRC, nil
}

// GetConfig fetches the effective configuration. With an empty alias the
// current tenant's configuration is returned; admins pass an alias to read
// another tenant's.
func GetConfig(ctx context.Context, rc *rest.Context, tenantAlias string) (map[string]any, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, configPath(tenantAlias), nil)
	if err != nil {
		return nil, err
	}
	var cfg map[string]any
	if err := res.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigSchema fetches the configuration schema.
func GetConfigSchema(ctx context.Context, rc *rest.Context) (map[string]any, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/config/schema", nil)
	if err != nil {
		return nil, err
	}
	var schema map[string]any
	if err := res.Decode(&schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// UpdateConfig sets configuration values, keyed by their full element path
// such as "oae-principals/recaptcha/enabled".
func UpdateConfig(ctx context.Context, rc *rest.Context, tenantAlias string, values map[string]string) error {
	params := make(rest.Params, len(values))
	for k, v := range values {
		params[k] = rest.String(v)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, configPath(tenantAlias), params)
	return err
}

// ClearConfig resets configuration fields back to their defaults.
func ClearConfig(ctx context.Context, rc *rest.Context, tenantAlias string, fields []string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, configPath(tenantAlias)+"/clear", rest.Params{
		"configFields": rest.Strings(fields),
	})
	return err
}

func configPath(tenantAlias string) string {
	if tenantAlias == "" {
		return "/api/config"
	}
	return "/api/config/" + url.PathEscape(tenantAlias)
}

// ImportUsers bulk-creates users on a tenant from a CSV stream. The CSV
// columns follow the authentication strategy's expected layout. When
// forceProfileUpdate is set, existing users get their profile fields
// overwritten from the CSV.
func ImportUsers(ctx context.Context, rc *rest.Context, tenantAlias, authenticationStrategy string, csv io.Reader, forceProfileUpdate bool) error {
	params := rest.Params{
		"tenantAlias":            rest.String(tenantAlias),
		"authenticationStrategy": rest.String(authenticationStrategy),
		"file":                   rest.FileTyped("users.csv", "text/csv", csv),
	}
	if forceProfileUpdate {
		params["forceProfileUpdate"] = rest.Bool(true)
	}
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/user/import", params)
	return err
}
