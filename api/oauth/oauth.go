// Package oauth binds the OAuth endpoints: per-user client management and
// the token flow that turns a client id and secret into a bearer Context.
package oauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/stuartf/oae-rest/rest"
)

const tokenPath = "/api/auth/oauth/v2/token"

// Client is an OAuth client registered for a user.
type Client struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Secret      string `json:"secret"`
}

// ClientsList holds a user's registered clients.
type ClientsList struct {
	Results []Client `json:"results"`
}

// CreateClient registers an OAuth client for the user and returns it,
// secret included.
func CreateClient(ctx context.Context, rc *rest.Context, userID, displayName string) (*Client, error) {
	res, err := rest.Do(ctx, rc, http.MethodPost, "/api/auth/oauth/clients/"+url.PathEscape(userID), rest.Params{
		"displayName": rest.String(displayName),
	})
	if err != nil {
		return nil, err
	}
	var c Client
	if err := res.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetClients lists the user's registered OAuth clients.
func GetClients(ctx context.Context, rc *rest.Context, userID string) (*ClientsList, error) {
	res, err := rest.Do(ctx, rc, http.MethodGet, "/api/auth/oauth/clients/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var list ClientsList
	if err := res.Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateClient changes a client's display name and secret.
func UpdateClient(ctx context.Context, rc *rest.Context, userID, clientID, displayName, secret string) error {
	path := "/api/auth/oauth/clients/" + url.PathEscape(userID) + "/" + url.PathEscape(clientID)
	_, err := rest.Do(ctx, rc, http.MethodPost, path, rest.Params{
		"displayName": rest.String(displayName),
		"secret":      rest.String(secret),
	})
	return err
}

// DeleteClient revokes a client registration.
func DeleteClient(ctx context.Context, rc *rest.Context, userID, clientID string) error {
	path := "/api/auth/oauth/clients/" + url.PathEscape(userID) + "/" + url.PathEscape(clientID)
	_, err := rest.Do(ctx, rc, http.MethodDelete, path, nil)
	return err
}

// TokenSource returns a renewing token source for the client-credentials
// grant against the tenant's token endpoint.
func TokenSource(ctx context.Context, host, clientID, clientSecret string) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     strings.TrimSuffix(host, "/") + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return cfg.TokenSource(ctx)
}

// Token fetches one access token through TokenSource.
func Token(ctx context.Context, host, clientID, clientSecret string) (*oauth2.Token, error) {
	return TokenSource(ctx, host, clientID, clientSecret).Token()
}

// BearerContext exchanges client credentials for an access token and
// builds a Context that authenticates with it. The token is fetched once;
// callers wanting refresh manage a TokenSource themselves and rebuild the
// Context when the token rolls over.
func BearerContext(ctx context.Context, host, clientID, clientSecret string, opts ...rest.ContextOption) (*rest.Context, error) {
	tok, err := Token(ctx, host, clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	return rest.NewContext(host, rest.BearerToken(tok.AccessToken), opts...)
}
