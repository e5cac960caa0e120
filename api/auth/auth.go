// Package auth binds the authentication endpoints: explicit login and
// logout plus local-account password management.
//
// A password Context normally never needs an explicit Login; the executor
// logs in by itself on the first call. Login exists for flows that manage
// sessions by hand, for example warming an anonymous Context into an
// authenticated one.
package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stuartf/oae-rest/rest"
)

// Login authenticates against the tenant's local login endpoint. On
// success the issued session cookie is adopted by rc, so subsequent calls
// run as the authenticated user.
func Login(ctx context.Context, rc *rest.Context, username, password string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/auth/login", rest.Params{
		"username": rest.String(username),
		"password": rest.String(password),
	})
	return err
}

// Logout invalidates the server-side session. The Context keeps its now
// stale token; requests after a logout are rejected by the server.
func Logout(ctx context.Context, rc *rest.Context) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/auth/logout", nil)
	return err
}

// UserExists reports whether a local username is taken on the tenant. The
// endpoint answers 200 when the login id exists and 404 when it is free.
func UserExists(ctx context.Context, rc *rest.Context, username string) (bool, error) {
	_, err := rest.Do(ctx, rc, http.MethodGet, "/api/auth/exists/"+url.PathEscape(username), nil)
	if rest.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ChangePassword replaces a user's local password. Users change their own;
// tenant admins can omit the old password check server-side but still pass
// it here.
func ChangePassword(ctx context.Context, rc *rest.Context, userID, oldPassword, newPassword string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/user/"+url.PathEscape(userID)+"/password", rest.Params{
		"oldPassword": rest.String(oldPassword),
		"newPassword": rest.String(newPassword),
	})
	return err
}

// ResetPasswordSecret asks the tenant to generate a reset secret for the
// username and mail it to the account's email address.
func ResetPasswordSecret(ctx context.Context, rc *rest.Context, username string) error {
	_, err := rest.Do(ctx, rc, http.MethodGet, "/api/auth/local/reset/secret/"+url.PathEscape(username), nil)
	return err
}

// ResetPassword sets a new password using a secret obtained through
// ResetPasswordSecret.
func ResetPassword(ctx context.Context, rc *rest.Context, username, secret, newPassword string) error {
	_, err := rest.Do(ctx, rc, http.MethodPost, "/api/auth/local/reset/password/"+url.PathEscape(username), rest.Params{
		"secret":      rest.String(secret),
		"newPassword": rest.String(newPassword),
	})
	return err
}
