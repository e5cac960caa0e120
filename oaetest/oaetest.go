// Package oaetest provisions throwaway principals for integration tests.
// Generation runs against a real tenant through the public API, the same
// way the platform's own test harness seeds its fixtures.
package oaetest

import (
	"context"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stuartf/oae-rest/api/group"
	"github.com/stuartf/oae-rest/api/user"
	"github.com/stuartf/oae-rest/rest"
)

// provisionParallelism caps concurrent create calls so a seed of hundreds
// of principals does not stampede the tenant.
const provisionParallelism = 8

// TestUser is one provisioned user: the created profile, its credentials
// and a Context that authenticates as the user on first use.
type TestUser struct {
	User     *user.User
	Context  *rest.Context
	Username string
	Password string
}

// GenerateTestUsers creates n users on adminRC's tenant, in parallel, and
// returns them with ready-to-use member Contexts. The extra options are
// applied to each member Context, so fixtures against a tenant that needs
// a Host header or a permissive TLS client keep working.
func GenerateTestUsers(ctx context.Context, adminRC *rest.Context, n int, opts ...rest.ContextOption) ([]*TestUser, error) {
	out := make([]*TestUser, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(provisionParallelism)
	for i := range out {
		i := i
		g.Go(func() error {
			username := "user-" + shortID()
			password := uuid.NewString()
			u, err := user.CreateUser(gctx, adminRC, username, password, gofakeit.Name(), "public", &user.CreateUserOpts{
				Email:      gofakeit.Email(),
				AcceptedTC: true,
			})
			if err != nil {
				return err
			}
			rc, err := rest.NewContext(adminRC.Host(), rest.UsernamePassword(username, password), opts...)
			if err != nil {
				return err
			}
			out[i] = &TestUser{User: u, Context: rc, Username: username, Password: password}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateTestGroups creates n groups owned by rc's user, in parallel.
func GenerateTestGroups(ctx context.Context, rc *rest.Context, n int) ([]*group.Group, error) {
	out := make([]*group.Group, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(provisionParallelism)
	for i := range out {
		i := i
		g.Go(func() error {
			created, err := group.CreateGroup(gctx, rc, "Group "+gofakeit.NounCollectivePeople()+" "+shortID(), "public", nil)
			if err != nil {
				return err
			}
			out[i] = created
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateTestTenantAlias returns a fresh alias suitable for CreateTenant
// in admin tests.
func GenerateTestTenantAlias() string {
	return "test-" + shortID()
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
