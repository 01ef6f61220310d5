package scenarios

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-api-tester/internal/endpoint"
	"practice-api-tester/internal/harness"
	"practice-api-tester/internal/payload"
	"practice-api-tester/internal/transport"
	"practice-api-tester/internal/types"
)

// CredentialPresent is the precondition for scenarios that need an API key
func CredentialPresent(c *endpoint.Client, profile string) harness.Precondition {
	return harness.Precondition{
		Reason: fmt.Sprintf("API key for profile %q is not configured", profile),
		Check: func() bool {
			return !c.RequiresAuth() || c.HasCredential()
		},
	}
}

// skipIfRejected skips a scenario whose credential the service refused
func skipIfRejected(t *harness.T, resp *transport.Response) {
	t.SkipUnless(
		resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden,
		fmt.Sprintf("credential rejected with status %d", resp.StatusCode),
	)
}

func usersSuite(env *Env) Suite {
	return Suite{Name: SuiteUsers, Run: func(t *harness.T) {
		profile := env.Config.ProfileFor(types.Users)
		users, err := endpoint.New(env.Config, types.Users, env.Transport)
		require.NoError(t, err, "building users client")
		gate := CredentialPresent(users, profile)

		call := func(t *harness.T, send func(ctx context.Context) (*transport.Response, error)) *transport.Response {
			t.Require(gate)
			return env.call(t, profile, send, skipIfRejected)
		}

		t.Run("list users page", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return users.ListPage(ctx, UsersPage)
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, UsersPage, resp.Path("page").IntValue())
			assert.Greater(t, resp.Path("data.size()").IntValue(), 0)
		})

		t.Run("get user by id", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return users.GetByID(ctx, ExistingUserID)
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, ExistingUserID, resp.Path("data.id").IntValue())
			assert.False(t, resp.Path("data.email").IsNull(), "email should be present")
		})

		t.Run("get missing user returns 404", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return users.GetByID(ctx, MissingUserID)
			})
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		t.Run("create user", func(t *harness.T) {
			t.Require(gate)
			data, err := env.Fixtures.UserCreate()
			require.NoError(t, err)

			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return users.Create(ctx, payload.UserCreate(data.Name, data.Job))
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, data.Name, resp.Path("name").StringValue())
			assert.Equal(t, data.Job, resp.Path("job").StringValue())
			assert.False(t, resp.Path("id").IsNull(), "created user should have an id")
			assert.False(t, resp.Path("createdAt").IsNull(), "createdAt should be present")
		})

		t.Run("update user", func(t *harness.T) {
			t.Require(gate)
			data, err := env.Fixtures.UserUpdate()
			require.NoError(t, err)

			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return users.Update(ctx, data.ID, payload.UserUpdate(data.ID, data.Name, data.Job))
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, data.Name, resp.Path("name").StringValue())
			assert.Equal(t, data.Job, resp.Path("job").StringValue())
			assert.False(t, resp.Path("updatedAt").IsNull(), "updatedAt should be present")
		})

		t.Run("delete user", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return users.Delete(ctx, ExistingUserID)
			})
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		})
	}}
}
