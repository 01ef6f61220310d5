package scenarios

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-api-tester/internal/endpoint"
	"practice-api-tester/internal/harness"
	"practice-api-tester/internal/payload"
	"practice-api-tester/internal/transport"
	"practice-api-tester/internal/types"
)

func postsSuite(env *Env) Suite {
	return Suite{Name: SuitePosts, Run: func(t *harness.T) {
		posts, err := endpoint.New(env.Config, types.Posts, env.Transport)
		require.NoError(t, err, "building posts client")
		profile := env.Config.ProfileFor(types.Posts)

		call := func(t *harness.T, send func(ctx context.Context) (*transport.Response, error)) *transport.Response {
			return env.call(t, profile, send)
		}

		t.Run("list posts", func(t *harness.T) {
			resp := call(t, posts.List)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Greater(t, resp.Path("size()").IntValue(), 0)
		})

		t.Run("get post by id", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.GetByID(ctx, ExistingPostID)
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, ExistingPostID, resp.Path("id").IntValue())
			assert.False(t, resp.Path("userId").IsNull(), "userId should be present")
			assert.NotEmpty(t, resp.Path("title").StringValue())
		})

		t.Run("get missing post returns 404", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.GetByID(ctx, MissingPostID)
			})
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		t.Run("filter posts by userId", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.ListByFilter(ctx, PostsFilterKey, 1)
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			ids := resp.Path("#." + PostsFilterKey)
			require.Greater(t, ids.Count(), 0)
			for i := 0; i < ids.Count(); i++ {
				assert.Equal(t, 1, ids.GetByIndex(i).IntValue(), "post %d", i)
			}
		})

		t.Run("list comments of post", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.Comments(ctx, ExistingPostID)
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			postIDs := resp.Path("#.postId")
			require.Greater(t, postIDs.Count(), 0)
			for i := 0; i < postIDs.Count(); i++ {
				assert.Equal(t, ExistingPostID, postIDs.GetByIndex(i).IntValue(), "comment %d", i)
			}
		})

		t.Run("create post", func(t *harness.T) {
			data, err := env.Fixtures.PostCreate()
			require.NoError(t, err)

			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.Create(ctx, payload.PostCreate(data.Title, data.Body, data.UserID))
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, data.Title, resp.Path("title").StringValue())
			assert.Equal(t, data.Body, resp.Path("body").StringValue())
			assert.Equal(t, data.UserID, resp.Path("userId").IntValue())
			assert.False(t, resp.Path("id").IsNull(), "created post should have an id")
		})

		t.Run("update post", func(t *harness.T) {
			data, err := env.Fixtures.PostUpdate()
			require.NoError(t, err)

			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.Update(ctx, data.ID, payload.PostUpdate(data.ID, data.Title, data.Body, data.UserID))
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, data.ID, resp.Path("id").IntValue())
			assert.Equal(t, data.Title, resp.Path("title").StringValue())
			assert.Equal(t, data.Body, resp.Path("body").StringValue())
		})

		t.Run("patch post title", func(t *harness.T) {
			data, err := env.Fixtures.PostPatch()
			require.NoError(t, err)

			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.PartialUpdate(ctx, data.ID, payload.PostPatch(data.Title))
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			// Only the patched field is asserted
			assert.Equal(t, data.Title, resp.Path("title").StringValue())
		})

		t.Run("delete post", func(t *harness.T) {
			resp := call(t, func(ctx context.Context) (*transport.Response, error) {
				return posts.Delete(ctx, ExistingPostID)
			})
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}}
}
