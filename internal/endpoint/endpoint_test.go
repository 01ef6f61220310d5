package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"practice-api-tester/internal/config"
	"practice-api-tester/internal/mocks/endpoint_mock"
	"practice-api-tester/internal/payload"
	"practice-api-tester/internal/transport"
	"practice-api-tester/internal/types"
)

func newConfig(values map[string]string) *config.Config {
	base := map[string]string{
		"api.practice.base.url": "https://jsonplaceholder.typicode.com",
		"api.reqres.base.url":   "https://reqres.in/api",
		"api.users.profile":     "reqres",
	}
	for k, v := range values {
		base[k] = v
	}
	return config.FromMap(base)
}

func TestBuildComposesRequests(t *testing.T) {
	cfg := newConfig(map[string]string{"api.reqres.key": "reqres-free-v1"})
	posts, err := New(cfg, types.Posts, nil)
	require.NoError(t, err)
	users, err := New(cfg, types.Users, nil)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name       string
		client     *Client
		req        Request
		wantMethod string
		wantURL    string
		wantKey    string
		wantBody   string
	}{
		{
			name:       "list",
			client:     posts,
			req:        Request{Method: http.MethodGet, Path: "/posts"},
			wantMethod: "GET",
			wantURL:    "https://jsonplaceholder.typicode.com/posts",
		},
		{
			name:       "by id",
			client:     posts,
			req:        Request{Method: http.MethodGet, Path: "/posts/{id}", PathParams: []interface{}{1}},
			wantMethod: "GET",
			wantURL:    "https://jsonplaceholder.typicode.com/posts/1",
		},
		{
			name:       "escaped id",
			client:     posts,
			req:        Request{Method: http.MethodGet, Path: "/posts/{id}", PathParams: []interface{}{"a b/c"}},
			wantMethod: "GET",
			wantURL:    "https://jsonplaceholder.typicode.com/posts/a%20b%2Fc",
		},
		{
			name:       "patch body",
			client:     posts,
			req:        Request{Method: http.MethodPatch, Path: "/posts/{id}", PathParams: []interface{}{1}, Body: payload.PostPatch("foo patch")},
			wantMethod: "PATCH",
			wantURL:    "https://jsonplaceholder.typicode.com/posts/1",
			wantBody:   `{"title":"foo patch"}`,
		},
		{
			name:       "delete drops body",
			client:     posts,
			req:        Request{Method: http.MethodDelete, Path: "/posts/{id}", PathParams: []interface{}{1}, Body: payload.PostPatch("ignored")},
			wantMethod: "DELETE",
			wantURL:    "https://jsonplaceholder.typicode.com/posts/1",
		},
		{
			name:       "users carry key",
			client:     users,
			req:        Request{Method: http.MethodGet, Path: "/users/{id}", PathParams: []interface{}{2}},
			wantMethod: "GET",
			wantURL:    "https://reqres.in/api/users/2",
			wantKey:    "reqres-free-v1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.client.Build(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantURL, req.URL.String())
			assert.Equal(t, tt.wantKey, req.Header.Get("x-api-key"))

			if tt.wantBody == "" {
				assert.Nil(t, req.Body)
				assert.Empty(t, req.Header.Get("Content-Type"))
				return
			}
			data, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(data))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		})
	}
}

func TestAuthHeaderOnlyWhenUsable(t *testing.T) {
	ctx := context.Background()
	for name, values := range map[string]map[string]string{
		"absent": {},
		"blank":  {"api.reqres.key": "  "},
	} {
		t.Run(name, func(t *testing.T) {
			users, err := New(newConfig(values), types.Users, nil)
			require.NoError(t, err)
			assert.True(t, users.RequiresAuth())
			assert.False(t, users.HasCredential())

			req, err := users.Build(ctx, Request{Method: http.MethodGet, Path: "/users"})
			require.NoError(t, err)
			_, present := req.Header[http.CanonicalHeaderKey("x-api-key")]
			assert.False(t, present)
		})
	}

	posts, err := New(newConfig(map[string]string{"api.practice.key": "k"}), types.Posts, nil)
	require.NoError(t, err)
	assert.False(t, posts.RequiresAuth())
	req, err := posts.Build(ctx, Request{Method: http.MethodGet, Path: "/posts"})
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("x-api-key"))
}

func TestCustomAuthHeader(t *testing.T) {
	cfg := newConfig(map[string]string{"api.reqres.key": "k", "api.auth.header": "Authorization"})
	users, err := New(cfg, types.Users, nil)
	require.NoError(t, err)
	req, err := users.Build(context.Background(), Request{Method: http.MethodGet, Path: "/users"})
	require.NoError(t, err)
	assert.Equal(t, "k", req.Header.Get("Authorization"))
}

func TestNewRequiresBaseURL(t *testing.T) {
	cfg := config.FromMap(map[string]string{"api.users.profile": "reqres"})
	_, err := New(cfg, types.Users, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.reqres.base.url")
}

func TestOperationsIssueOneCall(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		call       func(c *Client) (*transport.Response, error)
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{"List", func(c *Client) (*transport.Response, error) { return c.List(ctx) }, "GET", "/posts", ""},
		{"GetByID", func(c *Client) (*transport.Response, error) { return c.GetByID(ctx, 99999) }, "GET", "/posts/99999", ""},
		{"ListByFilter", func(c *Client) (*transport.Response, error) { return c.ListByFilter(ctx, "userId", 1) }, "GET", "/posts", "userId=1"},
		{"ListPage", func(c *Client) (*transport.Response, error) { return c.ListPage(ctx, 2) }, "GET", "/posts", "page=2"},
		{"Create", func(c *Client) (*transport.Response, error) {
			return c.Create(ctx, payload.PostCreate("foo", "bar", 1))
		}, "POST", "/posts", ""},
		{"Update", func(c *Client) (*transport.Response, error) {
			return c.Update(ctx, 1, payload.PostUpdate(1, "foo", "bar", 1))
		}, "PUT", "/posts/1", ""},
		{"PartialUpdate", func(c *Client) (*transport.Response, error) {
			return c.PartialUpdate(ctx, 1, payload.PostPatch("foo patch"))
		}, "PATCH", "/posts/1", ""},
		{"Delete", func(c *Client) (*transport.Response, error) { return c.Delete(ctx, 1) }, "DELETE", "/posts/1", ""},
		{"Comments", func(c *Client) (*transport.Response, error) { return c.Comments(ctx, 1) }, "GET", "/posts/1/comments", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := endpoint_mock.NewMockTransport(ctrl)

			var got *http.Request
			m.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*transport.Response, error) {
				got = req
				return transport.NewResponse(200, nil, nil), nil
			}).Times(1)

			c, err := New(newConfig(nil), types.Posts, m)
			require.NoError(t, err)
			resp, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantPath, got.URL.Path)
			assert.Equal(t, tt.wantQuery, got.URL.RawQuery)
		})
	}
}

func TestTransportErrorPropagatesUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := endpoint_mock.NewMockTransport(ctrl)
	boom := errors.New("dial tcp: connection refused")
	m.EXPECT().Do(gomock.Any()).Return(nil, boom)

	c, err := New(newConfig(nil), types.Posts, m)
	require.NoError(t, err)
	_, err = c.List(context.Background())
	assert.Same(t, boom, err)
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		template string
		params   []interface{}
		want     string
		wantErr  bool
	}{
		{"/posts", nil, "/posts", false},
		{"/posts/{id}", []interface{}{1}, "/posts/1", false},
		{"/posts/{id}/comments", []interface{}{"7"}, "/posts/7/comments", false},
		{"/a/{x}/b/{y}", []interface{}{"1", 2}, "/a/1/b/2", false},
		{"/posts/{id}", nil, "", true},
		{"/posts", []interface{}{1}, "", true},
		{"/posts/{id", []interface{}{1}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, err := ExpandPath(tt.template, tt.params...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgainstServer(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"title": "foo patch", "id": 1})
	handler := httphelpers.HandlerWithResponse(200, http.Header{"Content-Type": {"application/json"}}, body)
	rh, requests := httphelpers.RecordingHandler(handler)

	httphelpers.WithServer(rh, func(server *httptest.Server) {
		cfg := config.FromMap(map[string]string{"api.practice.base.url": server.URL})
		c, err := New(cfg, types.Posts, transport.New(time.Second, nil))
		require.NoError(t, err)

		resp, err := c.PartialUpdate(context.Background(), 1, payload.PostPatch("foo patch"))
		require.NoError(t, err)
		assert.Equal(t, "foo patch", resp.Path("title").StringValue())
	})

	info := <-requests
	assert.Equal(t, "PATCH", info.Request.Method)
	assert.Equal(t, "/posts/1", info.Request.URL.Path)
	assert.JSONEq(t, `{"title":"foo patch"}`, string(info.Body))
}

func TestEchoClient(t *testing.T) {
	rh, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(rh, func(server *httptest.Server) {
		cfg := config.FromMap(map[string]string{"api.httpbin.base.url": server.URL})
		echo, err := NewEcho(cfg, transport.New(time.Second, nil))
		require.NoError(t, err)
		assert.Equal(t, server.URL, echo.BaseURL())

		resp, err := echo.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})
	info := <-requests
	assert.Equal(t, "/get", info.Request.URL.Path)

	_, err := NewEcho(config.FromMap(nil), nil)
	assert.Error(t, err)
}
