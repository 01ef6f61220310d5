// Package endpoint builds and sends requests for one remote resource.
//
// A Client composes each request from scratch: the profile base URL, the
// content type, the API key header (only when the resource requires it and a
// usable key is configured), positional path parameters and query parameters,
// and a JSON body for mutating methods. It sends exactly one request per call
// and never skips; callers check RequiresAuth and HasCredential first.
package endpoint

//go:generate mockgen -destination ../mocks/endpoint_mock/mock_transport.go -package endpoint_mock practice-api-tester/internal/endpoint Transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"practice-api-tester/internal/config"
	"practice-api-tester/internal/transport"
	"practice-api-tester/internal/types"
)

// Transport sends a single request
type Transport interface {
	Do(req *http.Request) (*transport.Response, error)
}

// Request describes one outbound call relative to a client's base URL
type Request struct {
	Method string
	// Path is a template such as "/posts/{id}/comments"; placeholders are
	// replaced positionally by PathParams
	Path       string
	PathParams []interface{}
	Query      url.Values
	Body       types.Payload
}

// Options configures a Client
type Options struct {
	Resource     types.Resource
	Profile      config.Profile
	ContentType  string
	AuthHeader   string
	RequiresAuth bool
}

// Client issues requests for one resource
type Client struct {
	opts      Options
	basePath  string
	transport Transport
}

// authRequired lists resources whose endpoints expect an API key
var authRequired = map[types.Resource]bool{
	types.Users: true,
}

// New creates a client for res using the profile the configuration binds to it
func New(cfg *config.Config, res types.Resource, tr Transport) (*Client, error) {
	profile, err := cfg.Profile(cfg.ProfileFor(res))
	if err != nil {
		return nil, err
	}
	return NewClient(Options{
		Resource:     res,
		Profile:      profile,
		ContentType:  cfg.ContentType(),
		AuthHeader:   cfg.AuthHeader(),
		RequiresAuth: authRequired[res],
	}, tr), nil
}

// NewClient creates a client from explicit options
func NewClient(opts Options, tr Transport) *Client {
	if opts.ContentType == "" {
		opts.ContentType = config.DefaultContentType
	}
	if opts.AuthHeader == "" {
		opts.AuthHeader = config.DefaultAuthHeader
	}
	basePath := ""
	if opts.Resource != "" {
		basePath = "/" + string(opts.Resource)
	}
	return &Client{opts: opts, basePath: basePath, transport: tr}
}

// Resource returns the resource this client serves
func (c *Client) Resource() types.Resource {
	return c.opts.Resource
}

// BaseURL returns the profile base URL
func (c *Client) BaseURL() string {
	return c.opts.Profile.BaseURL
}

// RequiresAuth reports whether requests for this resource need an API key
func (c *Client) RequiresAuth() bool {
	return c.opts.RequiresAuth
}

// HasCredential reports whether a usable API key is configured
func (c *Client) HasCredential() bool {
	return c.opts.Profile.HasAPIKey()
}

// List fetches the whole collection
func (c *Client) List(ctx context.Context) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodGet, Path: c.basePath})
}

// GetByID fetches one item
func (c *Client) GetByID(ctx context.Context, id interface{}) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodGet, Path: c.basePath + "/{id}", PathParams: []interface{}{id}})
}

// ListByFilter fetches the collection restricted by one query parameter
func (c *Client) ListByFilter(ctx context.Context, key string, value interface{}) (*transport.Response, error) {
	return c.Send(ctx, Request{
		Method: http.MethodGet,
		Path:   c.basePath,
		Query:  url.Values{key: {fmt.Sprint(value)}},
	})
}

// ListPage fetches one page of a paginated collection
func (c *Client) ListPage(ctx context.Context, page int) (*transport.Response, error) {
	return c.ListByFilter(ctx, "page", strconv.Itoa(page))
}

// Create posts a new item
func (c *Client) Create(ctx context.Context, body types.Payload) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodPost, Path: c.basePath, Body: body})
}

// Update replaces an item
func (c *Client) Update(ctx context.Context, id interface{}, body types.Payload) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodPut, Path: c.basePath + "/{id}", PathParams: []interface{}{id}, Body: body})
}

// PartialUpdate patches the given fields of an item
func (c *Client) PartialUpdate(ctx context.Context, id interface{}, body types.Payload) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodPatch, Path: c.basePath + "/{id}", PathParams: []interface{}{id}, Body: body})
}

// Delete removes an item
func (c *Client) Delete(ctx context.Context, id interface{}) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodDelete, Path: c.basePath + "/{id}", PathParams: []interface{}{id}})
}

// Comments fetches the comments of a post
func (c *Client) Comments(ctx context.Context, postID interface{}) (*transport.Response, error) {
	return c.Send(ctx, Request{Method: http.MethodGet, Path: c.basePath + "/{id}/comments", PathParams: []interface{}{postID}})
}

// Send builds r into an HTTP request and issues it once
func (c *Client) Send(ctx context.Context, r Request) (*transport.Response, error) {
	req, err := c.Build(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.transport.Do(req)
}

// Build composes the HTTP request for r without sending it
func (c *Client) Build(ctx context.Context, r Request) (*http.Request, error) {
	p, err := ExpandPath(r.Path, r.PathParams...)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(c.opts.Profile.BaseURL + p)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var body io.Reader
	hasBody := r.Body != nil && carriesBody(r.Method)
	if hasBody {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", c.opts.ContentType)
	if hasBody {
		req.Header.Set("Content-Type", c.opts.ContentType)
	}
	if c.opts.RequiresAuth && c.HasCredential() {
		req.Header.Set(c.opts.AuthHeader, c.opts.Profile.APIKey)
	}
	return req, nil
}

// ExpandPath replaces each {placeholder} in template, in order, with the
// path-escaped text of the matching parameter
func ExpandPath(template string, params ...interface{}) (string, error) {
	var b strings.Builder
	rest := template
	used := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in path %q", template)
		}
		if used >= len(params) {
			return "", fmt.Errorf("path %q expects more than %d parameters", template, len(params))
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(fmt.Sprint(params[used])))
		used++
		rest = rest[open+end+1:]
	}
	if used != len(params) {
		return "", fmt.Errorf("path %q takes %d parameters, got %d", template, used, len(params))
	}
	return b.String(), nil
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
