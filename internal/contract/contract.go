// Package contract checks responses against a profile's OpenAPI document.
package contract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"practice-api-tester/internal/config"
	"practice-api-tester/internal/errs"
	"practice-api-tester/internal/resource"
	"practice-api-tester/internal/transport"
)

// ErrNoRoute is returned when a request matches no operation in the document
var ErrNoRoute = errors.New("request does not match any documented operation")

// Validator checks responses for one profile
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// Load reads the profile's OpenAPI document from root (with the usual
// src/test/resources fallback). It returns nil, nil when the profile has no
// document configured.
func Load(ctx context.Context, root fs.FS, profile config.Profile) (*Validator, error) {
	if profile.OpenAPIPath == "" {
		return nil, nil
	}
	data, _, err := resource.NewSource(root, profile.OpenAPIPath).Read()
	if err != nil {
		return nil, err
	}
	v, err := Parse(ctx, data, profile.BaseURL)
	if err != nil {
		return nil, errs.ResourceUnreadable(profile.OpenAPIPath, fmt.Errorf("profile %s: %w", profile.Name, err))
	}
	return v, nil
}

// Parse builds a Validator from an OpenAPI document whose servers are replaced by baseURL
func Parse(ctx context.Context, data []byte, baseURL string) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI doc: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI doc: %w", err)
	}

	// Route against the configured target regardless of the servers the document lists
	doc.Servers = openapi3.Servers{&openapi3.Server{URL: baseURL}}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	return &Validator{doc: doc, router: router}, nil
}

// Operations lists "METHOD path" for every documented operation
func (v *Validator) Operations() []string {
	var ops []string
	for path, item := range v.doc.Paths.Map() {
		for method := range item.Operations() {
			ops = append(ops, method+" "+path)
		}
	}
	return ops
}

// Validate checks the status, headers and body of resp against the operation
// matching the request that produced it. Undocumented statuses are errors.
func (v *Validator) Validate(ctx context.Context, resp *transport.Response) error {
	if resp.Request == nil {
		return errors.New("response has no request to match against")
	}
	return v.ValidateExchange(ctx, resp.Request, resp)
}

// ValidateExchange is like Validate for an explicit request
func (v *Validator) ValidateExchange(ctx context.Context, req *http.Request, resp *transport.Response) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
			return fmt.Errorf("%w: %s %s", ErrNoRoute, req.Method, req.URL.Path)
		}
		return err
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}
	input.SetBodyBytes(resp.Body)
	return openapi3filter.ValidateResponse(ctx, input)
}
