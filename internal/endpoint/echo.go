package endpoint

import (
	"context"
	"net/http"

	"practice-api-tester/internal/config"
	"practice-api-tester/internal/transport"
)

// EchoProfile is the profile name of the request-echo service
const EchoProfile = "httpbin"

// EchoClient talks to an httpbin-style service that reflects requests back
type EchoClient struct {
	client *Client
}

// NewEcho creates an echo client for the httpbin profile
func NewEcho(cfg *config.Config, tr Transport) (*EchoClient, error) {
	profile, err := cfg.Profile(EchoProfile)
	if err != nil {
		return nil, err
	}
	return &EchoClient{client: NewClient(Options{
		Profile:     profile,
		ContentType: cfg.ContentType(),
		AuthHeader:  cfg.AuthHeader(),
	}, tr)}, nil
}

// BaseURL returns the echo service base URL
func (e *EchoClient) BaseURL() string {
	return e.client.BaseURL()
}

// Get issues GET /get
func (e *EchoClient) Get(ctx context.Context) (*transport.Response, error) {
	return e.client.Send(ctx, Request{Method: http.MethodGet, Path: "/get"})
}
