// Package transport sends single HTTP requests and exposes the responses as
// read-only views with structured body access.
package transport

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"practice-api-tester/internal/logger"
)

// Response is the result of one exchange. It is never mutated after Do returns.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	// Request is the request that produced this response, when known
	Request *http.Request

	once sync.Once
	json ldvalue.Value
}

// NewResponse builds a Response from already-read parts
func NewResponse(status int, header http.Header, body []byte) *Response {
	if header == nil {
		header = http.Header{}
	}
	return &Response{StatusCode: status, Header: header, Body: body}
}

// JSON returns the parsed body, or a null value when the body is not JSON
func (r *Response) JSON() ldvalue.Value {
	r.once.Do(func() {
		r.json = ldvalue.Parse(r.Body)
	})
	return r.json
}

// Path extracts a value from the JSON body. Unresolvable or malformed paths yield null.
func (r *Response) Path(expr string) ldvalue.Value {
	v, err := Eval(r.Body, expr)
	if err != nil {
		return ldvalue.Null()
	}
	return v
}

// Lookup is like Path but reports malformed expressions
func (r *Response) Lookup(expr string) (ldvalue.Value, error) {
	return Eval(r.Body, expr)
}

// String returns the body as text
func (r *Response) String() string {
	return string(r.Body)
}

// ContentType returns the media type of the response without parameters
func (r *Response) ContentType() string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// IsSuccess reports whether the status is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTP sends requests with a net/http client
type HTTP struct {
	client *http.Client
	trace  *logger.Logger
}

// New creates a transport with the given timeout. trace may be nil.
func New(timeout time.Duration, trace *logger.Logger) *HTTP {
	return &HTTP{
		client: &http.Client{Timeout: timeout},
		trace:  trace,
	}
}

// Do sends exactly one request. Network failures are returned unchanged;
// a non-2xx status is a normal response.
func (t *HTTP) Do(req *http.Request) (*Response, error) {
	ex := logger.Exchange{
		Method:        req.Method,
		URL:           req.URL.String(),
		RequestHeader: req.Header.Clone(),
		RequestBody:   requestBody(req),
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	ex.Duration = time.Since(start)
	if err != nil {
		ex.Err = err
		t.trace.LogExchange(ex)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ex.Err = fmt.Errorf("failed to read response body: %w", err)
		t.trace.LogExchange(ex)
		return nil, ex.Err
	}

	ex.StatusCode = resp.StatusCode
	ex.ResponseHeader = resp.Header
	ex.ResponseBody = body
	t.trace.LogExchange(ex)

	r := NewResponse(resp.StatusCode, resp.Header, body)
	r.Duration = ex.Duration
	r.Request = req
	return r, nil
}

func requestBody(req *http.Request) []byte {
	if req.GetBody == nil {
		return nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	return data
}
