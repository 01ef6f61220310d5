// Package errs defines the typed errors the harness distinguishes between.
//
// A StartupError means the environment is misconfigured (a configuration or
// fixture source could not be resolved or parsed) and the whole run aborts.
// A UsageError means a caller asked for data that is not there, or that could
// not be coerced to the type it needs. Transport failures are never wrapped in
// either type; they surface unchanged from the HTTP layer.
package errs

import (
	"errors"
	"fmt"
)

// Exit codes for the harness binary
const (
	ExitSuccess      = 0
	ExitTestFailures = 1
	ExitStartup      = 2
	ExitUsage        = 3
)

// ErrNotFound matches, through errors.Is, a StartupError for a resource that
// is missing from every search location
var ErrNotFound = errors.New("resource not found")

// StartupError reports an unresolvable or unreadable configuration/fixture source
type StartupError struct {
	Resource string
	Message  string
	Cause    error
}

func (e *StartupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Resource, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Resource)
}

func (e *StartupError) Unwrap() error {
	return e.Cause
}

func (e *StartupError) Is(target error) bool {
	return target == ErrNotFound && e.Message == ErrNotFound.Error()
}

// UsageError reports missing or malformed data requested by a caller
type UsageError struct {
	Scope   string
	Field   string
	Message string
	Cause   error
}

func (e *UsageError) Error() string {
	where := e.Scope
	if e.Field != "" {
		where = e.Scope + "." + e.Field
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

func (e *UsageError) Unwrap() error {
	return e.Cause
}

// ResourceNotFound returns a StartupError for a resource missing from every search location
func ResourceNotFound(resource string) *StartupError {
	return &StartupError{Resource: resource, Message: ErrNotFound.Error()}
}

// ResourceUnreadable returns a StartupError for a resource that exists but could not be parsed
func ResourceUnreadable(resource string, cause error) *StartupError {
	return &StartupError{Resource: resource, Message: "failed to load resource", Cause: cause}
}

// MissingField returns a UsageError for a required field that is absent
func MissingField(scope, field string) *UsageError {
	return &UsageError{Scope: scope, Field: field, Message: "required field is missing"}
}

// MalformedField returns a UsageError for a field that failed to parse
func MalformedField(scope, field string, cause error) *UsageError {
	return &UsageError{Scope: scope, Field: field, Message: "malformed value", Cause: cause}
}

// MissingSetting returns a UsageError for a required configuration key with no default
func MissingSetting(key string) *UsageError {
	return &UsageError{Scope: "config", Field: key, Message: "required setting is not configured"}
}

// ExitCode maps an error chain to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var startup *StartupError
	if errors.As(err, &startup) {
		return ExitStartup
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitTestFailures
}
