// Package scenarios holds the suites exercised against the configured targets.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"practice-api-tester/internal/config"
	"practice-api-tester/internal/contract"
	"practice-api-tester/internal/endpoint"
	"practice-api-tester/internal/fixture"
	"practice-api-tester/internal/harness"
	"practice-api-tester/internal/transport"
)

// Ids of well-known records on the practice services
const (
	ExistingPostID = 1
	MissingPostID  = 99999
	ExistingUserID = 2
	MissingUserID  = 23
	UsersPage      = 2
	PostsFilterKey = "userId"
)

// Suite names
const (
	SuiteFixtures = "fixtures"
	SuitePosts    = "posts"
	SuiteUsers    = "users"
	SuiteEcho     = "echo"
)

// Env carries the loaded, read-only inputs shared by every suite
type Env struct {
	Config    *config.Config
	Fixtures  *fixture.Document
	Transport endpoint.Transport
	// Contracts maps a profile name to its response validator
	Contracts map[string]*contract.Validator
}

// Suite is one named group of scenarios
type Suite struct {
	Name string
	Run  func(t *harness.T)
}

var builders = map[string]func(*Env) Suite{
	SuiteFixtures: fixturesSuite,
	SuitePosts:    postsSuite,
	SuiteUsers:    usersSuite,
	SuiteEcho:     echoSuite,
}

// Order is the default suite order
var Order = []string{SuiteFixtures, SuitePosts, SuiteUsers, SuiteEcho}

// Names returns the known suite names, sorted
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Select returns the named suites in the given order; an empty list selects all
func Select(env *Env, names []string) ([]Suite, error) {
	if len(names) == 0 {
		names = Order
	}
	suites := make([]Suite, 0, len(names))
	for _, name := range names {
		build, ok := builders[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown suite %q (known: %s)", name, strings.Join(Names(), ", "))
		}
		suites = append(suites, build(env))
	}
	return suites, nil
}

// call runs one request, logs it to the scenario's debug output, applies the
// given checks, then checks the contract when the profile has one. Transport
// errors fail the scenario. A check that skips or fails the scenario stops it
// before the contract is consulted.
func (e *Env) call(
	t *harness.T,
	profile string,
	send func(ctx context.Context) (*transport.Response, error),
	checks ...func(*harness.T, *transport.Response),
) *transport.Response {
	resp, err := send(t.Context())
	if err != nil {
		t.Errorf("request failed: %v", err)
		t.FailNow()
	}
	if resp.Request != nil {
		t.Debug("%s %s -> %d (%s)", resp.Request.Method, resp.Request.URL, resp.StatusCode, resp.Duration)
	}
	t.Debug("response body: %s", resp.Body)

	for _, check := range checks {
		check(t, resp)
	}

	if v := e.Contracts[profile]; v != nil {
		if err := v.Validate(t.Context(), resp); err != nil {
			if errors.Is(err, contract.ErrNoRoute) {
				t.Debug("contract: %v", err)
			} else {
				t.Errorf("response violates OpenAPI contract: %v", err)
			}
		}
	}
	return resp
}
