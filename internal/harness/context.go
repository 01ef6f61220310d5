// Package harness runs named scenarios the way "go test" runs subtests, but
// inside a normal program. Each scenario ends with a tagged Outcome: Passed,
// Failed or Skipped. T satisfies testify's require.TestingT, so assertions
// written with assert and require work unchanged.
package harness

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

type environment struct {
	ctx        context.Context
	results    Results
	testLogger TestLogger
	filter     Filter
}

// T is the context of one running scenario
type T struct {
	env         *environment
	id          TestID
	debug       debugBuffer
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	children    int
}

// Run executes action as the root of a scenario tree and returns every
// recorded result. filter and testLogger may be nil.
func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*T),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		ctx:        ctx,
		filter:     filter,
		testLogger: testLogger,
	}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if !t.skipped {
				t.failed = true
				var addError error
				if _, ok := r.(*T); ok {
					if len(t.errors) == 0 {
						addError = errors.New("scenario failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in scenario: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					t.errors = append(t.errors, addError)
					t.env.testLogger.TestError(t.id, addError)
				}
			}
		}
		// Groups and the unnamed root only produce a result when they end
		// badly outside any child scenario
		if (len(t.id.Path) == 0 || t.children > 0) && t.outcome() == Passed {
			return
		}
		result := Result{
			ID:         t.id,
			Outcome:    t.outcome(),
			Errors:     t.errors,
			SkipReason: t.skipReason,
			Duration:   time.Since(start),
		}
		t.env.results.Tests = append(t.env.results.Tests, result)
	}()

	action(t)
}

func (t *T) outcome() Outcome {
	switch {
	case t.skipped:
		return Skipped
	case t.failed:
		return Failed
	default:
		return Passed
	}
}

// ID returns the scenario's path
func (t *T) ID() TestID {
	return t.id
}

// Context returns the context the run was started with
func (t *T) Context() context.Context {
	return t.env.ctx
}

// Run executes a named child scenario. A child excluded by the filter is
// recorded as skipped without running.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	t.children++

	t.env.testLogger.TestStarted(id)
	if t.env.filter != nil && !t.env.filter(id) {
		reason := "excluded by filter parameters"
		t.env.results.Tests = append(t.env.results.Tests, Result{ID: id, Outcome: Skipped, SkipReason: reason})
		t.env.testLogger.TestSkipped(id, reason)
		return
	}
	child := &T{
		id:  id,
		env: t.env,
	}
	child.run(action)
	if child.skipped {
		t.env.testLogger.TestSkipped(id, child.skipReason)
	} else {
		t.env.testLogger.TestFinished(id, child.failed, child.debug.snapshot())
	}
}

// Errorf records a failure and lets the scenario continue
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	t.errors = append(t.errors, err)
	t.env.testLogger.TestError(t.id, err)
}

// FailNow stops the scenario. It must be called from the scenario's goroutine.
func (t *T) FailNow() {
	panic(t)
}

// Helper is a no-op; it lets testify treat T as a helper-aware TestingT
func (t *T) Helper() {}

// Failed reports whether the scenario has failed so far
func (t *T) Failed() bool {
	return t.failed
}

// Skip stops the scenario and marks it skipped
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason stops the scenario and marks it skipped with reason
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// SkipUnless skips the scenario when cond is false
func (t *T) SkipUnless(cond bool, reason string) {
	if !cond {
		t.SkipWithReason(reason)
	}
}

// Require evaluates each precondition in order and skips the scenario at the
// first one that is not met
func (t *T) Require(preconditions ...Precondition) {
	for _, p := range preconditions {
		if !p.Met() {
			t.SkipWithReason(p.Reason)
		}
	}
}

// Debug writes to the scenario's captured debug output
func (t *T) Debug(message string, args ...interface{}) {
	t.debug.add(fmt.Sprintf(message, args...))
}
