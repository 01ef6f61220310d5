package harness

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the tagged end state of a scenario
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type Results struct {
	Tests []Result
}

type Result struct {
	ID         TestID
	Outcome    Outcome
	Errors     []error
	SkipReason string
	Duration   time.Duration
}

// OK is true when nothing failed
func (r Results) OK() bool {
	return r.Count(Failed) == 0
}

// Count returns how many results have the given outcome
func (r Results) Count(o Outcome) int {
	n := 0
	for _, t := range r.Tests {
		if t.Outcome == o {
			n++
		}
	}
	return n
}

// Failures returns the failed results in run order
func (r Results) Failures() []Result {
	var out []Result
	for _, t := range r.Tests {
		if t.Outcome == Failed {
			out = append(out, t)
		}
	}
	return out
}

// Merge appends other's results after r's
func (r Results) Merge(other Results) Results {
	return Results{Tests: append(append([]Result(nil), r.Tests...), other.Tests...)}
}

type TestID struct {
	Path []string
}

// Plus returns a child ID without aliasing the parent's path
func (t TestID) Plus(name string) TestID {
	p := make([]string, 0, len(t.Path)+1)
	p = append(p, t.Path...)
	return TestID{Path: append(p, name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
