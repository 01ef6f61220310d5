package harness

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific scenario or not.
type Filter func(TestID) bool

// RegexFilters selects scenarios the way "go test" -run and -skip do: a
// pattern is split on "/" and each part is matched against the scenario name
// at that level of nesting.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.anyPrefixMatch(id.Path)) &&
		!r.MustNotMatch.anyFullMatch(id.Path)
}

// Describe writes a summary of active filters, if any
func (r RegexFilters) Describe(w io.Writer) {
	if !r.MustMatch.IsDefined() && !r.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(w, "Some scenarios will be skipped based on the filter criteria for this run:")
	if r.MustMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any not matching %s\n", r.MustMatch)
	}
	if r.MustNotMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any matching %s\n", r.MustNotMatch)
	}
	fmt.Fprintln(w)
}

type RegexList struct {
	patterns []levelPattern
}

type levelPattern struct {
	raw    string
	levels []*regexp.Regexp
}

// matches reports whether every level present in both path and pattern matches
func (p levelPattern) matches(path []string) bool {
	for i := 0; i < len(path) && i < len(p.levels); i++ {
		if !p.levels[i].MatchString(path[i]) {
			return false
		}
	}
	return true
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.raw+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := levelPattern{raw: value}
	for _, part := range strings.Split(value, "/") {
		rx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.levels = append(p.levels, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

// Patterns returns the raw pattern strings
func (r RegexList) Patterns() []string {
	out := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		out = append(out, p.raw)
	}
	return out
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// anyPrefixMatch lets a group through while its name is compatible with a
// pattern, so that its children can be matched at the deeper levels
func (r RegexList) anyPrefixMatch(path []string) bool {
	for _, p := range r.patterns {
		if p.matches(path) {
			return true
		}
	}
	return false
}

// anyFullMatch requires the path to reach every level of the pattern
func (r RegexList) anyFullMatch(path []string) bool {
	for _, p := range r.patterns {
		if len(path) >= len(p.levels) && p.matches(path) {
			return true
		}
	}
	return false
}
