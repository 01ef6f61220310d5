package reporter

import (
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"practice-api-tester/internal/harness"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// RerunCommand returns a shell command line that reruns only the failed
// scenarios, or "" when nothing failed. args are the original flags to keep.
func RerunCommand(program string, args []string, results harness.Results) string {
	failures := results.Failures()
	if len(failures) == 0 {
		return ""
	}

	var b commandBuilder
	b.add(program)
	b.add(args...)
	for _, f := range failures {
		b.add("-run", exactPattern(f.ID))
	}
	return b.String()
}

// exactPattern matches id and nothing else, one anchored part per level
func exactPattern(id harness.TestID) string {
	parts := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		parts = append(parts, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(parts, "/")
}
