package reporter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"practice-api-tester/internal/harness"
)

// Console is a harness.TestLogger that prints progress as scenarios run.
// It is safe to share between concurrently running suites.
type Console struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	out  io.Writer
	lock sync.Mutex

	name *color.Color
	fail *color.Color
	skip *color.Color
	pass *color.Color
}

// NewConsole creates a console logger writing to out
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:  out,
		name: color.New(color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		skip: color.New(color.FgYellow),
		pass: color.New(color.FgGreen),
	}
	if noColor {
		for _, col := range []*color.Color{c.name, c.fail, c.skip, c.pass} {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) TestStarted(id harness.TestID) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.name.Fprintf(c.out, "[%s]\n", id)
}

func (c *Console) TestError(id harness.TestID, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.out, "  %s\n", line)
	}
}

func (c *Console) TestFinished(id harness.TestID, failed bool, debugOutput harness.CapturedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if failed {
		c.fail.Fprintf(c.out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out, "    DEBUG ")
	}
}

func (c *Console) TestSkipped(id harness.TestID, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		c.skip.Fprintf(c.out, "  SKIPPED: %s\n", id)
	} else {
		c.skip.Fprintf(c.out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// PrintResults writes the end-of-run summary
func (c *Console) PrintResults(results harness.Results) {
	c.lock.Lock()
	defer c.lock.Unlock()

	failures := results.Failures()
	if len(failures) > 0 {
		c.fail.Fprintln(c.out, "FAILED SCENARIOS:")
		for _, f := range failures {
			fmt.Fprintf(c.out, "  %s\n", f.ID)
			for _, err := range f.Errors {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(c.out, "    %s\n", line)
				}
			}
		}
		fmt.Fprintln(c.out)
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d skipped",
		results.Count(harness.Passed), results.Count(harness.Failed), results.Count(harness.Skipped))
	if results.OK() {
		c.pass.Fprintf(c.out, "All scenarios passed (%s)\n", summary)
	} else {
		c.fail.Fprintf(c.out, "Some scenarios failed (%s)\n", summary)
	}
}
