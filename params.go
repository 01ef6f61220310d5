package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"practice-api-tester/internal/fixture"
	"practice-api-tester/internal/harness"
)

const (
	defaultFixturesDriver = "postgres"
	defaultFixturesTable  = "test_fixtures"
)

type commandParams struct {
	resourceDir    string
	suites         string
	filters        harness.RegexFilters
	parallel       int
	reportDir      string
	traceLogDir    string
	debug          bool
	debugAll       bool
	noColor        bool
	fixturesDSN    string
	fixturesDriver string
	fixturesTable  string
}

// Read parses args. It returns flag.ErrHelp when usage was requested.
func (c *commandParams) Read(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.resourceDir, "resources", "", "resource directory (default $HARNESS_RESOURCE_DIR or ./resources)")
	fs.StringVar(&c.suites, "suites", "", "comma-separated suites to run (default all)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.IntVar(&c.parallel, "parallel", 0, "number of suites to run at once (default run.max.workers)")
	fs.StringVar(&c.reportDir, "report-dir", "", "directory for the JSON report (default report.output.dir)")
	fs.StringVar(&c.traceLogDir, "trace-log", "", "directory for a request/response trace log")
	fs.BoolVar(&c.debug, "debug", false, "enable debug output for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug output for all scenarios")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored console output")
	fs.StringVar(&c.fixturesDSN, "fixtures-dsn", "", "load fixtures from a database instead of data/tests-data.{json,yaml,yml}")
	fs.StringVar(&c.fixturesDriver, "fixtures-driver", defaultFixturesDriver,
		"database driver for -fixtures-dsn ("+strings.Join(fixture.Drivers, "|")+")")
	fs.StringVar(&c.fixturesTable, "fixtures-table", defaultFixturesTable, "table holding resource, scenario, field, value rows")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	var err error
	switch {
	case fs.NArg() > 0:
		err = fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	case c.parallel < 0:
		err = errors.New("-parallel must not be negative")
	case c.fixturesDSN != "" && !fixture.SupportedDriver(c.fixturesDriver):
		err = fmt.Errorf("unsupported -fixtures-driver %q", c.fixturesDriver)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
	}
	return err
}

func (c *commandParams) suiteNames() []string {
	if strings.TrimSpace(c.suites) == "" {
		return nil
	}
	return strings.Split(c.suites, ",")
}

// rerunArgs returns the original arguments without any -run selection
func rerunArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-run" || a == "--run":
			i++
		case strings.HasPrefix(a, "-run=") || strings.HasPrefix(a, "--run="):
		default:
			out = append(out, a)
		}
	}
	return out
}
