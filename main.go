package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"practice-api-tester/internal/config"
	"practice-api-tester/internal/contract"
	"practice-api-tester/internal/errs"
	"practice-api-tester/internal/executor"
	"practice-api-tester/internal/fixture"
	"practice-api-tester/internal/logger"
	"practice-api-tester/internal/reporter"
	"practice-api-tester/internal/resource"
	"practice-api-tester/internal/scenarios"
	"practice-api-tester/internal/transport"

	_ "github.com/denisenkom/go-mssqldb" // for sqlserver
	_ "github.com/go-sql-driver/mysql"   // for mysql
	_ "github.com/lib/pq"                // for postgres
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var params commandParams
	if err := params.Read(args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errs.ExitSuccess
		}
		return errs.ExitUsage
	}

	env, trace, err := loadEnv(ctx, params)
	if err != nil {
		fmt.Fprintf(stderr, "Startup failed: %s\n", err)
		return errs.ExitCode(err)
	}
	if trace != nil {
		defer trace.Close()
		fmt.Fprintf(stdout, "Tracing requests to %s\n", trace.Path())
	}

	suites, err := scenarios.Select(env, params.suiteNames())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return errs.ExitUsage
	}

	workers := params.parallel
	if workers == 0 {
		workers = env.Config.MaxWorkers()
	}

	fmt.Fprintf(stdout, "Configuration: %s\nFixtures: %s\n\n", env.Config.Origin(), env.Fixtures.Origin())
	params.filters.Describe(stdout)

	console := reporter.NewConsole(stdout, params.noColor)
	console.DebugOutputOnFailure = params.debug || params.debugAll
	console.DebugOutputOnSuccess = params.debugAll

	start := time.Now()
	results := executor.NewRunner(workers, params.filters.AsFilter, console).RunSuites(ctx, suites)
	elapsed := time.Since(start)

	fmt.Fprintln(stdout)
	console.PrintResults(results)

	reportDir := params.reportDir
	if reportDir == "" {
		reportDir = env.Config.ReportDir()
	}
	reportPath, err := reporter.NewReporter(reporter.ReportingConfig{OutputDir: reportDir}).GenerateReport(results, elapsed)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to generate report: %s\n", err)
	} else {
		fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
	}

	if !results.OK() {
		fmt.Fprintf(stdout, "\nTo rerun the failed scenarios:\n  %s\n", reporter.RerunCommand(args[0], rerunArgs(args[1:]), results))
		return errs.ExitTestFailures
	}
	return errs.ExitSuccess
}

// loadEnv resolves configuration, fixtures and contracts once, before any
// scenario runs
func loadEnv(ctx context.Context, params commandParams) (*scenarios.Env, *logger.Logger, error) {
	root := resource.DefaultRoot()
	if params.resourceDir != "" {
		root = os.DirFS(params.resourceDir)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	fixtures, err := loadFixtures(ctx, params, root)
	if err != nil {
		return nil, nil, err
	}

	contracts, err := loadContracts(ctx, cfg, root)
	if err != nil {
		return nil, nil, err
	}

	var trace *logger.Logger
	if params.traceLogDir != "" {
		trace, err = logger.NewLogger(params.traceLogDir)
		if err != nil {
			return nil, nil, errs.ResourceUnreadable(params.traceLogDir, err)
		}
		trace.Redact = []string{cfg.AuthHeader()}
	}

	return &scenarios.Env{
		Config:    cfg,
		Fixtures:  fixtures,
		Transport: transport.New(cfg.Timeout(), trace),
		Contracts: contracts,
	}, trace, nil
}

func loadFixtures(ctx context.Context, params commandParams, root fs.FS) (*fixture.Document, error) {
	if params.fixturesDSN == "" {
		return fixture.Load(root)
	}

	source := "sql:" + params.fixturesTable
	db, err := fixture.OpenDB(ctx, params.fixturesDriver, params.fixturesDSN)
	if err != nil {
		return nil, errs.ResourceUnreadable(source, err)
	}
	defer db.Close()

	doc, err := fixture.LoadSQL(ctx, db, params.fixturesTable)
	if err != nil {
		return nil, errs.ResourceUnreadable(source, err)
	}
	return doc, nil
}

func loadContracts(ctx context.Context, cfg *config.Config, root fs.FS) (map[string]*contract.Validator, error) {
	contracts := map[string]*contract.Validator{}
	for _, name := range cfg.ProfileNames() {
		if !cfg.HasProfile(name) {
			continue
		}
		profile, err := cfg.Profile(name)
		if err != nil {
			// a blank base URL fails the scenarios that use the profile instead
			continue
		}
		v, err := contract.Load(ctx, root, profile)
		if err != nil {
			return nil, err
		}
		if v != nil {
			contracts[name] = v
		}
	}
	return contracts, nil
}
