package executor

import (
	"context"
	"sync"

	"practice-api-tester/internal/harness"
	"practice-api-tester/internal/scenarios"
)

// Runner executes suites, each in its own harness environment
type Runner struct {
	// MaxWorkers bounds how many suites run at once; values below 1 mean 1
	MaxWorkers int
	Filter     harness.Filter
	TestLogger harness.TestLogger
}

// NewRunner creates a new runner
func NewRunner(maxWorkers int, filter harness.Filter, testLogger harness.TestLogger) *Runner {
	return &Runner{
		MaxWorkers: maxWorkers,
		Filter:     filter,
		TestLogger: testLogger,
	}
}

// RunSuites runs every suite and returns the merged results in suite order,
// regardless of the order in which suites finish
func (r *Runner) RunSuites(ctx context.Context, suites []scenarios.Suite) harness.Results {
	workers := r.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	perSuite := make([]harness.Results, len(suites))
	var wg sync.WaitGroup

	// Create a channel to limit concurrent suites
	sem := make(chan struct{}, workers)

	for i, suite := range suites {
		wg.Add(1)
		go func(i int, suite scenarios.Suite) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			perSuite[i] = r.runSuite(ctx, suite)
		}(i, suite)
	}

	wg.Wait()

	var results harness.Results
	for _, res := range perSuite {
		results = results.Merge(res)
	}
	return results
}

func (r *Runner) runSuite(ctx context.Context, suite scenarios.Suite) harness.Results {
	return harness.Run(ctx, r.Filter, r.TestLogger, func(t *harness.T) {
		t.Run(suite.Name, suite.Run)
	})
}
