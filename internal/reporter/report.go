package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"practice-api-tester/internal/harness"
)

// Report represents the test execution report
type Report struct {
	RunID        string        `json:"runId"`
	Timestamp    time.Time     `json:"timestamp"`
	Duration     time.Duration `json:"durationNs"`
	TotalTests   int           `json:"total"`
	PassedTests  int           `json:"passed"`
	FailedTests  int           `json:"failed"`
	SkippedTests int           `json:"skipped"`
	Results      []TestResult  `json:"results"`
}

// TestResult represents a single scenario result
type TestResult struct {
	Scenario   string        `json:"scenario"`
	Outcome    string        `json:"outcome"`
	Duration   time.Duration `json:"durationNs"`
	Errors     []string      `json:"errors,omitempty"`
	SkipReason string        `json:"skipReason,omitempty"`
}

// Reporter handles the generation of test reports
type Reporter struct {
	config ReportingConfig
	now    func() time.Time
}

// ReportingConfig holds the configuration for reporting
type ReportingConfig struct {
	OutputDir string
}

// NewReporter creates a new instance of Reporter
func NewReporter(config ReportingConfig) *Reporter {
	return &Reporter{
		config: config,
		now:    time.Now,
	}
}

// Build converts harness results into a report with a fresh run ID
func (r *Reporter) Build(results harness.Results, elapsed time.Duration) Report {
	report := Report{
		RunID:        uuid.NewString(),
		Timestamp:    r.now(),
		Duration:     elapsed,
		TotalTests:   len(results.Tests),
		PassedTests:  results.Count(harness.Passed),
		FailedTests:  results.Count(harness.Failed),
		SkippedTests: results.Count(harness.Skipped),
		Results:      make([]TestResult, 0, len(results.Tests)),
	}
	for _, res := range results.Tests {
		entry := TestResult{
			Scenario:   res.ID.String(),
			Outcome:    res.Outcome.String(),
			Duration:   res.Duration,
			SkipReason: res.SkipReason,
		}
		for _, err := range res.Errors {
			entry.Errors = append(entry.Errors, err.Error())
		}
		report.Results = append(report.Results, entry)
	}
	return report
}

// GenerateReport writes the JSON report and returns its path
func (r *Reporter) GenerateReport(results harness.Results, elapsed time.Duration) (string, error) {
	report := r.Build(results, elapsed)

	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	reportPath := filepath.Join(r.config.OutputDir, fmt.Sprintf("report_%s.json", report.Timestamp.Format("20060102_150405")))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return reportPath, nil
}
