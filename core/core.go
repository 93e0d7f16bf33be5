// Package core orchestrates report passes: it loads the project definition,
// evaluates the metrics of every subject and records the outcome.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ymmah/quality-report/core/catalog"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/outwriter"
	"github.com/ymmah/quality-report/internal/watch"
	"github.com/ymmah/quality-report/schema"
)

var (
	// ErrCheckFailed is returned by ExecuteCheck when a metric has a failing status.
	ErrCheckFailed = errors.New("quality check failed")

	// ErrMetricNotFound is returned when no metric has the requested id.
	ErrMetricNotFound = errors.New("metric not found")
)

// ExecutorFunc defines the signature of the commands that evaluate a project.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// GetReportResults runs a full report pass and returns its result without
// printing it. Unless ctx is read-only, the pass is recorded in history and
// telemetry.
func GetReportResults(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*schema.ReportResult, time.Duration, error) {
	start := time.Now()
	b, err := NewReportBuilder(ctx, cfg, mgr).LoadProject()
	if err != nil {
		return nil, 0, err
	}
	if _, err := b.BuildMetrics(); err != nil {
		return nil, 0, err
	}
	if _, err := b.Evaluate(); err != nil {
		return nil, 0, err
	}
	b.BuildResult()
	if !isReadOnly(ctx) {
		b.RecordHistory().RecordTelemetry()
	}
	return b.GetResult(), time.Since(start), nil
}

// ExecuteReport runs a report pass and writes it in the configured format.
// With watching enabled it re-runs whenever the definition file changes,
// until ctx is cancelled.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if err := runReport(ctx, cfg, mgr); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}

	var mu sync.Mutex
	watcher := watch.NewFileWatcher(cfg.ProjectFile, watch.DefaultDebounce, func() {
		mu.Lock()
		defer mu.Unlock()
		if err := runReport(ctx, cfg, mgr); err != nil {
			contract.LogWarn("Report failed", err)
		}
	})
	_, _ = fmt.Fprintf(os.Stderr, "👀 Watching %s for changes (Ctrl+C to stop)\n", cfg.ProjectFile)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runReport(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	result, duration, err := GetReportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if shouldSuppressOutput(ctx) {
		return nil
	}
	return outwriter.NewOutWriter().WriteReport(*result, cfg, duration)
}

// GetCheckResult evaluates every metric, ignoring the status filter, and
// gates on the configured fail-on statuses.
func GetCheckResult(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*schema.CheckResult, error) {
	checkCfg := cfg.Clone()
	checkCfg.StatusFilter = nil
	report, duration, err := GetReportResults(ctx, checkCfg, mgr)
	if err != nil {
		return nil, err
	}

	var failed []schema.MetricResult
	if len(cfg.FailOn) > 0 {
		failed = schema.FilterByStatus(report.Metrics, cfg.FailOn)
	}
	return &schema.CheckResult{
		Passed:   len(failed) == 0,
		FailOn:   cfg.FailOn,
		Failed:   failed,
		Total:    len(report.Metrics),
		Counts:   report.StatusCounts,
		Project:  report.Project,
		Duration: duration,
	}, nil
}

// ExecuteCheck runs the check command for CI/CD gating. It returns an error
// wrapping ErrCheckFailed when any metric has a fail-on status.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	result, err := GetCheckResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteCheck(*result, cfg); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d of %d metrics", ErrCheckFailed, len(result.Failed), result.Total)
	}
	return nil
}

// ListMetricKinds describes the built-in catalog.
func ListMetricKinds() []schema.MetricKindInfo {
	return catalog.Default().Infos()
}

// ExecuteMetricKinds prints the metric catalog with default norms.
func ExecuteMetricKinds(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteMetricKinds(ListMetricKinds(), cfg)
}

// ExplainMetric evaluates the single metric whose display id ("AP-2") or
// stable id ("OpenBugsApp") is id. Nothing is recorded.
func ExplainMetric(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, id string) (*schema.MetricResult, error) {
	b, err := NewReportBuilder(ctx, cfg, mgr).LoadProject()
	if err != nil {
		return nil, err
	}
	if _, err := b.BuildMetrics(); err != nil {
		return nil, err
	}
	if _, err := b.SelectMetric(id); err != nil {
		return nil, err
	}
	if _, err := b.Evaluate(); err != nil {
		return nil, err
	}
	result := b.Results()[0]
	return &result, nil
}
