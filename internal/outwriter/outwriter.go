// Package outwriter renders report, check and catalog results as text tables,
// CSV, JSON or Parquet.
package outwriter

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct {
	// Stdout receives check summaries. Nil means os.Stdout.
	Stdout io.Writer
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

func (ow *OutWriter) stdout() io.Writer {
	if ow.Stdout == nil {
		return os.Stdout
	}
	return ow.Stdout
}

// WriteReport prints a report pass using the configured output format.
func (ow *OutWriter) WriteReport(result schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResult(result, cfg, duration)
}

// WriteCheck prints the concise gating summary of a check.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config) error {
	return writeCheckSummary(ow.stdout(), result, cfg)
}

// WriteMetricKinds prints the metric catalog using the configured output format.
func (ow *OutWriter) WriteMetricKinds(kinds []schema.MetricKindInfo, cfg *contract.Config) error {
	return WriteMetricKinds(kinds, cfg)
}

// terminalWidth returns the width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // conservative default for CI
	}
	return detected
}

// reportColumnWidth is the room left for the report text once the fixed
// columns and table borders are placed.
func reportColumnWidth(cfg *contract.Config) int {
	const fixed = 75 // ID + Subject + Metric + Value + Target + Status with borders
	available := terminalWidth(cfg) - fixed
	return max(20, min(available, 100))
}
