package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/parquet"
	"github.com/ymmah/quality-report/schema"
)

// WriteReportResult outputs a report pass, dispatching on the configured format.
func WriteReportResult(result schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, result.Metrics)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteMetricRows(parquet.ConvertReport(result), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeReportTable writes the human-readable table followed by a status summary.
func writeReportTable(w io.Writer, result schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Subject", "Metric", "Value", "Target", "Trend", "Status", "Report"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	reportWidth := reportColumnWidth(cfg)
	data := make([][]string, 0, len(result.Metrics))
	for _, m := range result.Metrics {
		label := contract.GetPlainLabel(m.Status)
		if cfg.UseColors {
			label = contract.GetColorLabel(m.Status)
		}
		data = append(data, []string{
			m.ID,
			contract.TruncateText(m.Subject, 24),
			m.Name,
			formatValue(m.Value),
			formatValue(m.Target),
			sparkline(m.RecentHistory, m.YAxisMin, m.YAxisMax),
			label,
			contract.TruncateText(m.Report, reportWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s: %s\n", result.Project, formatStatusCounts(result.StatusCounts)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Evaluated %d metrics in %v with %d workers. History backend: %s\n",
		len(result.Metrics), duration, cfg.Workers, cfg.HistoryBackend)
	return err
}

// writeReportCSV writes one CSV row per metric.
func writeReportCSV(w io.Writer, metrics []schema.MetricResult) error {
	header := []string{
		"id", "stable_id", "kind", "name", "subject", "status", "value",
		"target", "low_target", "norm", "report", "comment", "urls", "status_since",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range metrics {
			since := ""
			if m.StatusSince != nil {
				since = m.StatusSince.Format(dateTimeFormat)
			}
			rec := []string{
				m.ID,
				m.StableID,
				m.Kind,
				m.Name,
				m.Subject,
				string(m.Status),
				formatValue(m.Value),
				formatValue(m.Target),
				formatValue(m.LowTarget),
				m.Norm,
				m.Report,
				m.Comment,
				strings.ReplaceAll(parquet.JoinURLs(m.URLs), "\n", "|"),
				since,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatStatusCounts lists the non-zero counts in cascade order, e.g.
// "2 red, 5 green".
func formatStatusCounts(counts map[schema.Status]int) string {
	var parts []string
	for _, s := range schema.AllStatuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if len(parts) == 0 {
		return "no metrics"
	}
	return strings.Join(parts, ", ")
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws values scaled into [lo, hi]. Missing measurements are blank.
func sparkline(values []int, lo, hi int) string {
	if len(values) == 0 {
		return ""
	}
	span := hi - lo
	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			b.WriteRune(' ')
			continue
		}
		idx := 0
		if span > 0 {
			idx = (v - lo) * (len(sparkBlocks) - 1) / span
		}
		idx = max(0, min(idx, len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
