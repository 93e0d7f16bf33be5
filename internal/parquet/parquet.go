// Package parquet provides row types and writers for exporting report results
// and history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/ymmah/quality-report/schema"
)

// HistoryRun represents one report pass. It maps to the qr_history_runs table.
type HistoryRun struct {
	// RunID is the store's identifier for the pass
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the pass identifier shown in reports
	RunUUID string `parquet:"run_uuid,snappy"`

	Project string `parquet:"project,snappy"`

	// StartTime is when the pass began (TIMESTAMP, nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the pass completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the pass in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalMetrics int32 `parquet:"total_metrics,snappy"`
}

// Measurement is one recorded metric value. It maps to the qr_measurements table.
type Measurement struct {
	RunID      int64     `parquet:"run_id,snappy"`
	StableID   string    `parquet:"stable_id,snappy"`
	Value      float64   `parquet:"value,snappy"`
	Status     string    `parquet:"status,snappy"`
	MeasuredAt time.Time `parquet:"measured_at,snappy"`
}

// MetricRow is one evaluated metric of a report pass, flattened for columnar output.
type MetricRow struct {
	RunID     string  `parquet:"run_id,snappy"`
	Project   string  `parquet:"project,snappy"`
	ID        string  `parquet:"id,snappy"`
	StableID  string  `parquet:"stable_id,snappy"`
	Kind      string  `parquet:"kind,snappy"`
	Subject   string  `parquet:"subject,snappy"`
	Status    string  `parquet:"status,snappy"`
	Value     float64 `parquet:"value,snappy"`
	Target    float64 `parquet:"target,snappy"`
	LowTarget float64 `parquet:"low_target,snappy"`
	Report    string  `parquet:"report,snappy"`
	Norm      string  `parquet:"norm,snappy"`

	// Comment is empty for most metrics (nullable)
	Comment *string `parquet:"comment,optional,snappy"`

	// URLs holds "label=url" pairs joined by newlines (nullable)
	URLs *string `parquet:"urls,optional,snappy"`

	// StatusSince is when the metric entered its status (nullable)
	StatusSince *time.Time `parquet:"status_since,optional,snappy"`

	Generated time.Time `parquet:"generated,snappy"`
}

// writeFile writes rows to a new Parquet file at outputPath.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T.
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteHistoryRuns writes report passes to a Parquet file.
func WriteHistoryRuns(rows []HistoryRun, outputPath string) error {
	return writeFile(rows, outputPath)
}

// WriteMeasurements writes measurements to a Parquet file.
func WriteMeasurements(rows []Measurement, outputPath string) error {
	return writeFile(rows, outputPath)
}

// WriteMetricRows writes evaluated metrics to a Parquet file.
func WriteMetricRows(rows []MetricRow, outputPath string) error {
	return writeFile(rows, outputPath)
}

// ConvertRunRecords converts store records to Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []HistoryRun {
	out := make([]HistoryRun, len(records))
	for i, r := range records {
		out[i] = HistoryRun{
			RunID:         r.RunID,
			RunUUID:       r.RunUUID,
			Project:       r.Project,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalMetrics:  r.TotalMetrics,
		}
	}
	return out
}

// ConvertMeasurementRecords converts store records to Parquet rows.
func ConvertMeasurementRecords(records []schema.MeasurementRecord) []Measurement {
	out := make([]Measurement, len(records))
	for i, r := range records {
		out[i] = Measurement{
			RunID:      r.RunID,
			StableID:   r.StableID,
			Value:      r.Value,
			Status:     r.Status,
			MeasuredAt: r.MeasuredAt,
		}
	}
	return out
}

// ConvertReport flattens a report pass into one row per metric.
func ConvertReport(report schema.ReportResult) []MetricRow {
	out := make([]MetricRow, len(report.Metrics))
	for i, m := range report.Metrics {
		row := MetricRow{
			RunID:       report.RunID,
			Project:     report.Project,
			ID:          m.ID,
			StableID:    m.StableID,
			Kind:        m.Kind,
			Subject:     m.Subject,
			Status:      string(m.Status),
			Value:       m.Value,
			Target:      m.Target,
			LowTarget:   m.LowTarget,
			Report:      m.Report,
			Norm:        m.Norm,
			StatusSince: m.StatusSince,
			Generated:   report.Generated,
		}
		if m.Comment != "" {
			comment := m.Comment
			row.Comment = &comment
		}
		if len(m.URLs) > 0 {
			urls := JoinURLs(m.URLs)
			row.URLs = &urls
		}
		out[i] = row
	}
	return out
}

// JoinURLs renders a label to url map as sorted "label=url" lines.
func JoinURLs(urls map[string]string) string {
	labels := make([]string, 0, len(urls))
	for label := range urls {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	lines := make([]string, len(labels))
	for i, label := range labels {
		lines[i] = label + "=" + urls[label]
	}
	return strings.Join(lines, "\n")
}
