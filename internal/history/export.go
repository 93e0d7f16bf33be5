package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/parquet"
)

// ErrNoHistory is returned when there is nothing to export.
var ErrNoHistory = errors.New("no history data found to export")

// Export writes all runs and measurements of store to two Parquet files
// named after outputFile, and reports progress to w.
func Export(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return ErrNoHistory
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNoHistory
	}
	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve history runs: %w", err)
	}
	measurements, err := store.GetAllMeasurements()
	if err != nil {
		return fmt.Errorf("failed to retrieve measurements: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteHistoryRuns(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write history runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	measurementsFile := outputFile + ".measurements.parquet"
	if err := parquet.WriteMeasurements(parquet.ConvertMeasurementRecords(measurements), measurementsFile); err != nil {
		return fmt.Errorf("failed to write measurements: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d measurements to: %s\n", len(measurements), measurementsFile)
	return nil
}
