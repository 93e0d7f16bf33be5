package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// WriteMetricKinds outputs the metric catalog, dispatching on the configured format.
// Parquet is not offered for the catalog and falls back to the table.
func WriteMetricKinds(kinds []schema.MetricKindInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, kinds)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKindsCSV(w, kinds)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKindsTable(w, kinds)
		}, "Wrote table")
	}
}

func writeKindsTable(w io.Writer, kinds []schema.MetricKindInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Kind", "Name", "Polarity", "Target", "Low target", "Sources", "Norm"})
	data := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		data = append(data, []string{
			k.Kind,
			k.Name,
			k.Polarity,
			formatValue(k.Target),
			formatValue(k.LowTarget),
			joinSourceKinds(k.SourceKinds, ", "),
			k.Norm,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d metric kinds\n", len(kinds))
	return err
}

func writeKindsCSV(w io.Writer, kinds []schema.MetricKindInfo) error {
	header := []string{"kind", "name", "unit", "polarity", "target", "low_target", "source_kinds", "norm"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, k := range kinds {
			rec := []string{
				k.Kind,
				k.Name,
				k.Unit,
				k.Polarity,
				strconv.FormatFloat(k.Target, 'f', -1, 64),
				strconv.FormatFloat(k.LowTarget, 'f', -1, 64),
				joinSourceKinds(k.SourceKinds, "|"),
				k.Norm,
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func joinSourceKinds(kinds []schema.SourceKind, sep string) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, sep)
}
