package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// writeCheckSummary prints the check result in a concise format suitable for CI/CD.
func writeCheckSummary(w io.Writer, result schema.CheckResult, cfg *contract.Config) error {
	failOn := make([]string, len(result.FailOn))
	for i, s := range result.FailOn {
		failOn[i] = string(s)
	}

	_, _ = fmt.Fprintln(w, "Quality Check Results:")
	_, _ = fmt.Fprintf(w, "  %-9s %s\n", "Project:", result.Project)
	_, _ = fmt.Fprintf(w, "  %-9s %s\n", "Fail on:", strings.Join(failOn, ", "))
	_, _ = fmt.Fprintf(w, "  %-9s %s\n\n", "Statuses:", formatStatusCounts(result.Counts))
	_, _ = fmt.Fprintf(w, "Checked %d metrics in %v\n\n", result.Total, result.Duration)

	if result.Passed {
		_, err := fmt.Fprintln(w, "✅ All metrics passed the quality check")
		return err
	}

	_, _ = fmt.Fprintf(w, "❌ Quality check failed: %d of %d metrics\n\n", len(result.Failed), result.Total)
	for _, m := range result.Failed {
		label := contract.GetPlainLabel(m.Status)
		if cfg != nil && cfg.UseColors {
			label = contract.GetColorLabel(m.Status)
		}
		if _, err := fmt.Fprintf(w, "  %-8s %-16s %s\n", m.ID, label, m.Report); err != nil {
			return err
		}
	}
	return nil
}
