package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/ymmah/quality-report/core"
	"github.com/ymmah/quality-report/internal/contract"
)

// metricsCmd lists the metric catalog.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the metric kinds with their units, polarity and default norms",
	Long: `Show every metric kind the engine knows, with the source kinds it reads
from and its default target and low target.

No sources are queried.

Examples:
  quality-report metrics
  quality-report metrics --output csv`,
	PreRunE: setupWith(setupOptions{}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetricKinds(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metric kinds", err)
		}
	},
}

// explainCmd evaluates one metric and prints every field of its result.
var explainCmd = &cobra.Command{
	Use:   "explain <metric-id>",
	Short: "Evaluate a single metric and print its full result",
	Long: `Evaluate one metric, addressed by its display id (AP-2) or its stable id,
and print value, norm, report, comment, urls and status as JSON.

Nothing is recorded in the history store.

Examples:
  quality-report explain AP-2 --project project.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupWith(setupOptions{requireProject: true, initHistory: true}),
	Run: func(_ *cobra.Command, args []string) {
		result, err := core.ExplainMetric(core.WithReadOnly(rootCtx), cfg, historyManager, args[0])
		if err != nil {
			contract.LogFatal("Cannot explain metric", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			contract.LogFatal("Cannot encode metric", err)
		}
	},
}
