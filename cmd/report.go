package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ymmah/quality-report/core"
)

// reportCmd evaluates every metric of the project.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Evaluate all metrics of a project and print their status",
	Long: `Load the project definition, query each metric source and report every
metric with its value, target, trend and status.

Each run is recorded in the history store so later reports can show trends
and how long a metric has had its current status.

Examples:
  # Report on a project definition
  quality-report report --project project.yaml

  # Only the red and yellow metrics of one product
  quality-report report -p project.yaml --status red,yellow --subject AP

  # Export for a dashboard
  quality-report report -p project.yaml --output json --output-file report.json

  # Keep re-running while editing the definition
  quality-report report -p project.yaml --watch`,
	PreRunE: setupWith(setupOptions{requireProject: true, initHistory: true}),
	Run:     runExecutor("Cannot evaluate project", core.ExecuteReport),
}
