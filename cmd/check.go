package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ymmah/quality-report/core"
)

// checkCmd focused on CI/CD gating.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail with a non-zero exit code when metrics have a failing status",
	Long: `Evaluate all metrics of the project and exit non-zero when any metric has
one of the --fail-on statuses.

Default failing statuses: red, missing_source

Examples:
  # Gate a pipeline on red metrics and broken sources
  quality-report check --project project.yaml

  # Stricter gate
  quality-report check -p project.yaml --fail-on red,yellow,missing,missing_source`,
	PreRunE: setupWith(setupOptions{requireProject: true, initHistory: true}),
	Run:     runExecutor("Quality check failed", core.ExecuteCheck),
}
