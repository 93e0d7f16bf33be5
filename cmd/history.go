package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ymmah/quality-report/core"
	"github.com/ymmah/quality-report/internal/contract"
)

// historyCmd manages the measurement history.
//
// Clear and migrate do not open the store, so they work on a fresh or
// broken database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded report runs and measurements",
	Long: `Manage the measurement history used for trends and status durations.

Every report run stores one row per evaluated metric. The most recent values
feed the trend column and the status streak feeds "status since".

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs and measurements to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations`,
}

var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display history statistics and connection details",
	PreRunE: setupWith(setupOptions{initHistory: true}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryStatus(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and measurements",
	Long: `Delete every stored run and measurement.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  quality-report history export --output-file backup.parquet
  quality-report history clear`,
	PreRunE: setupWith(setupOptions{}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryClear(rootCtx, cfg); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs and measurements to Parquet",
	Long: `Export the history store to two Parquet files derived from --output-file.

Examples:
  quality-report history export --output-file history.parquet
  duckdb -c "SELECT * FROM read_parquet('history.measurements.parquet') LIMIT 10"`,
	PreRunE: setupWith(setupOptions{initHistory: true}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryExport(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Move the history schema to a given version.

By default, migrates to the latest version.

Examples:
  quality-report history migrate
  quality-report history migrate --target-version 1
  quality-report history migrate --target-version 0`,
	PreRunE: setupWith(setupOptions{}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryMigrate(rootCtx, cfg, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
