// Package cmd defines the command-line interface for quality-report.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	rootCmd.PersistentFlags().StringP("project", "p", "", "Path to the project definition (YAML)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("max-subject-length", contract.DefaultMaxSubjectLength, "Maximum length of subject and report columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent metric evaluations")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log", contract.DefaultLogLevel, "Log level: debug or info or warning or error")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for the history backend")
	rootCmd.PersistentFlags().Int("history-size", contract.DefaultHistorySize, "Number of recent values kept per metric trend")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics about the run to this textfile")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	reportCmd.Flags().String("status", "", "Only show metrics with these statuses (comma-separated)")
	reportCmd.Flags().String("subject", "", "Only evaluate metrics of this subject (name or short name)")
	reportCmd.Flags().Bool("watch", false, "Re-run the report whenever the project definition changes")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	checkCmd.Flags().String("fail-on", contract.DefaultFailOn, "Statuses that fail the check (comma-separated)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	rootCmd.AddCommand(explainCmd)

	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
