package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ymmah/quality-report/core"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/history"
	"github.com/ymmah/quality-report/internal/logger"
	"github.com/ymmah/quality-report/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
var input = &contract.ConfigRawInput{}

// historyManager serves the history store to the core executors.
var historyManager contract.HistoryManager = history.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "quality-report",
	Short:              "Evaluate software quality metrics against their targets.",
	Long:               `Quality Report measures a project definition against its metric sources and reports each metric's status, trend and technical debt.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigPaths()

	viper.SetEnvPrefix("QUALITY_REPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("history-size", contract.DefaultHistorySize)
	viper.SetDefault("fail-on", contract.DefaultFailOn)
	viper.SetDefault("log", contract.DefaultLogLevel)
	viper.SetDefault("color", "yes")
}

func setConfigPaths() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".quality-report")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// setupOptions selects the parts of sharedSetup a command needs.
type setupOptions struct {
	requireProject bool
	initHistory    bool
}

// loadConfig merges defaults, file, env and flags into cfg.
func loadConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	return logger.SetLevelString(cfg.LogLevel)
}

// sharedSetup loads config, validates it and opens the history store.
func sharedSetup(opts setupOptions) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if opts.requireProject {
		if err := contract.RequireProjectFile(cfg); err != nil {
			return err
		}
	}
	if opts.initHistory {
		if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistorySize); err != nil {
			return fmt.Errorf("failed to initialize history: %w", err)
		}
	}
	return nil
}

// setupWith adapts sharedSetup to Cobra's PreRunE.
func setupWith(opts setupOptions) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return sharedSetup(opts)
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.ExecuteContext(ctx)
}

// SetHistoryManager replaces the history manager used by the commands.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}

// runExecutor adapts a core executor to Cobra's Run, exiting on error.
func runExecutor(failMsg string, fn core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal(failMsg, err)
		}
	}
}
