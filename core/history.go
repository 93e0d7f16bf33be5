package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/history"
	"github.com/ymmah/quality-report/schema"
)

// errNoHistoryStore is returned when history was not initialized.
var errNoHistoryStore = errors.New("history store is not initialized")

// ExecuteHistoryStatus prints the status of the configured history store.
func ExecuteHistoryStatus(_ context.Context, _ *contract.Config, mgr contract.HistoryManager) error {
	store := mgr.GetHistoryStore()
	if store == nil {
		return errNoHistoryStore
	}
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	history.PrintStatus(os.Stdout, status)
	return nil
}

// ExecuteHistoryClear removes all recorded runs and measurements.
func ExecuteHistoryClear(_ context.Context, cfg *contract.Config) error {
	if err := history.ClearHistory(cfg.HistoryBackend, sqlitePath(cfg), cfg.HistoryDBConnect); err != nil {
		return err
	}
	fmt.Println("History cleared successfully.")
	return nil
}

// ExecuteHistoryExport writes the history store to Parquet files named after
// the configured output file.
func ExecuteHistoryExport(_ context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	store := mgr.GetHistoryStore()
	if store == nil {
		return errNoHistoryStore
	}
	return history.Export(store, cfg.OutputFile, os.Stdout)
}

// ExecuteHistoryMigrate migrates the history schema. A negative target means
// the latest version, zero rolls everything back.
func ExecuteHistoryMigrate(_ context.Context, cfg *contract.Config, targetVersion int) error {
	connStr := cfg.HistoryDBConnect
	if cfg.HistoryBackend == schema.SQLiteBackend {
		connStr = sqlitePath(cfg)
	}
	result, err := history.Migrate(cfg.HistoryBackend, connStr, targetVersion)
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	return nil
}

// sqlitePath returns the SQLite history file: the connection string when
// given, the default file otherwise.
func sqlitePath(cfg *contract.Config) string {
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return history.GetDBFilePath()
}
