// Package history stores report runs and metric measurements, and serves the
// recent values and status streaks metrics render from.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// StoreManager holds the process-wide history store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.HistoryStore
}

var _ contract.HistoryManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil before InitHistory.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitHistory initializes the global history store once.
func InitHistory(backend schema.DatabaseBackend, connStr string, size int) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewStore(backend, connStr, size)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}
		Manager.Lock()
		Manager.store = store
		Manager.Unlock()
	})
	return initErr
}

// CloseHistory should be called on application shutdown.
func CloseHistory() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearHistory removes all history for the backend. For SQLite it deletes
// the database file; for MySQL and PostgreSQL it drops the history tables.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return dropTables(db, measurementsTable, runsTable, migrationsTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

func dropTables(db *sql.DB, tables ...string) error {
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
