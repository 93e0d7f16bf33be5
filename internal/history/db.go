package history

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// Table names for history tracking.
const (
	runsTable         = "qr_history_runs"
	measurementsTable = "qr_measurements"
	migrationsTable   = "qr_schema_migrations"
)

// GetDBFilePath returns the path to the SQLite DB file for history storage.
func GetDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// driverName returns the database/sql driver registered for backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a connection for backend. An empty SQLite
// connection string means the default history file.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = GetDBFilePath()
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL connection string: %w. Expected format: user:password@tcp(host:port)/dbname", err)
		}
		// Times are scanned into time.Time and migrations hold several statements.
		cfg.ParseTime = true
		cfg.MultiStatements = true
		connStr = cfg.FormatDSN()
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// A single connection avoids "database is locked" errors and keeps
		// :memory: databases alive for the store's lifetime.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var detail string
		switch backend {
		case schema.MySQLBackend:
			detail = "Check that MySQL is running and the connection string is correct."
		case schema.PostgreSQLBackend:
			detail = "Check that PostgreSQL is running and the connection string is correct."
		default:
			detail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, detail)
	}
	return db, nil
}
