package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/ymmah/quality-report/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult describes what a migration did.
type MigrationResult struct {
	FromVersion uint
	ToVersion   uint
	Changed     bool
}

// String renders the result the way the history migrate command prints it.
func (r MigrationResult) String() string {
	if !r.Changed {
		return fmt.Sprintf("No migration needed. Database is already at version %d.", r.ToVersion)
	}
	return fmt.Sprintf("Successfully migrated from version %d to version %d", r.FromVersion, r.ToVersion)
}

// Migrate runs the history schema migrations for backend.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to that version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	if backend == schema.NoneBackend {
		return MigrationResult{}, errors.New("migrations are not supported for the none backend")
	}
	db, err := openDB(backend, connStr)
	if err != nil {
		return MigrationResult{}, err
	}
	defer func() { _ = db.Close() }()
	return migrateDB(db, backend, targetVersion, true)
}

// ensureSchema migrates the store's database to the latest version. SQLite
// is migrated on db itself so in-memory databases see the tables; server
// backends use a separate connection that the migrator releases.
func ensureSchema(db *sql.DB, backend schema.DatabaseBackend, connStr string) error {
	var err error
	if backend == schema.SQLiteBackend {
		_, err = migrateDB(db, backend, -1, false)
	} else {
		_, err = Migrate(backend, connStr, -1)
	}
	return err
}

// newMigrator binds the embedded migrations for backend to db.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		dir    string
		err    error
	)
	switch backend {
	case schema.SQLiteBackend:
		dir = "migrations/sqlite"
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		dir = "migrations/mysql"
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		dir = "migrations/postgres"
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, string(backend), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateDB applies migrations on db. With release set, the migrator is
// closed afterwards, which also closes db.
func migrateDB(db *sql.DB, backend schema.DatabaseBackend, targetVersion int, release bool) (MigrationResult, error) {
	m, err := newMigrator(db, backend)
	if err != nil {
		return MigrationResult{}, err
	}
	if release {
		defer func() { _, _ = m.Close() }()
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationResult{}, fmt.Errorf("failed to migrate %s history store: %w", backend, err)
	}

	result := MigrationResult{FromVersion: current, ToVersion: current, Changed: err == nil}
	if v, _, verr := m.Version(); verr == nil {
		result.ToVersion = v
	} else if errors.Is(verr, migrate.ErrNilVersion) {
		result.ToVersion = 0
	}
	return result, nil
}
